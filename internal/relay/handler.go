package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shineum/mailsend-lite/internal/parser"
)

// Envelope is one message accepted by the relay: the SMTP envelope plus the
// decoded message.
type Envelope struct {
	MailFrom   string
	Recipients []string
	Message    *parser.Message
	Raw        []byte
}

// Handler receives every accepted message. A non-nil error is reported to
// the SMTP client as a temporary failure.
type Handler interface {
	Deliver(ctx context.Context, env *Envelope) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, env *Envelope) error

// Deliver calls f(ctx, env).
func (f HandlerFunc) Deliver(ctx context.Context, env *Envelope) error {
	return f(ctx, env)
}

// LogHandler logs a summary of each message at info level.
func LogHandler() Handler {
	return HandlerFunc(func(_ context.Context, env *Envelope) error {
		slog.Info("relay received message",
			"mail_from", env.MailFrom,
			"recipients", env.Recipients,
			"subject", env.Message.Subject,
			"message_id", env.Message.MessageID,
			"has_html", env.Message.HTMLBody != "",
		)
		return nil
	})
}

// Recorder is a Handler that keeps every envelope in memory. It is the sink
// for a relay embedded in another process, such as the end-to-end tests of
// the SMTP provider, where the caller inspects what was delivered.
type Recorder struct {
	mu        sync.Mutex
	envelopes []*Envelope
}

// Deliver records env.
func (r *Recorder) Deliver(_ context.Context, env *Envelope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envelopes = append(r.envelopes, env)
	return nil
}

// Envelopes returns a copy of the recorded envelopes in arrival order.
func (r *Recorder) Envelopes() []*Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Envelope, len(r.envelopes))
	copy(out, r.envelopes)
	return out
}
