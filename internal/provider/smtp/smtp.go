// Package smtp implements a Provider that hands messages to an SMTP relay.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shineum/mailsend-lite/internal/email"
	"github.com/shineum/mailsend-lite/internal/provider"
)

// Name is the provider tag and configuration name.
const Name = "smtp"

// dialTimeout bounds the TCP connect to the relay.
const dialTimeout = 30 * time.Second

// SMTPProviderConfig holds the configuration for creating an SMTPProvider.
// User and Password are optional; when both are set the provider
// authenticates with AUTH PLAIN.
type SMTPProviderConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	SenderAddress string
	SenderName    string
}

// Dialer abstracts net.Dialer to simplify testing.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Option configures an SMTPProvider.
type Option func(*SMTPProvider)

// WithTLSConfig overrides the TLS configuration used for STARTTLS.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(p *SMTPProvider) {
		p.tlsConfig = cfg
	}
}

// WithDialer swaps the dialer used to reach the relay.
func WithDialer(d Dialer) Option {
	return func(p *SMTPProvider) {
		if d != nil {
			p.dialer = d
		}
	}
}

// WithHelloName sets the EHLO identity presented to the relay.
func WithHelloName(name string) Option {
	return func(p *SMTPProvider) {
		if name != "" {
			p.helloName = name
		}
	}
}

// SMTPProvider opens one relay connection per Send. No connection state is
// shared between calls.
type SMTPProvider struct {
	host      string
	port      int
	user      string
	password  string
	sender    sender
	tlsConfig *tls.Config
	dialer    Dialer
	helloName string
	newID     func() string
	now       func() time.Time
}

// New creates an SMTPProvider. It does not contact the relay.
func New(cfg SMTPProviderConfig, opts ...Option) (*SMTPProvider, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp provider: host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("smtp provider: invalid port %d", cfg.Port)
	}
	if cfg.SenderAddress == "" {
		return nil, errors.New("smtp provider: sender address is required")
	}

	p := &SMTPProvider{
		host:      cfg.Host,
		port:      cfg.Port,
		user:      cfg.User,
		password:  cfg.Password,
		sender:    sender{address: cfg.SenderAddress, name: cfg.SenderName},
		dialer:    &net.Dialer{Timeout: dialTimeout},
		helloName: "localhost",
		newID:     uuid.NewString,
		now:       time.Now,
		tlsConfig: &tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Send transmits msg to the primary recipient and every Cc address in a
// single SMTP transaction. The returned id is generated locally and also
// written to the Message-ID header.
func (p *SMTPProvider) Send(ctx context.Context, msg *email.Message) (string, error) {
	id := p.newID()

	raw, err := buildMessage(p.sender, msg, id, p.now())
	if err != nil {
		slog.Error("failed to build SMTP message", "provider", Name, "error", err)
		return "", provider.Errorf(Name, "build message: %v", err)
	}

	if err := p.deliver(ctx, msg.Recipients(), raw); err != nil {
		slog.Error("SMTP delivery failed",
			"provider", Name,
			"relay", p.addr(),
			"error", err,
		)
		return "", &provider.Error{Provider: Name, Description: err.Error()}
	}

	return provider.MessageID(Name, id), nil
}

// Name returns the provider name.
func (p *SMTPProvider) Name() string {
	return Name
}

func (p *SMTPProvider) addr() string {
	return net.JoinHostPort(p.host, strconv.Itoa(p.port))
}

func (p *SMTPProvider) authEnabled() bool {
	return p.user != "" && p.password != ""
}

// deliver runs one SMTP session: EHLO, optional STARTTLS, optional AUTH,
// MAIL, RCPT for each recipient, DATA and QUIT.
func (p *SMTPProvider) deliver(ctx context.Context, recipients []string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := p.dialer.DialContext(ctx, "tcp", p.addr())
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		return fmt.Errorf("greeting: %w", err)
	}
	defer client.Close()

	if err := client.Hello(p.helloName); err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	if p.tlsConfig != nil {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(p.tlsConfig); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if p.authEnabled() {
		if ok, _ := client.Extension("AUTH"); !ok {
			return errors.New("auth: relay does not advertise AUTH")
		}
		if err := client.Auth(smtp.PlainAuth("", p.user, p.password, p.host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := client.Mail(p.sender.address); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}

	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		_ = w.Close()
		return fmt.Errorf("data write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("data close: %w", err)
	}

	if err := client.Quit(); err != nil {
		slog.Debug("SMTP quit failed", "provider", Name, "error", err)
	}

	return nil
}
