package send

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shineum/mailsend-lite/internal/email"
)

// maxRequestBytes caps the size of a send request body.
const maxRequestBytes = 1 << 20

// Request is the JSON payload of a send call. Provider is nil when the field
// is absent; an explicit empty string is kept and fails validation.
type Request struct {
	To       string   `json:"to"`
	Cc       []string `json:"cc,omitempty"`
	Subject  string   `json:"subject"`
	Body     Body     `json:"body"`
	Provider *string  `json:"provider,omitempty"`
}

// Body holds the message content. HTML is optional.
type Body struct {
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
}

// DecodeRequest reads one JSON request from r. Unknown fields, wrong types,
// trailing data and missing required fields are reported as
// ErrMalformedRequest.
func DecodeRequest(r io.Reader) (*Request, error) {
	dec := json.NewDecoder(io.LimitReader(r, maxRequestBytes))
	dec.DisallowUnknownFields()

	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after request", ErrMalformedRequest)
	}

	switch {
	case req.To == "":
		return nil, fmt.Errorf("%w: missing to", ErrMalformedRequest)
	case req.Subject == "":
		return nil, fmt.Errorf("%w: missing subject", ErrMalformedRequest)
	case req.Body.Text == "":
		return nil, fmt.Errorf("%w: missing body.text", ErrMalformedRequest)
	}
	return &req, nil
}

// Message converts the request into the value handed to providers.
func (r *Request) Message() *email.Message {
	return &email.Message{
		To:       r.To,
		Cc:       r.Cc,
		Subject:  r.Subject,
		TextBody: r.Body.Text,
		HTMLBody: r.Body.HTML,
	}
}
