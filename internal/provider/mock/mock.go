// Package mock implements a deterministic Provider that never delivers mail.
package mock

import (
	"context"

	"github.com/shineum/mailsend-lite/internal/email"
	"github.com/shineum/mailsend-lite/internal/provider"
)

// Name is the provider tag and configuration name.
const Name = "mock"

// MessageID is returned by every Send.
const MessageID = "mock:deadbeef"

// Provider accepts every message and returns MessageID without any I/O.
type Provider struct{}

// New creates a mock Provider.
func New() *Provider {
	return &Provider{}
}

// Send always succeeds with the fixed MessageID.
func (p *Provider) Send(_ context.Context, _ *email.Message) (string, error) {
	return provider.MessageID(Name, "deadbeef"), nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return Name
}
