// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"
	"fmt"

	"github.com/shineum/mailsend-lite/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider performs at most one delivery attempt per call.
type Provider interface {
	// Send delivers msg and returns a message id prefixed with the
	// provider's tag, e.g. "ses:0100018c...". Failures are returned as *Error.
	Send(ctx context.Context, msg *email.Message) (string, error)

	// Name returns the provider tag, which is also its configuration name.
	Name() string
}

// Error is a delivery failure reported by a provider. Description is safe to
// log; it never carries credentials.
type Error struct {
	Provider    string
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Description)
}

// Errorf builds an *Error for the named provider.
func Errorf(provider, format string, args ...any) *Error {
	return &Error{
		Provider:    provider,
		Description: fmt.Sprintf(format, args...),
	}
}

// MessageID tags an opaque id with the provider that produced it.
func MessageID(provider, id string) string {
	return provider + ":" + id
}

// Set maps provider names to initialized providers. It is built once at
// startup and only read afterwards, so it is safe for concurrent use.
type Set struct {
	providers map[string]Provider
}

// NewSet indexes the given providers by Name. A later provider with the same
// name replaces an earlier one.
func NewSet(providers ...Provider) *Set {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Set{providers: m}
}

// Get returns the provider registered under name.
func (s *Set) Get(name string) (Provider, bool) {
	p, ok := s.providers[name]
	return p, ok
}

// Names returns the registered provider names in no particular order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}
