// Package send resolves validated send requests to a provider and invokes it.
package send

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shineum/mailsend-lite/internal/provider"
	"github.com/shineum/mailsend-lite/internal/validate"
)

var (
	// ErrMalformedRequest means the payload could not be decoded or lacks a
	// required field.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrInvalidRequest means a field failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownProvider means the provider name is valid but no instance
	// is configured for it.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Dispatcher validates requests and hands them to the named provider. It
// holds no mutable state and is safe for concurrent use.
type Dispatcher struct {
	providers       *provider.Set
	defaultProvider string
}

// NewDispatcher creates a Dispatcher over providers. Requests that omit the
// provider field are sent through defaultProvider.
func NewDispatcher(providers *provider.Set, defaultProvider string) *Dispatcher {
	return &Dispatcher{
		providers:       providers,
		defaultProvider: defaultProvider,
	}
}

// Dispatch sends req and returns the provider-tagged message id. No provider
// is contacted unless every field validates. Provider failures are returned
// as *provider.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (string, error) {
	name := d.defaultProvider
	if req.Provider != nil {
		name = *req.Provider
	}

	if err := d.validate(req, name); err != nil {
		return "", err
	}

	p, ok := d.providers.Get(name)
	if !ok {
		slog.Warn("no provider configured", "provider", name)
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}

	id, err := p.Send(ctx, req.Message())
	if err != nil {
		var perr *provider.Error
		if !errors.As(err, &perr) {
			perr = &provider.Error{Provider: name, Description: err.Error()}
		}
		return "", perr
	}

	slog.Info("message sent", "provider", name, "message_id", id, "recipients", 1+len(req.Cc))
	return id, nil
}

// validate checks every address and the provider name. The failing field is
// logged but not included in the returned error.
func (d *Dispatcher) validate(req *Request, providerName string) error {
	if !validate.EmailAddress(req.To) {
		return invalid("to")
	}
	for i, cc := range req.Cc {
		if !validate.EmailAddress(cc) {
			return invalid(fmt.Sprintf("cc[%d]", i))
		}
	}
	if !validate.Provider(providerName) {
		return invalid("provider")
	}
	return nil
}

func invalid(field string) error {
	slog.Warn("request validation failed", "field", field)
	return ErrInvalidRequest
}
