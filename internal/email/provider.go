package email

import (
	"context"
	"errors"
	netmail "net/mail"
)

var (
	// ErrRejected marks a provider refusal that is specific to the message
	// (bad recipient, invalid payload). It does not count against the breaker.
	ErrRejected = errors.New("email: message rejected by provider")
	// ErrRateLimited marks a provider 429.
	ErrRateLimited = errors.New("email: provider rate limited")
	// ErrUnavailable is returned while the transport is known to be down.
	ErrUnavailable = errors.New("email: transport unavailable")
)

// Message holds the fields needed to send an email.
type Message struct {
	To      []string          `json:"to"`
	From    string            `json:"from"`
	Subject string            `json:"subject"`
	Body    string            `json:"body"`
	HTML    bool              `json:"html"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Provider defines the interface each email provider must implement. Send
// returns the provider's identifier for the accepted message.
type Provider interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Checker is implemented by transports that can verify reachability without
// sending anything.
type Checker interface {
	Check(ctx context.Context) error
}

// Check runs p's reachability check when it has one.
func Check(ctx context.Context, p Provider) error {
	if c, ok := p.(Checker); ok {
		return c.Check(ctx)
	}
	return nil
}

// parseAddress accepts both "addr" and "Name <addr>".
func parseAddress(s string) (*netmail.Address, error) {
	return netmail.ParseAddress(s)
}
