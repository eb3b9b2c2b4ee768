package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/gsarma/folio/internal/logging"
)

// BreakerSettings tunes WithBreaker.
type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

var defaultBreakerSettings = BreakerSettings{
	FailureThreshold: 5,
	OpenTimeout:      30 * time.Second,
}

type breakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker[string]
}

// WithBreaker wraps p in a circuit breaker that opens after consecutive
// transport failures: network errors, timeouts, 5xx and auth failures. Message
// rejections and provider rate limiting do not count, so a throttled batch
// keeps attempting every recipient. Once open, sends fail fast with
// ErrUnavailable until the open timeout elapses.
func WithBreaker(p Provider, name string) Provider {
	return WithBreakerSettings(p, name, defaultBreakerSettings)
}

func WithBreakerSettings(p Provider, name string, s BreakerSettings) Provider {
	log := logging.WithComponent("email")
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected) || errors.Is(err, ErrRateLimited)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("mail transport breaker state change")
		},
	})
	return &breakerProvider{next: p, cb: cb}
}

func (b *breakerProvider) Send(ctx context.Context, msg Message) (string, error) {
	id, err := b.cb.Execute(func() (string, error) {
		return b.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, err
}

// Check fails fast while the breaker is open, then defers to the wrapped
// transport.
func (b *breakerProvider) Check(ctx context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("%w: breaker %s is open", ErrUnavailable, b.cb.Name())
	}
	return Check(ctx, b.next)
}

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// WithTimeout bounds every Send on p to d. A non-positive d returns p as is.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, timeout: d}
}

func (t *timeoutProvider) Send(ctx context.Context, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Send(ctx, msg)
}

func (t *timeoutProvider) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return Check(ctx, t.next)
}
