// Package newsletter fans one newsletter out into individual deliveries, one
// per recipient, each carrying its own unsubscribe link.
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/metrics"
	"github.com/gsarma/folio/internal/validation"
	"github.com/gsarma/folio/internal/worker"
)

var (
	// ErrInvalidRequest is returned before any delivery when the request is
	// structurally incomplete.
	ErrInvalidRequest = errors.New("invalid newsletter request")
	// ErrDispatcher is returned when the batch cannot start at all. No
	// recipient has been contacted when it is returned.
	ErrDispatcher = errors.New("newsletter dispatcher failure")
)

const defaultSendTimeout = 15 * time.Second

// Config is read once when the Dispatcher is built.
type Config struct {
	From        string
	BaseURL     string
	SiteName    string
	Concurrency int
	SendTimeout time.Duration
	// SendRate caps transport calls per second across all batches. Zero
	// leaves sends unpaced.
	SendRate    float64
}

// Request is one newsletter send.
type Request struct {
	Subject    string   `json:"subject"`
	Content    string   `json:"content"`
	Recipients []string `json:"recipients"`
}

// RecipientResult is the outcome for a single recipient. Error is set only
// when Success is false.
type RecipientResult struct {
	Email     string `json:"email"`
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result aggregates a finished batch. Results[i] belongs to Recipients[i].
type Result struct {
	SentCount       int               `json:"sentCount"`
	FailedCount     int               `json:"failedCount"`
	TotalRecipients int               `json:"totalRecipients"`
	Results         []RecipientResult `json:"results"`
}

// Dispatcher sends newsletters through a mail transport.
type Dispatcher struct {
	provider email.Provider
	cfg      Config
	pace     *rate.Limiter
	log      zerolog.Logger
}

func New(provider email.Provider, cfg Config, log zerolog.Logger) *Dispatcher {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = worker.DefaultLimit
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	d := &Dispatcher{provider: provider, cfg: cfg, log: log}
	if cfg.SendRate > 0 {
		d.pace = rate.NewLimiter(rate.Limit(cfg.SendRate), 1)
	}
	return d
}

// Validate checks req without contacting the transport.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.Subject) == "":
		return fmt.Errorf("%w: subject is required", ErrInvalidRequest)
	case strings.TrimSpace(r.Content) == "":
		return fmt.Errorf("%w: content is required", ErrInvalidRequest)
	case len(r.Recipients) == 0:
		return fmt.Errorf("%w: recipients must be a non-empty list", ErrInvalidRequest)
	}
	return nil
}

// Send delivers req to every recipient. Per-recipient failures are recorded
// in the result; only ErrInvalidRequest and ErrDispatcher are returned as
// errors. Once the fan-out starts it runs to completion even if ctx is
// cancelled.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if d.provider == nil {
		return nil, fmt.Errorf("%w: no mail transport configured", ErrDispatcher)
	}
	if d.cfg.From == "" || d.cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: sender address and base URL must be configured", ErrDispatcher)
	}
	if err := email.Check(ctx, d.provider); err != nil {
		return nil, fmt.Errorf("%w: mail transport unreachable: %v", ErrDispatcher, err)
	}

	start := time.Now()
	runCtx := context.WithoutCancel(ctx)
	results := worker.Map(runCtx, d.cfg.Concurrency, len(req.Recipients), func(ctx context.Context, i int) RecipientResult {
		return d.deliver(ctx, req, req.Recipients[i])
	})

	res := &Result{TotalRecipients: len(req.Recipients), Results: results}
	for _, r := range results {
		if r.Success {
			res.SentCount++
		} else {
			res.FailedCount++
		}
		metrics.RecordDelivery(r.Success)
	}
	metrics.NewsletterBatches.Inc()
	metrics.NewsletterBatchDuration.Observe(time.Since(start).Seconds())

	d.log.Info().
		Str("subject", req.Subject).
		Int("total", res.TotalRecipients).
		Int("sent", res.SentCount).
		Int("failed", res.FailedCount).
		Dur("duration", time.Since(start)).
		Msg("newsletter batch finished")

	return res, nil
}

func (d *Dispatcher) deliver(ctx context.Context, req Request, recipient string) RecipientResult {
	out := RecipientResult{Email: recipient}

	addr := strings.TrimSpace(recipient)
	if err := validation.Email(addr); err != nil {
		out.Error = err.Error()
		d.logFailure(recipient, err)
		return out
	}

	unsubscribe := UnsubscribeURL(d.cfg.BaseURL, addr)
	msg := email.Message{
		From:    d.cfg.From,
		To:      []string{addr},
		Subject: req.Subject,
		Body:    WithFooter(req.Content, d.cfg.SiteName, unsubscribe),
		HTML:    true,
		Headers: map[string]string{
			"List-Unsubscribe":      "<" + unsubscribe + ">",
			"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		},
	}

	if d.pace != nil {
		if err := d.pace.Wait(ctx); err != nil {
			out.Error = err.Error()
			d.logFailure(recipient, err)
			return out
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()

	id, err := d.provider.Send(sendCtx, msg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("send timed out after %s: %w", d.cfg.SendTimeout, err)
		}
		out.Error = err.Error()
		d.logFailure(recipient, err)
		return out
	}

	out.Success = true
	out.MessageID = id
	return out
}

func (d *Dispatcher) logFailure(recipient string, err error) {
	d.log.Warn().Err(err).Str("recipient", recipient).Msg("newsletter delivery failed")
}
