// Package subscriber owns the newsletter subscriber lifecycle: a record is
// either active or inactive, and only admins remove it outright.
package subscriber

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/validation"
)

var (
	ErrAlreadySubscribed = errors.New("email is already subscribed")
	ErrNotFound          = errors.New("subscriber not found")
	ErrInvalidEmail      = validation.ErrInvalidEmail
)

// Counts summarises the subscriber table for the admin list.
type Counts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Service implements the lifecycle on top of the content store.
type Service struct {
	q store.Querier
}

func NewService(q store.Querier) *Service {
	return &Service{q: q}
}

func normalize(addr string) (string, error) {
	addr = validation.NormalizeEmail(addr)
	if err := validation.Email(addr); err != nil {
		return "", err
	}
	return addr, nil
}

// Create subscribes email. An existing inactive record is reactivated and
// reported with reactivated=true; an existing active one is rejected with
// ErrAlreadySubscribed. Matching is case-insensitive.
func (s *Service) Create(ctx context.Context, email string) (sub store.Subscriber, reactivated bool, err error) {
	addr, err := normalize(email)
	if err != nil {
		return store.Subscriber{}, false, err
	}

	existing, err := s.q.GetSubscriberByEmail(ctx, addr)
	switch {
	case err == nil:
		if existing.Active {
			return existing, false, ErrAlreadySubscribed
		}
		sub, err = s.q.ResubscribeSubscriber(ctx, existing.ID)
		if err != nil {
			return store.Subscriber{}, false, fmt.Errorf("reactivate subscriber: %w", err)
		}
		return sub, true, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return store.Subscriber{}, false, fmt.Errorf("lookup subscriber: %w", err)
	}

	sub, err = s.q.CreateSubscriber(ctx, addr)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.Subscriber{}, false, ErrAlreadySubscribed
		}
		return store.Subscriber{}, false, fmt.Errorf("create subscriber: %w", err)
	}
	return sub, false, nil
}

// Deactivate unsubscribes email. changed is false when the subscriber was
// already inactive.
func (s *Service) Deactivate(ctx context.Context, email string) (sub store.Subscriber, changed bool, err error) {
	addr, err := normalize(email)
	if err != nil {
		return store.Subscriber{}, false, err
	}
	existing, err := s.q.GetSubscriberByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Subscriber{}, false, ErrNotFound
		}
		return store.Subscriber{}, false, fmt.Errorf("lookup subscriber: %w", err)
	}
	if !existing.Active {
		return existing, false, nil
	}
	sub, err = s.setActive(ctx, existing.ID, false)
	return sub, err == nil, err
}

// DeactivateToken decodes an unsubscribe token and deactivates its address.
func (s *Service) DeactivateToken(ctx context.Context, token string) (store.Subscriber, bool, error) {
	addr, err := newsletter.DecodeToken(token)
	if err != nil {
		return store.Subscriber{}, false, err
	}
	return s.Deactivate(ctx, addr)
}

func (s *Service) setActive(ctx context.Context, id uuid.UUID, active bool) (store.Subscriber, error) {
	sub, err := s.q.SetSubscriberActive(ctx, store.SetSubscriberActiveParams{ID: id, Active: active})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Subscriber{}, ErrNotFound
		}
		return store.Subscriber{}, fmt.Errorf("update subscriber: %w", err)
	}
	return sub, nil
}

// UpdateParams carries the optional fields of an admin edit.
type UpdateParams struct {
	Email  *string
	Active *bool
}

// Update applies an admin edit. The email change, when present, is applied
// before the status change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (store.Subscriber, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return store.Subscriber{}, err
	}

	if p.Email != nil {
		addr, err := normalize(*p.Email)
		if err != nil {
			return store.Subscriber{}, err
		}
		if addr != sub.Email {
			sub, err = s.q.UpdateSubscriberEmail(ctx, store.UpdateSubscriberEmailParams{ID: id, Email: addr})
			if err != nil {
				switch {
				case store.IsUniqueViolation(err):
					return store.Subscriber{}, ErrAlreadySubscribed
				case errors.Is(err, pgx.ErrNoRows):
					return store.Subscriber{}, ErrNotFound
				}
				return store.Subscriber{}, fmt.Errorf("update subscriber email: %w", err)
			}
		}
	}

	if p.Active != nil && *p.Active != sub.Active {
		return s.setActive(ctx, id, *p.Active)
	}
	return sub, nil
}

// Delete removes the subscriber permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.q.DeleteSubscriber(ctx, id)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (store.Subscriber, error) {
	sub, err := s.q.GetSubscriber(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Subscriber{}, ErrNotFound
		}
		return store.Subscriber{}, fmt.Errorf("get subscriber: %w", err)
	}
	return sub, nil
}

// List returns subscribers newest first, optionally filtered by status. Counts
// always cover the whole table.
func (s *Service) List(ctx context.Context, active *bool) ([]store.Subscriber, Counts, error) {
	all, err := s.q.ListSubscribers(ctx)
	if err != nil {
		return nil, Counts{}, fmt.Errorf("list subscribers: %w", err)
	}
	counts := Counts{Total: len(all)}
	out := make([]store.Subscriber, 0, len(all))
	for _, sub := range all {
		if sub.Active {
			counts.Active++
		} else {
			counts.Inactive++
		}
		if active == nil || *active == sub.Active {
			out = append(out, sub)
		}
	}
	return out, counts, nil
}

// ListActive is a point-in-time snapshot. A subscriber who unsubscribes after
// the snapshot is taken still receives a send that is already in flight.
func (s *Service) ListActive(ctx context.Context) ([]store.Subscriber, error) {
	subs, err := s.q.ListActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	return subs, nil
}

// ActiveEmails returns the addresses of ListActive, in the same order.
func (s *Service) ActiveEmails(ctx context.Context) ([]string, error) {
	subs, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	emails := make([]string, len(subs))
	for i, sub := range subs {
		emails[i] = sub.Email
	}
	return emails, nil
}
