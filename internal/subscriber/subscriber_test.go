package subscriber_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/subscriber"
)

// memQuerier keeps subscribers in memory. Methods the service does not call
// fall through to the nil embedded Querier and panic.
type memQuerier struct {
	store.Querier
	mu   sync.Mutex
	subs map[uuid.UUID]store.Subscriber
	now  time.Time
}

func newMemQuerier() *memQuerier {
	return &memQuerier{subs: map[uuid.UUID]store.Subscriber{}, now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memQuerier) tick() time.Time {
	m.now = m.now.Add(time.Minute)
	return m.now
}

func (m *memQuerier) byEmail(email string) (store.Subscriber, bool) {
	for _, s := range m.subs {
		if strings.EqualFold(s.Email, email) {
			return s, true
		}
	}
	return store.Subscriber{}, false
}

func (m *memQuerier) CreateSubscriber(_ context.Context, email string) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail(email); ok {
		return store.Subscriber{}, &pgconn.PgError{Code: "23505"}
	}
	s := store.Subscriber{ID: uuid.New(), Email: email, SubscribedAt: m.tick(), Active: true}
	m.subs[s.ID] = s
	return s, nil
}

func (m *memQuerier) GetSubscriber(_ context.Context, id uuid.UUID) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return store.Subscriber{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memQuerier) GetSubscriberByEmail(_ context.Context, email string) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byEmail(email)
	if !ok {
		return store.Subscriber{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memQuerier) sorted(filter func(store.Subscriber) bool, desc bool) []store.Subscriber {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Subscriber{}
	for _, s := range m.subs {
		if filter(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].SubscribedAt.After(out[j].SubscribedAt)
		}
		return out[i].SubscribedAt.Before(out[j].SubscribedAt)
	})
	return out
}

func (m *memQuerier) ListSubscribers(context.Context) ([]store.Subscriber, error) {
	return m.sorted(func(store.Subscriber) bool { return true }, true), nil
}

func (m *memQuerier) ListActiveSubscribers(context.Context) ([]store.Subscriber, error) {
	return m.sorted(func(s store.Subscriber) bool { return s.Active }, false), nil
}

func (m *memQuerier) SetSubscriberActive(_ context.Context, arg store.SetSubscriberActiveParams) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[arg.ID]
	if !ok {
		return store.Subscriber{}, pgx.ErrNoRows
	}
	s.Active = arg.Active
	m.subs[arg.ID] = s
	return s, nil
}

func (m *memQuerier) ResubscribeSubscriber(_ context.Context, id uuid.UUID) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return store.Subscriber{}, pgx.ErrNoRows
	}
	s.Active = true
	s.SubscribedAt = m.tick()
	m.subs[id] = s
	return s, nil
}

func (m *memQuerier) UpdateSubscriberEmail(_ context.Context, arg store.UpdateSubscriberEmailParams) (store.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if other, ok := m.byEmail(arg.Email); ok && other.ID != arg.ID {
		return store.Subscriber{}, &pgconn.PgError{Code: "23505"}
	}
	s, ok := m.subs[arg.ID]
	if !ok {
		return store.Subscriber{}, pgx.ErrNoRows
	}
	s.Email = arg.Email
	m.subs[arg.ID] = s
	return s, nil
}

func (m *memQuerier) DeleteSubscriber(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return 0, nil
	}
	delete(m.subs, id)
	return 1, nil
}

func newService() (*subscriber.Service, *memQuerier) {
	q := newMemQuerier()
	return subscriber.NewService(q), q
}

// staleLookup never sees existing rows, as when two sign-ups for the same
// address race past the lookup.
type staleLookup struct {
	*memQuerier
}

func (staleLookup) GetSubscriberByEmail(context.Context, string) (store.Subscriber, error) {
	return store.Subscriber{}, pgx.ErrNoRows
}

func TestCreate_ConcurrentSignupsForSameAddress(t *testing.T) {
	q := newMemQuerier()
	svc := subscriber.NewService(staleLookup{q})
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Create(ctx, "Ann@Example.com")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, subscriber.ErrAlreadySubscribed):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, 7, conflicts)
	assert.Len(t, q.subs, 1)
}

func TestCreate_NewSubscriberIsActive(t *testing.T) {
	svc, _ := newService()
	sub, reactivated, err := svc.Create(context.Background(), "  Ann@Example.com ")
	require.NoError(t, err)
	assert.False(t, reactivated)
	assert.True(t, sub.Active)
	assert.Equal(t, "ann@example.com", sub.Email)
	assert.False(t, sub.SubscribedAt.IsZero())
}

func TestCreate_RejectsActiveDuplicateCaseInsensitive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, "ANN@example.com")
	assert.ErrorIs(t, err, subscriber.ErrAlreadySubscribed)
}

func TestCreate_ReactivatesInactive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	first, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)
	_, _, err = svc.Deactivate(ctx, "ann@example.com")
	require.NoError(t, err)

	again, reactivated, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, reactivated)
	assert.True(t, again.Active)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, again.SubscribedAt.After(first.SubscribedAt))
}

func TestCreate_InvalidEmail(t *testing.T) {
	svc, _ := newService()
	for _, addr := range []string{"", "nope", "a@", "@b.com"} {
		_, _, err := svc.Create(context.Background(), addr)
		assert.ErrorIs(t, err, subscriber.ErrInvalidEmail, addr)
	}
}

func TestCreate_LookupErrorIsWrapped(t *testing.T) {
	boom := errors.New("db down")
	svc := subscriber.NewService(&failingQuerier{err: boom})
	_, _, err := svc.Create(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, subscriber.ErrAlreadySubscribed)
}

type failingQuerier struct {
	store.Querier
	err error
}

func (f *failingQuerier) GetSubscriberByEmail(context.Context, string) (store.Subscriber, error) {
	return store.Subscriber{}, f.err
}

func TestDeactivate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)

	sub, changed, err := svc.Deactivate(ctx, "Ann@Example.com")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, sub.Active)

	sub, changed, err = svc.Deactivate(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, sub.Active)

	_, _, err = svc.Deactivate(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, subscriber.ErrNotFound)
}

func TestDeactivateToken(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	_, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)

	sub, changed, err := svc.DeactivateToken(ctx, newsletter.EncodeToken("ann@example.com"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.False(t, sub.Active)

	_, _, err = svc.DeactivateToken(ctx, "!!")
	assert.ErrorIs(t, err, newsletter.ErrInvalidToken)
}

func TestDeactivatedSubscriberIsNotDeleted(t *testing.T) {
	svc, q := newService()
	ctx := context.Background()
	sub, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)
	_, _, err = svc.Deactivate(ctx, "ann@example.com")
	require.NoError(t, err)

	_, err = q.GetSubscriber(ctx, sub.ID)
	assert.NoError(t, err)
}

func TestUpdate_ReactivatesInactive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	sub, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)
	_, _, err = svc.Deactivate(ctx, "ann@example.com")
	require.NoError(t, err)

	active := true
	got, err := svc.Update(ctx, sub.ID, subscriber.UpdateParams{Active: &active})
	require.NoError(t, err)
	assert.True(t, got.Active)

	_, err = svc.Update(ctx, uuid.New(), subscriber.UpdateParams{Active: &active})
	assert.ErrorIs(t, err, subscriber.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	ann, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, "bob@example.com")
	require.NoError(t, err)

	newEmail := "Ann.New@Example.com"
	inactive := false
	got, err := svc.Update(ctx, ann.ID, subscriber.UpdateParams{Email: &newEmail, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "ann.new@example.com", got.Email)
	assert.False(t, got.Active)

	taken := "bob@example.com"
	_, err = svc.Update(ctx, ann.ID, subscriber.UpdateParams{Email: &taken})
	assert.ErrorIs(t, err, subscriber.ErrAlreadySubscribed)

	bad := "nope"
	_, err = svc.Update(ctx, ann.ID, subscriber.UpdateParams{Email: &bad})
	assert.ErrorIs(t, err, subscriber.ErrInvalidEmail)

	_, err = svc.Update(ctx, uuid.New(), subscriber.UpdateParams{})
	assert.ErrorIs(t, err, subscriber.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	sub, _, err := svc.Create(ctx, "ann@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, sub.ID))
	assert.ErrorIs(t, svc.Delete(ctx, sub.ID), subscriber.ErrNotFound)
	_, err = svc.Get(ctx, sub.ID)
	assert.ErrorIs(t, err, subscriber.ErrNotFound)
}

func TestListAndActiveEmails(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	for _, addr := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		_, _, err := svc.Create(ctx, addr)
		require.NoError(t, err)
	}
	_, _, err := svc.Deactivate(ctx, "b@x.com")
	require.NoError(t, err)

	all, counts, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, subscriber.Counts{Total: 3, Active: 2, Inactive: 1}, counts)

	active := false
	inactive, counts, err := svc.List(ctx, &active)
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "b@x.com", inactive[0].Email)
	assert.Equal(t, 3, counts.Total)

	emails, err := svc.ActiveEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "c@x.com"}, emails)
}
