package store

import (
	"context"

	"github.com/google/uuid"
)

const createSubscriber = `-- name: CreateSubscriber :one
INSERT INTO subscribers (email)
VALUES ($1)
RETURNING id, email, subscribed_at, active
`

func (q *Queries) CreateSubscriber(ctx context.Context, email string) (Subscriber, error) {
	row := q.db.QueryRow(ctx, createSubscriber, email)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const getSubscriber = `-- name: GetSubscriber :one
SELECT id, email, subscribed_at, active FROM subscribers
WHERE id = $1
`

func (q *Queries) GetSubscriber(ctx context.Context, id uuid.UUID) (Subscriber, error) {
	row := q.db.QueryRow(ctx, getSubscriber, id)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const getSubscriberByEmail = `-- name: GetSubscriberByEmail :one
SELECT id, email, subscribed_at, active FROM subscribers
WHERE lower(email) = lower($1)
`

func (q *Queries) GetSubscriberByEmail(ctx context.Context, email string) (Subscriber, error) {
	row := q.db.QueryRow(ctx, getSubscriberByEmail, email)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const listSubscribers = `-- name: ListSubscribers :many
SELECT id, email, subscribed_at, active FROM subscribers
ORDER BY subscribed_at DESC
`

func (q *Queries) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	return q.querySubscribers(ctx, listSubscribers)
}

const listActiveSubscribers = `-- name: ListActiveSubscribers :many
SELECT id, email, subscribed_at, active FROM subscribers
WHERE active = true
ORDER BY subscribed_at ASC
`

func (q *Queries) ListActiveSubscribers(ctx context.Context) ([]Subscriber, error) {
	return q.querySubscribers(ctx, listActiveSubscribers)
}

func (q *Queries) querySubscribers(ctx context.Context, query string) ([]Subscriber, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Subscriber{}
	for rows.Next() {
		var i Subscriber
		if err := rows.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setSubscriberActive = `-- name: SetSubscriberActive :one
UPDATE subscribers
SET active = $2
WHERE id = $1
RETURNING id, email, subscribed_at, active
`

type SetSubscriberActiveParams struct {
	ID     uuid.UUID
	Active bool
}

func (q *Queries) SetSubscriberActive(ctx context.Context, arg SetSubscriberActiveParams) (Subscriber, error) {
	row := q.db.QueryRow(ctx, setSubscriberActive, arg.ID, arg.Active)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const resubscribeSubscriber = `-- name: ResubscribeSubscriber :one
UPDATE subscribers
SET active = true, subscribed_at = now()
WHERE id = $1
RETURNING id, email, subscribed_at, active
`

func (q *Queries) ResubscribeSubscriber(ctx context.Context, id uuid.UUID) (Subscriber, error) {
	row := q.db.QueryRow(ctx, resubscribeSubscriber, id)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const updateSubscriberEmail = `-- name: UpdateSubscriberEmail :one
UPDATE subscribers
SET email = $2
WHERE id = $1
RETURNING id, email, subscribed_at, active
`

type UpdateSubscriberEmailParams struct {
	ID    uuid.UUID
	Email string
}

func (q *Queries) UpdateSubscriberEmail(ctx context.Context, arg UpdateSubscriberEmailParams) (Subscriber, error) {
	row := q.db.QueryRow(ctx, updateSubscriberEmail, arg.ID, arg.Email)
	var i Subscriber
	err := row.Scan(&i.ID, &i.Email, &i.SubscribedAt, &i.Active)
	return i, err
}

const deleteSubscriber = `-- name: DeleteSubscriber :execrows
DELETE FROM subscribers
WHERE id = $1
`

func (q *Queries) DeleteSubscriber(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteSubscriber, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
