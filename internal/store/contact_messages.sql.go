package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const contactMessageColumns = `id, name, email, phone, subject, message, read, created_at`

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Subject,
		&i.Message,
		&i.Read,
		&i.CreatedAt,
	)
	return i, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, phone, subject, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + contactMessageColumns

type CreateContactMessageParams struct {
	Name    string
	Email   string
	Phone   pgtype.Text
	Subject string
	Message string
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRow(ctx, createContactMessage,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Subject,
		arg.Message,
	)
	return scanContactMessage(row)
}

const getContactMessage = `-- name: GetContactMessage :one
SELECT ` + contactMessageColumns + ` FROM contact_messages
WHERE id = $1
`

func (q *Queries) GetContactMessage(ctx context.Context, id uuid.UUID) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRow(ctx, getContactMessage, id))
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
WHERE read = false OR NOT $1::boolean
ORDER BY created_at DESC
`

func (q *Queries) ListContactMessages(ctx context.Context, unreadOnly bool) ([]ContactMessage, error) {
	rows, err := q.db.Query(ctx, listContactMessages, unreadOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ContactMessage{}
	for rows.Next() {
		i, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setContactMessageRead = `-- name: SetContactMessageRead :one
UPDATE contact_messages
SET read = $2
WHERE id = $1
RETURNING ` + contactMessageColumns

type SetContactMessageReadParams struct {
	ID   uuid.UUID
	Read bool
}

func (q *Queries) SetContactMessageRead(ctx context.Context, arg SetContactMessageReadParams) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRow(ctx, setContactMessageRead, arg.ID, arg.Read))
}

const deleteContactMessage = `-- name: DeleteContactMessage :execrows
DELETE FROM contact_messages
WHERE id = $1
`

func (q *Queries) DeleteContactMessage(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
