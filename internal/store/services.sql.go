package store

import (
	"context"

	"github.com/google/uuid"
)

const serviceColumns = `id, title, description, icon, features, sort_order, created_at, updated_at`

func scanService(row interface{ Scan(...any) error }) (Service, error) {
	var i Service
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Icon,
		&i.Features,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createService = `-- name: CreateService :one
INSERT INTO services (title, description, icon, features, sort_order)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + serviceColumns

type CreateServiceParams struct {
	Title       string
	Description string
	Icon        string
	Features    []string
	SortOrder   int32
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRow(ctx, createService,
		arg.Title,
		arg.Description,
		arg.Icon,
		nonNilStrings(arg.Features),
		arg.SortOrder,
	)
	return scanService(row)
}

const getService = `-- name: GetService :one
SELECT ` + serviceColumns + ` FROM services
WHERE id = $1
`

func (q *Queries) GetService(ctx context.Context, id uuid.UUID) (Service, error) {
	return scanService(q.db.QueryRow(ctx, getService, id))
}

const listServices = `-- name: ListServices :many
SELECT ` + serviceColumns + ` FROM services
ORDER BY sort_order ASC, created_at ASC
`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.Query(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Service{}
	for rows.Next() {
		i, err := scanService(rows)
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

const updateService = `-- name: UpdateService :one
UPDATE services
SET title = $2,
    description = $3,
    icon = $4,
    features = $5,
    sort_order = $6,
    updated_at = now()
WHERE id = $1
RETURNING ` + serviceColumns

type UpdateServiceParams struct {
	ID          uuid.UUID
	Title       string
	Description string
	Icon        string
	Features    []string
	SortOrder   int32
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRow(ctx, updateService,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Icon,
		nonNilStrings(arg.Features),
		arg.SortOrder,
	)
	return scanService(row)
}

const deleteService = `-- name: DeleteService :execrows
DELETE FROM services
WHERE id = $1
`

func (q *Queries) DeleteService(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteService, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
