package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const experienceColumns = `id, company, role, location, start_date, end_date, current, description, highlights, sort_order, created_at, updated_at`

func scanExperience(row interface{ Scan(...any) error }) (Experience, error) {
	var i Experience
	err := row.Scan(
		&i.ID,
		&i.Company,
		&i.Role,
		&i.Location,
		&i.StartDate,
		&i.EndDate,
		&i.Current,
		&i.Description,
		&i.Highlights,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createExperience = `-- name: CreateExperience :one
INSERT INTO experiences (company, role, location, start_date, end_date, current, description, highlights, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + experienceColumns

type CreateExperienceParams struct {
	Company     string
	Role        string
	Location    string
	StartDate   time.Time
	EndDate     *time.Time
	Current     bool
	Description string
	Highlights  []string
	SortOrder   int32
}

func (q *Queries) CreateExperience(ctx context.Context, arg CreateExperienceParams) (Experience, error) {
	row := q.db.QueryRow(ctx, createExperience,
		arg.Company,
		arg.Role,
		arg.Location,
		arg.StartDate,
		arg.EndDate,
		arg.Current,
		arg.Description,
		nonNilStrings(arg.Highlights),
		arg.SortOrder,
	)
	return scanExperience(row)
}

const getExperience = `-- name: GetExperience :one
SELECT ` + experienceColumns + ` FROM experiences
WHERE id = $1
`

func (q *Queries) GetExperience(ctx context.Context, id uuid.UUID) (Experience, error) {
	return scanExperience(q.db.QueryRow(ctx, getExperience, id))
}

const listExperiences = `-- name: ListExperiences :many
SELECT ` + experienceColumns + ` FROM experiences
ORDER BY current DESC, start_date DESC, sort_order ASC
`

func (q *Queries) ListExperiences(ctx context.Context) ([]Experience, error) {
	rows, err := q.db.Query(ctx, listExperiences)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Experience{}
	for rows.Next() {
		i, err := scanExperience(rows)
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

const updateExperience = `-- name: UpdateExperience :one
UPDATE experiences
SET company = $2,
    role = $3,
    location = $4,
    start_date = $5,
    end_date = $6,
    current = $7,
    description = $8,
    highlights = $9,
    sort_order = $10,
    updated_at = now()
WHERE id = $1
RETURNING ` + experienceColumns

type UpdateExperienceParams struct {
	ID          uuid.UUID
	Company     string
	Role        string
	Location    string
	StartDate   time.Time
	EndDate     *time.Time
	Current     bool
	Description string
	Highlights  []string
	SortOrder   int32
}

func (q *Queries) UpdateExperience(ctx context.Context, arg UpdateExperienceParams) (Experience, error) {
	row := q.db.QueryRow(ctx, updateExperience,
		arg.ID,
		arg.Company,
		arg.Role,
		arg.Location,
		arg.StartDate,
		arg.EndDate,
		arg.Current,
		arg.Description,
		nonNilStrings(arg.Highlights),
		arg.SortOrder,
	)
	return scanExperience(row)
}

const deleteExperience = `-- name: DeleteExperience :execrows
DELETE FROM experiences
WHERE id = $1
`

func (q *Queries) DeleteExperience(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExperience, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
