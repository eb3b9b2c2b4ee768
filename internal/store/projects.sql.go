package store

import (
	"context"

	"github.com/google/uuid"
)

const projectColumns = `id, title, slug, summary, description, image_url, tech_stack, live_url, repo_url, featured, sort_order, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Summary,
		&i.Description,
		&i.ImageUrl,
		&i.TechStack,
		&i.LiveUrl,
		&i.RepoUrl,
		&i.Featured,
		&i.SortOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createProject = `-- name: CreateProject :one
INSERT INTO projects (title, slug, summary, description, image_url, tech_stack, live_url, repo_url, featured, sort_order)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	Title       string
	Slug        string
	Summary     string
	Description string
	ImageUrl    string
	TechStack   []string
	LiveUrl     string
	RepoUrl     string
	Featured    bool
	SortOrder   int32
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx, createProject,
		arg.Title,
		arg.Slug,
		arg.Summary,
		arg.Description,
		arg.ImageUrl,
		nonNilStrings(arg.TechStack),
		arg.LiveUrl,
		arg.RepoUrl,
		arg.Featured,
		arg.SortOrder,
	)
	return scanProject(row)
}

const getProject = `-- name: GetProject :one
SELECT ` + projectColumns + ` FROM projects
WHERE id = $1
`

func (q *Queries) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProject, id))
}

const getProjectBySlug = `-- name: GetProjectBySlug :one
SELECT ` + projectColumns + ` FROM projects
WHERE slug = $1
`

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProjectBySlug, slug))
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM projects
WHERE featured OR NOT $1::boolean
ORDER BY sort_order ASC, created_at DESC
`

func (q *Queries) ListProjects(ctx context.Context, featuredOnly bool) ([]Project, error) {
	rows, err := q.db.Query(ctx, listProjects, featuredOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Project{}
	for rows.Next() {
		i, err := scanProject(rows)
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

const updateProject = `-- name: UpdateProject :one
UPDATE projects
SET title = $2,
    slug = $3,
    summary = $4,
    description = $5,
    image_url = $6,
    tech_stack = $7,
    live_url = $8,
    repo_url = $9,
    featured = $10,
    sort_order = $11,
    updated_at = now()
WHERE id = $1
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Summary     string
	Description string
	ImageUrl    string
	TechStack   []string
	LiveUrl     string
	RepoUrl     string
	Featured    bool
	SortOrder   int32
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRow(ctx, updateProject,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Summary,
		arg.Description,
		arg.ImageUrl,
		nonNilStrings(arg.TechStack),
		arg.LiveUrl,
		arg.RepoUrl,
		arg.Featured,
		arg.SortOrder,
	)
	return scanProject(row)
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM projects
WHERE id = $1
`

func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
