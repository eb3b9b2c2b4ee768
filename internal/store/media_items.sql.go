package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const mediaItemColumns = `id, title, kind, url, thumbnail_url, description, published_at, created_at`

func scanMediaItem(row interface{ Scan(...any) error }) (MediaItem, error) {
	var i MediaItem
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Kind,
		&i.Url,
		&i.ThumbnailUrl,
		&i.Description,
		&i.PublishedAt,
		&i.CreatedAt,
	)
	return i, err
}

const createMediaItem = `-- name: CreateMediaItem :one
INSERT INTO media_items (title, kind, url, thumbnail_url, description, published_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + mediaItemColumns

type CreateMediaItemParams struct {
	Title        string
	Kind         string
	Url          string
	ThumbnailUrl string
	Description  string
	PublishedAt  *time.Time
}

func (q *Queries) CreateMediaItem(ctx context.Context, arg CreateMediaItemParams) (MediaItem, error) {
	row := q.db.QueryRow(ctx, createMediaItem,
		arg.Title,
		arg.Kind,
		arg.Url,
		arg.ThumbnailUrl,
		arg.Description,
		arg.PublishedAt,
	)
	return scanMediaItem(row)
}

const getMediaItem = `-- name: GetMediaItem :one
SELECT ` + mediaItemColumns + ` FROM media_items
WHERE id = $1
`

func (q *Queries) GetMediaItem(ctx context.Context, id uuid.UUID) (MediaItem, error) {
	return scanMediaItem(q.db.QueryRow(ctx, getMediaItem, id))
}

// An empty kind lists every item.
const listMediaItems = `-- name: ListMediaItems :many
SELECT ` + mediaItemColumns + ` FROM media_items
WHERE $1::text = '' OR kind = $1::text
ORDER BY coalesce(published_at, created_at) DESC
`

func (q *Queries) ListMediaItems(ctx context.Context, kind string) ([]MediaItem, error) {
	rows, err := q.db.Query(ctx, listMediaItems, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []MediaItem{}
	for rows.Next() {
		i, err := scanMediaItem(rows)
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

const updateMediaItem = `-- name: UpdateMediaItem :one
UPDATE media_items
SET title = $2,
    kind = $3,
    url = $4,
    thumbnail_url = $5,
    description = $6,
    published_at = $7
WHERE id = $1
RETURNING ` + mediaItemColumns

type UpdateMediaItemParams struct {
	ID           uuid.UUID
	Title        string
	Kind         string
	Url          string
	ThumbnailUrl string
	Description  string
	PublishedAt  *time.Time
}

func (q *Queries) UpdateMediaItem(ctx context.Context, arg UpdateMediaItemParams) (MediaItem, error) {
	row := q.db.QueryRow(ctx, updateMediaItem,
		arg.ID,
		arg.Title,
		arg.Kind,
		arg.Url,
		arg.ThumbnailUrl,
		arg.Description,
		arg.PublishedAt,
	)
	return scanMediaItem(row)
}

const deleteMediaItem = `-- name: DeleteMediaItem :execrows
DELETE FROM media_items
WHERE id = $1
`

func (q *Queries) DeleteMediaItem(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteMediaItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
