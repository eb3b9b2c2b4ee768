package store

import (
	"context"

	"github.com/google/uuid"
)

const blogPostColumns = `id, title, slug, excerpt, content, cover_image, tags, published, published_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var i BlogPost
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.CoverImage,
		&i.Tags,
		&i.Published,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBlogPost = `-- name: CreateBlogPost :one
INSERT INTO blog_posts (title, slug, excerpt, content, cover_image, tags, published, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, CASE WHEN $7::boolean THEN now() ELSE NULL END)
RETURNING ` + blogPostColumns

type CreateBlogPostParams struct {
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
	Published  bool
}

func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRow(ctx, createBlogPost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImage,
		nonNilStrings(arg.Tags),
		arg.Published,
	)
	return scanBlogPost(row)
}

const getBlogPost = `-- name: GetBlogPost :one
SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE id = $1
`

func (q *Queries) GetBlogPost(ctx context.Context, id uuid.UUID) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRow(ctx, getBlogPost, id))
}

const getBlogPostBySlug = `-- name: GetBlogPostBySlug :one
SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE slug = $1
`

func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRow(ctx, getBlogPostBySlug, slug))
}

const listBlogPosts = `-- name: ListBlogPosts :many
SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE published OR NOT $1::boolean
ORDER BY coalesce(published_at, created_at) DESC
`

func (q *Queries) ListBlogPosts(ctx context.Context, publishedOnly bool) ([]BlogPost, error) {
	rows, err := q.db.Query(ctx, listBlogPosts, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []BlogPost{}
	for rows.Next() {
		i, err := scanBlogPost(rows)
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

const updateBlogPost = `-- name: UpdateBlogPost :one
UPDATE blog_posts
SET title = $2,
    slug = $3,
    excerpt = $4,
    content = $5,
    cover_image = $6,
    tags = $7,
    published = $8,
    published_at = CASE
        WHEN NOT $8::boolean THEN NULL
        WHEN published_at IS NULL THEN now()
        ELSE published_at
    END,
    updated_at = now()
WHERE id = $1
RETURNING ` + blogPostColumns

type UpdateBlogPostParams struct {
	ID         uuid.UUID
	Title      string
	Slug       string
	Excerpt    string
	Content    string
	CoverImage string
	Tags       []string
	Published  bool
}

func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRow(ctx, updateBlogPost,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImage,
		nonNilStrings(arg.Tags),
		arg.Published,
	)
	return scanBlogPost(row)
}

const deleteBlogPost = `-- name: DeleteBlogPost :execrows
DELETE FROM blog_posts
WHERE id = $1
`

func (q *Queries) DeleteBlogPost(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteBlogPost, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// nonNilStrings keeps NOT NULL text[] columns from receiving SQL NULL.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
