package store

import (
	"context"
)

const settingColumns = `site_name, tagline, bio, contact_email, avatar_url, resume_url, social, seo, updated_at`

func scanSetting(row interface{ Scan(...any) error }) (Setting, error) {
	var i Setting
	err := row.Scan(
		&i.SiteName,
		&i.Tagline,
		&i.Bio,
		&i.ContactEmail,
		&i.AvatarUrl,
		&i.ResumeUrl,
		&i.Social,
		&i.Seo,
		&i.UpdatedAt,
	)
	if i.Social == nil {
		i.Social = map[string]string{}
	}
	return i, err
}

const getSettings = `-- name: GetSettings :one
SELECT ` + settingColumns + ` FROM settings
WHERE id = 1
`

func (q *Queries) GetSettings(ctx context.Context) (Setting, error) {
	return scanSetting(q.db.QueryRow(ctx, getSettings))
}

const upsertSettings = `-- name: UpsertSettings :one
INSERT INTO settings (id, site_name, tagline, bio, contact_email, avatar_url, resume_url, social, seo, updated_at)
VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (id) DO UPDATE
SET site_name = EXCLUDED.site_name,
    tagline = EXCLUDED.tagline,
    bio = EXCLUDED.bio,
    contact_email = EXCLUDED.contact_email,
    avatar_url = EXCLUDED.avatar_url,
    resume_url = EXCLUDED.resume_url,
    social = EXCLUDED.social,
    seo = EXCLUDED.seo,
    updated_at = now()
RETURNING ` + settingColumns

type UpsertSettingsParams struct {
	SiteName     string
	Tagline      string
	Bio          string
	ContactEmail string
	AvatarUrl    string
	ResumeUrl    string
	Social       map[string]string
	Seo          SEO
}

func (q *Queries) UpsertSettings(ctx context.Context, arg UpsertSettingsParams) (Setting, error) {
	social := arg.Social
	if social == nil {
		social = map[string]string{}
	}
	row := q.db.QueryRow(ctx, upsertSettings,
		arg.SiteName,
		arg.Tagline,
		arg.Bio,
		arg.ContactEmail,
		arg.AvatarUrl,
		arg.ResumeUrl,
		social,
		arg.Seo,
	)
	return scanSetting(row)
}
