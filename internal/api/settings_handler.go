package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/gsarma/folio/internal/store"
)

type seoRequest struct {
	Title       string   `json:"title" binding:"max=200"`
	Description string   `json:"description" binding:"max=500"`
	Keywords    []string `json:"keywords" binding:"max=30,dive,max=60"`
}

type settingsRequest struct {
	SiteName     string            `json:"siteName" binding:"required,max=200"`
	Tagline      string            `json:"tagline" binding:"max=300"`
	Bio          string            `json:"bio" binding:"max=5000"`
	ContactEmail string            `json:"contactEmail" binding:"omitempty,email"`
	AvatarUrl    string            `json:"avatarUrl" binding:"omitempty,url"`
	ResumeUrl    string            `json:"resumeUrl" binding:"omitempty,url"`
	Social       map[string]string `json:"social" binding:"max=20,dive,keys,max=40,endkeys,omitempty,url"`
	Seo          seoRequest        `json:"seo"`
}

// settings returns the stored site settings, or defaults built from the
// service options when none have been saved yet.
func (h *Handler) settings(ctx context.Context) (store.Setting, error) {
	s, err := h.queries.GetSettings(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Setting{
			SiteName: h.opts.SiteName,
			Social:   map[string]string{},
			Seo:      store.SEO{Keywords: []string{}},
		}, nil
	}
	return s, err
}

func (h *Handler) GetSettings(c *gin.Context) {
	s, err := h.settings(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to load settings")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": s})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var body settingsRequest
	if !bindJSON(c, &body) {
		return
	}
	keywords := body.Seo.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	s, err := h.queries.UpsertSettings(c.Request.Context(), store.UpsertSettingsParams{
		SiteName:     body.SiteName,
		Tagline:      body.Tagline,
		Bio:          body.Bio,
		ContactEmail: body.ContactEmail,
		AvatarUrl:    body.AvatarUrl,
		ResumeUrl:    body.ResumeUrl,
		Social:       body.Social,
		Seo: store.SEO{
			Title:       body.Seo.Title,
			Description: body.Seo.Description,
			Keywords:    keywords,
		},
	})
	if err != nil {
		internalError(c, err, "failed to save settings")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": s})
}
