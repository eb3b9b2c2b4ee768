package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/logging"
	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/oauth"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/subscriber"
	"github.com/gsarma/folio/internal/upload"
	"github.com/gsarma/folio/internal/validation"
)

// NewsletterSender is the dispatcher as seen by the HTTP layer.
type NewsletterSender interface {
	Send(ctx context.Context, req newsletter.Request) (*newsletter.Result, error)
}

// Uploader is the upload relay as seen by the HTTP layer.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, filename string, src io.Reader) (*upload.Result, error)
}

// Options are the request-independent settings handlers need.
type Options struct {
	BaseURL        string
	SiteName       string
	MailFrom       string
	ContactInbox   string
	SecureCookies  bool
	UploadMaxBytes int64

	// ContactConfirmation acknowledges contact form submissions to the
	// address the sender typed in.
	ContactConfirmation bool
}

type Handler struct {
	queries     store.Querier
	subscribers *subscriber.Service
	newsletter  NewsletterSender
	mailer      email.Provider
	uploads     Uploader
	auth        *auth.Service
	google      oauth.Provider
	checks      []HealthCheck
	opts        Options
}

// Deps wires a Handler. Mailer, Uploads and Google may be nil.
type Deps struct {
	Queries    store.Querier
	Newsletter NewsletterSender
	Mailer     email.Provider
	Uploads    Uploader
	Auth       *auth.Service
	Google     oauth.Provider
	Checks     []HealthCheck
	Options    Options
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		queries:     d.Queries,
		subscribers: subscriber.NewService(d.Queries),
		newsletter:  d.Newsletter,
		mailer:      d.Mailer,
		uploads:     d.Uploads,
		auth:        d.Auth,
		google:      d.Google,
		checks:      d.Checks,
		opts:        d.Options,
	}
}

func ok(c *gin.Context, status int, payload gin.H) {
	if payload == nil {
		payload = gin.H{}
	}
	payload["success"] = true
	c.JSON(status, payload)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func internalLog(c *gin.Context, err error) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg("request failed")
}

// internalError logs err and answers with a generic 500.
func internalError(c *gin.Context, err error, message string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("route", c.FullPath()).Msg(message)
	fail(c, http.StatusInternalServerError, message)
}

// bindJSON binds the body into dst and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, http.StatusBadRequest, validation.Message(err))
		return false
	}
	return true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// storeError maps store failures onto 404/409/500.
func storeError(c *gin.Context, err error, what string) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		fail(c, http.StatusNotFound, what+" not found")
	case store.IsUniqueViolation(err):
		fail(c, http.StatusConflict, what+" with this slug already exists")
	default:
		internalError(c, err, "failed to save "+what)
	}
}

// deleted answers a delete by row count.
func deleted(c *gin.Context, n int64, err error, what string) {
	if err != nil {
		internalError(c, err, "failed to delete "+what)
		return
	}
	if n == 0 {
		fail(c, http.StatusNotFound, what+" not found")
		return
	}
	ok(c, http.StatusOK, gin.H{"message": what + " deleted"})
}
