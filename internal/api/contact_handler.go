package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/logging"
	"github.com/gsarma/folio/internal/store"
	"github.com/gsarma/folio/internal/subscriber"
	"github.com/gsarma/folio/internal/validation"
)

type contactRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=254"`
	Phone     string `json:"phone" binding:"max=30"`
	Subject   string `json:"subject" binding:"max=200"`
	Message   string `json:"message" binding:"required,min=10,max=5000"`
	Subscribe bool   `json:"subscribe"`
}

// SubmitContact stores a public contact message, then notifies the site
// owner and the sender on a best-effort basis.
func (h *Handler) SubmitContact(c *gin.Context) {
	var body contactRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()
	addr := validation.NormalizeEmail(body.Email)

	msg, err := h.queries.CreateContactMessage(ctx, store.CreateContactMessageParams{
		Name:    body.Name,
		Email:   addr,
		Phone:   pgtype.Text{String: body.Phone, Valid: body.Phone != ""},
		Subject: body.Subject,
		Message: body.Message,
	})
	if err != nil {
		internalError(c, err, "failed to save message")
		return
	}

	if body.Subscribe {
		if _, _, err := h.subscribers.Create(ctx, addr); err != nil && !errors.Is(err, subscriber.ErrAlreadySubscribed) {
			logging.Ctx(ctx).Warn().Err(err).Msg("contact subscribe failed")
		}
	}

	siteName, inbox := h.opts.SiteName, h.opts.ContactInbox
	if s, err := h.settings(ctx); err == nil {
		if s.SiteName != "" {
			siteName = s.SiteName
		}
		if s.ContactEmail != "" {
			inbox = s.ContactEmail
		}
	}
	vars := map[string]any{
		"SiteName": siteName,
		"Name":     body.Name,
		"Email":    addr,
		"Phone":    body.Phone,
		"Subject":  body.Subject,
		"Message":  body.Message,
	}
	h.sendTemplate(ctx, email.TemplateContactNotification, inbox, vars)
	if h.opts.ContactConfirmation {
		h.sendTemplate(ctx, email.TemplateContactConfirmation, addr, vars)
	}

	ok(c, http.StatusCreated, gin.H{"message": "Thanks for your message", "id": msg.ID})
}

func (h *Handler) ListContactMessages(c *gin.Context) {
	msgs, err := h.queries.ListContactMessages(c.Request.Context(), c.Query("unread") == "true")
	if err != nil {
		internalError(c, err, "failed to list messages")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": msgs})
}

func (h *Handler) GetContactMessage(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	msg, err := h.queries.GetContactMessage(c.Request.Context(), id)
	if err != nil {
		storeError(c, err, "message")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": msg})
}

type markReadRequest struct {
	Read *bool `json:"read" binding:"required"`
}

func (h *Handler) MarkContactMessage(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body markReadRequest
	if !bindJSON(c, &body) {
		return
	}
	msg, err := h.queries.SetContactMessageRead(c.Request.Context(), store.SetContactMessageReadParams{ID: id, Read: *body.Read})
	if err != nil {
		storeError(c, err, "message")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": msg})
}

func (h *Handler) DeleteContactMessage(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	n, err := h.queries.DeleteContactMessage(c.Request.Context(), id)
	deleted(c, n, err, "message")
}
