package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/logging"
	"github.com/gsarma/folio/internal/newsletter"
)

// SendNewsletter delivers one newsletter to the given recipients and reports
// the outcome per address.
func (h *Handler) SendNewsletter(c *gin.Context) {
	var req newsletter.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "subject, content and a recipients array are required")
		return
	}

	result, err := h.newsletter.Send(c.Request.Context(), req)
	switch {
	case errors.Is(err, newsletter.ErrInvalidRequest):
		fail(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("newsletter dispatch failed")
		fail(c, http.StatusInternalServerError, "failed to send newsletter")
		return
	}

	ok(c, http.StatusOK, gin.H{
		"message":         fmt.Sprintf("Newsletter sent to %d of %d recipients", result.SentCount, result.TotalRecipients),
		"sentCount":       result.SentCount,
		"failedCount":     result.FailedCount,
		"totalRecipients": result.TotalRecipients,
		"results":         result.Results,
	})
}

// NewsletterRecipients returns the current active-subscriber snapshot.
func (h *Handler) NewsletterRecipients(c *gin.Context) {
	emails, err := h.subscribers.ActiveEmails(c.Request.Context())
	if err != nil {
		internalError(c, err, "failed to list recipients")
		return
	}
	ok(c, http.StatusOK, gin.H{"recipients": emails, "count": len(emails)})
}
