package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gsarma/folio/internal/email"
	"github.com/gsarma/folio/internal/newsletter"
	"github.com/gsarma/folio/internal/subscriber"
)

type emailRequest struct {
	Email string `json:"email" binding:"required,max=254"`
}

// subscriberError maps lifecycle errors onto HTTP statuses.
func subscriberError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, subscriber.ErrInvalidEmail):
		fail(c, http.StatusBadRequest, "invalid email address")
	case errors.Is(err, subscriber.ErrAlreadySubscribed):
		fail(c, http.StatusConflict, "this email is already subscribed")
	case errors.Is(err, subscriber.ErrNotFound):
		fail(c, http.StatusNotFound, "subscriber not found")
	default:
		internalError(c, err, "subscriber update failed")
	}
}

// Subscribe is the public sign-up. A previously unsubscribed address is
// reactivated and answered with 200 instead of 201.
func (h *Handler) Subscribe(c *gin.Context) {
	var body emailRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()
	sub, reactivated, err := h.subscribers.Create(ctx, body.Email)
	if err != nil {
		subscriberError(c, err)
		return
	}

	h.sendTemplate(ctx, email.TemplateWelcome, sub.Email, map[string]any{
		"SiteName":       h.siteName(c),
		"UnsubscribeURL": newsletter.UnsubscribeURL(h.opts.BaseURL, sub.Email),
	})

	if reactivated {
		ok(c, http.StatusOK, gin.H{"message": "Welcome back! Your subscription has been reactivated", "data": sub})
		return
	}
	ok(c, http.StatusCreated, gin.H{"message": "Thanks for subscribing", "data": sub})
}

func (h *Handler) siteName(c *gin.Context) string {
	if s, err := h.settings(c.Request.Context()); err == nil && s.SiteName != "" {
		return s.SiteName
	}
	return h.opts.SiteName
}

// DecodeUnsubscribeToken resolves a link token into the address it names so
// the unsubscribe page can pre-fill it.
func (h *Handler) DecodeUnsubscribeToken(c *gin.Context) {
	addr, err := newsletter.DecodeToken(c.Query("token"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid unsubscribe link")
		return
	}
	ok(c, http.StatusOK, gin.H{"email": addr})
}

// unsubscribeRequest carries either the address typed into the unsubscribe
// page or the token from a newsletter link.
type unsubscribeRequest struct {
	Email string `json:"email" binding:"max=254"`
	Token string `json:"token" binding:"max=512"`
}

// Unsubscribe deactivates the subscriber. Repeating it is harmless.
func (h *Handler) Unsubscribe(c *gin.Context) {
	var body unsubscribeRequest
	if !bindJSON(c, &body) {
		return
	}
	ctx := c.Request.Context()

	var (
		changed bool
		err     error
	)
	switch {
	case body.Email != "":
		_, changed, err = h.subscribers.Deactivate(ctx, body.Email)
	case body.Token != "":
		_, changed, err = h.subscribers.DeactivateToken(ctx, body.Token)
		if errors.Is(err, newsletter.ErrInvalidToken) {
			fail(c, http.StatusBadRequest, "invalid unsubscribe link")
			return
		}
	default:
		fail(c, http.StatusBadRequest, "email is required")
		return
	}
	if err != nil {
		subscriberError(c, err)
		return
	}
	if !changed {
		ok(c, http.StatusOK, gin.H{"message": "This email is already unsubscribed"})
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "You have been unsubscribed"})
}

func (h *Handler) ListSubscribers(c *gin.Context) {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, "active must be true or false")
			return
		}
		active = &v
	}
	subs, counts, err := h.subscribers.List(c.Request.Context(), active)
	if err != nil {
		internalError(c, err, "failed to list subscribers")
		return
	}
	ok(c, http.StatusOK, gin.H{"data": subs, "counts": counts})
}

// CreateSubscriber is the admin variant of Subscribe. It sends no welcome
// email.
func (h *Handler) CreateSubscriber(c *gin.Context) {
	var body emailRequest
	if !bindJSON(c, &body) {
		return
	}
	sub, reactivated, err := h.subscribers.Create(c.Request.Context(), body.Email)
	if err != nil {
		subscriberError(c, err)
		return
	}
	status := http.StatusCreated
	if reactivated {
		status = http.StatusOK
	}
	ok(c, status, gin.H{"data": sub})
}

type updateSubscriberRequest struct {
	Email  *string `json:"email" binding:"omitempty,max=254"`
	Active *bool   `json:"active"`
}

func (h *Handler) UpdateSubscriber(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var body updateSubscriberRequest
	if !bindJSON(c, &body) {
		return
	}
	sub, err := h.subscribers.Update(c.Request.Context(), id, subscriber.UpdateParams{
		Email:  body.Email,
		Active: body.Active,
	})
	if err != nil {
		subscriberError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"data": sub})
}

func (h *Handler) DeleteSubscriber(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.subscribers.Delete(c.Request.Context(), id); err != nil {
		subscriberError(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"message": "subscriber deleted"})
}
