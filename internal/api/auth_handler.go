package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/gsarma/folio/internal/auth"
	"github.com/gsarma/folio/internal/logging"
	"github.com/gsarma/folio/internal/oauth"
	"github.com/gsarma/folio/internal/validation"
)

const (
	nonceCookie     = "folio_oauth_nonce"
	nonceMaxAge     = 600
	defaultRedirect = "/admin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,max=254"`
	Password string `json:"password" binding:"required,max=200"`
}

func (h *Handler) setSession(c *gin.Context, s *auth.Session) {
	auth.SetSessionCookie(c, s.Token, int(h.auth.Tokens().TTL().Seconds()), h.opts.SecureCookies)
}

func (h *Handler) Login(c *gin.Context) {
	var body loginRequest
	if !bindJSON(c, &body) {
		return
	}
	session, err := h.auth.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		internalError(c, err, "login failed")
		return
	}
	h.setSession(c, session)
	ok(c, http.StatusOK, gin.H{
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.CurrentUser(c.Request.Context(), auth.FromContext(c))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusUnauthorized, "account no longer exists")
			return
		}
		internalError(c, err, "failed to load user")
		return
	}
	ok(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) Logout(c *gin.Context) {
	auth.ClearSessionCookie(c, h.opts.SecureCookies)
	ok(c, http.StatusOK, gin.H{"message": "signed out"})
}

// GoogleLogin starts the Google sign-in flow.
func (h *Handler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		fail(c, http.StatusNotFound, "google sign-in is not configured")
		return
	}
	redirect := c.DefaultQuery("redirect", defaultRedirect)
	if !oauth.SafeRedirect(redirect) {
		fail(c, http.StatusBadRequest, "redirect must be a relative path")
		return
	}
	state, nonce, err := oauth.EncodeState(redirect)
	if err != nil {
		internalError(c, err, "failed to start sign-in")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(nonceCookie, nonce, nonceMaxAge, "/", "", h.opts.SecureCookies, true)
	c.Redirect(http.StatusFound, h.google.AuthURL(state))
}

// GoogleCallback completes sign-in for an existing account whose verified
// Google email matches.
func (h *Handler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		fail(c, http.StatusNotFound, "google sign-in is not configured")
		return
	}
	ctx := c.Request.Context()
	log := logging.Ctx(ctx)

	payload, err := oauth.DecodeState(c.Query("state"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid state")
		return
	}
	nonce, _ := c.Cookie(nonceCookie)
	c.SetCookie(nonceCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	if !payload.VerifyNonce(nonce) {
		fail(c, http.StatusBadRequest, "sign-in session expired, please try again")
		return
	}
	if !oauth.SafeRedirect(payload.Redirect) {
		fail(c, http.StatusBadRequest, "redirect must be a relative path")
		return
	}
	code := c.Query("code")
	if code == "" {
		fail(c, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.google.Exchange(ctx, code)
	if err != nil {
		log.Warn().Err(err).Msg("google code exchange failed")
		fail(c, http.StatusBadGateway, "google sign-in failed")
		return
	}
	info, err := h.google.UserInfo(ctx, token.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("google userinfo failed")
		fail(c, http.StatusBadGateway, "google sign-in failed")
		return
	}
	if !info.EmailVerified {
		fail(c, http.StatusForbidden, "google account email is not verified")
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, validation.NormalizeEmail(info.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			fail(c, http.StatusForbidden, "no account exists for this email")
			return
		}
		internalError(c, err, "failed to load user")
		return
	}
	session, err := h.auth.SessionFor(user)
	if err != nil {
		internalError(c, err, "failed to issue session")
		return
	}
	h.setSession(c, session)
	c.Redirect(http.StatusFound, payload.Redirect)
}
