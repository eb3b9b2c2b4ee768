package auth

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxKey = "auth.claims"
	// CookieName holds the session token for browser clients.
	CookieName = "folio_session"
)

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// Middleware requires a valid bearer token or session cookie and sets the
// claims in context.
func Middleware(tokens *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			return
		}
		claims, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired session"})
			return
		}
		c.Set(ctxKey, claims)
		c.Next()
	}
}

// Optional attaches claims when a valid token is present and never rejects.
func Optional(tokens *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := tokenFromRequest(c); raw != "" {
			if claims, err := tokens.Validate(raw); err == nil {
				c.Set(ctxKey, claims)
			}
		}
		c.Next()
	}
}

// RequireRole must run after Middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := FromContext(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			return
		}
		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// FromContext retrieves the authenticated claims from the Gin context.
func FromContext(c *gin.Context) *Claims {
	v, _ := c.Get(ctxKey)
	claims, _ := v.(*Claims)
	return claims
}

// IsStaff reports whether the request carries an admin or editor session.
func IsStaff(c *gin.Context) bool {
	claims := FromContext(c)
	return claims != nil && (claims.Role == RoleAdmin || claims.Role == RoleEditor)
}

// SetSessionCookie stores token in an HTTP-only cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
