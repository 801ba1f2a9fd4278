package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	pkgAuth "github.com/polkiloo/marketplace/internal/pkg/auth"
	"github.com/polkiloo/marketplace/internal/server/http/dto"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	authCookieName   = "marketplace_token"
	bearerPrefix     = "bearer "
)

// TokenParser resolves a user identifier from an auth token.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired rejects requests without a valid bearer token or auth cookie and
// stores the caller's id under UserIDContextKey.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			unauthorized(c, "authentication required")
			return
		}

		userID, err := parser.ParseToken(token)
		switch {
		case errors.Is(err, pkgAuth.ErrInvalidToken):
			unauthorized(c, "invalid or expired token")
			return
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error", Code: "INTERNAL"})
			return
		}

		trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("enduser.id", userID))
		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="marketplace"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: msg, Code: "UNAUTHORIZED"})
}

// extractToken prefers the Authorization header over the cookie.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie hands the token back both as an HttpOnly session cookie and in
// the Authorization response header. The cookie is marked Secure behind TLS.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", isSecure(c), true)
	c.Header("Authorization", "Bearer "+token)
}

func isSecure(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
