package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/auth"
	"medgateway-backend/internal/shared/server/respond"
	"medgateway-backend/internal/shared/telemetry"
)

const (
	userIDKey     = "userId"
	userStatusKey = "userStatus"
)

// Authenticated verifies the bearer token and stores identity in context.
// Missing, malformed, or invalid credentials all yield a bare 404 so probes
// cannot discover which routes exist.
func Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(header, "Bearer") {
			respond.NotFound(c)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			respond.NotFound(c)
			return
		}

		claims, err := auth.Verify(token)
		if err != nil {
			telemetry.Error("auth.verify_failed", map[string]any{
				"request_id": RequestIDFromContext(c),
				"detail":     err.Error(),
			})
			respond.NotFound(c)
			return
		}

		c.Set(userIDKey, claims.Subject)
		c.Set(userStatusKey, claims.Status)
		c.Next()
	}
}

// Verified enforces that the authenticated account has completed email
// verification. Runs after Authenticated.
func Verified() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserStatusFromContext(c) != auth.StatusVerified {
			respond.Error(c, http.StatusUnauthorized,
				"Your account is not verified, please verify your account", nil)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserStatusFromContext fetches the account status set by the auth middleware.
func UserStatusFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userStatusKey)
	if status, ok := val.(string); ok {
		return status
	}
	return ""
}
