package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medgateway-backend/internal/shared/telemetry"
)

// MessageBody is the error object every failure surfaces to callers.
type MessageBody struct {
	Message string `json:"message"`
}

// Error sends a {"message": ...} response and logs the internal detail.
// The detail never reaches the caller.
func Error(c *gin.Context, status int, message string, detail error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if detail != nil {
		fields["detail"] = detail.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, MessageBody{Message: message})
}

// NotFound sends a bare 404 with no body. Authentication failures use it so
// unauthenticated probes cannot tell protected routes from missing ones.
func NotFound(c *gin.Context) {
	telemetry.Error("http.error", map[string]any{
		"status":     http.StatusNotFound,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})
	c.AbortWithStatus(http.StatusNotFound)
}
