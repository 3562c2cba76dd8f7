package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/shared/telemetry"
)

// Body is the payload of every error response.
type Body struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope wraps Body as {"error": {...}}.
type Envelope struct {
	Error Body `json:"error"`
}

// Error logs the failure and aborts the request with the standard error body.
// Client errors log at warn level; server and upstream errors at error level.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"method":     c.Request.Method,
		"route":      c.FullPath(),
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, Envelope{Error: Body{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// Validation writes a 400 validation_error.
func Validation(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "validation_error", message, nil)
}
