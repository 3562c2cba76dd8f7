package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/shared/server/respond"
	"pathways-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 internal error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			}
			if userID := UserIDFromContext(c); userID != "" {
				fields["user_id"] = userID
			}
			telemetry.Error("http.panic", fields)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "unexpected server error", nil)
		}()
		c.Next()
	}
}
