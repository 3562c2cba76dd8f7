package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request and records request metrics.
// Handlers may add context with c.Set for the keys "mentorshipId" and "llmPurpose".
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		metrics.ObserveHTTPRequest(c.Request.Method, route, status, latency)

		userID, _ := c.Get(userIDKey)
		mentorshipID, _ := c.Get("mentorshipId")
		purpose, _ := c.Get("llmPurpose")

		telemetry.Info("request.complete", map[string]any{
			"request_id":    RequestIDFromContext(c),
			"method":        c.Request.Method,
			"path":          c.Request.URL.Path,
			"route":         route,
			"status":        status,
			"duration_ms":   float64(latency.Microseconds()) / 1000.0,
			"user_id":       userID,
			"mentorship_id": mentorshipID,
			"llm_purpose":   purpose,
			"client_ip":     c.ClientIP(),
			"user_agent":    c.Request.UserAgent(),
		})
	}
}
