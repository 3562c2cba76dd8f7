package respond

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/baas"
)

// Upstream writes the error for a failed BaaS-backed call. Auth, not-found and
// conflict statuses pass through; any other BaaS status becomes 502.
func Upstream(c *gin.Context, err error, message string) {
	if errors.Is(err, baas.ErrNotConfigured) {
		Error(c, http.StatusServiceUnavailable, "unavailable", "backend not configured", nil)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		Error(c, http.StatusGatewayTimeout, "upstream_timeout", message, nil)
		return
	}
	var be *baas.Error
	if !errors.As(err, &be) {
		Error(c, http.StatusInternalServerError, "internal_error", message, nil)
		return
	}
	details := map[string]string{"upstream_status": http.StatusText(be.Status)}
	if be.Code != "" {
		details["upstream_code"] = be.Code
	}
	switch be.Status {
	case http.StatusUnauthorized:
		Error(c, be.Status, "unauthorized", be.Message, nil)
	case http.StatusForbidden:
		Error(c, be.Status, "forbidden", be.Message, nil)
	case http.StatusNotFound:
		Error(c, be.Status, "not_found", message, nil)
	case http.StatusConflict:
		Error(c, be.Status, "conflict", be.Message, details)
	default:
		Error(c, http.StatusBadGateway, "upstream_error", message, details)
	}
}
