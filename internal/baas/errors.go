package baas

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotConfigured = errors.New("baas not configured")
	ErrNotFound      = errors.New("not found")
)

// Error is a non-2xx response from the BaaS.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("baas http status %d: %s (%s)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("baas http status %d: %s", e.Status, e.Message)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StatusOf returns the BaaS status carried by err, or 0.
func StatusOf(err error) int {
	var be *Error
	if errors.As(err, &be) {
		return be.Status
	}
	return 0
}

// parseError builds an *Error from an auth or PostgREST error body.
func parseError(status int, body []byte) *Error {
	out := &Error{Status: status}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		out.Message = strings.TrimSpace(string(body))
		if out.Message == "" {
			out.Message = http.StatusText(status)
		}
		return out
	}
	out.Code = firstString(payload, "error_code", "code", "error")
	out.Message = firstString(payload, "message", "msg", "error_description", "error")
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	if out.Code == out.Message {
		out.Code = ""
	}
	return out
}

func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := payload[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return fmt.Sprintf("%d", int(v))
		}
	}
	return ""
}
