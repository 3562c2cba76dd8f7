package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/baas"
	"pathways-backend/internal/shared/auth"
	"pathways-backend/internal/shared/server/respond"
)

const (
	userIDKey      = "userId"
	userEmailKey   = "userEmail"
	userNameKey    = "userName"
	accessTokenKey = "accessToken"
)

// Auth requires a bearer access token, resolves it to an identity and stores
// the identity and token in the request context.
func Auth(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		token, ok := BearerToken(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		if resolver == nil {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "authentication not configured", nil)
			return
		}

		id, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			respond.Upstream(c, err, "failed to verify token")
			return
		}

		c.Set(userIDKey, id.UserID)
		if id.Email != "" {
			c.Set(userEmailKey, id.Email)
		}
		if id.Name != "" {
			c.Set(userNameKey, id.Name)
		}
		c.Set(accessTokenKey, token)
		c.Request = c.Request.WithContext(baas.WithAccessToken(c.Request.Context(), token))
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	return token, token != ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	return contextString(c, userEmailKey)
}

// UserNameFromContext fetches the user name set by the auth middleware.
func UserNameFromContext(c *gin.Context) string {
	return contextString(c, userNameKey)
}

// AccessTokenFromContext fetches the caller's access token.
func AccessTokenFromContext(c *gin.Context) string {
	return contextString(c, accessTokenKey)
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
