package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"pathways-backend/internal/shared/auth"
	"pathways-backend/internal/shared/config"
	"pathways-backend/internal/shared/server/middleware"
)

type staticResolver struct{}

func (staticResolver) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	if token != "good" {
		return auth.Identity{}, auth.ErrInvalidToken
	}
	return auth.Identity{UserID: "u1"}, nil
}

type routesFunc func(rg *gin.RouterGroup)

func (f routesFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

type publicFunc func(rg *gin.RouterGroup)

func (f publicFunc) RegisterPublicRoutes(rg *gin.RouterGroup) { f(rg) }

func newTestRouter(perMin int) *gin.Engine {
	return NewRouter(RouterDeps{
		Config:   config.Config{RateLimitPerMin: perMin},
		Resolver: staticResolver{},
		Health: routesFunc(func(rg *gin.RouterGroup) {
			rg.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
		}),
		Public: []PublicRoutes{publicFunc(func(rg *gin.RouterGroup) {
			rg.POST("/auth/signin", func(c *gin.Context) { c.Status(http.StatusOK) })
		})},
		Handlers: []Routes{routesFunc(func(rg *gin.RouterGroup) {
			rg.GET("/skills", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user": middleware.UserIDFromContext(c)})
			})
			rg.POST("/careers/chat", func(c *gin.Context) { c.Status(http.StatusOK) })
		})},
	})
}

func serve(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouterPublicAndProtectedRoutes(t *testing.T) {
	r := newTestRouter(60)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/v1/auth/signin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/skills", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/api/v1/skills", "bad").Code)

	w := serve(r, http.MethodGet, "/api/v1/skills", "good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user":"u1"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouterServesMetrics(t *testing.T) {
	r := newTestRouter(60)
	serve(r, http.MethodGet, "/api/v1/health", "")

	w := serve(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# TYPE")
}

func TestRouterLLMRoutesUseTighterLimit(t *testing.T) {
	r := newTestRouter(12)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/v1/careers/chat", "good").Code)
	}
	w := serve(r, http.MethodPost, "/api/v1/careers/chat", "good")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"group":"LLM"`)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/skills", "good").Code)
}

func TestRouterZeroLimitDisablesEveryGroup(t *testing.T) {
	r := newTestRouter(0)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/api/v1/careers/chat", "good").Code)
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/v1/skills", "good").Code)
	}
}

func TestLLMPerMinute(t *testing.T) {
	assert.Equal(t, 0, llmPerMinute(0))
	assert.Equal(t, 0, llmPerMinute(-5))
	assert.Equal(t, 1, llmPerMinute(3))
	assert.Equal(t, 10, llmPerMinute(60))
}

func TestAddr(t *testing.T) {
	assert.Equal(t, ":8080", Addr(""))
	assert.Equal(t, ":9000", Addr("9000"))
	assert.Equal(t, ":9000", Addr(":9000"))
}
