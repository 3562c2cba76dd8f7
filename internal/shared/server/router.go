package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/shared/auth"
	"pathways-backend/internal/shared/config"
	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/server/middleware"
)

// Routes is a feature handler mounted behind the auth middleware.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRoutes is a feature handler with routes that run without a session.
type PublicRoutes interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything NewRouter mounts.
type RouterDeps struct {
	Config   config.Config
	Resolver auth.Resolver
	Health   Routes
	Public   []PublicRoutes
	Handlers []Routes
}

// llmRoutes are throttled with the LLM rate-limit group.
var llmRoutes = map[string]bool{
	"/api/v1/careers/recommendations": true,
	"/api/v1/careers/skill-gap":       true,
	"/api/v1/careers/chat":            true,
	"/api/v1/leadership/calculate":    true,
	"/api/v1/mentors/matches":         true,
}

// RateLimitGroup returns the rate-limit group of the matched route.
func RateLimitGroup(c *gin.Context) string {
	if llmRoutes[c.FullPath()] {
		return middleware.RateLimitLLM
	}
	return middleware.RateLimitDefault
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	limiter := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			middleware.RateLimitDefault: middleware.PerMinute(deps.Config.RateLimitPerMin),
			middleware.RateLimitLLM:     middleware.PerMinute(llmPerMinute(deps.Config.RateLimitPerMin)),
		},
		GroupFor: RateLimitGroup,
	})

	api := r.Group("/api/v1")
	if deps.Health != nil {
		deps.Health.RegisterRoutes(api)
	}
	public := api.Group("", limiter)
	for _, h := range deps.Public {
		h.RegisterPublicRoutes(public)
	}

	protected := api.Group("", middleware.Auth(deps.Resolver), limiter)
	for _, h := range deps.Handlers {
		h.RegisterRoutes(protected)
	}
	return r
}

// llmPerMinute is a sixth of the default budget. A disabled default disables
// the LLM group too.
func llmPerMinute(perMin int) int {
	if perMin <= 0 {
		return 0
	}
	n := perMin / 6
	if n < 1 {
		n = 1
	}
	return n
}

// Addr normalizes the listen address.
func Addr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
