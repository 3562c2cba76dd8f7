package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/shared/server/respond"
	"pathways-backend/internal/shared/storage/db"
)

// Report is the health payload.
type Report struct {
	OK            bool              `json:"ok"`
	Checks        map[string]string `json:"checks"`
	SchemaVersion int64             `json:"schema_version,omitempty"`
}

// Service reports the state of the API's dependencies.
type Service struct {
	DB          *sql.DB
	Tables      string
	LLMProvider string
	PingTimeout time.Duration
}

// NewService constructs a health service. tables names the BaaS backend
// ("baas" or "memory"); provider names the LLM provider.
func NewService(database *sql.DB, tables, provider string) *Service {
	return &Service{DB: database, Tables: tables, LLMProvider: provider, PingTimeout: 2 * time.Second}
}

// Status checks the database when one is configured. Only a failing
// database marks the service unhealthy.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, Checks: map[string]string{
		"tables": s.Tables,
		"llm":    s.LLMProvider,
	}}
	if s.DB == nil {
		r.Checks["database"] = "disabled"
		return r
	}
	if err := db.Ping(ctx, s.DB, s.PingTimeout); err != nil {
		r.OK = false
		r.Checks["database"] = "down"
		return r
	}
	r.Checks["database"] = "ok"
	if v, err := db.SchemaVersion(ctx, s.DB); err == nil {
		r.SchemaVersion = v
	}
	return r
}

// RegisterRoutes attaches GET /health.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		report := s.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
}
