package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathways-backend/internal/llm"
	"pathways-backend/internal/shared/auth"
	"pathways-backend/internal/shared/config"
)

const testSecret = "bootstrap-secret"

func devConfig() config.Config {
	return config.Config{
		Env:              "dev",
		BaaSJWTSecret:    testSecret,
		LLMProvider:      "none",
		LLMModel:         "gpt-4o-mini",
		ChatPollInterval: time.Second,
		RateLimitPerMin:  600,
	}
}

func TestBuildDevUsesMemoryTables(t *testing.T) {
	app, err := Build(context.Background(), devConfig())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.BaaS)
	assert.Nil(t, app.DB)
	assert.IsType(t, auth.LocalResolver{}, app.Resolver)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)

	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tables":"memory"`)
}

func TestBuildRequiresBaaSOutsideDev(t *testing.T) {
	cfg := devConfig()
	cfg.Env = "production"
	_, err := Build(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildFallsBackToPlaceholderLLMInDev(t *testing.T) {
	cfg := devConfig()
	cfg.LLMProvider = "openai"
	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)
}

func TestSkillsRoundTripThroughRouter(t *testing.T) {
	app, err := Build(context.Background(), devConfig())
	require.NoError(t, err)

	token, err := auth.SignJWT(auth.Claims{Sub: "u1", Email: "ada@example.com"}, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/skills", strings.NewReader(`{"name":"Crane ops","category":"operations","proficiency":4}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Crane ops")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/leadership/calculate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
