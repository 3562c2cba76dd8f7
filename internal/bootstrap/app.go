package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/achievements"
	authapi "pathways-backend/internal/auth"
	"pathways-backend/internal/baas"
	"pathways-backend/internal/careers"
	"pathways-backend/internal/leadership"
	"pathways-backend/internal/llm"
	"pathways-backend/internal/llm/gemini"
	"pathways-backend/internal/llm/openai"
	"pathways-backend/internal/mentorships"
	"pathways-backend/internal/profiles"
	"pathways-backend/internal/services/health"
	"pathways-backend/internal/shared/auth"
	"pathways-backend/internal/shared/config"
	"pathways-backend/internal/shared/server"
	"pathways-backend/internal/shared/storage/db"
	"pathways-backend/internal/shared/telemetry"
	"pathways-backend/internal/skills"
	"pathways-backend/internal/wellbeing"
)

// App holds the wired dependencies of the API process.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	BaaS     *baas.Client
	Tables   baas.Tables
	Resolver auth.Resolver
	LLM      llm.Client

	Profiles     *profiles.Service
	Skills       *skills.Service
	Wellbeing    *wellbeing.Service
	Achievements *achievements.Service
	Leadership   *leadership.Service
	Careers      *careers.Service
	Mentorships  *mentorships.Service
	Auth         *authapi.Service
}

// Build wires configuration into services, handlers and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	app := &App{Config: cfg}

	if err := buildBaaS(app); err != nil {
		return nil, err
	}
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = sqlDB

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.LLM = llmClient

	buildServices(app)
	app.Router = server.NewRouter(routerDeps(app))
	return app, nil
}

// buildBaaS connects the hosted backend, or an in-memory table store in
// dev-like environments without BAAS_URL.
func buildBaaS(app *App) error {
	cfg := app.Config
	if strings.TrimSpace(cfg.BaaSURL) == "" {
		if !cfg.IsDevLike() {
			return fmt.Errorf("BAAS_URL is required in %s", cfg.Env)
		}
		telemetry.Warn("bootstrap.baas_memory", map[string]any{"reason": "BAAS_URL empty"})
		app.Tables = baas.NewMemoryTables(nil)
		if cfg.BaaSJWTSecret == "" {
			telemetry.Warn("bootstrap.auth_disabled", map[string]any{"reason": "BAAS_JWT_SECRET empty"})
			return nil
		}
		app.Resolver = auth.LocalResolver{Secret: cfg.BaaSJWTSecret}
		return nil
	}

	client, err := baas.NewClient(cfg.BaaSURL, cfg.BaaSAnonKey, cfg.BaaSServiceKey, 0)
	if err != nil {
		return err
	}
	app.BaaS = client
	app.Tables = client
	if cfg.BaaSJWTSecret != "" {
		app.Resolver = auth.LocalResolver{Secret: cfg.BaaSJWTSecret}
	} else {
		app.Resolver = auth.NewRemoteResolver(client, cfg.AuthCacheSize, cfg.AuthCacheTTL)
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_unavailable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_migrate_failed", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "none":
		return llm.PlaceholderClient{}, nil
	case "gemini":
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			return placeholderOr(cfg, err)
		}
		return llm.Instrument("gemini", client), nil
	default:
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return placeholderOr(cfg, err)
		}
		return llm.Instrument("openai", client), nil
	}
}

// placeholderOr tolerates a missing LLM key outside production.
func placeholderOr(cfg config.Config, err error) (llm.Client, error) {
	if cfg.Env == "production" {
		return nil, err
	}
	telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"provider": cfg.LLMProvider, "error": err.Error()})
	return llm.PlaceholderClient{}, nil
}

func buildServices(app *App) {
	cfg := app.Config
	temperature := llm.Temperature(cfg.LLMTemperature)

	app.Profiles = profiles.NewService(app.Tables)
	app.Skills = skills.NewService(app.Tables)
	app.Wellbeing = wellbeing.NewService(app.Tables)
	app.Achievements = achievements.NewService(app.Tables)
	loader := &profiles.Loader{
		Profiles:     app.Profiles,
		Skills:       app.Skills,
		Achievements: app.Achievements,
		Wellbeing:    app.Wellbeing,
	}

	var repo leadership.Repo = &leadership.TablesRepo{Tables: app.Tables}
	if app.DB != nil {
		repo = &leadership.PGRepo{DB: app.DB}
	}
	app.Leadership = &leadership.Service{
		Repo:        repo,
		Loader:      loader,
		LLM:         app.LLM,
		Model:       cfg.LLMModel,
		Temperature: temperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}
	app.Careers = &careers.Service{
		Loader:      loader,
		LLM:         app.LLM,
		Temperature: temperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}
	app.Mentorships = &mentorships.Service{
		Tables:      app.Tables,
		Directory:   app.Profiles,
		Loader:      loader,
		LLM:         app.LLM,
		Temperature: temperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}

	authSvc := &authapi.Service{Profiles: app.Profiles}
	if app.BaaS != nil {
		authSvc.Provider = app.BaaS
	}
	if cache, ok := app.Resolver.(authapi.TokenCache); ok {
		authSvc.Tokens = cache
	}
	app.Auth = authSvc
}

func routerDeps(app *App) server.RouterDeps {
	tables := "baas"
	if app.BaaS == nil {
		tables = "memory"
	}
	authHandler := authapi.NewHandler(app.Auth)
	return server.RouterDeps{
		Config:   app.Config,
		Resolver: app.Resolver,
		Health:   health.NewService(app.DB, tables, app.Config.LLMProvider),
		Public:   []server.PublicRoutes{authHandler},
		Handlers: []server.Routes{
			authHandler,
			profiles.NewHandler(app.Profiles),
			skills.NewHandler(app.Skills),
			wellbeing.NewHandler(app.Wellbeing),
			achievements.NewHandler(app.Achievements),
			leadership.NewHandler(app.Leadership),
			careers.NewHandler(app.Careers),
			mentorships.NewHandler(app.Mentorships, app.Config.ChatPollInterval),
		},
	}
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
