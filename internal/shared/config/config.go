package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port            string
	CORSAllowOrigin []string
	Env             string
	DatabaseURL     string

	BaaSURL        string
	BaaSAnonKey    string
	BaaSServiceKey string
	BaaSJWTSecret  string
	AuthCacheTTL   time.Duration
	AuthCacheSize  int

	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	LLMMaxTokens   int
	LLMTimeout     time.Duration
	OpenAIAPIKey   string
	GeminiAPIKey   string

	ChatPollInterval time.Duration
	RateLimitPerMin  int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	baasURL := strings.TrimRight(getEnv("BAAS_URL", ""), "/")

	if env == "production" && baasURL == "" {
		log.Printf("BAAS_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "8080"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:             env,
		DatabaseURL:     dbURL,

		BaaSURL:        baasURL,
		BaaSAnonKey:    getEnv("BAAS_ANON_KEY", ""),
		BaaSServiceKey: getEnv("BAAS_SERVICE_KEY", ""),
		BaaSJWTSecret:  getEnv("BAAS_JWT_SECRET", ""),
		AuthCacheTTL:   getDuration("AUTH_CACHE_TTL", time.Minute),
		AuthCacheSize:  getInt("AUTH_CACHE_SIZE", 1024),

		LLMProvider:    normalizeProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTemperature: float32(getFloat("LLM_TEMPERATURE", 0.7)),
		LLMMaxTokens:   getInt("LLM_MAX_TOKENS", 1500),
		LLMTimeout:     time.Duration(getInt("LLM_TIMEOUT_SECONDS", 60)) * time.Second,
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),

		ChatPollInterval: getDuration("CHAT_POLL_INTERVAL", 3*time.Second),
		RateLimitPerMin:  getInt("RATE_LIMIT_PER_MIN", 60),
	}
}

// IsDevLike reports whether env allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		log.Printf("config %s invalid float %q, using %v", key, raw, def)
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "none", "off", "disabled":
		return "none"
	default:
		return "openai"
	}
}
