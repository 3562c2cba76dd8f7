package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitLLMGroupStricterThanDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/careers/chat" {
			return RateLimitLLM
		}
		return RateLimitDefault
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			RateLimitDefault: {Rate: 5, Burst: 10},
			RateLimitLLM:     {Rate: 1, Burst: 2},
		},
	}))

	r.GET("/api/v1/skills", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/api/v1/careers/chat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("default request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/careers/chat", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("llm request %d expected 200, got %d", i+1, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/careers/chat", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("llm request 3 expected 429, got %d", resp.Code)
	}
}

func TestRateLimit429IncludesRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			return "DEFAULT"
		},
		Limiter: limiter,
		Rules: map[string]RateLimitRule{
			"DEFAULT": {Rate: 1, Burst: 1},
		},
	}))
	r.GET("/api/v1/limited", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp1 := httptest.NewRecorder()
	r.ServeHTTP(resp1, req1)
	if resp1.Code != http.StatusOK {
		t.Fatalf("expected first request 200, got %d", resp1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/limited", nil)
	resp2 := httptest.NewRecorder()
	r.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp2.Code)
	}
	if resp2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	var payload struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp2.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error.Code != "rate_limited" {
		t.Fatalf("expected code=rate_limited, got %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details["retry_after_ms"]; !ok {
		t.Fatalf("expected retry_after_ms in details")
	}
}

func TestPerMinute(t *testing.T) {
	rule := PerMinute(60)
	if rule.Rate != 1 || rule.Burst != 60 {
		t.Fatalf("unexpected rule %+v", rule)
	}
	if PerMinute(0) != (RateLimitRule{}) {
		t.Fatalf("expected disabled rule for 0")
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := PerMinute(1)

	if ok, _ := limiter.Allow("user:a|LLM", rule); !ok {
		t.Fatalf("expected first call allowed")
	}
	ok, wait := limiter.Allow("user:a|LLM", rule)
	if ok {
		t.Fatalf("expected second call limited")
	}
	if wait <= 0 || wait > time.Minute {
		t.Fatalf("unexpected wait %v", wait)
	}
	if ok, _ := limiter.Allow("user:b|LLM", rule); !ok {
		t.Fatalf("expected other principal unaffected")
	}

	now = now.Add(2 * time.Minute)
	if ok, _ := limiter.Allow("user:a|LLM", rule); !ok {
		t.Fatalf("expected token after refill")
	}
}

func TestRateLimiterDropsIdleEntries(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	limiter.Allow("user:a|DEFAULT", PerMinute(10))

	now = now.Add(limiterIdleTTL + limiterSweepEvery)
	limiter.Allow("user:b|DEFAULT", PerMinute(10))

	if _, ok := limiter.entries["user:a|DEFAULT"]; ok {
		t.Fatalf("expected idle entry swept")
	}
	if len(limiter.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(limiter.entries))
	}
}
