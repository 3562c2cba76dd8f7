package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"pathways-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	RateLimitDefault = "DEFAULT"
	// RateLimitLLM covers routes that call the LLM.
	RateLimitLLM = "LLM"
)

const (
	limiterIdleTTL      = 15 * time.Minute
	limiterSweepEvery   = 5 * time.Minute
	defaultRetryAfterMs = 1000
)

// RateLimitRule refills Rate tokens per second up to Burst. A zero rule
// disables limiting.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

func (r RateLimitRule) disabled() bool { return r.Rate <= 0 || r.Burst <= 0 }

// PerMinute returns a rule allowing n requests per minute with a burst of n.
func PerMinute(n int) RateLimitRule {
	if n <= 0 {
		return RateLimitRule{}
	}
	return RateLimitRule{Rate: float64(n) / 60.0, Burst: n}
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter keeps one token bucket per principal and group. Buckets idle
// for longer than limiterIdleTTL are dropped.
type RateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	now       func() time.Time
	lastSweep time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		entries:   make(map[string]*limiterEntry),
		now:       now,
		lastSweep: now(),
	}
}

// Allow takes a token for key. When none is available it reports how long
// until one is.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || rule.disabled() {
		return true, 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(now)

	entry, ok := l.entries[key]
	if !ok {
		entry = &limiterEntry{lim: rate.NewLimiter(rate.Limit(rule.Rate), rule.Burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	res := entry.lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < limiterSweepEvery {
		return
	}
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
	l.lastSweep = now
}

// RateLimit throttles each user (or client IP) per route group.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = RateLimitDefault
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := "user:" + UserIDFromContext(c)
		if principal == "user:" {
			principal = "ip:" + c.ClientIP()
		}
		allowed, wait := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(wait / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = defaultRetryAfterMs
		}
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryAfterMs)/1000))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"retry_after_ms": retryAfterMs,
			"group":          group,
		})
	}
}
