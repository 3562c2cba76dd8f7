package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pathways"

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	httpRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"route"})

	llmCallsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_calls_total",
		Help:      "LLM calls by provider, purpose and outcome.",
	}, []string{"provider", "purpose", "outcome"})

	llmCallDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_call_duration_ms",
		Help:      "LLM call duration in milliseconds.",
		Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000},
	}, []string{"provider"})

	llmJSONFallbackTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_json_decode_total",
		Help:      "LLM JSON decodes by method (strict, fenced, repaired, fallback).",
	}, []string{"method"})

	leadershipNormalizedTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leadership_normalized_total",
		Help:      "Leadership payloads normalized by detected shape.",
	}, []string{"shape"})

	leadershipCalculatedTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leadership_calculated_total",
		Help:      "Leadership assessments calculated and stored.",
	})

	chatPollsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_polls_total",
		Help:      "Mentorship chat poll ticks by outcome.",
	}, []string{"outcome"})
)

// ObserveHTTPRequest records one completed request.
func ObserveHTTPRequest(method, route string, status int, latency time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(durationMs(latency))
}

// ObserveLLMCall records one LLM call. outcome is "ok" or "error".
func ObserveLLMCall(provider, purpose, outcome string, latency time.Duration) {
	llmCallsTotal.WithLabelValues(provider, purpose, outcome).Inc()
	llmCallDuration.WithLabelValues(provider).Observe(durationMs(latency))
}

// IncLLMJSONDecode counts how an LLM response was decoded.
func IncLLMJSONDecode(method string) {
	llmJSONFallbackTotal.WithLabelValues(method).Inc()
}

// IncLeadershipNormalized counts a normalization by detected shape.
func IncLeadershipNormalized(shape string) {
	leadershipNormalizedTotal.WithLabelValues(shape).Inc()
}

// IncLeadershipCalculated counts a stored calculation.
func IncLeadershipCalculated() {
	leadershipCalculatedTotal.Inc()
}

// IncChatPoll counts a chat poll tick.
func IncChatPoll(outcome string) {
	chatPollsTotal.WithLabelValues(outcome).Inc()
}

// Registry exposes the registry backing all collectors.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}

func durationMs(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return float64(d.Microseconds()) / 1000.0
}
