package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncLeadershipNormalized(t *testing.T) {
	before := testutil.ToFloat64(leadershipNormalizedTotal.WithLabelValues("stored"))
	IncLeadershipNormalized("stored")
	IncLeadershipNormalized("stored")
	after := testutil.ToFloat64(leadershipNormalizedTotal.WithLabelValues("stored"))
	if after-before != 2 {
		t.Fatalf("expected +2, got %v", after-before)
	}
}

func TestObserveHTTPRequestDefaultsRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTPRequest("GET", "", http.StatusNotFound, 3*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 1 {
		t.Fatalf("expected +1, got %v", after-before)
	}
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ObserveLLMCall("openai", "career_paths", "ok", 120*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "pathways_llm_calls_total") {
		t.Fatalf("expected llm counter in output:\n%s", body)
	}
}
