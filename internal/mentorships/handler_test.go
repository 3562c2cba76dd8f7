package mentorships

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	NewHandler(svc, 5*time.Millisecond).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMentorshipLifecycleEndpoints(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{})
	mentee := newTestRouter(svc, "mentee")
	mentor := newTestRouter(svc, "m1")

	w := doJSON(mentee, http.MethodPost, "/api/v1/mentorships", `{"mentor_id":"m1","focus_area":"Yard planning"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created Mentorship
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(mentee, http.MethodPost, "/api/v1/mentorships", `{"mentor_id":"m1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(mentee, http.MethodPatch, "/api/v1/mentorships/"+created.ID, `{"status":"active"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(mentor, http.MethodPatch, "/api/v1/mentorships/"+created.ID, `{"status":"active"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"active"`)

	w = doJSON(mentor, http.MethodGet, "/api/v1/mentorships", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"mentor"`)

	w = doJSON(mentee, http.MethodPost, "/api/v1/mentorships/"+created.ID+"/messages", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(mentee, http.MethodPost, "/api/v1/mentorships/"+created.ID+"/messages", `{"content":"Hi!"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(mentor, http.MethodGet, "/api/v1/mentorships/"+created.ID+"/messages?since=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(mentor, http.MethodGet, "/api/v1/mentorships/"+created.ID+"/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"content":"Hi!"`)

	w = doJSON(newTestRouter(svc, "peer"), http.MethodGet, "/api/v1/mentorships/"+created.ID+"/messages", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMatchesEndpointLLMUnavailable(t *testing.T) {
	svc, _ := newTestService(t, nil)
	w := doJSON(newTestRouter(svc, "mentee"), http.MethodGet, "/api/v1/mentors/matches", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), `"llm_unavailable"`)
}

func TestStreamSendsBacklogAndNewMessages(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{})
	bg := context.Background()
	m, err := svc.Request(bg, "mentee", NewMentorship{MentorID: "m1"})
	require.NoError(t, err)
	_, err = svc.SendMessage(bg, "mentee", m.ID, "first message")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(bg)
	defer cancel()
	go func() {
		time.Sleep(30 * time.Millisecond)
		_, _ = svc.SendMessage(bg, "m1", m.ID, "reply from mentor")
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mentorships/"+m.ID+"/messages/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	newTestRouter(svc, "m1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event:message")
	assert.Contains(t, body, "first message")
	assert.Contains(t, body, "reply from mentor")
	assert.Less(t, strings.Index(body, "first message"), strings.Index(body, "reply from mentor"))
}

func TestStreamRejectsNonParticipant(t *testing.T) {
	svc, _ := newTestService(t, &stubLLM{})
	m, err := svc.Request(context.Background(), "mentee", NewMentorship{MentorID: "m1"})
	require.NoError(t, err)

	w := doJSON(newTestRouter(svc, "peer"), http.MethodGet, "/api/v1/mentorships/"+m.ID+"/messages/stream", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
