package mentorships

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"pathways-backend/internal/llm"
	"pathways-backend/internal/shared/server/middleware"
	"pathways-backend/internal/shared/server/respond"
	"pathways-backend/internal/shared/telemetry"
)

const heartbeatInterval = 25 * time.Second

type Handler struct {
	Svc          *Service
	PollInterval time.Duration
}

func NewHandler(svc *Service, pollInterval time.Duration) *Handler {
	return &Handler{Svc: svc, PollInterval: pollInterval}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/mentors/matches", h.matches)
	rg.GET("/mentorships", h.list)
	rg.POST("/mentorships", h.request)
	rg.PATCH("/mentorships/:id", h.updateStatus)
	rg.GET("/mentorships/:id/messages", h.messages)
	rg.POST("/mentorships/:id/messages", h.send)
	rg.GET("/mentorships/:id/messages/stream", h.stream)
}

func (h *Handler) matches(c *gin.Context) {
	c.Set("llmPurpose", llm.PromptMentorMatch)
	out, err := h.Svc.Match(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to match mentors")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "failed to load mentorships")
		return
	}
	type item struct {
		Mentorship
		Role string `json:"role"`
	}
	out := make([]item, 0, len(list))
	for _, m := range list {
		out = append(out, item{Mentorship: m, Role: m.RoleOf(userID)})
	}
	respond.OK(c, gin.H{"mentorships": out})
}

func (h *Handler) request(c *gin.Context) {
	var in NewMentorship
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	m, err := h.Svc.Request(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		h.fail(c, err, "failed to request mentorship")
		return
	}
	c.Set("mentorshipId", m.ID)
	respond.Created(c, m)
}

func (h *Handler) updateStatus(c *gin.Context) {
	c.Set("mentorshipId", c.Param("id"))
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	m, err := h.Svc.UpdateStatus(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), body.Status)
	if err != nil {
		h.fail(c, err, "failed to update mentorship")
		return
	}
	respond.OK(c, m)
}

func (h *Handler) messages(c *gin.Context) {
	c.Set("mentorshipId", c.Param("id"))
	since, ok := parseSince(c, c.Query("since"))
	if !ok {
		return
	}
	out, err := h.Svc.Messages(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), since)
	if err != nil {
		h.fail(c, err, "failed to load messages")
		return
	}
	respond.OK(c, gin.H{"messages": out})
}

func (h *Handler) send(c *gin.Context) {
	c.Set("mentorshipId", c.Param("id"))
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	msg, err := h.Svc.SendMessage(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), body.Content)
	if err != nil {
		h.fail(c, err, "failed to send message")
		return
	}
	respond.Created(c, msg)
}

// stream sends the backlog after since (or Last-Event-ID) and then every new
// message as server-sent events until the client disconnects.
func (h *Handler) stream(c *gin.Context) {
	id := c.Param("id")
	c.Set("mentorshipId", id)
	raw := c.Query("since")
	if raw == "" {
		raw = c.GetHeader("Last-Event-ID")
	}
	since, ok := parseSince(c, raw)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	backlog, err := h.Svc.Messages(ctx, middleware.UserIDFromContext(c), id, since)
	if err != nil {
		h.fail(c, err, "failed to open message stream")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	cursor := since
	for _, m := range backlog {
		writeMessage(c, m)
		cursor = CursorOf(m)
	}
	c.Writer.Flush()

	updates := h.Svc.Watch(ctx, id, cursor, h.PollInterval)
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	telemetry.Info("mentorships.stream_opened", map[string]any{"mentorship_id": id})
	defer telemetry.Info("mentorships.stream_closed", map[string]any{"mentorship_id": id})

	for {
		select {
		case batch, ok := <-updates:
			if !ok {
				return
			}
			if batch.Err != nil {
				c.SSEvent("error", gin.H{"message": "failed to fetch messages"})
			}
			for _, m := range batch.Messages {
				writeMessage(c, m)
			}
			c.Writer.Flush()
		case <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC().Format(time.RFC3339)})
			c.Writer.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func writeMessage(c *gin.Context, m ChatMessage) {
	c.Render(-1, sse.Event{
		Id:    CursorOf(m).String(),
		Event: "message",
		Data:  m,
	})
}

func parseSince(c *gin.Context, raw string) (Cursor, bool) {
	cur, err := ParseCursor(raw)
	if err != nil {
		respond.Validation(c, "since must be an RFC3339 timestamp or a message event id")
		return Cursor{}, false
	}
	return cur, true
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Validation(c, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "mentorship not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrClosed):
		respond.Error(c, http.StatusConflict, "invalid_state", err.Error(), nil)
	case errors.Is(err, ErrLLMUnavailable):
		respond.Error(c, http.StatusBadGateway, "llm_unavailable", "mentor matching is unavailable right now", nil)
	default:
		respond.Upstream(c, err, message)
	}
}
