package leadership

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/llm"
	"pathways-backend/internal/shared/server/middleware"
	"pathways-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leadership", h.latest)
	rg.GET("/leadership/history", h.history)
	rg.GET("/leadership/trend", h.trend)
	rg.POST("/leadership/calculate", h.calculate)
	rg.GET("/leadership/tiers", h.tiers)
}

// view pairs an assessment with its interpreted tier.
type view struct {
	*Assessment
	Tier Tier `json:"tier"`
}

func newView(a *Assessment) view {
	return view{Assessment: a, Tier: Interpret(a.OverallScore)}
}

func (h *Handler) latest(c *gin.Context) {
	a, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to load leadership assessment")
		return
	}
	respond.OK(c, newView(a))
}

func (h *Handler) history(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.Validation(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	list, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		h.fail(c, err, "failed to load leadership history")
		return
	}
	views := make([]view, 0, len(list))
	for i := range list {
		views = append(views, newView(&list[i]))
	}
	respond.OK(c, gin.H{"assessments": views})
}

func (h *Handler) trend(c *gin.Context) {
	report, err := h.Svc.Trend(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to load leadership trend")
		return
	}
	respond.OK(c, report)
}

func (h *Handler) calculate(c *gin.Context) {
	c.Set("llmPurpose", llm.PromptLeadership)
	a, err := h.Svc.Calculate(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to calculate leadership assessment")
		return
	}
	respond.Created(c, newView(a))
}

func (h *Handler) tiers(c *gin.Context) {
	raw := c.Query("score")
	if raw == "" {
		respond.OK(c, gin.H{"tiers": Tiers()})
		return
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		respond.Validation(c, "score must be a number")
		return
	}
	respond.OK(c, gin.H{
		"score": score,
		"label": ScoreLabel(score),
		"color": ScoreColor(score),
		"tier":  Interpret(score),
	})
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "no leadership assessment yet", nil)
	case errors.Is(err, ErrInvalidRecord):
		respond.Error(c, http.StatusUnprocessableEntity, "invalid_record", "stored leadership assessment is incomplete", nil)
	case errors.Is(err, ErrLLMUnavailable):
		respond.Error(c, http.StatusBadGateway, "llm_unavailable", "leadership prediction is unavailable right now", nil)
	default:
		respond.Upstream(c, err, message)
	}
}
