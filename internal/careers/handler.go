package careers

import (
	"errors"
	"net/http"

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
	rg.POST("/careers/recommendations", h.recommend)
	rg.POST("/careers/skill-gap", h.skillGap)
	rg.POST("/careers/chat", h.chat)
}

func (h *Handler) recommend(c *gin.Context) {
	c.Set("llmPurpose", llm.PromptCareerPaths)
	out, err := h.Svc.Recommend(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		h.fail(c, err, "failed to recommend career paths")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) skillGap(c *gin.Context) {
	c.Set("llmPurpose", llm.PromptSkillGap)
	var body struct {
		TargetRole string `json:"target_role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	out, err := h.Svc.SkillGap(c.Request.Context(), middleware.UserIDFromContext(c), body.TargetRole)
	if err != nil {
		h.fail(c, err, "failed to analyze skill gap")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) chat(c *gin.Context) {
	c.Set("llmPurpose", llm.PromptCareerChat)
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	out, err := h.Svc.Chat(c.Request.Context(), middleware.UserIDFromContext(c), req)
	if err != nil {
		h.fail(c, err, "failed to answer")
		return
	}
	respond.OK(c, out)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.Validation(c, err.Error())
	case errors.Is(err, ErrLLMUnavailable):
		respond.Error(c, http.StatusBadGateway, "llm_unavailable", "career assistant is unavailable right now", nil)
	default:
		respond.Upstream(c, err, message)
	}
}
