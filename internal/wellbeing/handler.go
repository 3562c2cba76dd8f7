package wellbeing

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

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
	rg.GET("/wellbeing", h.list)
	rg.POST("/wellbeing", h.record)
}

func (h *Handler) list(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respond.Validation(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	entries, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Upstream(c, err, "failed to load wellbeing entries")
		return
	}
	respond.OK(c, gin.H{
		"entries": entries,
		"summary": Summarize(entries),
	})
}

func (h *Handler) record(c *gin.Context) {
	var in NewEntry
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	entry, err := h.Svc.Record(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Validation(c, err.Error())
			return
		}
		respond.Upstream(c, err, "failed to record wellbeing entry")
		return
	}
	respond.Created(c, entry)
}
