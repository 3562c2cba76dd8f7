package achievements

import (
	"errors"

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
	rg.GET("/achievements", h.list)
	rg.POST("/achievements", h.add)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Upstream(c, err, "failed to load achievements")
		return
	}
	respond.OK(c, gin.H{"achievements": out})
}

func (h *Handler) add(c *gin.Context) {
	var in NewAchievement
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	out, err := h.Svc.Add(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Validation(c, err.Error())
			return
		}
		respond.Upstream(c, err, "failed to add achievement")
		return
	}
	respond.Created(c, out)
}
