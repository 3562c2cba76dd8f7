package skills

import (
	"errors"
	"net/http"

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
	rg.GET("/skills", h.list)
	rg.POST("/skills", h.add)
	rg.DELETE("/skills/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	out, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Upstream(c, err, "failed to load skills")
		return
	}
	respond.OK(c, gin.H{"skills": out})
}

func (h *Handler) add(c *gin.Context) {
	var in NewSkill
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	skill, err := h.Svc.Add(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Validation(c, err.Error())
			return
		}
		respond.Upstream(c, err, "failed to add skill")
		return
	}
	respond.Created(c, skill)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Remove(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "skill not found", nil)
			return
		}
		respond.Upstream(c, err, "failed to remove skill")
		return
	}
	c.Status(http.StatusNoContent)
}
