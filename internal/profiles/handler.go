package profiles

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
	rg.GET("/me", h.me)
	rg.PUT("/me", h.update)
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	profile, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Signed up but never saved a profile.
			respond.OK(c, Profile{
				ID:       userID,
				Email:    middleware.UserEmailFromContext(c),
				FullName: middleware.UserNameFromContext(c),
			})
			return
		}
		respond.Upstream(c, err, "failed to load profile")
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) update(c *gin.Context) {
	var upd Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	upd.UpdatedAt = nil
	profile, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), middleware.UserEmailFromContext(c), upd)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Validation(c, err.Error())
			return
		}
		respond.Upstream(c, err, "failed to update profile")
		return
	}
	respond.OK(c, profile)
}
