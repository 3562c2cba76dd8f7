package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pathways-backend/internal/baas"
	"pathways-backend/internal/shared/server/middleware"
	"pathways-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the routes that run without a session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", h.signUp)
	rg.POST("/auth/signin", h.signIn)
	rg.POST("/auth/refresh", h.refresh)
	rg.POST("/auth/signout", h.signOut)
}

// RegisterRoutes attaches the routes behind the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/session", h.session)
}

func (h *Handler) signUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	session, err := h.Svc.SignUp(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "failed to sign up")
		return
	}
	respond.Created(c, session)
}

func (h *Handler) signIn(c *gin.Context) {
	var creds baas.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	session, err := h.Svc.SignIn(c.Request.Context(), creds)
	if err != nil {
		h.fail(c, err, "failed to sign in")
		return
	}
	respond.OK(c, session)
}

func (h *Handler) refresh(c *gin.Context) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	session, err := h.Svc.Refresh(c.Request.Context(), body.RefreshToken)
	if err != nil {
		h.fail(c, err, "failed to refresh session")
		return
	}
	respond.OK(c, session)
}

func (h *Handler) signOut(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}
	if err := h.Svc.SignOut(c.Request.Context(), token); err != nil {
		h.fail(c, err, "failed to sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) session(c *gin.Context) {
	respond.OK(c, gin.H{"user": gin.H{
		"id":    middleware.UserIDFromContext(c),
		"email": middleware.UserEmailFromContext(c),
		"name":  middleware.UserNameFromContext(c),
	}})
}

// fail maps BaaS auth rejections (400/422 bad credentials or weak
// passwords) to 400 and leaves the rest to the upstream mapping.
func (h *Handler) fail(c *gin.Context, err error, message string) {
	var be *baas.Error
	switch {
	case errors.Is(err, ErrValidation):
		respond.Validation(c, err.Error())
	case errors.As(err, &be) && (be.Status == http.StatusBadRequest || be.Status == http.StatusUnprocessableEntity):
		respond.Error(c, http.StatusBadRequest, "auth_failed", be.Message, gin.H{"upstream_code": be.Code})
	default:
		respond.Upstream(c, err, message)
	}
}
