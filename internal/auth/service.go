package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"pathways-backend/internal/baas"
	"pathways-backend/internal/profiles"
	"pathways-backend/internal/shared/telemetry"
)

var ErrValidation = errors.New("validation error")

const minPasswordLen = 6

// Provider is the BaaS auth API.
type Provider interface {
	SignUp(ctx context.Context, creds baas.Credentials, metadata map[string]any) (baas.Session, error)
	SignIn(ctx context.Context, creds baas.Credentials) (baas.Session, error)
	Refresh(ctx context.Context, refreshToken string) (baas.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileCreator stores the profile of a new user.
type ProfileCreator interface {
	Create(ctx context.Context, p profiles.Profile) (profiles.Profile, error)
}

// TokenCache drops cached identities for revoked tokens.
type TokenCache interface {
	Forget(token string)
}

// SignUpRequest is the body of a sign-up call.
type SignUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
}

func (r *SignUpRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.FullName = strings.TrimSpace(r.FullName)
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(r.Password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if r.FullName == "" {
		return fmt.Errorf("%w: full_name is required", ErrValidation)
	}
	return nil
}

type Service struct {
	Provider Provider
	Profiles ProfileCreator
	Tokens   TokenCache
}

// SignUp registers the user and creates their profile. A profile that cannot
// be stored is logged; the profile is created on the first PUT /me instead.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (baas.Session, error) {
	if s.Provider == nil {
		return baas.Session{}, baas.ErrNotConfigured
	}
	if err := req.Validate(); err != nil {
		return baas.Session{}, err
	}
	session, err := s.Provider.SignUp(ctx, baas.Credentials{Email: req.Email, Password: req.Password}, map[string]any{
		"full_name": req.FullName,
	})
	if err != nil {
		return baas.Session{}, err
	}
	if session.User.ID == "" || s.Profiles == nil {
		return session, nil
	}
	if session.AccessToken != "" {
		ctx = baas.WithAccessToken(ctx, session.AccessToken)
	}
	_, err = s.Profiles.Create(ctx, profiles.Profile{
		ID:         session.User.ID,
		Email:      req.Email,
		FullName:   req.FullName,
		JobTitle:   strings.TrimSpace(req.JobTitle),
		Department: strings.TrimSpace(req.Department),
	})
	if err != nil {
		telemetry.Warn("auth.profile_create_failed", map[string]any{"user_id": session.User.ID, "error": err.Error()})
	}
	return session, nil
}

func (s *Service) SignIn(ctx context.Context, creds baas.Credentials) (baas.Session, error) {
	if s.Provider == nil {
		return baas.Session{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return baas.Session{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	return s.Provider.SignIn(ctx, creds)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (baas.Session, error) {
	if s.Provider == nil {
		return baas.Session{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(refreshToken) == "" {
		return baas.Session{}, fmt.Errorf("%w: refresh_token is required", ErrValidation)
	}
	return s.Provider.Refresh(ctx, refreshToken)
}

// SignOut revokes the session and evicts the token from the identity cache.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if s.Provider == nil {
		return baas.ErrNotConfigured
	}
	if s.Tokens != nil {
		defer s.Tokens.Forget(accessToken)
	}
	return s.Provider.SignOut(ctx, accessToken)
}
