package baas

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// User is the identity record returned by the auth API.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session is an authenticated session.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	User         User   `json:"user"`
}

// Credentials are the email/password pair used for sign-up and sign-in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var errCredentials = errors.New("email and password are required")

// SignUp registers a new user. metadata lands in the user's user_metadata.
func (c *Client) SignUp(ctx context.Context, creds Credentials, metadata map[string]any) (Session, error) {
	if err := validateCredentials(creds); err != nil {
		return Session{}, err
	}
	body := map[string]any{
		"email":    strings.TrimSpace(creds.Email),
		"password": creds.Password,
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}
	var session Session
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/signup", body: body, bearer: c.anonKey}, &session)
	return session, err
}

// SignIn exchanges credentials for a session.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (Session, error) {
	if err := validateCredentials(creds); err != nil {
		return Session{}, err
	}
	creds.Email = strings.TrimSpace(creds.Email)
	var session Session
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/token?grant_type=password", body: creds, bearer: c.anonKey}, &session)
	return session, err
}

// Refresh trades a refresh token for a new session.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return Session{}, errors.New("refresh token is required")
	}
	var session Session
	body := map[string]string{"refresh_token": refreshToken}
	err := c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/token?grant_type=refresh_token", body: body, bearer: c.anonKey}, &session)
	return session, err
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return errors.New("access token is required")
	}
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/v1/logout", bearer: accessToken}, nil)
}

// GetUser resolves accessToken to its user.
func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return User{}, errors.New("access token is required")
	}
	var user User
	err := c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/user", bearer: accessToken}, &user)
	return user, err
}

func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return errCredentials
	}
	return nil
}
