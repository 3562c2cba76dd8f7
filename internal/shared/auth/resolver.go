package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"pathways-backend/internal/baas"
	"pathways-backend/internal/shared/util"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Resolver turns a bearer token into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// LocalResolver verifies HS256 access tokens with the BaaS JWT secret.
type LocalResolver struct {
	Secret string
}

func (r LocalResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	claims, err := VerifyJWT(token, r.Secret)
	if err != nil {
		return Identity{}, err
	}
	if strings.TrimSpace(claims.Sub) == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.Sub, Email: claims.Email, Name: claims.Name()}, nil
}

// UserFetcher looks up the user owning an access token.
type UserFetcher interface {
	GetUser(ctx context.Context, accessToken string) (baas.User, error)
}

// RemoteResolver asks the BaaS who owns a token and caches the answer.
type RemoteResolver struct {
	users UserFetcher
	cache *expirable.LRU[string, Identity]
}

// NewRemoteResolver caches up to size identities for ttl each.
func NewRemoteResolver(users UserFetcher, size int, ttl time.Duration) *RemoteResolver {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RemoteResolver{
		users: users,
		cache: expirable.NewLRU[string, Identity](size, nil, ttl),
	}
}

func (r *RemoteResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	key := util.Fingerprint(token)
	if id, ok := r.cache.Get(key); ok {
		return id, nil
	}
	user, err := r.users.GetUser(ctx, token)
	if err != nil {
		status := baas.StatusOf(err)
		if status == 401 || status == 403 || errors.Is(err, baas.ErrNotFound) {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, err
	}
	if strings.TrimSpace(user.ID) == "" {
		return Identity{}, ErrInvalidToken
	}
	id := Identity{UserID: user.ID, Email: user.Email}
	for _, key := range []string{"full_name", "name"} {
		if v, ok := user.UserMetadata[key].(string); ok && strings.TrimSpace(v) != "" {
			id.Name = strings.TrimSpace(v)
			break
		}
	}
	r.cache.Add(key, id)
	return id, nil
}

// Forget drops a cached token, e.g. after sign-out.
func (r *RemoteResolver) Forget(token string) {
	r.cache.Remove(util.Fingerprint(token))
}
