package baas

import "context"

type accessTokenKey struct{}

// WithAccessToken attaches the caller's BaaS access token so row-level
// security applies to every request made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if ctx == nil || token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the token stored by WithAccessToken.
func AccessTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if tok, ok := ctx.Value(accessTokenKey{}).(string); ok {
		return tok
	}
	return ""
}
