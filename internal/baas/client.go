package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 15 * time.Second

// Client talks to the hosted auth and REST APIs. It is built once at startup
// and passed to the services that need it.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	timeout    time.Duration
	transport  http.RoundTripper
}

// NewClient constructs a Client for the project at baseURL.
func NewClient(baseURL, anonKey, serviceKey string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%w: BAAS_URL is required", ErrNotConfigured)
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, fmt.Errorf("%w: BAAS_ANON_KEY is required", ErrNotConfigured)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		serviceKey: serviceKey,
		timeout:    timeout,
		transport:  http.DefaultTransport,
	}, nil
}

// httpClientFor returns an HTTP client that sends bearer as the Authorization header.
func (c *Client) httpClientFor(bearer string) *http.Client {
	if bearer == "" {
		return &http.Client{Timeout: c.timeout, Transport: c.transport}
	}
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}),
			Base:   c.transport,
		},
	}
}

// bearerFor picks the user's token, then the service key, then the anon key.
func (c *Client) bearerFor(ctx context.Context) string {
	if tok := AccessTokenFromContext(ctx); tok != "" {
		return tok
	}
	if c.serviceKey != "" {
		return c.serviceKey
	}
	return c.anonKey
}

type request struct {
	method  string
	path    string
	body    any
	bearer  string
	headers map[string]string
}

// do performs req and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("baas encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClientFor(req.bearer).Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return fmt.Errorf("baas request timeout: %w", err)
		}
		return fmt.Errorf("baas request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("baas read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return parseError(resp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("baas response parse: %w", err)
	}
	return nil
}
