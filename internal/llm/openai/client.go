package openai

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

	"pathways-backend/internal/llm"
)

var apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Chat sends the conversation and returns the first choice's text. Models that
// reject a custom temperature are retried once without it.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	body := chatRequest{
		Model:     c.model,
		Messages:  make([]chatMessage, 0, len(req.Messages)),
		MaxTokens: req.MaxTokens,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	if !isGPT5(c.model) {
		body.Temperature = req.Temperature
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	out, err := c.send(ctx, body)
	if err != nil && body.Temperature != nil && isTemperatureUnsupported(err) {
		body.Temperature = nil
		out, err = c.send(ctx, body)
	}
	return out, err
}

func (c *Client) send(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return "", &Error{Status: resp.StatusCode, Message: parsed.Error.Message, Type: parsed.Error.Type}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}

// Error is an error reported by the OpenAI API.
type Error struct {
	Status  int
	Message string
	Type    string
}

func (e *Error) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("openai error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("openai error %d: %s (%s)", e.Status, e.Message, e.Type)
}

func isTemperatureUnsupported(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "temperature") && strings.Contains(msg, "unsupported")
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
