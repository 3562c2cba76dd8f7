package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"pathways-backend/internal/llm"
)

// Client implements llm.Client on the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a Gemini client. model defaults to gemini-2.5-flash.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" || strings.HasPrefix(model, "gpt-") {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Chat sends the conversation through GenerateContent.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	system, contents := toContents(req.Messages)
	if len(contents) == 0 {
		return "", fmt.Errorf("gemini: no user content")
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, generateConfig(req, system))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", llm.ErrEmptyResponse
	}
	return out, nil
}

func generateConfig(req llm.ChatRequest, system *genai.Content) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       req.Temperature,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

// toContents splits system messages into a single system instruction and maps
// the remaining turns onto Gemini's user/model roles.
func toContents(messages []llm.Message) (*genai.Content, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, text)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
		}
	}
	if len(system) == 0 {
		return nil, contents
	}
	return genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser), contents
}

var _ llm.Client = (*Client)(nil)
