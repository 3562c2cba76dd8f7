package careers

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"pathways-backend/internal/llm"
	"pathways-backend/internal/profiles"
	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/telemetry"
)

// SnapshotLoader loads the employee context for prompts.
type SnapshotLoader interface {
	Load(ctx context.Context, userID string, opts profiles.LoadOptions) (profiles.Snapshot, error)
}

type Service struct {
	Loader      SnapshotLoader
	LLM         llm.Client
	Temperature *float32
	MaxTokens   int
}

// Recommend asks the LLM for career paths matching the user's profile and skills.
func (s *Service) Recommend(ctx context.Context, userID string) (Recommendations, error) {
	snap, err := s.Loader.Load(ctx, userID, profiles.LoadOptions{})
	if err != nil {
		return Recommendations{}, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptCareerPaths, map[string]string{
		"PROFILE": profiles.ProfileText(snap.Profile),
		"SKILLS":  profiles.SkillsText(snap.Skills),
	})
	if err != nil {
		return Recommendations{}, err
	}
	raw, err := s.ask(ctx, llm.PromptCareerPaths, prompt)
	if err != nil {
		return Recommendations{}, err
	}
	var out Recommendations
	if _, err := llm.DecodeInto(raw, &out); err != nil {
		metrics.IncLLMJSONDecode(llm.DecodeFallback)
		return Recommendations{Paths: []CareerPath{}, Response: strings.TrimSpace(raw)}, nil
	}
	out.Response = ""
	out.clean()
	return out, nil
}

// SkillGap asks the LLM which skills the user lacks for targetRole.
func (s *Service) SkillGap(ctx context.Context, userID, targetRole string) (SkillGap, error) {
	targetRole = strings.TrimSpace(targetRole)
	if targetRole == "" {
		return SkillGap{}, fmt.Errorf("%w: target_role is required", ErrValidation)
	}
	if utf8.RuneCountInString(targetRole) > maxTargetRole {
		return SkillGap{}, fmt.Errorf("%w: target_role must be at most %d characters", ErrValidation, maxTargetRole)
	}
	snap, err := s.Loader.Load(ctx, userID, profiles.LoadOptions{})
	if err != nil {
		return SkillGap{}, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptSkillGap, map[string]string{
		"TARGET_ROLE": targetRole,
		"PROFILE":     profiles.ProfileText(snap.Profile),
		"SKILLS":      profiles.SkillsText(snap.Skills),
	})
	if err != nil {
		return SkillGap{}, err
	}
	raw, err := s.ask(ctx, llm.PromptSkillGap, prompt)
	if err != nil {
		return SkillGap{}, err
	}
	var out SkillGap
	if _, err := llm.DecodeInto(raw, &out); err != nil {
		metrics.IncLLMJSONDecode(llm.DecodeFallback)
		return SkillGap{TargetRole: targetRole, Gaps: []Gap{}, LearningPlan: []string{}, Response: strings.TrimSpace(raw)}, nil
	}
	out.Response = ""
	out.clean(targetRole)
	return out, nil
}

// Chat answers one message of the career assistant. LLM failures never
// surface as errors; the caller gets the fixed fallback reply instead.
func (s *Service) Chat(ctx context.Context, userID string, req ChatRequest) (ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return ChatReply{}, fmt.Errorf("%w: message is required", ErrValidation)
	}
	if utf8.RuneCountInString(message) > maxMessageLen {
		return ChatReply{}, fmt.Errorf("%w: message must be at most %d characters", ErrValidation, maxMessageLen)
	}

	profileText := ""
	if snap, err := s.Loader.Load(ctx, userID, profiles.LoadOptions{}); err != nil {
		telemetry.Warn("careers.chat_profile_unavailable", map[string]any{"user_id": userID, "error": err.Error()})
	} else {
		profileText = profiles.ProfileText(snap.Profile)
	}
	system, err := llm.RenderPrompt(llm.PromptCareerChat, map[string]string{"PROFILE": profileText})
	if err != nil {
		return ChatReply{}, err
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: system}}
	messages = append(messages, chatHistory(req.History)...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	if s.LLM == nil {
		return ChatReply{Reply: fallbackReply, Degraded: true}, nil
	}
	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Purpose:     llm.PromptCareerChat,
		Messages:    messages,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		return ChatReply{Reply: fallbackReply, Degraded: true}, nil
	}
	return ChatReply{Reply: strings.TrimSpace(reply)}, nil
}

// chatHistory keeps the latest user/assistant turns with content.
func chatHistory(in []llm.Message) []llm.Message {
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		if m.Role != llm.RoleUser && m.Role != llm.RoleAssistant {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		content = truncateRunes(content, maxMessageLen)
		out = append(out, llm.Message{Role: m.Role, Content: content})
	}
	if len(out) > maxHistory {
		out = out[len(out)-maxHistory:]
	}
	return out
}

func (s *Service) ask(ctx context.Context, purpose, prompt string) (string, error) {
	if s.LLM == nil {
		return "", fmt.Errorf("%w: no LLM configured", ErrLLMUnavailable)
	}
	raw, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Purpose:     purpose,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	return raw, nil
}

// truncateRunes cuts s to at most n characters without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
