package leadership

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pathways-backend/internal/llm"
	"pathways-backend/internal/profiles"
	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/telemetry"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 50
)

// SnapshotLoader loads what the prediction prompt needs about an employee.
type SnapshotLoader interface {
	Load(ctx context.Context, userID string, opts profiles.LoadOptions) (profiles.Snapshot, error)
}

type Service struct {
	Repo        Repo
	Loader      SnapshotLoader
	LLM         llm.Client
	Model       string
	Temperature *float32
	MaxTokens   int
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Latest returns the user's newest assessment.
func (s *Service) Latest(ctx context.Context, userID string) (*Assessment, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("leadership service not configured")
	}
	rows, err := s.Repo.List(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	if !IsValid(rows[0]) {
		return nil, ErrInvalidRecord
	}
	return NormalizeAt(rows[0], s.now()), nil
}

// History returns up to limit assessments, newest first. Invalid records are
// skipped.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]Assessment, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("leadership service not configured")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	rows, err := s.Repo.List(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Assessment, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if !IsValid(row) {
			skipped++
			continue
		}
		out = append(out, *NormalizeAt(row, now))
	}
	if skipped > 0 {
		telemetry.Warn("leadership.invalid_records_skipped", map[string]any{
			"user_id": userID,
			"skipped": skipped,
		})
	}
	return out, nil
}

// TrendReport compares the two most recent assessments. Previous is nil when
// only one assessment exists.
type TrendReport struct {
	Latest   *Assessment `json:"latest"`
	Previous *Assessment `json:"previous"`
	Deltas   Deltas      `json:"deltas"`
	Trend    TrendResult `json:"trend"`
}

// Trend compares the user's two most recent assessments.
func (s *Service) Trend(ctx context.Context, userID string) (TrendReport, error) {
	history, err := s.History(ctx, userID, defaultHistoryLimit)
	if err != nil {
		return TrendReport{}, err
	}
	if len(history) == 0 {
		return TrendReport{}, ErrNotFound
	}
	report := TrendReport{Latest: &history[0], Trend: TrendResult{Direction: DirectionStable}}
	if trend, deltas, ok := HistoryTrend(history); ok {
		report.Previous = &history[1]
		report.Trend = trend
		report.Deltas = deltas
	}
	return report, nil
}

// Calculate asks the LLM for a fresh prediction, stores it and returns it.
func (s *Service) Calculate(ctx context.Context, userID string) (*Assessment, error) {
	if s == nil || s.Repo == nil || s.Loader == nil {
		return nil, errors.New("leadership service not configured")
	}
	if s.LLM == nil {
		return nil, fmt.Errorf("%w: no LLM configured", ErrLLMUnavailable)
	}
	snap, err := s.Loader.Load(ctx, userID, profiles.LoadOptions{Achievements: true, Wellbeing: true})
	if err != nil {
		return nil, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptLeadership, map[string]string{
		"PROFILE":      profiles.ProfileText(snap.Profile),
		"SKILLS":       profiles.SkillsText(snap.Skills),
		"ACHIEVEMENTS": profiles.AchievementsText(snap.Achievements),
		"WELLBEING":    profiles.WellbeingText(snap.Wellbeing),
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Purpose:     llm.PromptLeadership,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	decoded, method := llm.DecodeJSON(raw)
	if !IsValid(decoded) {
		return nil, fmt.Errorf("%w: response carried no overall score", ErrLLMUnavailable)
	}

	now := s.now()
	a := NormalizeAt(decoded, now)
	a.CalculatedAt = now
	a.clampScores()
	a.FillFromTier()

	stored, err := s.Repo.Insert(ctx, PredictionFrom(userID, s.Model, *a))
	if err != nil {
		return nil, fmt.Errorf("store prediction: %w", err)
	}
	metrics.IncLeadershipCalculated()
	telemetry.Info("leadership.calculated", map[string]any{
		"user_id":       userID,
		"prediction_id": stored.ID,
		"overall_score": a.OverallScore,
		"tier":          ScoreLabel(a.OverallScore),
		"decode_method": method,
	})
	return a, nil
}

func (a *Assessment) clampScores() {
	for _, v := range []*float64{&a.OverallScore, &a.BehavioralScore, &a.PerformanceScore, &a.EngagementScore} {
		*v = math.Max(0, math.Min(100, *v))
	}
	a.Strengths = compact(a.Strengths)
	a.DevelopmentAreas = compact(a.DevelopmentAreas)
	a.Recommendations = compact(a.Recommendations)
}

// compact drops blank entries.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
