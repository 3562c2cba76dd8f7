package wellbeing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pathways-backend/internal/baas"
)

const (
	defaultLimit = 30
	maxLimit     = 200
)

type Service struct {
	Tables baas.Tables
}

func NewService(tables baas.Tables) *Service {
	return &Service{Tables: tables}
}

// List returns the user's most recent check-ins, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if s == nil || s.Tables == nil {
		return nil, baas.ErrNotConfigured
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	var out []Entry
	q := baas.Where(baas.Eq("user_id", userID)).Newest().WithLimit(limit)
	if err := s.Tables.Select(ctx, Table, q, &out); err != nil {
		return nil, fmt.Errorf("list wellbeing: %w", err)
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

// Record stores a validated check-in.
func (s *Service) Record(ctx context.Context, userID string, in NewEntry) (Entry, error) {
	if s == nil || s.Tables == nil {
		return Entry{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return Entry{}, errors.New("user id is required")
	}
	if err := in.Validate(); err != nil {
		return Entry{}, err
	}
	row := struct {
		UserID string `json:"user_id"`
		NewEntry
	}{UserID: userID, NewEntry: in}
	var created []Entry
	if err := s.Tables.Insert(ctx, Table, row, &created); err != nil {
		return Entry{}, fmt.Errorf("record wellbeing: %w", err)
	}
	if len(created) == 0 {
		return Entry{}, errors.New("record wellbeing: empty representation")
	}
	return created[0], nil
}

// Summary averages a set of check-ins.
type Summary struct {
	Entries       int     `json:"entries"`
	AverageMood   float64 `json:"average_mood"`
	AverageStress float64 `json:"average_stress"`
}

// Summarize averages mood and stress over entries.
func Summarize(entries []Entry) Summary {
	sum := Summary{Entries: len(entries)}
	if len(entries) == 0 {
		return sum
	}
	var mood, stress int
	for _, e := range entries {
		mood += e.Mood
		stress += e.StressLevel
	}
	sum.AverageMood = float64(mood) / float64(len(entries))
	sum.AverageStress = float64(stress) / float64(len(entries))
	return sum
}
