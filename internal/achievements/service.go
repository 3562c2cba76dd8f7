package achievements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pathways-backend/internal/baas"
)

type Service struct {
	Tables baas.Tables
	Now    func() time.Time
}

func NewService(tables baas.Tables) *Service {
	return &Service{Tables: tables, Now: time.Now}
}

// List returns the user's achievements, most recently earned first.
func (s *Service) List(ctx context.Context, userID string) ([]Achievement, error) {
	if s == nil || s.Tables == nil {
		return nil, baas.ErrNotConfigured
	}
	q := baas.Where(baas.Eq("user_id", userID))
	q.Order = []baas.Order{{Column: "earned_at", Desc: true}}
	var out []Achievement
	if err := s.Tables.Select(ctx, Table, q, &out); err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	if out == nil {
		out = []Achievement{}
	}
	return out, nil
}

// Add validates and stores an achievement.
func (s *Service) Add(ctx context.Context, userID string, in NewAchievement) (Achievement, error) {
	if s == nil || s.Tables == nil {
		return Achievement{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return Achievement{}, errors.New("user id is required")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if err := in.Validate(now()); err != nil {
		return Achievement{}, err
	}
	row := struct {
		UserID string `json:"user_id"`
		NewAchievement
	}{UserID: userID, NewAchievement: in}
	var created []Achievement
	if err := s.Tables.Insert(ctx, Table, row, &created); err != nil {
		return Achievement{}, fmt.Errorf("add achievement: %w", err)
	}
	if len(created) == 0 {
		return Achievement{}, errors.New("add achievement: empty representation")
	}
	return created[0], nil
}
