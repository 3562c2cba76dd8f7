package skills

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pathways-backend/internal/baas"
)

type Service struct {
	Tables baas.Tables
}

func NewService(tables baas.Tables) *Service {
	return &Service{Tables: tables}
}

// List returns the user's skills, highest proficiency first.
func (s *Service) List(ctx context.Context, userID string) ([]Skill, error) {
	if s == nil || s.Tables == nil {
		return nil, baas.ErrNotConfigured
	}
	q := baas.Where(baas.Eq("user_id", userID))
	q.Order = []baas.Order{{Column: "proficiency", Desc: true}, {Column: "name"}}
	var out []Skill
	if err := s.Tables.Select(ctx, Table, q, &out); err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	if out == nil {
		out = []Skill{}
	}
	return out, nil
}

// Add validates and stores a new skill for the user.
func (s *Service) Add(ctx context.Context, userID string, in NewSkill) (Skill, error) {
	if s == nil || s.Tables == nil {
		return Skill{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return Skill{}, errors.New("user id is required")
	}
	if err := in.Validate(); err != nil {
		return Skill{}, err
	}
	row := struct {
		UserID string `json:"user_id"`
		NewSkill
	}{UserID: userID, NewSkill: in}
	var created []Skill
	if err := s.Tables.Insert(ctx, Table, row, &created); err != nil {
		return Skill{}, fmt.Errorf("add skill: %w", err)
	}
	if len(created) == 0 {
		return Skill{}, errors.New("add skill: empty representation")
	}
	return created[0], nil
}

// Remove deletes one of the user's skills.
func (s *Service) Remove(ctx context.Context, userID, skillID string) error {
	if s == nil || s.Tables == nil {
		return baas.ErrNotConfigured
	}
	q := baas.Where(baas.Eq("id", skillID), baas.Eq("user_id", userID))
	var existing []Skill
	if err := s.Tables.Select(ctx, Table, q.WithLimit(1), &existing); err != nil {
		return fmt.Errorf("find skill: %w", err)
	}
	if len(existing) == 0 {
		return ErrNotFound
	}
	if err := s.Tables.Delete(ctx, Table, q); err != nil {
		return fmt.Errorf("remove skill: %w", err)
	}
	return nil
}
