package profiles

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

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get loads the profile of userID.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Tables == nil {
		return Profile{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	var rows []Profile
	if err := s.Tables.Select(ctx, Table, baas.Where(baas.Eq("id", userID)).WithLimit(1), &rows); err != nil {
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if len(rows) == 0 {
		return Profile{}, ErrNotFound
	}
	return rows[0], nil
}

// Create stores the initial profile for a newly signed-up user.
func (s *Service) Create(ctx context.Context, p Profile) (Profile, error) {
	if s == nil || s.Tables == nil {
		return Profile{}, baas.ErrNotConfigured
	}
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Email) == "" {
		return Profile{}, fmt.Errorf("%w: id and email are required", ErrValidation)
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	var created []Profile
	if err := s.Tables.Insert(ctx, Table, p, &created); err != nil {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	if len(created) == 0 {
		return p, nil
	}
	return created[0], nil
}

// Update applies a partial change to the caller's profile, creating the row
// when the user has none yet.
func (s *Service) Update(ctx context.Context, userID, email string, upd Update) (Profile, error) {
	if s == nil || s.Tables == nil {
		return Profile{}, baas.ErrNotConfigured
	}
	if err := upd.Validate(); err != nil {
		return Profile{}, err
	}
	now := s.now()
	upd.UpdatedAt = &now
	var rows []Profile
	if err := s.Tables.Update(ctx, Table, baas.Where(baas.Eq("id", userID)), upd, &rows); err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	if len(rows) > 0 {
		return rows[0], nil
	}
	p := Profile{ID: userID, Email: email}
	upd.apply(&p)
	return s.Create(ctx, p)
}

// Mentors lists profiles flagged as mentors, excluding excludeID.
func (s *Service) Mentors(ctx context.Context, excludeID string) ([]Profile, error) {
	if s == nil || s.Tables == nil {
		return nil, baas.ErrNotConfigured
	}
	q := baas.Where(baas.Eq("is_mentor", "true"))
	if excludeID != "" {
		q.Filters = append(q.Filters, baas.Filter{Column: "id", Op: baas.OpNeq, Value: excludeID})
	}
	var rows []Profile
	if err := s.Tables.Select(ctx, Table, q.WithLimit(50), &rows); err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	if rows == nil {
		rows = []Profile{}
	}
	return rows, nil
}
