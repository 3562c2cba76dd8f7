package mentorships

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"pathways-backend/internal/baas"
	"pathways-backend/internal/llm"
	"pathways-backend/internal/profiles"
	"pathways-backend/internal/shared/metrics"
	"pathways-backend/internal/shared/telemetry"
)

// Directory looks up employee profiles.
type Directory interface {
	Get(ctx context.Context, userID string) (profiles.Profile, error)
	Mentors(ctx context.Context, excludeID string) ([]profiles.Profile, error)
}

// SnapshotLoader loads the employee context for prompts.
type SnapshotLoader interface {
	Load(ctx context.Context, userID string, opts profiles.LoadOptions) (profiles.Snapshot, error)
}

type Service struct {
	Tables      baas.Tables
	Directory   Directory
	Loader      SnapshotLoader
	LLM         llm.Client
	Temperature *float32
	MaxTokens   int
}

const maxMessagesPerFetch = 200

// Match ranks the available mentors for userID. Output the model produced
// but that cannot be read yields the unranked candidate list.
func (s *Service) Match(ctx context.Context, userID string) (Matches, error) {
	if s.Directory == nil {
		return Matches{}, baas.ErrNotConfigured
	}
	candidates, err := s.Directory.Mentors(ctx, userID)
	if err != nil {
		return Matches{}, err
	}
	if len(candidates) == 0 {
		return Matches{Matches: []Match{}}, nil
	}
	if s.LLM == nil {
		return Matches{}, fmt.Errorf("%w: no LLM configured", ErrLLMUnavailable)
	}
	snap, err := s.Loader.Load(ctx, userID, profiles.LoadOptions{})
	if err != nil {
		return Matches{}, err
	}
	prompt, err := llm.RenderPrompt(llm.PromptMentorMatch, map[string]string{
		"PROFILE":    profiles.ProfileText(snap.Profile),
		"SKILLS":     profiles.SkillsText(snap.Skills),
		"CANDIDATES": candidatesText(candidates),
	})
	if err != nil {
		return Matches{}, err
	}
	raw, err := s.LLM.Chat(ctx, llm.ChatRequest{
		Purpose:     llm.PromptMentorMatch,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		return Matches{}, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}

	var ranked rankedMatches
	if _, err := llm.DecodeInto(raw, &ranked); err != nil {
		metrics.IncLLMJSONDecode(llm.DecodeFallback)
		telemetry.Warn("mentorships.match_unranked", map[string]any{"user_id": userID, "reason": "unparseable"})
		return unranked(candidates), nil
	}
	out := rank(candidates, ranked)
	if len(out) == 0 {
		telemetry.Warn("mentorships.match_unranked", map[string]any{"user_id": userID, "reason": "no_known_mentors"})
		return unranked(candidates), nil
	}
	return Matches{Matches: out, Ranked: true}, nil
}

func rank(candidates []profiles.Profile, ranked rankedMatches) []Match {
	byID := make(map[string]profiles.Profile, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	seen := make(map[string]bool)
	out := make([]Match, 0, len(ranked.Matches))
	for _, r := range ranked.Matches {
		id := strings.TrimSpace(r.MentorID)
		mentor, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		m := Match{Mentor: mentor, Reason: strings.TrimSpace(r.Reason)}
		if f, err := r.Score.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			f = math.Max(0, math.Min(100, f))
			m.Score = &f
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scoreOf(out[i]) > scoreOf(out[j])
	})
	return out
}

func scoreOf(m Match) float64 {
	if m.Score == nil {
		return -1
	}
	return *m.Score
}

func unranked(candidates []profiles.Profile) Matches {
	out := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Match{Mentor: c})
	}
	return Matches{Matches: out}
}

func candidatesText(candidates []profiles.Profile) string {
	lines := make([]string, 0, len(candidates))
	for _, c := range candidates {
		parts := []string{"id: " + c.ID}
		for _, v := range []string{c.FullName, c.JobTitle, c.Department} {
			if strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
		}
		if c.YearsExperience > 0 {
			parts = append(parts, fmt.Sprintf("%d years", c.YearsExperience))
		}
		lines = append(lines, "- "+strings.Join(parts, " | "))
	}
	return strings.Join(lines, "\n")
}

// Request creates a pending mentorship with menteeID as the mentee.
func (s *Service) Request(ctx context.Context, menteeID string, in NewMentorship) (Mentorship, error) {
	if s.Tables == nil || s.Directory == nil {
		return Mentorship{}, baas.ErrNotConfigured
	}
	if err := in.Validate(menteeID); err != nil {
		return Mentorship{}, err
	}
	mentor, err := s.Directory.Get(ctx, in.MentorID)
	if errors.Is(err, profiles.ErrNotFound) || (err == nil && !mentor.IsMentor) {
		return Mentorship{}, fmt.Errorf("%w: mentor not available", ErrValidation)
	}
	if err != nil {
		return Mentorship{}, err
	}

	q := baas.Where(
		baas.Eq("mentor_id", in.MentorID),
		baas.Eq("mentee_id", menteeID),
		baas.In("status", string(StatusPending), string(StatusActive)),
	)
	var existing []Mentorship
	if err := s.Tables.Select(ctx, Table, q.WithLimit(1), &existing); err != nil {
		return Mentorship{}, fmt.Errorf("find mentorship: %w", err)
	}
	if len(existing) > 0 {
		return Mentorship{}, ErrConflict
	}

	row := struct {
		MentorID  string `json:"mentor_id"`
		MenteeID  string `json:"mentee_id"`
		Status    Status `json:"status"`
		FocusArea string `json:"focus_area"`
	}{MentorID: in.MentorID, MenteeID: menteeID, Status: StatusPending, FocusArea: in.FocusArea}
	var created []Mentorship
	if err := s.Tables.Insert(ctx, Table, row, &created); err != nil {
		return Mentorship{}, fmt.Errorf("create mentorship: %w", err)
	}
	if len(created) == 0 {
		return Mentorship{}, errors.New("create mentorship: empty representation")
	}
	telemetry.Info("mentorships.requested", map[string]any{
		"mentorship_id": created[0].ID,
		"mentor_id":     in.MentorID,
		"mentee_id":     menteeID,
	})
	return created[0], nil
}

// List returns every mentorship userID takes part in, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Mentorship, error) {
	if s.Tables == nil {
		return nil, baas.ErrNotConfigured
	}
	out := make([]Mentorship, 0)
	for _, column := range []string{"mentor_id", "mentee_id"} {
		var rows []Mentorship
		if err := s.Tables.Select(ctx, Table, baas.Where(baas.Eq(column, userID)).Newest(), &rows); err != nil {
			return nil, fmt.Errorf("list mentorships: %w", err)
		}
		out = append(out, rows...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Get returns the mentorship if userID takes part in it.
func (s *Service) Get(ctx context.Context, userID, id string) (Mentorship, error) {
	if s.Tables == nil {
		return Mentorship{}, baas.ErrNotConfigured
	}
	var rows []Mentorship
	if err := s.Tables.Select(ctx, Table, baas.Where(baas.Eq("id", id)).WithLimit(1), &rows); err != nil {
		return Mentorship{}, fmt.Errorf("load mentorship: %w", err)
	}
	if len(rows) == 0 || rows[0].RoleOf(userID) == "" {
		return Mentorship{}, ErrNotFound
	}
	return rows[0], nil
}

// transitions lists, per current status, the statuses each role may move to.
var transitions = map[Status]map[string][]Status{
	StatusPending: {
		"mentor": {StatusActive, StatusDeclined},
		"mentee": {StatusDeclined},
	},
	StatusActive: {
		"mentor": {StatusCompleted},
		"mentee": {StatusCompleted},
	},
}

// UpdateStatus moves a mentorship to next if userID's role allows it.
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, next Status) (Mentorship, error) {
	if !next.Valid() {
		return Mentorship{}, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return Mentorship{}, err
	}
	if m.Status == next {
		return m, nil
	}
	role := m.RoleOf(userID)
	moves := transitions[m.Status]
	if !hasStatus(moves["mentor"], next) && !hasStatus(moves["mentee"], next) {
		return Mentorship{}, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, m.Status, next)
	}
	if !hasStatus(moves[role], next) {
		return Mentorship{}, fmt.Errorf("%w: %s cannot set %s", ErrForbidden, role, next)
	}

	q := baas.Where(baas.Eq("id", id), baas.Eq("status", string(m.Status)))
	var updated []Mentorship
	if err := s.Tables.Update(ctx, Table, q, map[string]any{"status": next}, &updated); err != nil {
		return Mentorship{}, fmt.Errorf("update mentorship: %w", err)
	}
	if len(updated) == 0 {
		return Mentorship{}, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
	}
	telemetry.Info("mentorships.status_changed", map[string]any{
		"mentorship_id": id,
		"from":          string(m.Status),
		"to":            string(next),
		"by":            role,
	})
	return updated[0], nil
}

func hasStatus(list []Status, s Status) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

// SendMessage posts content from userID to an open mentorship.
func (s *Service) SendMessage(ctx context.Context, userID, mentorshipID, content string) (ChatMessage, error) {
	content, err := validateContent(content)
	if err != nil {
		return ChatMessage{}, err
	}
	m, err := s.Get(ctx, userID, mentorshipID)
	if err != nil {
		return ChatMessage{}, err
	}
	if !m.Status.Open() {
		return ChatMessage{}, ErrClosed
	}
	row := struct {
		MentorshipID string `json:"mentorship_id"`
		SenderID     string `json:"sender_id"`
		Content      string `json:"content"`
	}{MentorshipID: mentorshipID, SenderID: userID, Content: content}
	var created []ChatMessage
	if err := s.Tables.Insert(ctx, MessagesTable, row, &created); err != nil {
		return ChatMessage{}, fmt.Errorf("send message: %w", err)
	}
	if len(created) == 0 {
		return ChatMessage{}, errors.New("send message: empty representation")
	}
	return created[0], nil
}

// Messages returns the messages of a mentorship after since, oldest first. A
// zero cursor returns the beginning of the conversation.
func (s *Service) Messages(ctx context.Context, userID, mentorshipID string, since Cursor) ([]ChatMessage, error) {
	if _, err := s.Get(ctx, userID, mentorshipID); err != nil {
		return nil, err
	}
	return s.fetchMessages(ctx, mentorshipID, since)
}

// fetchMessages selects from since.At inclusive and drops rows at or before
// the cursor. A page made entirely of rows sharing since.At with ids at or
// below since.ID comes back empty; that needs more than a page of messages
// with one timestamp.
func (s *Service) fetchMessages(ctx context.Context, mentorshipID string, since Cursor) ([]ChatMessage, error) {
	q := baas.Where(baas.Eq("mentorship_id", mentorshipID))
	if !since.IsZero() {
		at := since.At.UTC().Format(time.RFC3339Nano)
		if since.ID == "" {
			q.Filters = append(q.Filters, baas.Gt("created_at", at))
		} else {
			q.Filters = append(q.Filters, baas.Gte("created_at", at))
		}
	}
	q.Order = []baas.Order{{Column: "created_at"}, {Column: "id"}}
	var rows []ChatMessage
	if err := s.Tables.Select(ctx, MessagesTable, q.WithLimit(maxMessagesPerFetch), &rows); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]ChatMessage, 0, len(rows))
	for _, m := range rows {
		if since.Before(m) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Watch starts a poller for new messages of a mentorship after since. The
// poller stops when ctx ends.
func (s *Service) Watch(ctx context.Context, mentorshipID string, since Cursor, interval time.Duration) <-chan Batch {
	p := &Poller{
		Interval: interval,
		Fetch: func(ctx context.Context, since Cursor) ([]ChatMessage, error) {
			return s.fetchMessages(ctx, mentorshipID, since)
		},
	}
	return p.Start(ctx, since)
}
