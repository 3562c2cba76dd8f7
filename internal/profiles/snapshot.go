package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pathways-backend/internal/achievements"
	"pathways-backend/internal/skills"
	"pathways-backend/internal/wellbeing"
)

// Snapshot is everything the LLM-backed features know about an employee.
type Snapshot struct {
	Profile      Profile
	Skills       []skills.Skill
	Achievements []achievements.Achievement
	Wellbeing    []wellbeing.Entry
}

// Loader gathers snapshots from the feature services.
type Loader struct {
	Profiles     *Service
	Skills       *skills.Service
	Achievements *achievements.Service
	Wellbeing    *wellbeing.Service
}

// LoadOptions selects the optional parts of a snapshot.
type LoadOptions struct {
	Achievements bool
	Wellbeing    bool
}

// Load reads the profile and skills of userID plus the parts opts asks for.
// A missing profile row is not an error; the snapshot carries only the id.
func (l *Loader) Load(ctx context.Context, userID string, opts LoadOptions) (Snapshot, error) {
	snap := Snapshot{Profile: Profile{ID: userID}}
	p, err := l.Profiles.Get(ctx, userID)
	switch {
	case err == nil:
		snap.Profile = p
	case errors.Is(err, ErrNotFound):
	default:
		return Snapshot{}, err
	}
	if snap.Skills, err = l.Skills.List(ctx, userID); err != nil {
		return Snapshot{}, err
	}
	if opts.Achievements {
		if snap.Achievements, err = l.Achievements.List(ctx, userID); err != nil {
			return Snapshot{}, err
		}
	}
	if opts.Wellbeing {
		if snap.Wellbeing, err = l.Wellbeing.List(ctx, userID, 10); err != nil {
			return Snapshot{}, err
		}
	}
	return snap, nil
}

// ProfileText renders a profile for a prompt.
func ProfileText(p Profile) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}
	line("Name", p.FullName)
	line("Job title", p.JobTitle)
	line("Department", p.Department)
	if p.YearsExperience > 0 {
		line("Years of experience", fmt.Sprint(p.YearsExperience))
	}
	line("Career goals", p.CareerGoals)
	line("Bio", p.Bio)
	return strings.TrimSpace(b.String())
}

// SkillsText renders skills as a bullet list.
func SkillsText(list []skills.Skill) string {
	lines := make([]string, 0, len(list))
	for _, s := range list {
		entry := fmt.Sprintf("- %s (%d/5)", s.Name, s.Proficiency)
		if s.Category != "" {
			entry += " [" + s.Category + "]"
		}
		lines = append(lines, entry)
	}
	return strings.Join(lines, "\n")
}

// AchievementsText renders achievements as a bullet list.
func AchievementsText(list []achievements.Achievement) string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		entry := "- " + a.Title
		if !a.EarnedAt.IsZero() {
			entry += " (" + a.EarnedAt.Format("2006-01-02") + ")"
		}
		if a.Description != "" {
			entry += ": " + a.Description
		}
		lines = append(lines, entry)
	}
	return strings.Join(lines, "\n")
}

// WellbeingText summarizes recent check-ins.
func WellbeingText(entries []wellbeing.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	sum := wellbeing.Summarize(entries)
	return fmt.Sprintf("%d check-ins, average mood %.1f/5, average stress %.1f/5", sum.Entries, sum.AverageMood, sum.AverageStress)
}
