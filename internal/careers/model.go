package careers

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"pathways-backend/internal/llm"
)

// CareerPath is one recommended path.
type CareerPath struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Timeline       string      `json:"timeline"`
	RequiredSkills []string    `json:"required_skills"`
	NextSteps      []string    `json:"next_steps"`
	MatchScore     json.Number `json:"match_score,omitempty"`
}

// Recommendations is the career-path answer. Response carries the raw model
// text when it could not be read as JSON.
type Recommendations struct {
	Paths    []CareerPath `json:"paths"`
	Response string       `json:"response,omitempty"`
}

// Gap is one missing or weak skill.
type Gap struct {
	Skill         string      `json:"skill"`
	CurrentLevel  json.Number `json:"current_level,omitempty"`
	RequiredLevel json.Number `json:"required_level,omitempty"`
	Priority      string      `json:"priority"`
}

// SkillGap is the skill-gap analysis for a target role.
type SkillGap struct {
	TargetRole   string      `json:"target_role"`
	Readiness    json.Number `json:"readiness,omitempty"`
	Gaps         []Gap       `json:"gaps"`
	LearningPlan []string    `json:"learning_plan"`
	Response     string      `json:"response,omitempty"`
}

// ChatRequest is one turn of the career assistant.
type ChatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

// ChatReply is the assistant's answer. Degraded is set when the fixed
// fallback reply was used.
type ChatReply struct {
	Reply    string `json:"reply"`
	Degraded bool   `json:"degraded"`
}

const (
	maxMessageLen  = 4000
	maxHistory     = 20
	maxTargetRole  = 200
	fallbackReply  = "I'm having trouble connecting right now. Please try again in a moment."
	priorityMedium = "medium"
)

func (r *Recommendations) clean() {
	paths := make([]CareerPath, 0, len(r.Paths))
	for _, p := range r.Paths {
		p.Title = strings.TrimSpace(p.Title)
		if p.Title == "" {
			continue
		}
		p.MatchScore = clampNumber(p.MatchScore, 0, 100)
		p.RequiredSkills = nonNil(p.RequiredSkills)
		p.NextSteps = nonNil(p.NextSteps)
		paths = append(paths, p)
	}
	r.Paths = paths
}

func (g *SkillGap) clean(targetRole string) {
	if strings.TrimSpace(g.TargetRole) == "" {
		g.TargetRole = targetRole
	}
	g.Readiness = clampNumber(g.Readiness, 0, 100)
	gaps := make([]Gap, 0, len(g.Gaps))
	for _, gap := range g.Gaps {
		gap.Skill = strings.TrimSpace(gap.Skill)
		if gap.Skill == "" {
			continue
		}
		switch p := strings.ToLower(strings.TrimSpace(gap.Priority)); p {
		case "high", "medium", "low":
			gap.Priority = p
		default:
			gap.Priority = priorityMedium
		}
		gap.CurrentLevel = clampNumber(gap.CurrentLevel, 0, 5)
		gap.RequiredLevel = clampNumber(gap.RequiredLevel, 0, 5)
		gaps = append(gaps, gap)
	}
	g.Gaps = gaps
	g.LearningPlan = nonNil(g.LearningPlan)
}

func clampNumber(n json.Number, lo, hi float64) json.Number {
	if n == "" {
		return n
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) {
		return ""
	}
	f = math.Max(lo, math.Min(hi, f))
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}

func nonNil(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
