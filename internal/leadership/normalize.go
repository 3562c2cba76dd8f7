package leadership

import (
	"time"

	"pathways-backend/internal/shared/metrics"
)

// Assessment is the canonical leadership assessment.
type Assessment struct {
	OverallScore     float64   `json:"overall_score"`
	BehavioralScore  float64   `json:"behavioral_score"`
	PerformanceScore float64   `json:"performance_score"`
	EngagementScore  float64   `json:"engagement_score"`
	Interpretation   string    `json:"interpretation"`
	Readiness        string    `json:"readiness"`
	Timeline         string    `json:"timeline"`
	Strengths        []string  `json:"strengths"`
	DevelopmentAreas []string  `json:"development_areas"`
	Recommendations  []string  `json:"recommendations"`
	CalculatedAt     time.Time `json:"calculated_at"`
}

// Normalize maps any supported payload onto an Assessment. It returns nil for
// nil or JSON null input. Malformed fields fall back to their zero values, so
// the result is structurally complete but not necessarily meaningful.
func Normalize(v any) *Assessment {
	return NormalizeAt(v, time.Now().UTC())
}

// NormalizeAt is Normalize with an explicit fallback for calculated_at.
func NormalizeAt(v any, now time.Time) *Assessment {
	raw, ok := Decode(v)
	if !ok {
		return nil
	}
	return raw.Assessment(now)
}

// Assessment maps the decoded payload onto the canonical record.
func (r Raw) Assessment(now time.Time) *Assessment {
	metrics.IncLeadershipNormalized(string(r.Shape))
	f := r.Fields
	a := &Assessment{
		OverallScore:     overallScore(f),
		Strengths:        []string{},
		DevelopmentAreas: []string{},
		Recommendations:  []string{},
		CalculatedAt:     calculatedAt(f, now),
	}

	switch r.Shape {
	case ShapeCalculated:
		a.BehavioralScore = categoryScore(r.Breakdown, "behavioral")
		a.PerformanceScore = categoryScore(r.Breakdown, "performance")
		a.EngagementScore = categoryScore(r.Breakdown, "engagement")
		a.fillNarrative(f)
	case ShapeStored:
		a.setFlatScores(f)
		a.fillNarrative(r.Factors)
	default:
		a.setFlatScores(f)
	}
	return a
}

func (a *Assessment) setFlatScores(f map[string]any) {
	a.BehavioralScore = numberOr(f["behavioral_score"], 0)
	a.PerformanceScore = numberOr(f["performance_score"], 0)
	a.EngagementScore = numberOr(f["engagement_score"], 0)
}

func (a *Assessment) fillNarrative(src map[string]any) {
	a.Interpretation = text(src["interpretation"])
	a.Readiness = text(src["readiness"])
	a.Timeline = text(src["timeline"])
	a.Strengths = texts(src["strengths"])
	a.DevelopmentAreas = texts(src["development_areas"])
	a.Recommendations = texts(src["recommendations"])
}

func categoryScore(breakdown map[string]any, category string) float64 {
	sub, ok := breakdown[category].(map[string]any)
	if !ok {
		return 0
	}
	return numberOr(sub["score"], 0)
}

func overallScore(f map[string]any) float64 {
	if v, ok := number(f["overall_score"]); ok {
		return v
	}
	return numberOr(f["prediction_score"], 0)
}

func calculatedAt(f map[string]any, now time.Time) time.Time {
	if t, ok := timestamp(f["calculated_at"]); ok {
		return t
	}
	if t, ok := timestamp(f["created_at"]); ok {
		return t
	}
	return now
}

// IsValid reports whether v is an object carrying a numeric overall_score or
// prediction_score. A present zero score is valid.
func IsValid(v any) bool {
	fields, ok := asObject(v)
	if !ok || fields == nil {
		return false
	}
	for _, key := range []string{"overall_score", "prediction_score"} {
		if _, ok := number(fields[key]); ok {
			return true
		}
	}
	return false
}
