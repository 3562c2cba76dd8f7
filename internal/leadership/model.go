package leadership

import "time"

// Table is the BaaS table (and Postgres table) holding predictions.
const Table = "leadership_predictions"

// Factors is the narrative part of a stored prediction.
type Factors struct {
	Interpretation   string   `json:"interpretation"`
	Readiness        string   `json:"readiness"`
	Timeline         string   `json:"timeline"`
	Strengths        []string `json:"strengths"`
	DevelopmentAreas []string `json:"development_areas"`
	Recommendations  []string `json:"recommendations"`
}

// Prediction is a stored leadership prediction row.
type Prediction struct {
	ID               string    `json:"id,omitempty"`
	UserID           string    `json:"user_id"`
	PredictionScore  *float64  `json:"prediction_score"`
	BehavioralScore  *float64  `json:"behavioral_score,omitempty"`
	PerformanceScore *float64  `json:"performance_score,omitempty"`
	EngagementScore  *float64  `json:"engagement_score,omitempty"`
	Factors          Factors   `json:"factors"`
	Model            string    `json:"model,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// PredictionFrom converts an assessment into the stored row layout.
func PredictionFrom(userID, model string, a Assessment) Prediction {
	return Prediction{
		UserID:           userID,
		PredictionScore:  floatPtr(a.OverallScore),
		BehavioralScore:  floatPtr(a.BehavioralScore),
		PerformanceScore: floatPtr(a.PerformanceScore),
		EngagementScore:  floatPtr(a.EngagementScore),
		Factors: Factors{
			Interpretation:   a.Interpretation,
			Readiness:        a.Readiness,
			Timeline:         a.Timeline,
			Strengths:        a.Strengths,
			DevelopmentAreas: a.DevelopmentAreas,
			Recommendations:  a.Recommendations,
		},
		Model:     model,
		CreatedAt: a.CalculatedAt,
	}
}

// Record renders p as a raw stored-shape payload for the normalizer. Null
// columns are left out so they read as absent.
func (p Prediction) Record() map[string]any {
	rec := map[string]any{
		"id":      p.ID,
		"user_id": p.UserID,
		"model":   p.Model,
		"factors": map[string]any{
			"interpretation":    p.Factors.Interpretation,
			"readiness":         p.Factors.Readiness,
			"timeline":          p.Factors.Timeline,
			"strengths":         stringsToAny(p.Factors.Strengths),
			"development_areas": stringsToAny(p.Factors.DevelopmentAreas),
			"recommendations":   stringsToAny(p.Factors.Recommendations),
		},
	}
	if !p.CreatedAt.IsZero() {
		rec["created_at"] = p.CreatedAt
	}
	put := func(key string, v *float64) {
		if v != nil {
			rec[key] = *v
		}
	}
	put("prediction_score", p.PredictionScore)
	put("behavioral_score", p.BehavioralScore)
	put("performance_score", p.PerformanceScore)
	put("engagement_score", p.EngagementScore)
	return rec
}

func floatPtr(v float64) *float64 { return &v }

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
