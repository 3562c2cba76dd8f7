package leadership

// Tier is a qualitative band of the leadership score.
type Tier struct {
	MinScore    float64 `json:"min_score"`
	Label       string  `json:"label"`
	Readiness   string  `json:"readiness"`
	Timeline    string  `json:"timeline"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
}

var tiers = []Tier{
	{
		MinScore:    86,
		Label:       "Exceptional",
		Readiness:   "Ready for leadership now",
		Timeline:    "0–6 months",
		Color:       "#4ade80",
		Description: "Demonstrates consistent leadership behaviours and is ready to take on a leadership role.",
	},
	{
		MinScore:    76,
		Label:       "Strong",
		Readiness:   "Ready for stretch assignments",
		Timeline:    "6–12 months",
		Color:       "#60a5fa",
		Description: "Shows strong leadership potential and would benefit from stretch assignments to prove it.",
	},
	{
		MinScore:    61,
		Label:       "Growing",
		Readiness:   "Good potential, needs development",
		Timeline:    "12–18 months",
		Color:       "#fbbf24",
		Description: "Has good potential with clear areas to develop through mentoring and targeted projects.",
	},
	{
		MinScore:    41,
		Label:       "Emerging",
		Readiness:   "Building foundation",
		Timeline:    "18–24 months",
		Color:       "#fb923c",
		Description: "Is building the foundation for leadership and should focus on core competencies.",
	},
	{
		MinScore:    0,
		Label:       "Developing",
		Readiness:   "Focus on fundamentals",
		Timeline:    "24+ months",
		Color:       "#f87171",
		Description: "Is early in the leadership journey and should focus on fundamentals and consistent performance.",
	},
}

// Tiers returns the tier table, highest first.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Interpret maps score to its tier. Lower bounds are inclusive and scores
// outside [0,100] are not rejected: negatives land in the lowest tier and
// anything above 100 in the highest.
func Interpret(score float64) Tier {
	for _, t := range tiers[:len(tiers)-1] {
		if score >= t.MinScore {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// ScoreLabel returns only the tier label for score.
func ScoreLabel(score float64) string {
	switch {
	case score >= 86:
		return "Exceptional"
	case score >= 76:
		return "Strong"
	case score >= 61:
		return "Growing"
	case score >= 41:
		return "Emerging"
	default:
		return "Developing"
	}
}

// ScoreColor returns the display color of score's tier.
func ScoreColor(score float64) string {
	return Interpret(score).Color
}

// FillFromTier sets blank narrative fields from the tier of a.OverallScore.
func (a *Assessment) FillFromTier() {
	t := Interpret(a.OverallScore)
	if a.Interpretation == "" {
		a.Interpretation = t.Description
	}
	if a.Readiness == "" {
		a.Readiness = t.Readiness
	}
	if a.Timeline == "" {
		a.Timeline = t.Timeline
	}
}
