package leadership

import "math"

// Deltas are per-category changes, current minus previous.
type Deltas struct {
	Overall     float64 `json:"overall"`
	Behavioral  float64 `json:"behavioral"`
	Performance float64 `json:"performance"`
	Engagement  float64 `json:"engagement"`
}

// Compare returns current - previous for each score.
func Compare(previous, current Assessment) Deltas {
	return Deltas{
		Overall:     current.OverallScore - previous.OverallScore,
		Behavioral:  current.BehavioralScore - previous.BehavioralScore,
		Performance: current.PerformanceScore - previous.PerformanceScore,
		Engagement:  current.EngagementScore - previous.EngagementScore,
	}
}

// Direction is the coarse movement of a score.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// TrendResult describes the move from a previous score to the latest one.
// Percent is only meaningful when PercentDefined is true; a previous score
// of 0 leaves it undefined and reported as 0.
type TrendResult struct {
	Direction      Direction `json:"direction"`
	Change         float64   `json:"change"`
	Percent        int       `json:"percent"`
	PercentDefined bool      `json:"percent_defined"`
}

// Trend computes direction and round((latest-previous)/previous*100).
func Trend(previous, latest float64) TrendResult {
	change := latest - previous
	res := TrendResult{Direction: DirectionStable, Change: change}
	switch {
	case change > 0:
		res.Direction = DirectionUp
	case change < 0:
		res.Direction = DirectionDown
	}
	if previous != 0 {
		res.Percent = int(math.Round(change / previous * 100))
		res.PercentDefined = true
	}
	return res
}

// HistoryTrend compares the two most recent entries of a newest-first history.
// It reports false when fewer than two entries exist.
func HistoryTrend(history []Assessment) (TrendResult, Deltas, bool) {
	if len(history) < 2 {
		return TrendResult{Direction: DirectionStable}, Deltas{}, false
	}
	latest, previous := history[0], history[1]
	return Trend(previous.OverallScore, latest.OverallScore), Compare(previous, latest), true
}
