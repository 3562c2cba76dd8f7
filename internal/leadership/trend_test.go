package leadership

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	prev := Assessment{OverallScore: 60, BehavioralScore: 55, PerformanceScore: 70, EngagementScore: 50}
	cur := Assessment{OverallScore: 72, BehavioralScore: 50, PerformanceScore: 70, EngagementScore: 65}
	assert.Equal(t, Deltas{Overall: 12, Behavioral: -5, Performance: 0, Engagement: 15}, Compare(prev, cur))
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name     string
		previous float64
		latest   float64
		want     TrendResult
	}{
		{name: "up", previous: 60, latest: 75, want: TrendResult{Direction: DirectionUp, Change: 15, Percent: 25, PercentDefined: true}},
		{name: "down", previous: 80, latest: 70, want: TrendResult{Direction: DirectionDown, Change: -10, Percent: -13, PercentDefined: true}},
		{name: "stable", previous: 50, latest: 50, want: TrendResult{Direction: DirectionStable, Change: 0, Percent: 0, PercentDefined: true}},
		{name: "rounds half away from zero", previous: 40, latest: 41, want: TrendResult{Direction: DirectionUp, Change: 1, Percent: 3, PercentDefined: true}},
		{name: "previous zero leaves percent undefined", previous: 0, latest: 40, want: TrendResult{Direction: DirectionUp, Change: 40, Percent: 0, PercentDefined: false}},
		{name: "both zero", previous: 0, latest: 0, want: TrendResult{Direction: DirectionStable}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.previous, tt.latest))
		})
	}
}

func TestHistoryTrend(t *testing.T) {
	_, _, ok := HistoryTrend([]Assessment{{OverallScore: 50}})
	assert.False(t, ok)

	history := []Assessment{{OverallScore: 66}, {OverallScore: 60}, {OverallScore: 10}}
	trend, deltas, ok := HistoryTrend(history)
	assert.True(t, ok)
	assert.Equal(t, DirectionUp, trend.Direction)
	assert.Equal(t, 10, trend.Percent)
	assert.Equal(t, 6.0, deltas.Overall)
}
