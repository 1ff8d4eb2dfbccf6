package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Error(t, stats.Validate())
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(GameResult{Net: 25, Hands: 50, HandsWon: 12, Showdowns: 6, ShowdownWins: 4})

	assert.Equal(t, 1, stats.Games)
	assert.Equal(t, 25.0, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 25.0, stats.Median())
	assert.Equal(t, 4, stats.ShowdownWins)
	assert.Equal(t, 8, stats.NonShowdownWins)
	assert.Equal(t, 12, stats.HandsWon())
	assert.Equal(t, 25.0, stats.NonShowdownNet)
	require.NoError(t, stats.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	for _, net := range []float64{-100, -20, 0, 40, 80} {
		stats.Add(GameResult{Net: net, Hands: 10, Showdowns: 5, Busted: net == -100})
	}

	assert.Equal(t, 5, stats.Games)
	assert.InDelta(t, 0.0, stats.Mean(), 1e-9)
	assert.InDelta(t, 4600.0, stats.Variance(), 1e-9)
	assert.InDelta(t, 67.823, stats.StdDev(), 0.001)
	assert.InDelta(t, 30.332, stats.StdError(), 0.001)
	assert.Equal(t, 0.0, stats.Median())
	assert.Equal(t, 1, stats.Busts)
	assert.Equal(t, 50, stats.Hands)
	assert.InDelta(t, stats.Sum, stats.ShowdownNet, 1e-9, "every game went to showdown half the time")
	require.NoError(t, stats.Validate())
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 11; i++ {
		stats.Add(GameResult{Net: float64(i * 10)})
	}

	assert.Equal(t, 10.0, stats.Percentile(0))
	assert.Equal(t, 60.0, stats.Percentile(0.5))
	assert.Equal(t, 110.0, stats.Percentile(1))
	assert.InDelta(t, 35.0, stats.Percentile(0.25), 1e-9)
	assert.Equal(t, 60.0, stats.Median())
}

func TestStatistics_ConfidenceInterval(t *testing.T) {
	stats := &Statistics{}
	for _, net := range []float64{10, 20, 30, 40} {
		stats.Add(GameResult{Net: net})
	}

	lower, upper := stats.ConfidenceInterval95()
	mean := stats.Mean()
	assert.Less(t, lower, mean)
	assert.Greater(t, upper, mean)
	assert.InDelta(t, mean-lower, upper-mean, 1e-9)
	assert.InDelta(t, 1.96*stats.StdError(), upper-mean, 1e-9)
}

func TestStatistics_Validate(t *testing.T) {
	tests := []struct {
		name  string
		stats Statistics
		msg   string
	}{
		{"ledger mismatch", Statistics{Games: 1, Sum: 10, Values: []float64{10}, ShowdownNet: 3}, "ledger mismatch"},
		{"no games", Statistics{}, "invalid games count"},
		{"values mismatch", Statistics{Games: 2, Values: []float64{0}}, "values array length"},
		{"too many wins", Statistics{Games: 1, Values: []float64{0}, Hands: 1, NonShowdownWins: 2}, "hands won"},
		{"showdown wins without showdowns", Statistics{Games: 1, Values: []float64{0}, Hands: 3, ShowdownWins: 1}, "showdown wins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
