// Package statistics accumulates per-strategy results across simulated
// games.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// GameResult is one strategy's outcome in one game.
type GameResult struct {
	Net          float64 // chips won or lost over the game
	Hands        int     // hands the strategy was dealt into
	HandsWon     int     // hands in which it took at least one pot
	Showdowns    int     // hands it saw to showdown
	ShowdownWins int     // showdowns in which it took a pot
	Busted       bool    // finished the game with no chips
}

// Statistics tracks comprehensive simulation statistics for one strategy.
type Statistics struct {
	Games  int
	Sum    float64
	Sum2   float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	Hands           int
	ShowdownWins    int // Pots won at showdown
	NonShowdownWins int // Pots won when everyone else folded
	Showdowns       int
	Busts           int

	ShowdownNet    float64 // Net from games decided mostly at showdown
	NonShowdownNet float64
}

// Mean returns the arithmetic mean of net chips per game
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.Sum / float64(s.Games)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return math.Max(0, (s.Sum2-float64(s.Games)*mean*mean)/float64(s.Games-1))
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one game's result.
func (s *Statistics) Add(result GameResult) {
	net := result.Net
	s.Games++
	s.Sum += net
	s.Sum2 += net * net
	s.Values = append(s.Values, net)

	s.Hands += result.Hands
	s.Showdowns += result.Showdowns
	s.ShowdownWins += result.ShowdownWins
	s.NonShowdownWins += result.HandsWon - result.ShowdownWins
	if result.Busted {
		s.Busts++
	}

	if result.Showdowns*2 >= result.Hands && result.Hands > 0 {
		s.ShowdownNet += net
	} else {
		s.NonShowdownNet += net
	}
}

// HandsWon returns the number of hands in which a pot was taken.
func (s *Statistics) HandsWon() int {
	return s.ShowdownWins + s.NonShowdownWins
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.Sum-s.ShowdownNet-s.NonShowdownNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: Sum=%.6f, ShowdownNet=%.6f, NonShowdownNet=%.6f",
			s.Sum, s.ShowdownNet, s.NonShowdownNet)
	}
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)",
			len(s.Values), s.Games)
	}
	if s.HandsWon() > s.Hands {
		return fmt.Errorf("hands won (%d) exceeds hands played (%d)", s.HandsWon(), s.Hands)
	}
	if s.ShowdownWins > s.Showdowns {
		return fmt.Errorf("showdown wins (%d) exceed showdowns (%d)", s.ShowdownWins, s.Showdowns)
	}
	return nil
}
