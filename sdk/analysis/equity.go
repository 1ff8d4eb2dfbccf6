package analysis

import (
	"context"
	"fmt"
	"math"
	rand "math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemlab/internal/randutil"
	"github.com/lox/holdemlab/poker"
)

// EquityResult represents the result of an equity calculation
type EquityResult struct {
	Wins             uint32
	Ties             uint32
	TotalSimulations uint32
}

// WinRate returns the win rate as a percentage (0.0 to 1.0)
func (e EquityResult) WinRate() float64 {
	if e.TotalSimulations == 0 {
		return 0.0
	}
	return float64(e.Wins) / float64(e.TotalSimulations)
}

// TieRate returns the tie rate as a percentage (0.0 to 1.0)
func (e EquityResult) TieRate() float64 {
	if e.TotalSimulations == 0 {
		return 0.0
	}
	return float64(e.Ties) / float64(e.TotalSimulations)
}

// LossRate returns the loss rate as a percentage (0.0 to 1.0)
func (e EquityResult) LossRate() float64 {
	if e.TotalSimulations == 0 {
		return 0.0
	}
	losses := e.TotalSimulations - e.Wins - e.Ties
	return float64(losses) / float64(e.TotalSimulations)
}

// Equity returns the overall equity (0.0 to 1.0)
// Wins count as 1.0, ties count as 0.5
func (e EquityResult) Equity() float64 {
	if e.TotalSimulations == 0 {
		return 0.0
	}
	return (float64(e.Wins) + float64(e.Ties)*0.5) / float64(e.TotalSimulations)
}

// ConfidenceInterval returns the 95% confidence interval for equity
func (e EquityResult) ConfidenceInterval() (lower, upper float64) {
	n := float64(e.TotalSimulations)
	if n == 0 {
		return 0.0, 0.0
	}

	equity := e.Equity()
	// Standard error for binomial proportion
	margin := 1.96 * math.Sqrt(equity*(1.0-equity)/n)

	return math.Max(0.0, equity-margin), math.Min(1.0, equity+margin)
}

func (e *EquityResult) add(other EquityResult) {
	e.Wins += other.Wins
	e.Ties += other.Ties
	e.TotalSimulations += other.TotalSimulations
}

// shardSize fixes how simulations are split so that a seed gives the same
// answer on any number of CPUs.
const shardSize = 4096

// CalculateEquity runs simulations random run-outs of the board against
// opponents random hands and counts how often hole wins or ties. Shards run
// in parallel, each drawing from its own randutil stream under seed.
// Cancelling ctx stops the calculation with ctx's error.
func CalculateEquity(ctx context.Context, hole, board []poker.Card, opponents, simulations int, seed int64) (EquityResult, error) {
	if len(hole) != 2 {
		return EquityResult{}, &poker.InvalidHandError{Count: len(hole), Reason: "need exactly 2 hole cards"}
	}
	if len(board) > BoardSize {
		return EquityResult{}, &poker.InvalidHandError{Count: len(board), Reason: "board holds at most 5 cards"}
	}
	if simulations <= 0 {
		return EquityResult{}, fmt.Errorf("simulations must be positive, got %d", simulations)
	}
	if opponents < 1 {
		return EquityResult{}, &DegenerateStateError{Reason: "need at least one opponent"}
	}

	for _, c := range append(hole[:len(hole):len(hole)], board...) {
		if !c.Valid() {
			return EquityResult{}, &poker.InvalidHandError{Count: len(hole) + len(board), Reason: "invalid card value"}
		}
	}
	heroHand := poker.NewHand(hole...)
	boardHand := poker.NewHand(board...)
	known := heroHand | boardHand
	if known.CountCards() != len(hole)+len(board) {
		return EquityResult{}, &poker.InvalidHandError{Count: len(hole) + len(board), Reason: "duplicate card"}
	}

	available := (poker.FullDeck() &^ known).Cards()
	rc := RoundContext{Unseen: len(available), Opponents: opponents, BoardCards: len(board)}
	if err := rc.validate(); err != nil {
		return EquityResult{}, err
	}

	shards := (simulations + shardSize - 1) / shardSize
	results := make([]EquityResult, shards)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for shard := range shards {
		n := min(shardSize, simulations-shard*shardSize)
		g.Go(func() error {
			rng := randutil.Stream(seed, uint64(shard))
			res, err := runEquityShard(ctx, heroHand, boardHand, available, rc, n, rng)
			results[shard] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return EquityResult{}, err
	}

	var total EquityResult
	for _, res := range results {
		total.add(res)
	}
	return total, nil
}

func runEquityShard(ctx context.Context, hero, board poker.Hand, available []poker.Card, rc RoundContext, n int, rng *rand.Rand) (EquityResult, error) {
	deck := make([]poker.Card, len(available))
	copy(deck, available)
	need := rc.OpponentSpots()
	boardNeed := rc.PlayerSpots()

	var res EquityResult
	for i := range n {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		// Partial Fisher-Yates: only the cards this run-out uses are drawn.
		for j := range need {
			k := j + rng.IntN(len(deck)-j)
			deck[j], deck[k] = deck[k], deck[j]
		}

		final := board | poker.NewHand(deck[:boardNeed]...)
		heroRank, err := poker.EvaluateHand(hero | final)
		if err != nil {
			return res, err
		}

		won, tied := true, false
		for o := range rc.Opponents {
			at := boardNeed + 2*o
			oppRank, err := poker.EvaluateHand(final | poker.NewHand(deck[at], deck[at+1]))
			if err != nil {
				return res, err
			}
			if cmp := poker.CompareHands(heroRank, oppRank); cmp < 0 {
				won = false
				break
			} else if cmp == 0 {
				tied = true
			}
		}

		switch {
		case won && tied:
			res.Ties++
		case won:
			res.Wins++
		}
		res.TotalSimulations++
	}
	return res, nil
}
