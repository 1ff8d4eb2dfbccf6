package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/holdemlab/internal/preflop"
	"github.com/lox/holdemlab/poker"
	"github.com/lox/holdemlab/sdk/analysis"
)

type CLI struct {
	Output      string    `short:"o" help:"Range table CSV to write" default:"hand_types.csv" type:"path"`
	Simulations int       `short:"s" help:"Monte Carlo run-outs per starting hand" default:"10000"`
	Opponents   int       `help:"Random opponents each hand is measured against" default:"3"`
	Thresholds  []float64 `help:"Minimum equity to play from each position, earliest position first" default:"0.45,0.40,0.36,0.33,0.30,0.28"`
	Seed        int64     `help:"RNG seed" default:"1"`
	Verbose     bool      `short:"v" help:"Log every hand's equity"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gen-preflop"),
		kong.Description("Generate a preflop range table from Monte Carlo equity"))

	level := log.InfoLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	table, err := generate(context.Background(), cli, logger)
	if err != nil {
		logger.Error("Failed to generate range table", "error", err)
		ctx.Exit(1)
	}
	if err := table.SaveFile(cli.Output); err != nil {
		logger.Error("Failed to write range table", "error", err)
		ctx.Exit(1)
	}
	logger.Info("Wrote range table", "path", cli.Output)
}

func generate(ctx context.Context, cli CLI, logger *log.Logger) (*preflop.Table, error) {
	if len(cli.Thresholds) == 0 {
		return nil, fmt.Errorf("need at least one threshold")
	}
	if !slices.IsSortedFunc(cli.Thresholds, func(a, b float64) int { return cmp.Compare(b, a) }) {
		return nil, fmt.Errorf("thresholds must not increase with position: %v", cli.Thresholds)
	}

	var firstErr error
	table := preflop.Build(func(h poker.StartingHand) int {
		if firstErr != nil {
			return preflop.Never
		}
		hole := representative(h)
		eq, err := analysis.CalculateEquity(ctx, hole, nil, cli.Opponents, cli.Simulations, handSeed(cli.Seed, h))
		if err != nil {
			firstErr = fmt.Errorf("%s: %w", h, err)
			return preflop.Never
		}
		pos := position(eq.Equity(), cli.Thresholds)
		logger.Debug("Measured starting hand", "hand", h.String(), "equity", eq.Equity(), "position", pos)
		return pos
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return table, nil
}

// position returns the earliest position whose threshold equity reaches,
// or preflop.Never.
func position(equity float64, thresholds []float64) int {
	for i, threshold := range thresholds {
		if equity >= threshold {
			return i
		}
	}
	return preflop.Never
}

// representative deals one concrete holding for h.
func representative(h poker.StartingHand) []poker.Card {
	second := uint8(1)
	if h.Suited {
		second = 0
	}
	return []poker.Card{poker.NewCard(h.High, 0), poker.NewCard(h.Low, second)}
}

func handSeed(seed int64, h poker.StartingHand) int64 {
	key := int64(h.High)*13 + int64(h.Low)
	if h.Suited {
		key += 169
	}
	return seed*512 + key
}
