package simulator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	rand "math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemlab/internal/bot"
	"github.com/lox/holdemlab/internal/game"
	"github.com/lox/holdemlab/internal/resultlog"
)

func testEntrants() []Entrant {
	var entrants []Entrant
	for _, style := range bot.Styles {
		entrants = append(entrants, Entrant{Name: style.String(), Style: style})
	}
	return entrants
}

func testConfig(t *testing.T, games, workers int) Config {
	t.Helper()
	return Config{
		Games:   games,
		Seed:    42,
		Workers: workers,
		Rules: game.Config{
			SmallBlind:    2,
			BigBlind:      4,
			StartingChips: 100,
			MaxRaises:     3,
			Hands:         20,
		},
		Entrants: testEntrants(),
		Clock:    quartz.NewMock(t),
		Logger:   log.NewWithOptions(bytes.NewBuffer(nil), log.Options{Level: log.DebugLevel}),
	}
}

func run(t *testing.T, cfg Config) *Report {
	t.Helper()
	sim, err := New(cfg)
	require.NoError(t, err)
	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	return report
}

func TestNewValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"no games", func(c *Config) { c.Games = 0 }, "games"},
		{"negative workers", func(c *Config) { c.Workers = -2 }, "workers"},
		{"one entrant", func(c *Config) { c.Entrants = c.Entrants[:1] }, "entrants"},
		{"duplicate entrant", func(c *Config) { c.Entrants[1].Name = c.Entrants[0].Name }, "duplicate"},
		{"bad rules", func(c *Config) { c.Rules.BigBlind = 1 }, "blind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, 4, 1)
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestRunAggregatesEveryGame(t *testing.T) {
	t.Parallel()
	report := run(t, testConfig(t, 8, 2))

	assert.Equal(t, 8, report.Games)
	assert.Positive(t, report.Hands)
	require.Len(t, report.Order, len(bot.Styles))

	// Chips only move between entrants; odd chips left in the pot are
	// the only leak.
	total := 0.0
	for _, name := range report.Order {
		stats := report.Stats[name]
		require.NoError(t, stats.Validate(), name)
		assert.Equal(t, 8, stats.Games, name)
		assert.LessOrEqual(t, stats.Hands, report.Hands, name)
		total += stats.Sum
	}
	assert.InDelta(t, -float64(report.Carry), total, 1e-9)

	leader, err := report.Leader()
	require.NoError(t, err)
	assert.Contains(t, report.Order, leader)
}

func TestRunIsDeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()
	serial := run(t, testConfig(t, 12, 1))
	parallel := run(t, testConfig(t, 12, 4))

	assert.Equal(t, serial.Hands, parallel.Hands)
	assert.Equal(t, serial.Carry, parallel.Carry)
	for _, name := range serial.Order {
		assert.Equal(t, serial.Stats[name].Values, parallel.Stats[name].Values, name)
		assert.Equal(t, serial.Stats[name].Hands, parallel.Stats[name].Hands, name)
		assert.Equal(t, serial.Stats[name].Showdowns, parallel.Stats[name].Showdowns, name)
	}

	other := testConfig(t, 12, 4)
	other.Seed = 43
	reseeded := run(t, other)
	differs := false
	for _, name := range serial.Order {
		if !assert.ObjectsAreEqual(serial.Stats[name].Values, reseeded.Stats[name].Values) {
			differs = true
		}
	}
	assert.True(t, differs, "a different seed should deal different games")
}

func TestRunWritesResultsInGameOrder(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	cfg := testConfig(t, 10, 4)
	cfg.Clock = clock
	cfg.ResultLog = resultlog.New(&buf, clock)
	cfg.RunID = "01hqzx5k7vw9e8c6d4b3a2n1m0"
	report := run(t, cfg)

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 10)

	hands := 0
	for i, line := range lines {
		assert.EqualValues(t, i, line["game"])
		assert.EqualValues(t, 42, line["seed"])
		assert.Equal(t, cfg.RunID, line["run"])
		assert.Equal(t, "2025-06-01T12:00:00Z", line["time"])

		net := 0.0
		for _, e := range cfg.Entrants {
			v, ok := line[resultlog.NetPrefix+e.Name].(float64)
			require.True(t, ok, "missing net for %s", e.Name)
			net += v
		}
		assert.InDelta(t, -line["carry"].(float64), net, 1e-9)
		hands += int(line["hands"].(float64))
	}
	assert.Equal(t, report.Hands, hands)
	assert.Zero(t, report.Elapsed)
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sim, err := New(testConfig(t, 5, 1))
	require.NoError(t, err)
	report, err := sim.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Games)

	_, err = report.Leader()
	assert.ErrorIs(t, err, ErrNoGames)
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()
	report := run(t, testConfig(t, 3, 0))

	var out strings.Builder
	PrintSummary(&out, report)
	for _, name := range report.Order {
		assert.Contains(t, out.String(), "=== "+name+" ===")
	}
	assert.Contains(t, out.String(), "Games: 3")
	assert.Contains(t, out.String(), "95% CI")
}

func TestRunReportsProgress(t *testing.T) {
	t.Parallel()
	cfg := testConfig(t, 6, 3)

	var mu sync.Mutex
	var seen []int
	cfg.Progress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 6, total)
		seen = append(seen, done)
	}
	run(t, cfg)

	slices.Sort(seen)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, seen)
}

func TestRunStopsOnGameError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")

	var buf bytes.Buffer
	cfg := testConfig(t, 50, 1)
	cfg.ResultLog = resultlog.New(&buf, cfg.Clock)
	sim, err := New(cfg)
	require.NoError(t, err)

	var mu sync.Mutex
	var dealt []int
	sim.seat = func(index int, e Entrant, rng *rand.Rand, logger *log.Logger) (game.Decider, error) {
		mu.Lock()
		dealt = append(dealt, index)
		mu.Unlock()
		if index == 2 {
			return game.DeciderFunc(func(game.View) (game.Decision, error) {
				return game.Decision{}, boom
			}), nil
		}
		return bot.New(e.Name, e.Style, sim.config.Table, rng, logger)
	}

	report, err := sim.Run(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "game 2")
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Games, "games before the failure are reported")
	assert.Less(t, slices.Max(dealt), 4, "no game is dealt after the failure")
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
