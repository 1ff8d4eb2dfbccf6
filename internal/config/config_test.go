package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemlab/internal/bot"
)

const sample = `
simulation {
  games          = 200
  hands_per_game = 30
  seed           = 7
  workers        = 4
  results_log    = "out.jsonl"
  log_level      = "debug"
}

table {
  small_blind    = 5
  big_blind      = 10
  starting_chips = 500
  max_raises     = 0
}

strategy "rock" {
  preflop    = "tight"
  aggression = "passive"
}

strategy "lag" {
  preflop    = "loose"
  aggression = "aggressive"
}
`

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	assert.Equal(t, DefaultGames, c.Simulation.Games)
	assert.Equal(t, DefaultHandsPerGame, c.Simulation.HandsPerGame)
	assert.Equal(t, 2, c.Table.SmallBlind)
	assert.Equal(t, 4, c.Table.BigBlind)
	assert.Equal(t, 100, c.Table.StartingChips)
	assert.Equal(t, DefaultMaxRaises, c.Table.Raises())
	require.Len(t, c.Strategies, len(bot.Styles))
	assert.Equal(t, "tight-passive", c.Strategies[0].Name)
	require.NoError(t, c.Validate())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sim.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, Simulation{
		Games:        200,
		HandsPerGame: 30,
		Seed:         7,
		Workers:      4,
		ResultsLog:   "out.jsonl",
		LogLevel:     "debug",
	}, c.Simulation)
	assert.Equal(t, 0, c.Table.Raises(), "explicit zero lifts the cap")
	assert.Equal(t, 500, c.Table.StartingChips)

	require.Len(t, c.Strategies, 2)
	style, err := c.Strategies[1].Style()
	require.NoError(t, err)
	assert.Equal(t, bot.Style{Range: bot.Loose, Aggression: bot.Aggressive}, style)

	level, err := c.Simulation.Level()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)

	gc := c.GameConfig(nil)
	assert.Equal(t, 5, gc.SmallBlind)
	assert.Equal(t, 30, gc.Hands)
	assert.Zero(t, gc.MaxRaises)
}

func TestParsePartialFile(t *testing.T) {
	t.Parallel()
	c, err := Parse([]byte(`table { big_blind = 6 }`), "partial.hcl")
	require.NoError(t, err)

	assert.Equal(t, 6, c.Table.BigBlind)
	assert.Equal(t, DefaultSmallBlind, c.Table.SmallBlind)
	assert.Equal(t, DefaultGames, c.Simulation.Games)
	assert.Len(t, c.Strategies, 4)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	_, err := Parse([]byte(`simulation {`), "broken.hcl")
	assert.ErrorContains(t, err, "parse")

	_, err = Parse([]byte(`simulation { games = "many" }`), "types.hcl")
	assert.ErrorContains(t, err, "decode")

	_, err = Parse([]byte(`strategy "x" { preflop = "tight" }`), "missing.hcl")
	assert.ErrorContains(t, err, "decode")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"no games", func(c *Config) { c.Simulation.Games = -1 }, "simulation: games"},
		{"no hands", func(c *Config) { c.Simulation.HandsPerGame = -5 }, "hands_per_game"},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }, "workers"},
		{"bad log level", func(c *Config) { c.Simulation.LogLevel = "loud" }, "simulation"},
		{"big blind below small", func(c *Config) { c.Table.BigBlind = 1 }, "table"},
		{"one strategy", func(c *Config) { c.Strategies = c.Strategies[:1] }, "strategies"},
		{"duplicate name", func(c *Config) { c.Strategies[1].Name = c.Strategies[0].Name }, "duplicate"},
		{"unknown style", func(c *Config) { c.Strategies[2].Aggression = "maniac" }, "strategy loose-passive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
