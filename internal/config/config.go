// Package config loads simulation settings from HCL.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdemlab/internal/bot"
	"github.com/lox/holdemlab/internal/game"
)

// Config is the complete simulation configuration
type Config struct {
	Simulation Simulation
	Table      Table
	Strategies []Strategy
}

// Simulation controls how many games are run and where results go
type Simulation struct {
	Games        int    `hcl:"games,optional"`
	HandsPerGame int    `hcl:"hands_per_game,optional"`
	Seed         int64  `hcl:"seed,optional"`
	Workers      int    `hcl:"workers,optional"` // 0 uses every CPU
	ResultsLog   string `hcl:"results_log,optional"`
	RangeTable   string `hcl:"range_table,optional"` // empty uses the embedded table
	LogLevel     string `hcl:"log_level,optional"`
}

// Table holds the rules every game is played under
type Table struct {
	SmallBlind    int  `hcl:"small_blind,optional"`
	BigBlind      int  `hcl:"big_blind,optional"`
	StartingChips int  `hcl:"starting_chips,optional"`
	MaxRaises     *int `hcl:"max_raises,optional"` // 0 for no cap
}

// Strategy seats one scripted player
type Strategy struct {
	Name       string `hcl:"name,label"`
	Preflop    string `hcl:"preflop"`
	Aggression string `hcl:"aggression"`
}

// file mirrors the HCL layout; every block is optional.
type file struct {
	Simulation *Simulation `hcl:"simulation,block"`
	Table      *Table      `hcl:"table,block"`
	Strategies []Strategy  `hcl:"strategy,block"`
}

const (
	DefaultGames         = 1000
	DefaultHandsPerGame  = 50
	DefaultSeed          = 1
	DefaultLogLevel      = "info"
	DefaultSmallBlind    = 2
	DefaultBigBlind      = 4
	DefaultStartingChips = 100
	DefaultMaxRaises     = 3
)

// Default returns the configuration used when no file is given: the four
// scripted styles at a 2/4 table with 100 chips each.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(f)
}

// Parse reads configuration from HCL source; filename is used in
// diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(f)
}

func decode(f *hcl.File) (*Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{Strategies: raw.Strategies}
	if raw.Simulation != nil {
		c.Simulation = *raw.Simulation
	}
	if raw.Table != nil {
		c.Table = *raw.Table
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	s := &c.Simulation
	if s.Games == 0 {
		s.Games = DefaultGames
	}
	if s.HandsPerGame == 0 {
		s.HandsPerGame = DefaultHandsPerGame
	}
	if s.Seed == 0 {
		s.Seed = DefaultSeed
	}
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}

	t := &c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = DefaultSmallBlind
	}
	if t.BigBlind == 0 {
		t.BigBlind = DefaultBigBlind
	}
	if t.StartingChips == 0 {
		t.StartingChips = DefaultStartingChips
	}
	if t.MaxRaises == nil {
		n := DefaultMaxRaises
		t.MaxRaises = &n
	}

	if len(c.Strategies) == 0 {
		for _, style := range bot.Styles {
			c.Strategies = append(c.Strategies, Strategy{
				Name:       style.String(),
				Preflop:    style.Range.String(),
				Aggression: style.Aggression.String(),
			})
		}
	}
}

// Raises returns the per-round raise cap.
func (t Table) Raises() int {
	if t.MaxRaises == nil {
		return DefaultMaxRaises
	}
	return *t.MaxRaises
}

// Level parses the configured log level.
func (s Simulation) Level() (log.Level, error) {
	return log.ParseLevel(s.LogLevel)
}

// GameConfig returns the table rules for one game.
func (c *Config) GameConfig(logger *log.Logger) game.Config {
	return game.Config{
		SmallBlind:    c.Table.SmallBlind,
		BigBlind:      c.Table.BigBlind,
		StartingChips: c.Table.StartingChips,
		MaxRaises:     c.Table.Raises(),
		Hands:         c.Simulation.HandsPerGame,
		Logger:        logger,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Games <= 0 {
		return fmt.Errorf("simulation: games must be positive, got %d", s.Games)
	}
	if s.HandsPerGame <= 0 {
		return fmt.Errorf("simulation: hands_per_game must be positive, got %d", s.HandsPerGame)
	}
	if s.Workers < 0 {
		return fmt.Errorf("simulation: workers must not be negative, got %d", s.Workers)
	}
	if _, err := s.Level(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}

	if err := c.GameConfig(nil).Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	if n := len(c.Strategies); n < game.MinSeats || n > game.MaxSeats {
		return fmt.Errorf("need %d-%d strategies, got %d", game.MinSeats, game.MaxSeats, n)
	}
	seen := make(map[string]bool, len(c.Strategies))
	for _, st := range c.Strategies {
		if st.Name == "" {
			return errors.New("strategy: name must not be empty")
		}
		if seen[st.Name] {
			return fmt.Errorf("strategy %s: duplicate name", st.Name)
		}
		seen[st.Name] = true
		if _, err := st.Style(); err != nil {
			return fmt.Errorf("strategy %s: %w", st.Name, err)
		}
	}
	return nil
}

// Style parses the strategy's preflop and aggression settings.
func (s Strategy) Style() (bot.Style, error) {
	return bot.ParseStyle(s.Preflop, s.Aggression)
}
