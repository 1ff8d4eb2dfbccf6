package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/holdemlab/internal/config"
	"github.com/lox/holdemlab/internal/preflop"
	"github.com/lox/holdemlab/internal/resultlog"
	"github.com/lox/holdemlab/internal/runid"
	"github.com/lox/holdemlab/internal/simulator"
)

type CLI struct {
	Config   string `short:"c" help:"HCL configuration file" default:"simulate.hcl" type:"path"`
	Games    int    `short:"g" help:"Number of games (overrides config)"`
	Hands    int    `help:"Hands per game (overrides config)"`
	Seed     *int64 `help:"RNG seed (overrides config)"`
	Workers  int    `short:"w" help:"Games played in parallel, 0 for every CPU (overrides config)"`
	Results  string `short:"r" help:"Append one JSON line per game to this file (overrides config)"`
	Verbose  bool   `short:"v" help:"Verbose logging and full per-strategy breakdown"`
	Progress bool   `short:"p" help:"Show a live game count on stderr (ignored with --verbose)"`
	NoColor  bool   `help:"Disable colored output"`
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	profitStyle = cellStyle.Foreground(lipgloss.Color("10"))
	lossStyle   = cellStyle.Foreground(lipgloss.Color("9"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("simulate"),
		kong.Description("Play scripted hold'em strategies against each other and compare results"))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	runCtx := setupSignalHandler()
	if err := run(runCtx, cli, os.Stdout, os.Stderr); err != nil {
		log.Error("Simulation failed", "error", err)
		ctx.Exit(1)
	}
}

// setupSignalHandler returns a context cancelled on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info("Received signal, finishing games in progress", "signal", sig.String())
		cancel()
	}()

	return ctx
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cli CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}

	s := &cfg.Simulation
	if cli.Games > 0 {
		s.Games = cli.Games
	}
	if cli.Hands > 0 {
		s.HandsPerGame = cli.Hands
	}
	if cli.Seed != nil {
		s.Seed = *cli.Seed
	}
	if cli.Workers > 0 {
		s.Workers = cli.Workers
	}
	if cli.Results != "" {
		s.ResultsLog = cli.Results
	}
	if cli.Verbose {
		s.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cli CLI, stdout, stderr io.Writer) (err error) {
	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	level, err := cfg.Simulation.Level()
	if err != nil {
		return err
	}
	showProgress := cli.Progress && !cli.Verbose
	if showProgress && level < log.WarnLevel {
		level = log.WarnLevel
	}
	logger := log.NewWithOptions(stderr, log.Options{Level: level, ReportTimestamp: true})

	ranges := preflop.Default()
	if cfg.Simulation.RangeTable != "" {
		if ranges, err = preflop.LoadFile(cfg.Simulation.RangeTable); err != nil {
			return err
		}
	}

	clock := quartz.NewReal()
	runID, err := runid.New(clock)
	if err != nil {
		return err
	}
	logger = logger.With("run", runID)

	var results *resultlog.Writer
	if cfg.Simulation.ResultsLog != "" {
		if results, err = resultlog.Create(cfg.Simulation.ResultsLog, clock); err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, results.Close())
		}()
	}

	entrants := make([]simulator.Entrant, len(cfg.Strategies))
	for i, st := range cfg.Strategies {
		style, err := st.Style()
		if err != nil {
			return err
		}
		entrants[i] = simulator.Entrant{Name: st.Name, Style: style}
	}

	var display *progressDisplay
	var progress func(done, total int)
	if showProgress {
		display = startProgress(stderr, cfg.Simulation.Games)
		progress = display.update
	}

	sim, err := simulator.New(simulator.Config{
		RunID:     runID,
		Games:     cfg.Simulation.Games,
		Seed:      cfg.Simulation.Seed,
		Workers:   cfg.Simulation.Workers,
		Rules:     cfg.GameConfig(nil),
		Entrants:  entrants,
		Table:     ranges,
		ResultLog: results,
		Clock:     clock,
		Logger:    logger,
		Progress:  progress,
	})
	if err != nil {
		if display != nil {
			display.stop()
		}
		return err
	}

	report, runErr := sim.Run(ctx)
	if display != nil {
		if err := display.stop(); err != nil {
			logger.Warn("Progress display failed", "error", err)
		}
	}
	if report != nil && report.Games > 0 {
		printTable(stdout, cfg, report)
		if cli.Verbose {
			simulator.PrintSummary(stdout, report)
		}
	}
	return runErr
}

func printTable(w io.Writer, cfg *config.Config, r *simulator.Report) {
	t := cfg.Table
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d games, %d hands, blinds %d/%d, %d chips",
		r.Games, r.Hands, t.SmallBlind, t.BigBlind, t.StartingChips)))

	rows := make([][]string, 0, len(r.Order))
	for _, name := range r.Order {
		s := r.Stats[name]
		low, high := s.ConfidenceInterval95()
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%+.2f", s.Mean()),
			fmt.Sprintf("[%.1f, %.1f]", low, high),
			fmt.Sprintf("%.1f", s.Median()),
			fmt.Sprintf("%d", s.HandsWon()),
			fmt.Sprintf("%d/%d", s.ShowdownWins, s.Showdowns),
			fmt.Sprintf("%d", s.Busts),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Strategy", "Mean", "95% CI", "Median", "Pots won", "Showdowns won", "Busts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 1 && r.Stats[r.Order[row]].Mean() >= 0:
				return profitStyle
			case col == 1:
				return lossStyle
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, tbl.Render())

	if leader, err := r.Leader(); err == nil {
		fmt.Fprintf(w, "Leader: %s (%.2f chips/game over %s)\n", leader, r.Stats[leader].Mean(), r.Elapsed.Round(time.Millisecond))
	}
}
