// Package simulator plays many independent games between scripted
// strategies and aggregates how each strategy fared.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdemlab/internal/bot"
	"github.com/lox/holdemlab/internal/game"
	"github.com/lox/holdemlab/internal/preflop"
	"github.com/lox/holdemlab/internal/randutil"
	"github.com/lox/holdemlab/internal/resultlog"
	"github.com/lox/holdemlab/internal/statistics"
)

// Entrant is a strategy taking a seat in every game.
type Entrant struct {
	Name  string
	Style bot.Style
}

// Config holds configuration for running simulations
type Config struct {
	RunID     string // stamped on every results-log line
	Games     int
	Seed      int64
	Workers   int // 0 uses every CPU
	Rules     game.Config
	Entrants  []Entrant
	Table     *preflop.Table
	ResultLog *resultlog.Writer // optional
	Clock     quartz.Clock
	Logger    *log.Logger

	// Progress, if set, is called from worker goroutines as each game
	// finishes.
	Progress func(done, total int)
}

// Report is the outcome of a run.
type Report struct {
	Games   int // games completed
	Hands   int
	Carry   int // odd chips stranded at the end of games
	Order   []string
	Stats   map[string]*statistics.Statistics
	Elapsed time.Duration
}

// Simulator runs poker game simulations
type Simulator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock

	seat func(index int, e Entrant, rng *rand.Rand, logger *log.Logger) (game.Decider, error)
}

// New creates a new simulator with the given configuration
func New(config Config) (*Simulator, error) {
	if config.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", config.Games)
	}
	if config.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", config.Workers)
	}
	if n := len(config.Entrants); n < game.MinSeats || n > game.MaxSeats {
		return nil, fmt.Errorf("need %d-%d entrants, got %d", game.MinSeats, game.MaxSeats, n)
	}
	seen := make(map[string]bool)
	for _, e := range config.Entrants {
		if seen[e.Name] {
			return nil, fmt.Errorf("duplicate entrant %q", e.Name)
		}
		seen[e.Name] = true
	}
	if err := config.Rules.Validate(); err != nil {
		return nil, err
	}
	if config.Table == nil {
		config.Table = preflop.Default()
	}

	s := &Simulator{config: config, logger: config.Logger, clock: config.Clock}
	s.seat = func(_ int, e Entrant, rng *rand.Rand, logger *log.Logger) (game.Decider, error) {
		return bot.New(e.Name, e.Style, config.Table, rng, logger)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	return s, nil
}

// gameResult is one game's outcome with seats mapped back to entrant order.
type gameResult struct {
	hands   int
	carry   int
	results []game.SeatResult
}

// Run plays every game and aggregates the results in game order. Games run
// in parallel, each drawing cards from its own seeded stream, so a seed
// gives the same report for any number of workers. Cancelling ctx stops new
// games from starting; games already dealt play to the end, and the report
// covers the games that finished. A game that fails stops the run the same
// way and its error is returned.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	start := s.clock.Now()
	workers := s.config.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}

	s.logger.Info("starting simulation", "games", s.config.Games, "entrants", len(s.config.Entrants),
		"workers", workers, "seed", s.config.Seed)

	games := make([]*gameResult, s.config.Games)
	ordered := newOrderedWriter(s.config.ResultLog)
	var finished atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range s.config.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := s.playGame(i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			games[i] = res
			ordered.done(i, s.record(i, res))
			if s.config.Progress != nil {
				s.config.Progress(int(finished.Add(1)), s.config.Games)
			}
			return nil
		})
	}
	runErr := g.Wait()

	report := s.aggregate(games)
	report.Elapsed = s.clock.Since(start)

	if runErr != nil {
		s.logger.Error("simulation aborted", "completed", report.Games, "games", s.config.Games, "error", runErr)
		return report, runErr
	}
	if err := ctx.Err(); err != nil {
		s.logger.Warn("simulation interrupted", "completed", report.Games, "games", s.config.Games)
		return report, err
	}
	for _, name := range report.Order {
		if err := report.Stats[name].Validate(); err != nil {
			return report, fmt.Errorf("statistics for %s: %w", name, err)
		}
	}
	if s.config.ResultLog != nil {
		if err := s.config.ResultLog.Err(); err != nil {
			return report, err
		}
	}

	s.logger.Info("simulation finished", "games", report.Games, "hands", report.Hands, "elapsed", report.Elapsed)
	return report, nil
}

// playGame seats the entrants in a shuffled order and plays one game.
func (s *Simulator) playGame(index int) (*gameResult, error) {
	rng := randutil.Stream(s.config.Seed, uint64(index))
	order := rng.Perm(len(s.config.Entrants))

	logger := s.logger.With("game", index)
	seats := make([]game.Seat, len(order))
	for i, e := range order {
		entrant := s.config.Entrants[e]
		decider, err := s.seat(index, entrant, rng, logger)
		if err != nil {
			return nil, err
		}
		seats[i] = game.Seat{Name: entrant.Name, Decider: decider}
	}

	rules := s.config.Rules
	rules.Logger = logger
	g, err := game.NewGame(rules, rng, seats)
	if err != nil {
		return nil, err
	}
	seatResults, err := g.Play()
	if err != nil {
		return nil, err
	}

	res := &gameResult{
		hands:   g.HandsPlayed(),
		carry:   g.Carry(),
		results: make([]game.SeatResult, len(order)),
	}
	for i, e := range order {
		res.results[e] = seatResults[i]
	}
	logger.Debug("game finished", "hands", res.hands, "carry", res.carry)
	return res, nil
}

func (s *Simulator) record(index int, res *gameResult) resultlog.Record {
	r := resultlog.Record{
		Run:   s.config.RunID,
		Game:  index,
		Seed:  s.config.Seed,
		Hands: res.hands,
		Carry: res.carry,
	}
	for _, sr := range res.results {
		r.Results = append(r.Results, resultlog.Entry{Name: sr.Name, Net: sr.Net})
	}
	return r
}

func (s *Simulator) aggregate(games []*gameResult) *Report {
	report := &Report{Stats: make(map[string]*statistics.Statistics)}
	for _, e := range s.config.Entrants {
		report.Order = append(report.Order, e.Name)
		report.Stats[e.Name] = &statistics.Statistics{}
	}

	for _, res := range games {
		if res == nil {
			continue
		}
		report.Games++
		report.Hands += res.hands
		report.Carry += res.carry
		for _, sr := range res.results {
			report.Stats[sr.Name].Add(statistics.GameResult{
				Net:          float64(sr.Net),
				Hands:        sr.Hands,
				HandsWon:     sr.HandsWon,
				Showdowns:    sr.Showdowns,
				ShowdownWins: sr.ShowdownWins,
				Busted:       sr.Busted,
			})
		}
	}
	return report
}

// orderedWriter releases records to the results log in game order as
// games finish out of order.
type orderedWriter struct {
	mu      sync.Mutex
	w       *resultlog.Writer
	next    int
	pending map[int]resultlog.Record
}

func newOrderedWriter(w *resultlog.Writer) *orderedWriter {
	return &orderedWriter{w: w, pending: make(map[int]resultlog.Record)}
}

func (o *orderedWriter) done(index int, r resultlog.Record) {
	if o.w == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pending[index] = r
	for {
		rec, ok := o.pending[o.next]
		if !ok {
			return
		}
		delete(o.pending, o.next)
		o.w.Write(rec)
		o.next++
	}
}

// ErrNoGames is returned by Leader when no game finished.
var ErrNoGames = errors.New("no games completed")

// Leader returns the entrant with the highest mean net chips per game.
func (r *Report) Leader() (string, error) {
	if r.Games == 0 {
		return "", ErrNoGames
	}
	best := r.Order[0]
	for _, name := range r.Order[1:] {
		if r.Stats[name].Mean() > r.Stats[best].Mean() {
			best = name
		}
	}
	return best, nil
}
