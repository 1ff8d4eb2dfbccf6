package game

import (
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemlab/poker"
)

// Config holds the table rules for a game.
type Config struct {
	SmallBlind    int
	BigBlind      int
	StartingChips int
	MaxRaises     int // per betting round, 0 for no cap
	Hands         int // hands to play before the game stops
	Logger        *log.Logger
}

// Validate checks the table rules.
func (c Config) Validate() error {
	switch {
	case c.SmallBlind <= 0:
		return fmt.Errorf("small blind must be positive, got %d", c.SmallBlind)
	case c.BigBlind < c.SmallBlind:
		return fmt.Errorf("big blind %d below small blind %d", c.BigBlind, c.SmallBlind)
	case c.StartingChips < c.BigBlind:
		return fmt.Errorf("starting chips %d below big blind %d", c.StartingChips, c.BigBlind)
	case c.MaxRaises < 0:
		return fmt.Errorf("max raises must not be negative, got %d", c.MaxRaises)
	case c.Hands <= 0:
		return fmt.Errorf("hands must be positive, got %d", c.Hands)
	}
	return nil
}

const (
	MinSeats = 2
	MaxSeats = 10
)

// Seat is a player joining the table.
type Seat struct {
	Name    string
	Decider Decider
}

// SeatResult summarises one seat's game.
type SeatResult struct {
	Name         string
	Chips        int
	Net          int
	Hands        int
	HandsWon     int
	Showdowns    int
	ShowdownWins int
	Busted       bool
}

// ErrChipsNotConserved reports chips created or destroyed by a hand.
var ErrChipsNotConserved = errors.New("chips not conserved")

type seatState struct {
	Seat
	player *Player
	result SeatResult
}

// Game plays a run of hands at one table.
type Game struct {
	cfg    Config
	logger *log.Logger
	deck   *poker.Deck
	seats  []*seatState
	button int // seat index
	carry  int
	total  int
	hands  int
}

// NewGame seats players in the given order with the configured stack. The
// first seat has the button for the first hand.
func NewGame(cfg Config, rng *rand.Rand, seats []Seat) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(seats) < MinSeats || len(seats) > MaxSeats {
		return nil, fmt.Errorf("need %d-%d seats, got %d", MinSeats, MaxSeats, len(seats))
	}
	if rng == nil {
		return nil, errors.New("rng is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	g := &Game{
		cfg:    cfg,
		logger: logger,
		deck:   poker.NewDeck(rng),
		total:  cfg.StartingChips * len(seats),
	}
	for i, s := range seats {
		if s.Decider == nil {
			return nil, fmt.Errorf("seat %d (%s) has no decider", i, s.Name)
		}
		g.seats = append(g.seats, &seatState{
			Seat:   s,
			player: &Player{Seat: i, Name: s.Name, Chips: cfg.StartingChips},
			result: SeatResult{Name: s.Name},
		})
	}
	return g, nil
}

// HandsPlayed returns the number of hands dealt so far.
func (g *Game) HandsPlayed() int {
	return g.hands
}

// Carry returns the chips waiting to join the next hand's pot.
func (g *Game) Carry() int {
	return g.carry
}

// Done reports whether the game has reached its hand limit or has a single
// player with chips.
func (g *Game) Done() bool {
	return g.hands >= g.cfg.Hands || len(g.funded()) < 2
}

// Play deals hands until the game is done and returns each seat's result in
// seating order.
func (g *Game) Play() ([]SeatResult, error) {
	for !g.Done() {
		if err := g.PlayHand(); err != nil {
			return nil, err
		}
	}
	g.logger.Debug("game finished", "hands", g.hands, "carry", g.carry)
	return g.Results(), nil
}

// Results returns each seat's result so far in seating order.
func (g *Game) Results() []SeatResult {
	results := make([]SeatResult, len(g.seats))
	for i, s := range g.seats {
		r := s.result
		r.Chips = s.player.Chips
		r.Net = s.player.Chips - g.cfg.StartingChips
		r.Busted = s.player.Chips == 0
		results[i] = r
	}
	return results
}

// funded returns the seats that still have chips.
func (g *Game) funded() []*seatState {
	var out []*seatState
	for _, s := range g.seats {
		if s.player.Chips > 0 {
			out = append(out, s)
		}
	}
	return out
}

// PlayHand deals one hand among the seats with chips, runs the betting and
// settles the pots.
func (g *Game) PlayHand() error {
	inHand := g.funded()
	if len(inHand) < 2 {
		return errors.New("fewer than two players with chips")
	}

	g.hands++
	g.deck.Shuffle()

	players := make([]*Player, len(inHand))
	button := 0
	for i, s := range inHand {
		players[i] = s.player
		if s.player.Seat == g.button {
			button = i
		}
	}

	h, err := NewHand(g.deck, players, button, g.cfg.SmallBlind, g.cfg.BigBlind, g.cfg.MaxRaises, g.carry)
	if err != nil {
		return fmt.Errorf("hand %d: %w", g.hands, err)
	}
	g.carry = 0

	for !h.IsComplete() {
		s := inHand[h.ActivePlayer]
		v := h.view(g.hands)
		d, err := s.Decider.Decide(v)
		if err != nil {
			return fmt.Errorf("hand %d: %s deciding on the %s: %w", g.hands, s.Name, v.Street, err)
		}
		g.logger.Debug("action", "hand", g.hands, "player", s.Name, "street", v.Street,
			"action", d, "pot", v.Pot, "reason", d.Reasoning)
		if err := h.ProcessAction(d.Action, d.Amount); err != nil {
			return fmt.Errorf("hand %d: %s: %w", g.hands, s.Name, err)
		}
	}

	settlement, err := h.Settle()
	if err != nil {
		return fmt.Errorf("hand %d: %w", g.hands, err)
	}
	g.carry = settlement.Carry
	g.record(inHand, h, settlement)

	if err := g.checkChips(); err != nil {
		return fmt.Errorf("hand %d: %w", g.hands, err)
	}

	g.button = g.nextButton()
	return nil
}

func (g *Game) record(inHand []*seatState, h *HandState, s Settlement) {
	for i, seat := range inHand {
		r := &seat.result
		r.Hands++
		won := s.Won(i)
		if won {
			r.HandsWon++
		}
		if _, shown := s.Ranks[i]; shown {
			r.Showdowns++
			if won {
				r.ShowdownWins++
			}
		}
		if s.Payouts[i] > 0 {
			g.logger.Debug("pot awarded", "hand", g.hands, "player", seat.Name,
				"amount", s.Payouts[i], "net", s.Net[i], "showdown", s.Showdown)
		}
		if seat.player.Chips == 0 {
			g.logger.Debug("player busted", "hand", g.hands, "player", seat.Name)
		}
	}
	if s.Carry > 0 {
		g.logger.Debug("odd chips carried", "hand", g.hands, "carry", s.Carry, "board", poker.FormatCards(h.Board))
	}
}

func (g *Game) checkChips() error {
	sum := g.carry
	for _, s := range g.seats {
		if s.player.Chips < 0 {
			return fmt.Errorf("%w: %s has %d chips", ErrChipsNotConserved, s.Name, s.player.Chips)
		}
		sum += s.player.Chips
	}
	if sum != g.total {
		return fmt.Errorf("%w: %d on the table, expected %d", ErrChipsNotConserved, sum, g.total)
	}
	return nil
}

// nextButton moves the button to the next seat that still has chips.
func (g *Game) nextButton() int {
	n := len(g.seats)
	for i := 1; i <= n; i++ {
		seat := (g.button + i) % n
		if g.seats[seat].player.Chips > 0 {
			return seat
		}
	}
	return g.button
}
