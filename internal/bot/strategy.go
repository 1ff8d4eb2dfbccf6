// Package bot implements the scripted strategies seated in simulations.
// Each strategy plays a preflop range from a range table and decides
// postflop by comparing the closed-form win estimate with the pot odds.
package bot

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/holdemlab/internal/game"
	"github.com/lox/holdemlab/internal/preflop"
	"github.com/lox/holdemlab/poker"
	"github.com/lox/holdemlab/sdk/analysis"
	"github.com/lox/holdemlab/sdk/classification"
)

const (
	// Aggressive strategies bet when nobody has and they estimate at least
	// this chance of winning.
	betThreshold = 0.7
	// Facing a bet they raise from here.
	raiseThreshold = 0.8
	// Share of strong draws an aggressive strategy bets as a semi-bluff.
	semiBluffRate = 0.25
)

// Strategy is a scripted player. It implements game.Decider.
type Strategy struct {
	name   string
	style  Style
	table  *preflop.Table
	rng    *rand.Rand
	logger *log.Logger
}

// New creates a strategy. The range table is required; rng drives the
// occasional semi-bluff.
func New(name string, style Style, table *preflop.Table, rng *rand.Rand, logger *log.Logger) (*Strategy, error) {
	if table == nil {
		return nil, errors.New("range table is required")
	}
	if rng == nil {
		return nil, errors.New("rng is required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Strategy{
		name:   name,
		style:  style,
		table:  table,
		rng:    rng,
		logger: logger.WithPrefix(name),
	}, nil
}

// Name returns the strategy's name.
func (s *Strategy) Name() string {
	return s.name
}

// Style returns the strategy's style.
func (s *Strategy) Style() Style {
	return s.style
}

// Decide chooses an action for the view. Errors from the engine are
// returned, never papered over with a default action.
func (s *Strategy) Decide(v game.View) (game.Decision, error) {
	if len(v.Hole) != 2 {
		return game.Decision{}, &poker.InvalidHandError{Count: len(v.Hole), Reason: "need exactly 2 hole cards"}
	}

	thinking := &ThinkingContext{}
	var d game.Decision
	if v.Street == game.Preflop {
		d = s.decidePreflop(v, thinking)
	} else {
		var err error
		if d, err = s.decidePostflop(v, thinking); err != nil {
			return game.Decision{}, fmt.Errorf("%s on the %s: %w", s.name, v.Street, err)
		}
	}
	d.Reasoning = thinking.GetThoughts()

	s.logger.Debug("decision", "street", v.Street, "hole", poker.FormatCards(v.Hole),
		"board", poker.FormatCards(v.Board), "decision", d, "reasoning", d.Reasoning)
	return d, nil
}

func (s *Strategy) decidePreflop(v game.View, thinking *ThinkingContext) game.Decision {
	hand := poker.NewStartingHand(v.Hole[0], v.Hole[1])
	minPosition := s.table.Lookup(hand)

	if !s.table.Playable(hand, v.Position, s.style.Range.widen()) {
		if minPosition == preflop.Never {
			thinking.AddThought("%s is never played", hand)
		} else {
			thinking.AddThought("%s needs position %d, have %d", hand, minPosition, v.Position)
		}
		return s.giveUp(v, thinking)
	}
	thinking.AddThought("%s is in range from position %d", hand, v.Position)

	// Hands playable from every seat are worth a raise
	if s.style.Aggression == Aggressive && minPosition == 0 {
		if d, ok := s.raise(v, 3*v.CurrentBet, thinking); ok {
			return d
		}
	}
	return s.continueAction(v, thinking)
}

func (s *Strategy) decidePostflop(v game.View, thinking *ThinkingContext) (game.Decision, error) {
	est, err := analysis.EstimateFromCards(v.Hole, v.Board, v.Opponents)
	if err != nil {
		return game.Decision{}, err
	}

	potOdds := 0.0
	if v.ToCall > 0 {
		potOdds = float64(v.ToCall) / float64(v.Pot+v.ToCall)
	}
	texture := classification.Texture(poker.NewHand(v.Board...))
	thinking.AddThought("%s on a %s board, %.0f%% to win against %d",
		est.Outs.Current.Describe(), texture, est.Win*100, v.Opponents)
	if v.ToCall > 0 {
		thinking.AddThought("pot odds %.0f%%", potOdds*100)
	}

	if s.style.Aggression == Aggressive {
		threshold := betThreshold
		if v.ToCall > 0 {
			threshold = raiseThreshold
		}
		if est.Win >= threshold {
			if d, ok := s.raise(v, v.CurrentBet+v.Pot/2, thinking); ok {
				return d, nil
			}
		}

		if v.ToCall == 0 && v.Street != game.River {
			draws := classification.DetectDraws(poker.NewHand(v.Hole...), poker.NewHand(v.Board...))
			if draws.HasStrongDraw() && s.rng.Float64() < semiBluffRate {
				thinking.AddThought("semi-bluffing %v with %d outs", draws.Draws, draws.Outs)
				if d, ok := s.raise(v, v.Pot/2, thinking); ok {
					return d, nil
				}
			}
		}
	}

	if v.ToCall == 0 || est.Win >= potOdds {
		return s.continueAction(v, thinking), nil
	}
	thinking.AddThought("not enough equity to continue")
	return s.giveUp(v, thinking), nil
}

// raise raises to target, kept between the minimum raise and the stack.
// ok is false when no raise is on offer.
func (s *Strategy) raise(v game.View, target int, thinking *ThinkingContext) (game.Decision, bool) {
	stack := v.Chips + v.Bet
	switch {
	case v.CanRaise():
		amount := min(max(target, v.MinRaiseTo), stack)
		thinking.AddThought("raising to %d", amount)
		return game.Decision{Action: game.Raise, Amount: amount}, true
	case v.Can(game.AllIn) && v.Chips > v.ToCall:
		thinking.AddThought("too short to raise, moving all-in")
		return game.Decision{Action: game.AllIn}, true
	}
	return game.Decision{}, false
}

// continueAction checks or calls, going all-in when a call needs the whole
// stack.
func (s *Strategy) continueAction(v game.View, thinking *ThinkingContext) game.Decision {
	switch {
	case v.Can(game.Check):
		thinking.AddThought("checking")
		return game.Decision{Action: game.Check}
	case v.Can(game.Call):
		thinking.AddThought("calling %d", v.ToCall)
		return game.Decision{Action: game.Call}
	default:
		thinking.AddThought("calling all-in")
		return game.Decision{Action: game.AllIn}
	}
}

// giveUp checks when it is free, otherwise folds.
func (s *Strategy) giveUp(v game.View, thinking *ThinkingContext) game.Decision {
	if v.Can(game.Check) {
		thinking.AddThought("checking for free")
		return game.Decision{Action: game.Check}
	}
	thinking.AddThought("folding")
	return game.Decision{Action: game.Fold}
}
