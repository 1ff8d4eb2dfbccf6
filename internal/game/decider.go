package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdemlab/poker"
)

// View is what a player may see when it is their turn.
type View struct {
	Hand         int // hand number within the game, from 1
	Street       Street
	Hole         []poker.Card
	Board        []poker.Card
	Pot          int // every chip committed so far, including this street
	ToCall       int
	CurrentBet   int
	MinRaiseTo   int
	Chips        int
	Bet          int
	Position     int // preflop acting order, 0 first
	Players      int // players dealt into the hand
	Opponents    int // opponents who have not folded
	ValidActions []Action
}

// CanRaise reports whether a full raise is on offer.
func (v View) CanRaise() bool {
	return slices.Contains(v.ValidActions, Raise)
}

// Can reports whether the action is on offer.
func (v View) Can(a Action) bool {
	return slices.Contains(v.ValidActions, a)
}

// Decision is a player's chosen action. Amount is the total to raise to and
// is ignored for other actions.
type Decision struct {
	Action    Action
	Amount    int
	Reasoning string
}

func (d Decision) String() string {
	if d.Action == Raise {
		return fmt.Sprintf("raise to %d", d.Amount)
	}
	return d.Action.String()
}

// Decider chooses actions for one seat.
type Decider interface {
	Decide(View) (Decision, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(View) (Decision, error)

// Decide calls f.
func (f DeciderFunc) Decide(v View) (Decision, error) {
	return f(v)
}

// view builds the acting player's view of the hand.
func (h *HandState) view(hand int) View {
	p := h.Players[h.ActivePlayer]
	return View{
		Hand:         hand,
		Street:       h.Street,
		Hole:         p.HoleCards.Cards(),
		Board:        slices.Clone(h.Board),
		Pot:          h.Pot(),
		ToCall:       max(0, h.Betting.CurrentBet-p.Bet),
		CurrentBet:   h.Betting.CurrentBet,
		MinRaiseTo:   min(h.Betting.MinRaiseTo(), p.Chips+p.Bet),
		Chips:        p.Chips,
		Bet:          p.Bet,
		Position:     h.Position(h.ActivePlayer),
		Players:      len(h.Players),
		Opponents:    h.countInHand() - 1,
		ValidActions: h.GetValidActions(),
	}
}
