package game

import (
	"github.com/lox/holdemlab/poker"
)

// Player represents a player in a hand
type Player struct {
	Seat      int // index into the table's seats
	Name      string
	Chips     int
	HoleCards poker.Hand
	Folded    bool
	AllInFlag bool
	Bet       int // Current bet in this round
	TotalBet  int // Total bet in the hand
}

// IsActive returns true if the player can still act
func (p *Player) IsActive() bool {
	return !p.Folded && !p.AllInFlag && p.Chips > 0
}

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return !p.Folded
}

// commit moves up to amount chips from the stack into the current bet and
// returns what was actually moved.
func (p *Player) commit(amount int) int {
	amount = min(amount, p.Chips)
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.AllInFlag = true
	}
	return amount
}
