package game

import (
	"fmt"
	"slices"

	"github.com/lox/holdemlab/poker"
)

// HandState represents the state of a poker hand
type HandState struct {
	Players      []*Player
	Button       int
	Street       Street
	Board        []poker.Card
	PotManager   *PotManager
	ActivePlayer int
	Deck         *poker.Deck
	Betting      *BettingRound

	firstPreflop int
}

// NewHand seats players, posts blinds, deals hole cards and sets the first
// player to act. Players keep their chip counts; per-hand flags are reset.
// carry is added to the main pot.
func NewHand(deck *poker.Deck, players []*Player, button, smallBlind, bigBlind, maxRaises, carry int) (*HandState, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(players))
	}
	if button < 0 || button >= len(players) {
		return nil, fmt.Errorf("button %d out of range", button)
	}
	for _, p := range players {
		if p.Chips <= 0 {
			return nil, fmt.Errorf("player %s has no chips", p.Name)
		}
		p.HoleCards = 0
		p.Folded = false
		p.AllInFlag = false
		p.Bet = 0
		p.TotalBet = 0
	}

	h := &HandState{
		Players:    players,
		Button:     button,
		Street:     Preflop,
		Board:      make([]poker.Card, 0, 5),
		Deck:       deck,
		PotManager: NewPotManager(players, carry),
		Betting:    NewBettingRound(len(players), bigBlind, maxRaises),
	}

	h.postBlinds(smallBlind, bigBlind)
	if err := h.dealHoleCards(); err != nil {
		return nil, err
	}

	h.firstPreflop = (h.bigBlindPos() + 1) % len(players)
	h.ActivePlayer = h.nextActivePlayer(h.firstPreflop)
	if h.ActivePlayer == -1 || h.Betting.IsBettingComplete(h.Players) {
		if err := h.NextStreet(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (h *HandState) smallBlindPos() int {
	if len(h.Players) == 2 {
		// Heads-up: button posts small blind
		return h.Button
	}
	return (h.Button + 1) % len(h.Players)
}

func (h *HandState) bigBlindPos() int {
	return (h.smallBlindPos() + 1) % len(h.Players)
}

func (h *HandState) postBlinds(smallBlind, bigBlind int) {
	h.Players[h.smallBlindPos()].commit(smallBlind)
	h.Players[h.bigBlindPos()].commit(bigBlind)

	h.Betting.CurrentBet = bigBlind
	// Bets stay in player.Bet until NextStreet
}

func (h *HandState) dealHoleCards() error {
	for _, p := range h.Players {
		cards := h.Deck.Deal(2)
		if cards == nil {
			return fmt.Errorf("deck exhausted dealing to %s", p.Name)
		}
		p.HoleCards = poker.NewHand(cards...)
	}
	return nil
}

// Position returns the player's place in the preflop acting order: 0 acts
// first, the big blind acts last.
func (h *HandState) Position(player int) int {
	n := len(h.Players)
	return (player - h.firstPreflop + n) % n
}

// GetValidActions returns valid actions for the current player
func (h *HandState) GetValidActions() []Action {
	if h.ActivePlayer < 0 || h.ActivePlayer >= len(h.Players) {
		return []Action{}
	}
	p := h.Players[h.ActivePlayer]
	actions := h.Betting.GetValidActions(p)
	if !h.Betting.ActedThisRound[h.ActivePlayer] {
		return actions
	}
	// Only short all-ins have come since this player acted, so the action
	// is not reopened: call or fold.
	toCall := h.Betting.CurrentBet - p.Bet
	return slices.DeleteFunc(actions, func(a Action) bool {
		return a == Raise || (a == AllIn && p.Chips > toCall)
	})
}

// ProcessAction applies the current player's action. For Raise, amount is
// the total bet the player raises to. Actions not offered by
// GetValidActions are rejected.
func (h *HandState) ProcessAction(action Action, amount int) error {
	if h.IsComplete() {
		return fmt.Errorf("hand is complete")
	}
	if !slices.Contains(h.GetValidActions(), action) {
		return fmt.Errorf("%s not allowed for %s", action, h.Players[h.ActivePlayer].Name)
	}

	seat := h.ActivePlayer
	p := h.Players[seat]

	switch action {
	case Fold:
		p.Folded = true

	case Check:

	case Call:
		p.commit(h.Betting.CurrentBet - p.Bet)

	case Raise:
		stack := p.Chips + p.Bet
		if amount > stack {
			return fmt.Errorf("insufficient chips: raise to %d with %d", amount, stack)
		}
		// Below the minimum is only allowed as an all-in
		if amount < h.Betting.MinRaiseTo() && amount < stack {
			return fmt.Errorf("raise too small, minimum %d", h.Betting.MinRaiseTo())
		}
		p.commit(amount - p.Bet)
		h.Betting.raiseTo(seat, p.Bet)

	case AllIn:
		p.commit(p.Chips)
		if p.Bet > h.Betting.CurrentBet {
			h.Betting.raiseTo(seat, p.Bet)
		}
	}

	h.Betting.MarkPlayerActed(seat)
	return h.advance(seat + 1)
}

// advance moves to the next player to act, or to the next street when the
// round is over.
func (h *HandState) advance(from int) error {
	if h.IsComplete() {
		h.PotManager.CollectBets(h.Players)
		return nil
	}
	h.ActivePlayer = h.nextActivePlayer(from)
	if h.ActivePlayer == -1 || h.Betting.IsBettingComplete(h.Players) {
		return h.NextStreet()
	}
	return nil
}

func (h *HandState) nextActivePlayer(from int) int {
	n := len(h.Players)
	for i := range n {
		pos := (from + i) % n
		if h.Players[pos].IsActive() {
			return pos
		}
	}
	return -1
}

// NextStreet collects bets, burns a card and deals the next street's
// community cards. When nobody can act any more the remaining streets are
// dealt straight through to the showdown.
func (h *HandState) NextStreet() error {
	h.PotManager.CollectBets(h.Players)
	h.Betting.ResetForNewRound(len(h.Players))

	for h.Street != Showdown {
		h.Street++
		if n := h.Street.boardCards(); n > 0 {
			h.Deck.Burn()
			cards := h.Deck.Deal(n)
			if cards == nil {
				return fmt.Errorf("deck exhausted dealing the %s", h.Street)
			}
			h.Board = append(h.Board, cards...)
		}
		if h.Street == Showdown {
			break
		}

		// Postflop the first active player after the button opens
		h.ActivePlayer = h.nextActivePlayer(h.Button + 1)
		if h.ActivePlayer != -1 && h.countActive() > 1 {
			return nil
		}
	}
	h.ActivePlayer = -1
	return nil
}

func (h *HandState) countActive() int {
	n := 0
	for _, p := range h.Players {
		if p.IsActive() {
			n++
		}
	}
	return n
}

func (h *HandState) countInHand() int {
	n := 0
	for _, p := range h.Players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// Pot returns all chips committed to the hand, including the carry.
func (h *HandState) Pot() int {
	return h.PotManager.Total(h.Players)
}

// GetPots returns the current pots including uncollected bets
func (h *HandState) GetPots() []Pot {
	h.PotManager.CalculateSidePots(h.Players)
	return h.PotManager.GetPots()
}

// IsComplete returns true if the hand is complete
func (h *HandState) IsComplete() bool {
	return h.Street == Showdown || h.countInHand() <= 1
}

// Settlement is the outcome of a finished hand.
type Settlement struct {
	Payouts  []int                  // chips awarded, by player index
	Net      []int                  // payout minus contribution, by player index
	Ranks    map[int]poker.HandRank // shown hands, by player index
	Winners  [][]int                // winners of each pot, in pot order
	Showdown bool                   // more than one player reached the end
	Carry    int                    // odd chips left for the next hand
}

// Won reports whether the player collected more than they put in.
func (s Settlement) Won(player int) bool {
	return s.Net[player] > 0
}

// Settle awards the pots and credits the winners' stacks. Each pot goes to
// the best hand among its eligible players; ties split it evenly and any
// remainder is carried.
func (h *HandState) Settle() (Settlement, error) {
	if !h.IsComplete() {
		return Settlement{}, fmt.Errorf("hand not complete: %s", h.Street)
	}

	s := Settlement{
		Payouts:  make([]int, len(h.Players)),
		Net:      make([]int, len(h.Players)),
		Ranks:    make(map[int]poker.HandRank),
		Showdown: h.countInHand() > 1,
	}

	if s.Showdown {
		for i, p := range h.Players {
			if !p.InHand() {
				continue
			}
			rank, err := poker.Evaluate(append(p.HoleCards.Cards(), h.Board...))
			if err != nil {
				return Settlement{}, fmt.Errorf("evaluate %s: %w", p.Name, err)
			}
			s.Ranks[i] = rank
		}
	}

	for _, pot := range h.GetPots() {
		winners := h.potWinners(pot, s.Ranks)
		s.Winners = append(s.Winners, winners)
		if len(winners) == 0 {
			s.Carry += pot.Amount
			continue
		}
		share := pot.Amount / len(winners)
		for _, w := range winners {
			s.Payouts[w] += share
		}
		s.Carry += pot.Amount - share*len(winners)
	}

	for i, p := range h.Players {
		p.Chips += s.Payouts[i]
		s.Net[i] = s.Payouts[i] - p.TotalBet
	}
	return s, nil
}

func (h *HandState) potWinners(pot Pot, ranks map[int]poker.HandRank) []int {
	if len(pot.Eligible) <= 1 {
		return pot.Eligible
	}

	var best poker.HandRank
	var winners []int
	for _, i := range pot.Eligible {
		rank := ranks[i]
		switch cmp := poker.CompareHands(rank, best); {
		case cmp > 0 || winners == nil:
			best = rank
			winners = []int{i}
		case cmp == 0:
			winners = append(winners, i)
		}
	}
	return winners
}
