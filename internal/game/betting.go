package game

// Street represents the betting round
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[s]
}

// boardCards is the number of community cards dealt when the street opens.
func (s Street) boardCards() int {
	return [...]int{0, 3, 1, 1, 0}[s]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	AllIn
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise", "allin"}[a]
}

// BettingRound encapsulates the state for a betting round
type BettingRound struct {
	CurrentBet     int
	MinRaise       int
	LastRaiser     int
	Raises         int // raises made this round; blinds do not count
	MaxRaises      int // 0 means unlimited
	ActedThisRound []bool
	BigBlind       int // Store for resetting min raise on new streets
}

// NewBettingRound creates a new betting round
func NewBettingRound(numPlayers, bigBlind, maxRaises int) *BettingRound {
	return &BettingRound{
		MinRaise:       bigBlind,
		LastRaiser:     -1,
		MaxRaises:      maxRaises,
		ActedThisRound: make([]bool, numPlayers),
		BigBlind:       bigBlind,
	}
}

// Capped reports whether the round has used up its raises.
func (br *BettingRound) Capped() bool {
	return br.MaxRaises > 0 && br.Raises >= br.MaxRaises
}

// GetValidActions returns valid actions for a player. Once the round is
// capped only calls are left, which may still put a player all-in.
func (br *BettingRound) GetValidActions(player *Player) []Action {
	actions := []Action{Fold}
	toCall := br.CurrentBet - player.Bet

	switch {
	case toCall <= 0:
		actions = append(actions, Check)
	case toCall >= player.Chips:
		// Calling takes everything
		return append(actions, AllIn)
	default:
		actions = append(actions, Call)
	}

	if br.Capped() || player.Chips == 0 {
		return actions
	}
	if player.Chips > toCall+br.MinRaise {
		actions = append(actions, Raise)
	}
	return append(actions, AllIn)
}

// MinRaiseTo is the smallest total bet a full raise must reach.
func (br *BettingRound) MinRaiseTo() int {
	return br.CurrentBet + br.MinRaise
}

// ResetForNewRound resets the betting round for a new street
func (br *BettingRound) ResetForNewRound(numPlayers int) {
	br.CurrentBet = 0
	br.MinRaise = br.BigBlind
	br.LastRaiser = -1
	br.Raises = 0
	br.ActedThisRound = make([]bool, numPlayers)
}

// MarkPlayerActed marks a player as having acted
func (br *BettingRound) MarkPlayerActed(seat int) {
	if seat >= 0 && seat < len(br.ActedThisRound) {
		br.ActedThisRound[seat] = true
	}
}

// raiseTo records a bet above CurrentBet by seat. A full raise reopens the
// action for everyone else and counts toward the cap. A short all-in only
// lifts the amount to call.
func (br *BettingRound) raiseTo(seat, newBet int) {
	raise := newBet - br.CurrentBet
	br.CurrentBet = newBet
	if raise < br.MinRaise {
		return
	}
	br.MinRaise = raise
	br.LastRaiser = seat
	br.Raises++

	for i := range br.ActedThisRound {
		br.ActedThisRound[i] = false
	}
	br.MarkPlayerActed(seat)
}

// IsBettingComplete checks if betting is complete for this round. The big
// blind's option falls out of ActedThisRound: posting a blind is not acting.
func (br *BettingRound) IsBettingComplete(players []*Player) bool {
	active := 0
	for _, p := range players {
		if !p.Folded && !p.AllInFlag {
			active++
		}
	}

	if active == 0 {
		return true
	}

	if active == 1 {
		// Nobody left to bet against; only a pending call remains
		for _, p := range players {
			if !p.Folded && !p.AllInFlag {
				return p.Bet >= br.CurrentBet
			}
		}
	}

	for i, p := range players {
		if p.Folded || p.AllInFlag {
			continue
		}
		if p.Bet != br.CurrentBet || !br.ActedThisRound[i] {
			return false
		}
	}
	return true
}
