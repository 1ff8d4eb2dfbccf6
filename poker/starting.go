package poker

import "fmt"

// StartingHand is the suit-independent key of a two-card holding: the two
// ranks and whether they share a suit. There are 169 distinct keys.
type StartingHand struct {
	High   uint8
	Low    uint8
	Suited bool
}

// NewStartingHand builds the key for two hole cards.
func NewStartingHand(c1, c2 Card) StartingHand {
	high, low := c1.Rank(), c2.Rank()
	if low > high {
		high, low = low, high
	}
	return StartingHand{
		High:   high,
		Low:    low,
		Suited: c1.Suit() == c2.Suit(),
	}
}

// IsPair reports whether both cards share a rank.
func (s StartingHand) IsPair() bool {
	return s.High == s.Low
}

// String returns the conventional form: "AA", "AKs", "72o".
func (s StartingHand) String() string {
	if s.High > Ace || s.Low > Ace {
		return "??"
	}
	h, l := rankChars[s.High], rankChars[s.Low]
	switch {
	case s.IsPair():
		return fmt.Sprintf("%c%c", h, l)
	case s.Suited:
		return fmt.Sprintf("%c%cs", h, l)
	default:
		return fmt.Sprintf("%c%co", h, l)
	}
}

// Tier is a coarse strength bucket for a starting hand.
type Tier string

const (
	TierPremium Tier = "Premium"
	TierStrong  Tier = "Strong"
	TierMedium  Tier = "Medium"
	TierWeak    Tier = "Weak"
	TierTrash   Tier = "Trash"
)

// Tier provides a simple preflop categorization.
// Premium (JJ+, AK), Strong (TT, AQ/AJ), Medium (77-99, suited broadway),
// Weak (small pairs, suited connectors), Trash (everything else).
func (s StartingHand) Tier() Tier {
	high, low := s.High, s.Low
	pair := s.IsPair()

	switch {
	case pair && low >= Jack, high == Ace && low == King:
		return TierPremium
	case pair && low == Ten, high == Ace && (low == Queen || low == Jack):
		return TierStrong
	case pair && low >= Seven, s.Suited && low >= Ten:
		return TierMedium
	case pair, s.Suited && high-low <= 2:
		return TierWeak
	default:
		return TierTrash
	}
}
