package classification

import (
	"math/bits"

	"github.com/lox/holdemlab/poker"
)

// BoardTexture grades how coordinated the community cards are, from dry
// to very wet.
type BoardTexture int

const (
	Dry BoardTexture = iota
	SemiWet
	Wet
	VeryWet
)

func (bt BoardTexture) String() string {
	switch bt {
	case Dry:
		return "dry"
	case SemiWet:
		return "semi-wet"
	case Wet:
		return "wet"
	case VeryWet:
		return "very wet"
	default:
		return "unknown"
	}
}

// broadwayMask covers Ten through Ace.
const broadwayMask = 0x1f00

// Texture scores flush and straight potential, pairing and high cards on
// a board of at least three cards. Smaller boards are Dry.
func Texture(board poker.Hand) BoardTexture {
	n := board.CountCards()
	if n < 3 {
		return Dry
	}

	wetness := 0

	suited := 0
	for suit := poker.Clubs; suit <= poker.Spades; suit++ {
		suited = max(suited, bits.OnesCount16(board.GetSuitMask(suit)))
	}
	switch {
	case suited == n, suited >= 4:
		wetness += 4
	case suited == 3:
		wetness += 3
	case suited == 2:
		wetness++
	}

	ranks := board.GetRankMask()
	switch run := longestRun(ranks); {
	case run >= 4:
		wetness += 4
	case run == 3:
		wetness += 3
	case run == 2:
		wetness++
	}

	if bits.OnesCount16(ranks) < n {
		wetness++
	}
	if bits.OnesCount16(ranks&broadwayMask) >= 3 {
		wetness++
	}

	switch {
	case wetness == 0:
		return Dry
	case wetness <= 3:
		return SemiWet
	case wetness <= 5:
		return Wet
	default:
		return VeryWet
	}
}

// longestRun returns the longest sequence of consecutive ranks, counting
// the Ace as both high and low.
func longestRun(ranks uint16) int {
	m := ranks<<1 | ranks>>poker.Ace&1
	longest := 0
	for m != 0 {
		longest++
		m &= m << 1
	}
	return longest
}
