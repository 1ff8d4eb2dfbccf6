package classification

import (
	"math/bits"

	"github.com/lox/holdemlab/poker"
)

// DrawType represents the types of draws a hand can have
type DrawType int

const (
	FlushDraw DrawType = iota
	NutFlushDraw
	OpenEndedStraightDraw
	Gutshot
	DoubleGutshot
	ComboDraw // Multiple draws
	BackdoorFlush
	Overcards
	NoDraw
)

func (dt DrawType) String() string {
	switch dt {
	case FlushDraw:
		return "flush draw"
	case NutFlushDraw:
		return "nut flush draw"
	case OpenEndedStraightDraw:
		return "open-ended straight draw"
	case Gutshot:
		return "gutshot"
	case DoubleGutshot:
		return "double gutshot"
	case ComboDraw:
		return "combo draw"
	case BackdoorFlush:
		return "backdoor flush"
	case Overcards:
		return "overcards"
	case NoDraw:
		return "no draw"
	default:
		return "unknown"
	}
}

// DrawInfo contains information about draws in a hand
type DrawInfo struct {
	Draws   []DrawType
	Outs    int
	NutOuts int
}

// HasStrongDraw returns true if the hand has a strong draw
func (d DrawInfo) HasStrongDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case FlushDraw, NutFlushDraw, OpenEndedStraightDraw, DoubleGutshot, ComboDraw:
			return true
		}
	}
	return false
}

// HasWeakDraw returns true if the hand has a weak draw
func (d DrawInfo) HasWeakDraw() bool {
	for _, draw := range d.Draws {
		switch draw {
		case Gutshot, BackdoorFlush, Overcards:
			return true
		}
	}
	return false
}

// IsComboDraw returns true if the hand has multiple draws with many outs
func (d DrawInfo) IsComboDraw() bool {
	return len(d.Draws) >= 2 && d.Outs >= 12
}

// DetectDraws names the draws a player holds on a flop or turn. Outs are
// counted once per card even when several draws share them. Straight and
// flush draws must use at least one hole card.
func DetectDraws(holeCards, board poker.Hand) DrawInfo {
	n := board.CountCards()
	if n < 3 || n > 4 {
		return DrawInfo{Draws: []DrawType{NoDraw}}
	}

	var draws []DrawType
	var outsMask, nutOutsMask poker.Hand
	used := holeCards | board

	flushDraw, flushSuit, nut := detectFlushDraw(holeCards, board)
	if flushDraw {
		suitOuts := poker.Hand(rankMaskAll&^used.GetSuitMask(flushSuit)) << (flushSuit * 13)
		if nut {
			draws = append(draws, NutFlushDraw)
			nutOutsMask |= suitOuts
		} else {
			draws = append(draws, FlushDraw)
		}
		outsMask |= suitOuts
	}

	straightDraw, straightOuts := detectStraightDraw(holeCards, board)
	if straightDraw != NoDraw {
		draws = append(draws, straightDraw)
		outsMask |= straightOuts &^ used
	}

	if n == 3 && !flushDraw && hasBackdoorFlush(holeCards, board) {
		// Runner-runner draws have no single-card outs.
		draws = append(draws, BackdoorFlush)
	}

	if !flushDraw && straightDraw != OpenEndedStraightDraw {
		if over := overcardOuts(holeCards, board) &^ used; over != 0 {
			draws = append(draws, Overcards)
			outsMask |= over
		}
	}

	totalOuts := outsMask.CountCards()
	if len(draws) >= 2 && totalOuts >= 12 {
		draws = append(draws, ComboDraw)
	}
	if len(draws) == 0 {
		draws = []DrawType{NoDraw}
	}

	return DrawInfo{
		Draws:   draws,
		Outs:    totalOuts,
		NutOuts: nutOutsMask.CountCards(),
	}
}

const rankMaskAll = uint16(1)<<13 - 1

// detectFlushDraw finds a suit with exactly four cards, at least one of them
// in the hole. The draw is to the nuts when the player holds the highest
// rank of the suit not already on the board.
func detectFlushDraw(holeCards, board poker.Hand) (bool, uint8, bool) {
	for suit := range uint8(4) {
		holeMask := holeCards.GetSuitMask(suit)
		boardMask := board.GetSuitMask(suit)
		if holeMask == 0 || bits.OnesCount16(holeMask|boardMask) != 4 {
			continue
		}
		missing := rankMaskAll &^ boardMask
		nutRank := uint16(1) << (bits.Len16(missing) - 1)
		return true, suit, holeMask&nutRank != 0
	}
	return false, 0, false
}

// detectStraightDraw tries every missing rank and keeps the ones that
// complete a straight the board alone could not make. Two completing ranks
// around four connected cards are open-ended; two elsewhere are a double
// gutshot.
func detectStraightDraw(holeCards, board poker.Hand) (DrawType, poker.Hand) {
	rankMask := (holeCards | board).GetRankMask()
	boardMask := board.GetRankMask()
	if _, made := poker.StraightHigh(rankMask); made {
		return NoDraw, 0
	}

	var outRanks []uint8
	for r := range uint8(13) {
		bit := uint16(1) << r
		if rankMask&bit != 0 {
			continue
		}
		if _, ok := poker.StraightHigh(rankMask | bit); !ok {
			continue
		}
		if _, boardOnly := poker.StraightHigh(boardMask | bit); boardOnly {
			continue
		}
		outRanks = append(outRanks, r)
	}

	var outs poker.Hand
	for _, r := range outRanks {
		for suit := range uint8(4) {
			outs.AddCard(poker.NewCard(r, suit))
		}
	}

	switch {
	case len(outRanks) >= 2 && hasFourConnected(rankMask):
		return OpenEndedStraightDraw, outs
	case len(outRanks) >= 2:
		return DoubleGutshot, outs
	case len(outRanks) == 1:
		return Gutshot, outs
	default:
		return NoDraw, 0
	}
}

func hasFourConnected(mask uint16) bool {
	return mask&(mask>>1)&(mask>>2)&(mask>>3) != 0
}

func hasBackdoorFlush(holeCards, board poker.Hand) bool {
	for suit := range uint8(4) {
		holeCount := bits.OnesCount16(holeCards.GetSuitMask(suit))
		boardCount := bits.OnesCount16(board.GetSuitMask(suit))
		if holeCount >= 1 && holeCount+boardCount == 3 {
			return true
		}
	}
	return false
}

// overcardOuts returns every card pairing a hole card ranked above the board.
func overcardOuts(holeCards, board poker.Hand) poker.Hand {
	boardTop := bits.Len16(board.GetRankMask()) - 1
	var outs poker.Hand
	for _, c := range holeCards.Cards() {
		if int(c.Rank()) <= boardTop {
			continue
		}
		for suit := range uint8(4) {
			outs.AddCard(poker.NewCard(c.Rank(), suit))
		}
	}
	return outs
}
