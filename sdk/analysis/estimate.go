// Package analysis turns outs into probabilities: a closed-form estimate of
// winning from classified outs, and a Monte Carlo equity calculation to
// check it against.
package analysis

import (
	"fmt"

	"github.com/lox/holdemlab/poker"
	"github.com/lox/holdemlab/sdk/classification"
)

// BoardSize is the number of community cards on a complete board.
const BoardSize = 5

// DegenerateStateError reports a probability request that cannot be
// satisfied, such as drawing more cards than remain unseen.
type DegenerateStateError struct {
	Reason string
	Unseen int
	Spots  int
}

func (e *DegenerateStateError) Error() string {
	return fmt.Sprintf("degenerate state (unseen=%d, spots=%d): %s", e.Unseen, e.Spots, e.Reason)
}

// RoundContext describes where a hand stands when an estimate is made.
type RoundContext struct {
	Unseen     int // cards the player cannot see
	Opponents  int // opponents still in the hand
	BoardCards int // community cards already dealt
}

// PlayerSpots is the number of community cards still to come.
func (rc RoundContext) PlayerSpots() int {
	return BoardSize - rc.BoardCards
}

// OpponentSpots counts each opponent's two hidden cards as extra draws on
// top of the community cards still to come.
func (rc RoundContext) OpponentSpots() int {
	return rc.PlayerSpots() + 2*rc.Opponents
}

func checkOuts(side string, c poker.Category, n, unseen int) error {
	if n < 0 || n > unseen {
		return fmt.Errorf("%s %s outs: %w", side, c,
			&DegenerateStateError{Reason: fmt.Sprintf("%d outs from %d unseen cards", n, unseen), Unseen: unseen})
	}
	return nil
}

func (rc RoundContext) validate() error {
	switch {
	case rc.Unseen < 0:
		return &DegenerateStateError{Reason: "negative unseen count", Unseen: rc.Unseen}
	case rc.Opponents < 0:
		return &DegenerateStateError{Reason: fmt.Sprintf("negative opponent count %d", rc.Opponents), Unseen: rc.Unseen}
	case rc.BoardCards < 0 || rc.BoardCards > BoardSize:
		return &DegenerateStateError{Reason: fmt.Sprintf("board of %d cards", rc.BoardCards), Unseen: rc.Unseen}
	}

	spots := rc.PlayerSpots()
	if rc.Opponents > 0 {
		spots = rc.OpponentSpots()
	}
	if rc.Unseen < spots {
		return &DegenerateStateError{Reason: "more cards to draw than remain unseen", Unseen: rc.Unseen, Spots: spots}
	}
	return nil
}

// DrawProbability returns the chance that at least one of outs specific
// cards appears among spots cards drawn without replacement from unseen:
//
//	1 - C(unseen-outs, spots) / C(unseen, spots)
//
// The ratio is built as a running product so no binomial is formed.
func DrawProbability(outs, spots, unseen int) (float64, error) {
	switch {
	case unseen < 0 || spots < 0:
		return 0, &DegenerateStateError{Reason: "negative count", Unseen: unseen, Spots: spots}
	case spots > unseen:
		return 0, &DegenerateStateError{Reason: "more cards to draw than remain unseen", Unseen: unseen, Spots: spots}
	case outs < 0:
		return 0, &DegenerateStateError{Reason: fmt.Sprintf("negative out count %d", outs), Unseen: unseen, Spots: spots}
	case outs > unseen:
		return 0, &DegenerateStateError{Reason: fmt.Sprintf("%d outs exceed unseen cards", outs), Unseen: unseen, Spots: spots}
	}
	if outs == 0 || spots == 0 {
		return 0, nil
	}

	miss := 1.0
	for i := range spots {
		blanks := unseen - outs - i
		if blanks <= 0 {
			return 1, nil
		}
		miss *= float64(blanks) / float64(unseen-i)
	}
	return 1 - miss, nil
}

// EstimateWinProbability folds per-category out counts into a single
// probability of winning.
//
// Categories are visited strongest first while tracking the probability
// mass not yet claimed by a stronger outcome. A player out claims its share
// as a win and an opponent out claims it as a loss; within a category the
// player side goes first. Whatever mass is left means nothing relevant
// improved, and the player's current holding wins it.
//
// Opponent outs draw against every opponent's hole cards as well as the
// board, which over-counts when two opponents could use the same card.
// Opponent outs are ignored when there are no opponents.
func EstimateWinProbability(outs classification.Outs, rc RoundContext) (float64, error) {
	if err := rc.validate(); err != nil {
		return 0, err
	}
	for _, c := range poker.Categories {
		if err := checkOuts("player", c, outs.Player[c], rc.Unseen); err != nil {
			return 0, err
		}
		if err := checkOuts("opponent", c, outs.Opponent[c], rc.Unseen); err != nil {
			return 0, err
		}
	}

	// Player outs and leftover mass both count as wins, so only the loss is
	// summed. A player out just shrinks the mass later killers can claim.
	remaining, loss := 1.0, 0.0
	for _, c := range poker.Categories {
		if n := outs.Player[c]; n != 0 {
			p, err := DrawProbability(n, rc.PlayerSpots(), rc.Unseen)
			if err != nil {
				return 0, fmt.Errorf("player %s outs: %w", c, err)
			}
			remaining -= p * remaining
		}

		if n := outs.Opponent[c]; n != 0 && rc.Opponents > 0 {
			p, err := DrawProbability(n, rc.OpponentSpots(), rc.Unseen)
			if err != nil {
				return 0, fmt.Errorf("opponent %s outs: %w", c, err)
			}
			share := p * remaining
			loss += share
			remaining -= share
		}
	}

	return clamp(1 - loss), nil
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Estimate is the closed-form estimate for one decision point.
type Estimate struct {
	Win     float64
	Outs    classification.Outs
	Context RoundContext
}

// EstimateFromCards classifies the outs for hole and community against
// opponents and estimates the chance of winning from them.
func EstimateFromCards(hole, community []poker.Card, opponents int) (Estimate, error) {
	if opponents < 0 {
		return Estimate{}, &DegenerateStateError{Reason: fmt.Sprintf("negative opponent count %d", opponents)}
	}

	outs, err := classification.ClassifyOuts(hole, community, opponents)
	if err != nil {
		return Estimate{}, err
	}

	rc := RoundContext{
		Unseen:     outs.Unseen,
		Opponents:  opponents,
		BoardCards: len(community),
	}
	win, err := EstimateWinProbability(outs, rc)
	if err != nil {
		return Estimate{}, err
	}

	return Estimate{Win: win, Outs: outs, Context: rc}, nil
}
