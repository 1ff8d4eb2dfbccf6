// Package classification inspects a partial deal and reports what the
// remaining cards can do: which unseen cards improve the player (outs),
// which give an opponent a better hand (killers), and the named draws a
// player is holding.
package classification

import (
	"fmt"
	"slices"

	"github.com/lox/holdemlab/poker"
)

// Side identifies who an out helps.
type Side uint8

const (
	Player Side = iota
	Opponent
)

func (s Side) String() string {
	switch s {
	case Player:
		return "player"
	case Opponent:
		return "opponent"
	default:
		return "unknown"
	}
}

// Out is the number of unseen cards that complete Category for one side.
type Out struct {
	Category poker.Category
	Count    int
	Side     Side
}

func (o Out) String() string {
	return fmt.Sprintf("%s %s x%d", o.Side, o.Category, o.Count)
}

// Outs is the result of ClassifyOuts. Counts are indexed by category and
// only categories strictly above Current's category are ever non-zero.
type Outs struct {
	Current  poker.HandRank
	Unseen   int
	Player   [poker.NumCategories]int
	Opponent [poker.NumCategories]int
}

// Count returns the out count for one side and category.
func (o Outs) Count(side Side, c poker.Category) int {
	if !c.Valid() {
		return 0
	}
	if side == Opponent {
		return o.Opponent[c]
	}
	return o.Player[c]
}

// PlayerTotal returns the number of unseen cards that improve the player.
func (o Outs) PlayerTotal() int {
	return sum(o.Player)
}

// OpponentTotal returns the number of unseen cards that can give an
// opponent a better category than the player currently holds.
func (o Outs) OpponentTotal() int {
	return sum(o.Opponent)
}

func sum(counts [poker.NumCategories]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// List returns the non-zero counts, strongest category first. Within a
// category the player entry precedes the opponent entry.
func (o Outs) List() []Out {
	var outs []Out
	for _, c := range poker.Categories {
		if n := o.Player[c]; n > 0 {
			outs = append(outs, Out{Category: c, Count: n, Side: Player})
		}
		if n := o.Opponent[c]; n > 0 {
			outs = append(outs, Out{Category: c, Count: n, Side: Opponent})
		}
	}
	return outs
}

// Sides returns the list for a single side, strongest first.
func (o Outs) Sides(side Side) []Out {
	return slices.DeleteFunc(o.List(), func(out Out) bool { return out.Side != side })
}

// ClassifyOuts counts outs and killers for a player holding hole on the
// given community cards.
//
// Unseen cards are the deck minus the hole and community cards. A card is a
// player out when adding it to the board lifts the player's category; with
// a full board there are no player outs. A card c is a killer when some
// opponent holding {c, d}, for another unseen d, makes a category above the
// player's on the current board. Each killer is counted once, under the
// best category it reaches. Killers are skipped when opponents is zero.
func ClassifyOuts(hole, community []poker.Card, opponents int) (Outs, error) {
	if opponents < 0 {
		return Outs{}, fmt.Errorf("opponents must be non-negative, got %d", opponents)
	}
	if len(hole) != 2 {
		return Outs{}, &poker.InvalidHandError{Count: len(hole), Reason: "need exactly 2 hole cards"}
	}

	current, err := poker.Evaluate(slices.Concat(hole, community))
	if err != nil {
		return Outs{}, err
	}

	holeHand := poker.NewHand(hole...)
	board := poker.NewHand(community...)
	unseen := (poker.FullDeck() &^ holeHand &^ board).Cards()
	category := current.Category()

	outs := Outs{Current: current, Unseen: len(unseen)}

	if len(community) < 5 {
		for _, c := range unseen {
			hr := rank(holeHand | board | poker.Hand(c))
			if hr.Category() > category {
				outs.Player[hr.Category()]++
			}
		}
	}

	if opponents > 0 {
		for i, c := range unseen {
			best := poker.HighCard
			for j, d := range unseen {
				if i == j {
					continue
				}
				if got := rank(board | poker.Hand(c) | poker.Hand(d)).Category(); got > best {
					best = got
					if best == poker.RoyalFlush {
						break
					}
				}
			}
			if best > category {
				outs.Opponent[best]++
			}
		}
	}

	return outs, nil
}

// rank evaluates a set already known to hold 5 to 7 distinct cards.
func rank(h poker.Hand) poker.HandRank {
	hr, err := poker.EvaluateHand(h)
	if err != nil {
		panic(fmt.Sprintf("classification: evaluating %s: %v", h, err))
	}
	return hr
}
