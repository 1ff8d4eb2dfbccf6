package poker

import (
	"fmt"
	"math/bits"
)

// HandRank represents the strength of a poker hand. Higher values are stronger.
//
// Bits 20-23 hold the Category and bits 0-19 hold up to five 4-bit ranks
// (0-12) in descending significance, so two ranks compare as plain integers
// and hands of equal strength produce equal values.
type HandRank uint32

const (
	categoryShift = 20
	tiebreakMask  = 1<<categoryShift - 1
	wheelMask     = 0x100F // Ace + 2-3-4-5
)

// Category returns the hand category (pair, flush, etc.).
func (hr HandRank) Category() Category {
	return Category(hr >> categoryShift)
}

// String returns the category name.
func (hr HandRank) String() string {
	return hr.Category().String()
}

// Tiebreaks returns the ranks (0-12) that break ties within the category,
// most significant first.
func (hr HandRank) Tiebreaks() []uint8 {
	n := tiebreakCount[hr.Category()]
	out := make([]uint8, n)
	for i := range n {
		out[i] = uint8(hr>>(16-4*i)) & 0xF
	}
	return out
}

var tiebreakCount = [NumCategories]int{
	HighCard:      5,
	OnePair:       4,
	TwoPair:       3,
	ThreeOfAKind:  3,
	Straight:      1,
	Flush:         5,
	FullHouse:     2,
	FourOfAKind:   2,
	StraightFlush: 1,
	RoyalFlush:    1,
}

// Describe returns a human-readable description such as
// "Full House, Aces over Kings".
func (hr HandRank) Describe() string {
	t := hr.Tiebreaks()
	switch hr.Category() {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", rankName(t[0]))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", rankPlural(t[0]))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", rankPlural(t[0]), rankPlural(t[1]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", rankName(t[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", rankName(t[0]))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", rankPlural(t[0]))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", rankPlural(t[0]), rankPlural(t[1]))
	case OnePair:
		return fmt.Sprintf("One Pair, %s", rankPlural(t[0]))
	case HighCard:
		return fmt.Sprintf("High Card, %s", rankName(t[0]))
	default:
		return "Unknown"
	}
}

var rankNames = [13]string{
	"Two", "Three", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

func rankName(r uint8) string {
	if int(r) >= len(rankNames) {
		return "?"
	}
	return rankNames[r]
}

func rankPlural(r uint8) string {
	if r == Six {
		return "Sixes"
	}
	return rankName(r) + "s"
}

// Compare returns 1 if hr beats other, -1 if other wins and 0 for a tie.
func (hr HandRank) Compare(other HandRank) int {
	return CompareHands(hr, other)
}

// CompareHands compares two hands and returns 1 if a wins, -1 if b wins, 0 for tie
func CompareHands(a, b HandRank) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// Evaluate ranks the best five-card hand that can be made from 5 to 7
// distinct cards.
func Evaluate(cards []Card) (HandRank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return 0, &InvalidHandError{Count: len(cards), Reason: "need between 5 and 7 cards"}
	}

	var hand Hand
	for _, c := range cards {
		if !c.Valid() {
			return 0, &InvalidHandError{Count: len(cards), Reason: fmt.Sprintf("invalid card value %#x", uint64(c))}
		}
		if hand.HasCard(c) {
			return 0, &InvalidHandError{Count: len(cards), Card: c, Reason: "duplicate card"}
		}
		hand.AddCard(c)
	}

	return rankHand(hand), nil
}

// EvaluateHand ranks a hand given as a bitset. The set cannot hold
// duplicates, so only its size and bounds are checked.
func EvaluateHand(hand Hand) (HandRank, error) {
	if hand&^fullDeck != 0 {
		return 0, &InvalidHandError{Count: hand.CountCards(), Reason: "hand contains bits outside the deck"}
	}
	if n := hand.CountCards(); n < 5 || n > 7 {
		return 0, &InvalidHandError{Count: n, Reason: "need between 5 and 7 cards"}
	}
	return rankHand(hand), nil
}

func rankHand(hand Hand) HandRank {
	var suitMasks [4]uint16
	for suit := range uint8(4) {
		suitMasks[suit] = hand.GetSuitMask(suit)
	}
	return rankFromMasks(suitMasks)
}

func rankFromMasks(suitMasks [4]uint16) HandRank {
	s0, s1, s2, s3 := suitMasks[0], suitMasks[1], suitMasks[2], suitMasks[3]
	rankMask := s0 | s1 | s2 | s3

	// At most one suit can hold five or more of seven cards.
	var flushMask uint16
	for _, suitMask := range suitMasks {
		if bits.OnesCount16(suitMask) >= 5 {
			if high, ok := StraightHigh(suitMask); ok {
				if high == Ace {
					return pack(RoyalFlush, high)
				}
				return pack(StraightFlush, high)
			}
			flushMask = suitMask
		}
	}

	quadsMask := s0 & s1 & s2 & s3
	tripCandidates := (s0 & s1 & s2) | (s0 & s1 & s3) | (s0 & s2 & s3) | (s1 & s2 & s3)
	tripsMask := tripCandidates &^ quadsMask
	pairsMask := ((s0 & s1) | (s0 & s2) | (s0 & s3) | (s1 & s2) | (s1 & s3) | (s2 & s3)) &^ tripCandidates

	if quadsMask != 0 {
		quad := highestRank(quadsMask)
		kicker := highestRank(rankMask &^ bit(quad))
		return pack(FourOfAKind, quad, kicker)
	}

	if tripsMask != 0 {
		trip := highestRank(tripsMask)
		// A second set of trips plays as the pair.
		if rest := (tripsMask &^ bit(trip)) | pairsMask; rest != 0 {
			return pack(FullHouse, trip, highestRank(rest))
		}
	}

	if flushMask != 0 {
		return pack(Flush, topRanks(flushMask, 5)...)
	}

	if high, ok := StraightHigh(rankMask); ok {
		return pack(Straight, high)
	}

	if tripsMask != 0 {
		trip := highestRank(tripsMask)
		kickers := topRanks(rankMask&^bit(trip), 2)
		return pack(ThreeOfAKind, append([]uint8{trip}, kickers...)...)
	}

	if bits.OnesCount16(pairsMask) >= 2 {
		high := highestRank(pairsMask)
		low := highestRank(pairsMask &^ bit(high))
		// A third pair can still supply the kicker.
		kicker := highestRank(rankMask &^ bit(high) &^ bit(low))
		return pack(TwoPair, high, low, kicker)
	}

	if pairsMask != 0 {
		pair := highestRank(pairsMask)
		kickers := topRanks(rankMask&^bit(pair), 3)
		return pack(OnePair, append([]uint8{pair}, kickers...)...)
	}

	return pack(HighCard, topRanks(rankMask, 5)...)
}

func pack(category Category, ranks ...uint8) HandRank {
	hr := HandRank(category) << categoryShift
	shift := 16
	for _, r := range ranks {
		hr |= HandRank(r) << shift
		shift -= 4
	}
	return hr
}

func bit(rank uint8) uint16 {
	return 1 << rank
}

// highestRank returns the highest rank present in a non-empty mask.
func highestRank(mask uint16) uint8 {
	return uint8(bits.Len16(mask) - 1)
}

// topRanks returns up to n ranks from the mask in descending order.
func topRanks(mask uint16, n int) []uint8 {
	ranks := make([]uint8, 0, n)
	for mask != 0 && len(ranks) < n {
		top := highestRank(mask)
		ranks = append(ranks, top)
		mask &^= bit(top)
	}
	return ranks
}

// StraightHigh returns the top rank of the best straight in a 13-bit rank
// mask. The wheel (A-2-3-4-5) is five-high and only counts when nothing
// higher exists.
func StraightHigh(mask uint16) (uint8, bool) {
	mask &= rankMask13

	// Bitwise cascade identifies consecutive sequences in one pass.
	if seq := mask & (mask >> 1) & (mask >> 2) & (mask >> 3) & (mask >> 4); seq != 0 {
		return highestRank(seq) + 4, true
	}
	if mask&wheelMask == wheelMask {
		return Five, true
	}
	return 0, false
}

// BestFive returns the strongest five-card subset of 5 to 7 cards together
// with its rank, by checking every subset.
func BestFive(cards []Card) ([]Card, HandRank, error) {
	if _, err := Evaluate(cards); err != nil {
		return nil, 0, err
	}

	var (
		best     HandRank
		bestPick [5]Card
		found    bool
	)
	forEachFive(len(cards), func(idx [5]int) {
		var pick [5]Card
		for i, j := range idx {
			pick[i] = cards[j]
		}
		hr := rankHand(NewHand(pick[:]...))
		if !found || hr > best {
			best, bestPick, found = hr, pick, true
		}
	})

	return bestPick[:], best, nil
}

// forEachFive calls fn with every ascending 5-index combination of n items.
func forEachFive(n int, fn func([5]int)) {
	var idx [5]int
	var rec func(pos, start int)
	rec = func(pos, start int) {
		if pos == 5 {
			fn(idx)
			return
		}
		for i := start; i <= n-(5-pos); i++ {
			idx[pos] = i
			rec(pos+1, i+1)
		}
	}
	rec(0, 0)
}
