// Package poker provides the card model and the hand evaluator.
//
// Cards are single bits in a uint64 so that hands, decks and dead-card sets
// can be combined with plain bitwise operations.
package poker

import (
	"fmt"
	"math/bits"
	"strings"
)

// Card represents a single card as a bit position in a uint64.
// Layout: [13 spades][13 hearts][13 diamonds][13 clubs]
type Card uint64

// Hand is a set of cards, one bit per card.
type Hand uint64

// Suit constants
const (
	Clubs    uint8 = 0
	Diamonds uint8 = 1
	Hearts   uint8 = 2
	Spades   uint8 = 3
)

// Rank constants (0-12 for 2-A)
const (
	Two   uint8 = 0
	Three uint8 = 1
	Four  uint8 = 2
	Five  uint8 = 3
	Six   uint8 = 4
	Seven uint8 = 5
	Eight uint8 = 6
	Nine  uint8 = 7
	Ten   uint8 = 8
	Jack  uint8 = 9
	Queen uint8 = 10
	King  uint8 = 11
	Ace   uint8 = 12
)

const (
	// DeckSize is the number of cards in a standard deck.
	DeckSize = 52

	rankMask13 = 0x1FFF
	fullDeck   = Hand(1)<<DeckSize - 1
)

const (
	rankChars = "23456789TJQKA"
	suitChars = "cdhs"
)

// NewCard creates a card from rank (0-12) and suit (0-3).
func NewCard(rank, suit uint8) Card {
	return Card(1) << (suit*13 + rank)
}

// Valid reports whether c is exactly one of the 52 cards.
func (c Card) Valid() bool {
	return c != 0 && c&(c-1) == 0 && Hand(c)&fullDeck != 0
}

// Index returns the bit position (0-51) of the card.
func (c Card) Index() uint8 {
	if c == 0 {
		return 255
	}
	return uint8(bits.TrailingZeros64(uint64(c)))
}

// Rank returns the rank of the card (0-12).
func (c Card) Rank() uint8 {
	pos := c.Index()
	if pos == 255 {
		return 255
	}
	return pos % 13
}

// Suit returns the suit of the card (0-3).
func (c Card) Suit() uint8 {
	pos := c.Index()
	if pos == 255 {
		return 255
	}
	return pos / 13
}

// Value returns the conventional rank value, 2 through 14 with Ace high.
func (c Card) Value() int {
	return int(c.Rank()) + 2
}

// String returns the two-character form, e.g. "As" or "Td".
func (c Card) String() string {
	rank, suit := c.Rank(), c.Suit()
	if !c.Valid() || rank > 12 || suit > 3 {
		return "??"
	}
	return string(rankChars[rank]) + string(suitChars[suit])
}

// ParseCard parses a string like "As" into a Card.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}
	rank, err := parseRank(s[0])
	if err != nil {
		return 0, err
	}
	suit, err := parseSuit(s[1])
	if err != nil {
		return 0, err
	}
	return NewCard(rank, suit), nil
}

// ParseCards parses concatenated card notation such as "AsKd" or "As Kd 7c".
func ParseCards(s string) ([]Card, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("card at position %d: %w", i, err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards %q: %v", s, err))
	}
	return cards
}

func parseRank(c byte) (uint8, error) {
	if i := strings.IndexByte(rankChars, upper(c)); i >= 0 {
		return uint8(i), nil
	}
	return 0, fmt.Errorf("invalid rank: %c", c)
}

func parseSuit(c byte) (uint8, error) {
	if i := strings.IndexByte(suitChars, lower(c)); i >= 0 {
		return uint8(i), nil
	}
	return 0, fmt.Errorf("invalid suit: %c", c)
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// FormatCards renders cards separated by spaces.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// NewHand creates a hand from multiple cards
func NewHand(cards ...Card) Hand {
	var h Hand
	for _, c := range cards {
		h |= Hand(c)
	}
	return h
}

// FullDeck returns the set of all 52 cards.
func FullDeck() Hand {
	return fullDeck
}

// AddCard adds a card to the hand
func (h *Hand) AddCard(c Card) {
	*h |= Hand(c)
}

// HasCard checks if the hand contains a specific card
func (h Hand) HasCard(c Card) bool {
	return h&Hand(c) != 0
}

// CountCards returns the number of cards in the hand
func (h Hand) CountCards() int {
	return bits.OnesCount64(uint64(h))
}

// GetSuitMask returns the ranks held in one suit as a 13-bit mask.
func (h Hand) GetSuitMask(suit uint8) uint16 {
	return uint16(h>>(suit*13)) & rankMask13
}

// GetRankMask returns a 13-bit mask of the ranks present in any suit.
func (h Hand) GetRankMask() uint16 {
	var mask uint16
	for suit := range uint8(4) {
		mask |= h.GetSuitMask(suit)
	}
	return mask
}

// Cards returns the cards in the hand in ascending bit order.
func (h Hand) Cards() []Card {
	cards := make([]Card, 0, h.CountCards())
	for rest := uint64(h & fullDeck); rest != 0; rest &= rest - 1 {
		cards = append(cards, Card(rest&-rest))
	}
	return cards
}

// String returns the cards of the hand separated by spaces.
func (h Hand) String() string {
	return FormatCards(h.Cards())
}
