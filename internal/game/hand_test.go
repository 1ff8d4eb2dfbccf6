package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdemlab/internal/randutil"
	"github.com/lox/holdemlab/poker"
)

func newTestHand(t *testing.T, chips []int, button, maxRaises, carry int) *HandState {
	t.Helper()
	players := make([]*Player, len(chips))
	for i, c := range chips {
		players[i] = &Player{Seat: i, Name: string(rune('A' + i)), Chips: c}
	}
	h, err := NewHand(poker.NewDeck(randutil.New(7)), players, button, 2, 4, maxRaises, carry)
	require.NoError(t, err)
	return h
}

// atShowdown forces a finished hand with the given cards and contributions.
func atShowdown(t *testing.T, h *HandState, board string, holes []string, bets []int) {
	t.Helper()
	h.Street = Showdown
	h.Board = poker.MustParseCards(board)
	for i, p := range h.Players {
		p.HoleCards = poker.NewHand(poker.MustParseCards(holes[i])...)
		p.TotalBet = bets[i]
		p.Bet = 0
		p.Chips = 0
	}
}

func TestNewHandHeadsUpBlinds(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)

	assert.Equal(t, Preflop, h.Street)
	assert.Equal(t, 2, h.Players[0].Bet, "button posts the small blind")
	assert.Equal(t, 4, h.Players[1].Bet)
	assert.Equal(t, 0, h.ActivePlayer, "button acts first preflop")
	assert.Equal(t, 0, h.Position(0))
	assert.Equal(t, 1, h.Position(1))
	assert.Equal(t, 6, h.Pot())
	assert.Equal(t, 2, h.Players[0].HoleCards.CountCards())
	assert.Equal(t, 48, h.Deck.Remaining())
}

func TestNewHandMultiwayBlinds(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100, 100, 100}, 1, 0, 0)

	assert.Equal(t, 0, h.Players[1].Bet)
	assert.Equal(t, 2, h.Players[2].Bet)
	assert.Equal(t, 4, h.Players[3].Bet)
	assert.Equal(t, 0, h.ActivePlayer, "seat after the big blind opens")
	assert.Equal(t, 0, h.Position(0))
	assert.Equal(t, 1, h.Position(1))
	assert.Equal(t, 3, h.Position(3), "big blind acts last")
}

func TestNewHandShortBlindsAllIn(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{2, 3}, 0, 0, 0)

	assert.True(t, h.Players[0].AllInFlag)
	assert.True(t, h.Players[1].AllInFlag)
	assert.Equal(t, Showdown, h.Street, "nobody can act so the board runs out")
	assert.Len(t, h.Board, 5)
	assert.True(t, h.IsComplete())
}

func TestNewHandErrors(t *testing.T) {
	t.Parallel()
	deck := poker.NewDeck(randutil.New(1))

	_, err := NewHand(deck, []*Player{{Chips: 100}}, 0, 2, 4, 0, 0)
	assert.Error(t, err)

	_, err = NewHand(deck, []*Player{{Chips: 100}, {Chips: 100}}, 2, 2, 4, 0, 0)
	assert.Error(t, err)

	_, err = NewHand(deck, []*Player{{Name: "broke"}, {Chips: 100}}, 0, 2, 4, 0, 0)
	assert.ErrorContains(t, err, "broke")
}

func TestFoldEndsHand(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)

	require.NoError(t, h.ProcessAction(Fold, 0))
	assert.True(t, h.IsComplete())

	s, err := h.Settle()
	require.NoError(t, err)
	assert.False(t, s.Showdown)
	assert.Empty(t, s.Ranks)
	assert.Equal(t, []int{0, 6}, s.Payouts)
	assert.Equal(t, []int{-2, 2}, s.Net)
	assert.True(t, s.Won(1))
	assert.False(t, s.Won(0))
	assert.Equal(t, 98, h.Players[0].Chips)
	assert.Equal(t, 102, h.Players[1].Chips)
}

func TestCheckDownToShowdown(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)

	require.NoError(t, h.ProcessAction(Call, 0))
	assert.Equal(t, Preflop, h.Street, "big blind keeps the option")
	assert.Equal(t, 1, h.ActivePlayer)

	require.NoError(t, h.ProcessAction(Check, 0))
	assert.Equal(t, Flop, h.Street)
	assert.Len(t, h.Board, 3)
	assert.Equal(t, 1, h.ActivePlayer, "big blind opens postflop heads-up")
	assert.Equal(t, 52-4-1-3, h.Deck.Remaining(), "one burn before the flop")

	for _, street := range []Street{Flop, Turn, River} {
		assert.Equal(t, street, h.Street)
		require.NoError(t, h.ProcessAction(Check, 0))
		require.NoError(t, h.ProcessAction(Check, 0))
	}

	assert.Equal(t, Showdown, h.Street)
	assert.Len(t, h.Board, 5)
	assert.Equal(t, 52-4-3-5, h.Deck.Remaining())

	s, err := h.Settle()
	require.NoError(t, err)
	assert.True(t, s.Showdown)
	assert.Len(t, s.Ranks, 2)
	assert.Equal(t, 8, s.Payouts[0]+s.Payouts[1]+s.Carry)
	assert.Equal(t, 200, h.Players[0].Chips+h.Players[1].Chips+s.Carry)
}

func TestRaiseReopensAction(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100, 100}, 0, 0, 0)

	// Button opens, raise to 12
	require.NoError(t, h.ProcessAction(Raise, 12))
	assert.Equal(t, 12, h.Betting.CurrentBet)
	assert.Equal(t, 1, h.ActivePlayer)

	require.NoError(t, h.ProcessAction(Call, 0))
	require.NoError(t, h.ProcessAction(Raise, 30))
	assert.Equal(t, Preflop, h.Street)
	assert.Equal(t, 0, h.ActivePlayer, "raiser must respond to the re-raise")

	require.NoError(t, h.ProcessAction(Call, 0))
	require.NoError(t, h.ProcessAction(Call, 0))
	assert.Equal(t, Flop, h.Street)
	assert.Equal(t, 90, h.Pot())
}

func TestShortAllInDoesNotReopen(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100, 14}, 0, 2, 0)

	require.NoError(t, h.ProcessAction(Raise, 12))
	require.NoError(t, h.ProcessAction(Call, 0))
	require.NoError(t, h.ProcessAction(AllIn, 0), "big blind shoves 14, two short of a full raise")
	assert.Equal(t, 14, h.Betting.CurrentBet)
	assert.Equal(t, 1, h.Betting.Raises, "a short all-in is not counted against the cap")

	require.Equal(t, 0, h.ActivePlayer)
	assert.Equal(t, []Action{Fold, Call}, h.GetValidActions())
	assert.Error(t, h.ProcessAction(Raise, 30))
	require.NoError(t, h.ProcessAction(Call, 0))

	assert.Equal(t, []Action{Fold, Call}, h.GetValidActions())
	require.NoError(t, h.ProcessAction(Call, 0))
	assert.Equal(t, Flop, h.Street)
	assert.Equal(t, 42, h.Pot())
}

func TestRaiseCap(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 1, 0)

	require.NoError(t, h.ProcessAction(Raise, 8))
	assert.Equal(t, []Action{Fold, Call}, h.GetValidActions())
	assert.Error(t, h.ProcessAction(Raise, 20))
	assert.Error(t, h.ProcessAction(AllIn, 0))
}

func TestProcessActionRejectsIllegalMoves(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)

	assert.Error(t, h.ProcessAction(Check, 0), "cannot check facing the big blind")
	assert.ErrorContains(t, h.ProcessAction(Raise, 6), "raise too small")
	assert.ErrorContains(t, h.ProcessAction(Raise, 500), "insufficient chips")
	assert.Equal(t, 0, h.ActivePlayer, "rejected actions do not advance play")

	require.NoError(t, h.ProcessAction(Fold, 0))
	assert.ErrorContains(t, h.ProcessAction(Fold, 0), "complete")
}

func TestAllInRunsOutBoard(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 60}, 0, 0, 0)

	require.NoError(t, h.ProcessAction(AllIn, 0))
	require.NoError(t, h.ProcessAction(AllIn, 0))

	assert.Equal(t, Showdown, h.Street)
	assert.Len(t, h.Board, 5)
	assert.Equal(t, -1, h.ActivePlayer)

	s, err := h.Settle()
	require.NoError(t, err)
	assert.Equal(t, 160, h.Players[0].Chips+h.Players[1].Chips+s.Carry)
	assert.GreaterOrEqual(t, h.Players[0].Chips, 40, "uncalled chips come back")
}

func TestSettleShowdownWinner(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)
	atShowdown(t, h, "2c 7d 9h Jc 3s", []string{"As Ad", "Kh Kd"}, []int{20, 20})

	s, err := h.Settle()
	require.NoError(t, err)
	assert.Equal(t, []int{40, 0}, s.Payouts)
	assert.Equal(t, [][]int{{0}}, s.Winners)
	assert.Zero(t, s.Carry)
	assert.Equal(t, poker.OnePair, s.Ranks[0].Category())
}

func TestSettleSplitCarriesOddChip(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100, 100}, 0, 0, 0)
	atShowdown(t, h, "As Ks Qs Js Ts", []string{"2c 3d", "4c 5d", "6c 7d"}, []int{5, 5, 1})
	h.Players[2].Folded = true

	s, err := h.Settle()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 5, 0}, s.Payouts)
	assert.Equal(t, 1, s.Carry)
	assert.Equal(t, [][]int{{0, 1}}, s.Winners)
	assert.False(t, s.Won(0), "a chop returns no profit")
}

func TestSettleSidePotGoesToCoveredPlayer(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100, 100}, 0, 0, 3)
	atShowdown(t, h, "2c 7d 9h Jc 3s", []string{"As Ad", "Kh Kd", "Qh Qd"}, []int{20, 50, 50})
	h.Players[0].AllInFlag = true

	s, err := h.Settle()
	require.NoError(t, err)
	assert.Equal(t, []int{63, 60, 0}, s.Payouts)
	assert.Equal(t, [][]int{{0}, {1}}, s.Winners)
	assert.Equal(t, []int{43, 10, -50}, s.Net)
}

func TestSettleIncompleteHand(t *testing.T) {
	t.Parallel()
	h := newTestHand(t, []int{100, 100}, 0, 0, 0)
	_, err := h.Settle()
	assert.Error(t, err)
}
