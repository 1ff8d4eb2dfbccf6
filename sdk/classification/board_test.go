package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/holdemlab/poker"
)

func TestTexture(t *testing.T) {
	tests := []struct {
		board string
		want  BoardTexture
	}{
		{"", Dry},
		{"Ks Qs", Dry},
		{"2c 7d Kh", Dry},
		{"9h 8d 2c", SemiWet},
		{"Kh Kd 7h", SemiWet},
		{"As 2d 3h", SemiWet},
		{"9h 8h 7c", Wet},
		{"Ks Qs Js", VeryWet},
		{"9c 8d 7h 6s 2c", Wet},
	}

	for _, tt := range tests {
		t.Run(tt.board, func(t *testing.T) {
			board := poker.NewHand(poker.MustParseCards(tt.board)...)
			assert.Equal(t, tt.want, Texture(board))
		})
	}
}

func TestLongestRun(t *testing.T) {
	rank := func(rs ...uint8) uint16 {
		var m uint16
		for _, r := range rs {
			m |= 1 << r
		}
		return m
	}
	assert.Equal(t, 0, longestRun(0))
	assert.Equal(t, 1, longestRun(rank(poker.King)))
	assert.Equal(t, 3, longestRun(rank(poker.Ace, poker.Two, poker.Three)))
	assert.Equal(t, 5, longestRun(rank(poker.Ten, poker.Jack, poker.Queen, poker.King, poker.Ace)))
	assert.Equal(t, 2, longestRun(rank(poker.Two, poker.Three, poker.Seven, poker.Nine)))
}

func TestBoardTextureString(t *testing.T) {
	assert.Equal(t, "very wet", VeryWet.String())
	assert.Equal(t, "unknown", BoardTexture(9).String())
}
