package runid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	id, err := New(quartz.NewReal())
	require.NoError(t, err)
	assert.Len(t, id, Length)
	require.NoError(t, Validate(id))
}

func TestGenerateIsDeterministicForFixedInputs(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	clock.Set(time.UnixMilli(0))

	id, err := NewGenerator(clock, bytes.NewReader(make([]byte, 10))).Generate()
	require.NoError(t, err)
	// Zero time and zero randomness leave only the version and variant bits.
	assert.Equal(t, "0000000000e008000000000000", id)
}

func TestGenerateSortsByTime(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	var ids []string
	for range 10 {
		id, err := NewGenerator(clock, nil).Generate()
		require.NoError(t, err)
		ids = append(ids, id)
		clock.Advance(time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s then %s", ids[i-1], ids[i])
	}
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()
	clock := quartz.NewMock(t)
	seen := make(map[string]bool)
	for range 100 {
		id, err := NewGenerator(clock, nil).Generate()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestGenerateRandomFailure(t *testing.T) {
	t.Parallel()
	_, err := NewGenerator(quartz.NewMock(t), bytes.NewReader([]byte{1, 2})).Generate()
	assert.ErrorContains(t, err, "random")
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"valid", "01hqzx5k7vw9e8c6d4b3a2n1m0", true},
		{"too short", "01hqzx", false},
		{"too long", "01hqzx5k7vw9e8c6d4b3a2n1m0x", false},
		{"first char too high", "81hqzx5k7vw9e8c6d4b3a2n1m0", false},
		{"excluded letter", "01hqzx5k7vw9e8c6d4b3a2n1mu", false},
		{"uppercase", "01HQZX5K7VW9E8C6D4B3A2N1M0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
