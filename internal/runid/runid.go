// Package runid names simulation runs with sortable identifiers.
//
// An ID is a UUIDv7 (48-bit millisecond timestamp, version and variant
// bits, random tail) written as 26 lowercase Crockford base32 characters.
// IDs from later runs sort after earlier ones.
package runid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/coder/quartz"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	// Length is the number of characters in an ID.
	Length = 26
)

// Generator creates IDs from a clock and a source of random bytes.
type Generator struct {
	clock  quartz.Clock
	random io.Reader
}

// NewGenerator returns a generator. A nil random uses crypto/rand.
func NewGenerator(clock quartz.Clock, random io.Reader) *Generator {
	if random == nil {
		random = rand.Reader
	}
	return &Generator{clock: clock, random: random}
}

// New returns an ID for a run starting now on clock.
func New(clock quartz.Clock) (string, error) {
	return NewGenerator(clock, nil).Generate()
}

// Generate returns a new ID.
func (g *Generator) Generate() (string, error) {
	var id [16]byte
	binary.BigEndian.PutUint64(id[:8], uint64(g.clock.Now().UnixMilli())<<16)
	if _, err := io.ReadFull(g.random, id[6:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	id[6] = id[6]&0x0f | 0x70 // version 7
	id[8] = id[8]&0x3f | 0x80 // RFC 4122 variant
	return encode(id), nil
}

// encode writes 128 bits as 26 base32 digits, most significant first. The
// first digit carries only three bits.
func encode(id [16]byte) string {
	hi := binary.BigEndian.Uint64(id[:8])
	lo := binary.BigEndian.Uint64(id[8:])

	var out [Length]byte
	for i := Length - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1f]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// Validate reports whether id could have come from Generate.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("run ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("run ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
