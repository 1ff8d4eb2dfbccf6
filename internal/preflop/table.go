// Package preflop holds the starting-hand range table that scripted
// strategies consult before the flop.
//
// The table is a 13x13 grid with Aces in the first row and column. Pairs sit
// on the diagonal, suited hands above it (row is the higher rank) and
// offsuit hands below it (row is the lower rank). Each cell is the earliest
// acting position from which the hand is played, or N for never.
package preflop

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/lox/holdemlab/internal/fileutil"
	"github.com/lox/holdemlab/poker"
)

const size = 13

// Never marks a hand that is folded from every position.
const Never = -1

//go:embed hand_types.csv
var defaultCSV string

// Table is an immutable preflop range table.
type Table struct {
	cells [size][size]int
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(strings.NewReader(defaultCSV))
	if err != nil {
		panic(fmt.Sprintf("preflop: embedded table: %v", err))
	}
	return t
})

// Default returns the table shipped with the binary.
func Default() *Table {
	return defaultTable()
}

// LoadFile reads a table from a CSV file.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open range table: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses 13 rows of 13 comma-separated cells. Cells are a
// non-negative position or N.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = size
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse range table: %w", err)
	}
	if len(rows) != size {
		return nil, fmt.Errorf("range table has %d rows, want %d", len(rows), size)
	}

	t := &Table{}
	for i, row := range rows {
		for j, raw := range row {
			cell, err := parseCell(raw)
			if err != nil {
				return nil, fmt.Errorf("range table row %d column %d: %w", i+1, j+1, err)
			}
			t.cells[i][j] = cell
		}
	}
	return t, nil
}

func parseCell(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, "N") {
		return Never, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid cell %q", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative position %d", n)
	}
	return n, nil
}

// Lookup returns the earliest position that plays h, or Never.
func (t *Table) Lookup(h poker.StartingHand) int {
	high, low := size-1-int(h.High), size-1-int(h.Low)
	switch {
	case h.IsPair():
		return t.cells[high][high]
	case h.Suited:
		return t.cells[high][low]
	default:
		return t.cells[low][high]
	}
}

// Playable reports whether h is played from position. A positive widen
// opens the range by that many positions.
func (t *Table) Playable(h poker.StartingHand, position, widen int) bool {
	minPosition := t.Lookup(h)
	if minPosition == Never {
		return false
	}
	return position >= minPosition-widen
}

// Build returns a table whose cell for each of the 169 starting hands is
// position(h). Negative positions are stored as Never.
func Build(position func(h poker.StartingHand) int) *Table {
	t := &Table{}
	for i := range size {
		for j := range size {
			cell := position(cellHand(i, j))
			if cell < 0 {
				cell = Never
			}
			t.cells[i][j] = cell
		}
	}
	return t
}

// cellHand is the starting hand stored at row i, column j.
func cellHand(i, j int) poker.StartingHand {
	ri, rj := uint8(size-1-i), uint8(size-1-j)
	switch {
	case i == j:
		return poker.StartingHand{High: ri, Low: ri}
	case i < j:
		return poker.StartingHand{High: ri, Low: rj, Suited: true}
	default:
		return poker.StartingHand{High: rj, Low: ri}
	}
}

// WriteCSV writes t in the format Load reads.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, row := range t.cells {
		record := make([]string, size)
		for j, cell := range row {
			if cell == Never {
				record[j] = "N"
			} else {
				record[j] = strconv.Itoa(cell)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveFile writes t to path, replacing any existing file atomically.
func (t *Table) SaveFile(path string) error {
	if err := fileutil.WriteAtomic(path, 0o644, t.WriteCSV); err != nil {
		return fmt.Errorf("save range table: %w", err)
	}
	return nil
}
