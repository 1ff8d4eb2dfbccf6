// Package resultlog appends one JSON line per finished game to a flat
// results file.
package resultlog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// NetPrefix starts the key holding each strategy's net chips.
const NetPrefix = "net."

// Entry is one strategy's result in a game.
type Entry struct {
	Name string
	Net  int
}

// Record describes one finished game.
type Record struct {
	Run     string // optional run identifier
	Game    int
	Seed    int64
	Hands   int
	Carry   int
	Results []Entry
}

// Writer appends records as JSON lines. It is safe for concurrent use.
type Writer struct {
	logger *log.Logger
	out    *stickyWriter
	closer io.Closer
}

// stickyWriter keeps the first write error; the logger drops them.
type stickyWriter struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

func (s *stickyWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	s.err = err
	return n, err
}

func (s *stickyWriter) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// New writes records to w, stamping each with the clock's time.
func New(w io.Writer, clock quartz.Clock) *Writer {
	out := &stickyWriter{w: w}
	logger := log.NewWithOptions(out, log.Options{
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		TimeFunction:    func(time.Time) time.Time { return clock.Now().UTC() },
		Level:           log.InfoLevel,
	})
	return &Writer{logger: logger, out: out}
}

// Create opens path for appending, creating it if needed.
func Create(path string, clock quartz.Clock) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results log: %w", err)
	}
	w := New(f, clock)
	w.closer = f
	return w, nil
}

// Write appends one record.
func (w *Writer) Write(r Record) {
	keyvals := make([]any, 0, 10+2*len(r.Results))
	if r.Run != "" {
		keyvals = append(keyvals, "run", r.Run)
	}
	keyvals = append(keyvals, "game", r.Game, "seed", r.Seed, "hands", r.Hands, "carry", r.Carry)
	for _, e := range r.Results {
		keyvals = append(keyvals, NetPrefix+e.Name, e.Net)
	}
	w.logger.Info("game finished", keyvals...)
}

// Err returns the first error hit writing a record. Once set, later
// records are dropped.
func (w *Writer) Err() error {
	if err := w.out.Err(); err != nil {
		return fmt.Errorf("write results log: %w", err)
	}
	return nil
}

// Close closes the underlying file, if Create opened one, and reports any
// record that failed to write.
func (w *Writer) Close() error {
	err := w.Err()
	if w.closer != nil {
		err = errors.Join(err, w.closer.Close())
	}
	return err
}
