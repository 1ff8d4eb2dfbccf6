package poker

import "fmt"

// InvalidHandError reports a card set the evaluator refuses to rank: the
// wrong number of cards, a duplicate, or a value that is not a single card.
// It always indicates a bug in the caller's input construction.
type InvalidHandError struct {
	Count  int
	Card   Card
	Reason string
}

func (e *InvalidHandError) Error() string {
	if e.Card != 0 {
		return fmt.Sprintf("invalid hand (%d cards): %s: %s", e.Count, e.Reason, e.Card)
	}
	return fmt.Sprintf("invalid hand (%d cards): %s", e.Count, e.Reason)
}
