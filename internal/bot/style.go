package bot

import (
	"fmt"
	"strings"
)

// Range is how wide a strategy plays preflop.
type Range int

const (
	Tight Range = iota
	Loose
)

func (r Range) String() string {
	return [...]string{"tight", "loose"}[r]
}

// widen is how many positions the range table is opened by.
func (r Range) widen() int {
	if r == Loose {
		return 1
	}
	return 0
}

// Aggression is whether a strategy bets its strong hands and draws.
type Aggression int

const (
	Passive Aggression = iota
	Aggressive
)

func (a Aggression) String() string {
	return [...]string{"passive", "aggressive"}[a]
}

// Style combines range width and aggression.
type Style struct {
	Range      Range
	Aggression Aggression
}

// Styles lists the four scripted styles.
var Styles = []Style{
	{Tight, Passive},
	{Tight, Aggressive},
	{Loose, Passive},
	{Loose, Aggressive},
}

func (s Style) String() string {
	return s.Range.String() + "-" + s.Aggression.String()
}

// ParseStyle builds a style from its two halves, e.g. "tight" and
// "aggressive".
func ParseStyle(rangeName, aggression string) (Style, error) {
	var s Style
	switch strings.ToLower(rangeName) {
	case "tight":
		s.Range = Tight
	case "loose":
		s.Range = Loose
	default:
		return Style{}, fmt.Errorf("unknown preflop range %q (want tight or loose)", rangeName)
	}
	switch strings.ToLower(aggression) {
	case "passive":
		s.Aggression = Passive
	case "aggressive":
		s.Aggression = Aggressive
	default:
		return Style{}, fmt.Errorf("unknown aggression %q (want passive or aggressive)", aggression)
	}
	return s, nil
}
