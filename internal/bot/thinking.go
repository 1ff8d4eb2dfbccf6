package bot

import (
	"fmt"
	"strings"
)

// ThinkingContext accumulates the reasons behind a decision.
type ThinkingContext struct {
	thoughts []string
}

// AddThought adds a thought to the thinking process
func (tc *ThinkingContext) AddThought(format string, args ...any) {
	tc.thoughts = append(tc.thoughts, fmt.Sprintf(format, args...))
}

// GetThoughts returns the complete stream of thoughts
func (tc *ThinkingContext) GetThoughts() string {
	if len(tc.thoughts) == 0 {
		return "no clear reasoning available"
	}
	return strings.Join(tc.thoughts, "; ")
}
