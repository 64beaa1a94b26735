package debate

import (
	"fmt"
	"strings"
)

// Transcript is the append-only ordered log of statements for one debate.
// The engine owns it; handlers append and read, never reorder.
type Transcript struct {
	entries []Statement
}

// Append adds one statement at the end.
func (t *Transcript) Append(s Statement) {
	t.entries = append(t.entries, s)
}

// Len returns the number of statements recorded so far.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all statements in speaking order.
func (t *Transcript) Entries() []Statement {
	out := make([]Statement, len(t.entries))
	copy(out, t.entries)
	return out
}

// Recent returns a copy of the last n statements, fewer if the transcript
// is shorter.
func (t *Transcript) Recent(n int) []Statement {
	if n <= 0 {
		return nil
	}
	start := len(t.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]Statement, len(t.entries)-start)
	copy(out, t.entries[start:])
	return out
}

// Text renders the full transcript as "Speaker: content" lines, one per
// statement, for feeding back into prompts.
func (t *Transcript) Text() string {
	return FormatStatements(t.entries)
}

// FormatStatements renders a window of statements as "Speaker: content"
// lines, one per statement.
func FormatStatements(entries []Statement) string {
	var b strings.Builder
	for _, s := range entries {
		fmt.Fprintf(&b, "%s: %s\n", s.Speaker, s.Content)
	}
	return b.String()
}
