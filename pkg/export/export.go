// Package export renders archived debates as Markdown documents.
package export

import (
	"fmt"
	"os"
	"strings"

	"agora/pkg/debate"
)

// Render produces the Markdown document for a debate: a metadata header,
// one section per stage in speaking order, and an attribution footer.
func Render(d debate.DebateRow, statements []debate.StatementRow) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Panel Debate: %s\n\n", d.Topic)
	fmt.Fprintf(&b, "**Started**: %s\n", d.StartedAt)
	if d.EndedAt != "" {
		fmt.Fprintf(&b, "**Ended**: %s\n", d.EndedAt)
	}
	fmt.Fprintf(&b, "**Status**: %s\n", d.Status)
	fmt.Fprintf(&b, "**Mode**: %s\n", d.Mode)
	fmt.Fprintf(&b, "**Rounds completed**: %d (bounds %d-%d)\n", d.RoundsCompleted, d.MinRounds, d.MaxRounds)
	b.WriteString("\n---\n\n")

	stage := ""
	for _, st := range statements {
		if st.Stage != stage {
			stage = st.Stage
			fmt.Fprintf(&b, "## %s\n\n", sectionTitle(stage))
		}
		fmt.Fprintf(&b, "**%s**: %s\n\n", st.Speaker, st.Content)
	}

	b.WriteString("---\n\n")
	b.WriteString("*Exported from the agora archive.*\n")

	return b.String()
}

// sectionTitle maps a stage label to its section heading.
func sectionTitle(stage string) string {
	switch stage {
	case debate.StageBriefing:
		return "Briefing"
	case debate.StageIntroduction:
		return "Introductions"
	case debate.StageSummary:
		return "Summary"
	case debate.StageFinal:
		return "Final Statements"
	case debate.StageConclusion:
		return "Conclusion"
	case debate.StageClosing:
		return "Closing"
	}
	if n, ok := strings.CutPrefix(stage, "round "); ok {
		return "Round " + n
	}
	if stage == "" {
		return "Transcript"
	}
	return strings.ToUpper(stage[:1]) + stage[1:]
}

// DefaultFilename returns the default output filename for a debate.
func DefaultFilename(debateID string) string {
	return fmt.Sprintf("debate-%s.md", debateID)
}

// Write renders the debate and writes it to path. An empty path falls
// back to DefaultFilename in the working directory. Returns the path
// written.
func Write(path string, d debate.DebateRow, statements []debate.StatementRow) (string, error) {
	if path == "" {
		path = DefaultFilename(d.ID)
	}
	if err := os.WriteFile(path, []byte(Render(d, statements)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
