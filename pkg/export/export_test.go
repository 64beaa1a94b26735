package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agora/pkg/debate"
)

func sampleDebate() debate.DebateRow {
	return debate.DebateRow{
		ID:              "3f2a9c1e",
		Topic:           "carbon taxes",
		Mode:            "dynamic",
		Status:          debate.StatusCompleted,
		MinRounds:       3,
		MaxRounds:       10,
		RoundsCompleted: 2,
		StartedAt:       "2026-03-14 09:26:53",
		EndedAt:         "2026-03-14 09:41:02",
	}
}

func sampleStatements() []debate.StatementRow {
	return []debate.StatementRow{
		{Stage: debate.StageBriefing, Speaker: "Moderator", Content: "Welcome. Today's topic: carbon taxes."},
		{Stage: debate.StageIntroduction, Speaker: "Moderator", Content: "Joining us: Ada, economist."},
		{Stage: debate.StageIntroduction, Speaker: "Moderator", Content: "Joining us: Bram, policy analyst."},
		{Stage: "round 1", Speaker: "Ada", Content: "Carbon pricing is the only lever that scales.", Round: 1},
		{Stage: "round 1", Speaker: "Bram", Content: "Subsidies reach households faster.", Round: 1},
		{Stage: "round 2", Speaker: "Ada", Content: "The evidence on subsidies is mixed.", Round: 2},
		{Stage: debate.StageFinal, Speaker: "Ada", Content: "Price the externality."},
		{Stage: debate.StageFinal, Speaker: "Bram", Content: "Meet people where they are."},
		{Stage: debate.StageConclusion, Speaker: "Moderator", Content: "The fault lines are clearer now."},
		{Stage: debate.StageClosing, Speaker: "Moderator", Content: "That concludes today's debate."},
	}
}

func TestRenderSectionsInSpeakingOrder(t *testing.T) {
	doc := Render(sampleDebate(), sampleStatements())

	if !strings.HasPrefix(doc, "# Panel Debate: carbon taxes\n") {
		t.Errorf("expected title heading, got prefix %q", doc[:40])
	}

	for _, want := range []string{
		"**Started**: 2026-03-14 09:26:53",
		"**Ended**: 2026-03-14 09:41:02",
		"**Status**: completed",
		"**Mode**: dynamic",
		"**Rounds completed**: 2 (bounds 3-10)",
		"**Ada**: Carbon pricing is the only lever that scales.",
		"*Exported from the agora archive.*",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	sections := []string{
		"## Briefing",
		"## Introductions",
		"## Round 1",
		"## Round 2",
		"## Final Statements",
		"## Conclusion",
		"## Closing",
	}
	last := -1
	for _, sec := range sections {
		idx := strings.Index(doc, sec)
		if idx < 0 {
			t.Fatalf("document missing section %q", sec)
		}
		if idx < last {
			t.Errorf("section %q out of order", sec)
		}
		last = idx
	}

	// Two introductions share one heading
	if strings.Count(doc, "## Introductions") != 1 {
		t.Errorf("expected a single Introductions heading, got %d", strings.Count(doc, "## Introductions"))
	}
}

func TestRenderOmitsEmptyEndTime(t *testing.T) {
	d := sampleDebate()
	d.EndedAt = ""
	d.Status = debate.StatusRunning

	doc := Render(d, nil)

	if strings.Contains(doc, "**Ended**") {
		t.Error("expected no Ended line for a running debate")
	}
	if strings.Contains(doc, "## ") {
		t.Error("expected no sections for an empty transcript")
	}
	if !strings.Contains(doc, "*Exported from the agora archive.*") {
		t.Error("expected footer even for an empty transcript")
	}
}

func TestSectionTitle(t *testing.T) {
	cases := []struct {
		stage string
		want  string
	}{
		{debate.StageBriefing, "Briefing"},
		{debate.StageIntroduction, "Introductions"},
		{"round 7", "Round 7"},
		{debate.StageFinal, "Final Statements"},
		{debate.StageClosing, "Closing"},
		{"verdict", "Verdict"},
		{"", "Transcript"},
	}
	for _, tc := range cases {
		if got := sectionTitle(tc.stage); got != tc.want {
			t.Errorf("sectionTitle(%q) = %q, want %q", tc.stage, got, tc.want)
		}
	}
}

func TestDefaultFilename(t *testing.T) {
	if got := DefaultFilename("3f2a9c1e"); got != "debate-3f2a9c1e.md" {
		t.Errorf("DefaultFilename = %q", got)
	}
}

func TestWriteCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	written, err := Write(path, sampleDebate(), sampleStatements())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != path {
		t.Errorf("expected returned path %q, got %q", path, written)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "# Panel Debate: carbon taxes") {
		t.Error("exported file missing title")
	}
}

func TestWriteDefaultsFilename(t *testing.T) {
	t.Chdir(t.TempDir())

	written, err := Write("", sampleDebate(), nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if written != "debate-3f2a9c1e.md" {
		t.Errorf("expected default filename, got %q", written)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("expected default file to exist: %v", err)
	}
}
