package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"agora/pkg/archive"
	"agora/pkg/debate"
)

// seedExportDebate archives one finished debate and returns its id.
func seedExportDebate(t *testing.T, store *archive.Store) string {
	t.Helper()
	ctx := context.Background()

	id, err := store.CreateDebate(ctx, archive.CreateParams{
		Topic:     "Should cities ban cars?",
		Mode:      "dynamic",
		MinRounds: 3,
		MaxRounds: 10,
	})
	if err != nil {
		t.Fatalf("create debate: %v", err)
	}

	seed := []struct {
		round int
		st    debate.Statement
	}{
		{0, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageBriefing, Content: "Welcome to the panel."}},
		{1, debate.Statement{Speaker: "Ada", Stage: debate.StageRound(1), Content: "Congestion pricing works."}},
		{1, debate.Statement{Speaker: "Bram", Stage: debate.StageRound(1), Content: "Only with transit to absorb the demand."}},
		{1, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageClosing, Content: "Thanks to the panel."}},
	}
	for _, s := range seed {
		if _, err := store.InsertStatement(ctx, id, s.round, s.st); err != nil {
			t.Fatalf("insert statement: %v", err)
		}
	}

	if err := store.SetRoundsCompleted(ctx, id, 1); err != nil {
		t.Fatalf("set rounds: %v", err)
	}
	if err := store.FinishDebate(ctx, id, debate.StatusCompleted); err != nil {
		t.Fatalf("finish debate: %v", err)
	}
	return id
}

func TestRunExport_WritesMarkdown(t *testing.T) {
	store, dbPath := openTestStore(t)
	id := seedExportDebate(t, store)
	reader := openTestReader(t, dbPath)

	outPath := filepath.Join(t.TempDir(), "debate.md")
	var buf bytes.Buffer
	if err := runExport(context.Background(), reader, &buf, id, outPath); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	if !strings.Contains(buf.String(), "Exported Should cities ban cars? (4 statements)") {
		t.Errorf("unexpected confirmation: %q", buf.String())
	}
	if !strings.Contains(buf.String(), outPath) {
		t.Errorf("confirmation missing output path: %q", buf.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	md := string(data)
	if !strings.HasPrefix(md, "# Panel Debate: Should cities ban cars?") {
		t.Errorf("unexpected markdown header:\n%s", md)
	}
	if !strings.Contains(md, "**Ada**: Congestion pricing works.") {
		t.Errorf("markdown missing statement:\n%s", md)
	}
	if !strings.Contains(md, "## Round 1") {
		t.Errorf("markdown missing round section:\n%s", md)
	}
}

func TestRunExport_ShortIDPrefix(t *testing.T) {
	store, dbPath := openTestStore(t)
	id := seedExportDebate(t, store)
	reader := openTestReader(t, dbPath)

	outPath := filepath.Join(t.TempDir(), "debate.md")
	var buf bytes.Buffer
	if err := runExport(context.Background(), reader, &buf, id[:8], outPath); err != nil {
		t.Fatalf("runExport with prefix failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "**Ada**: Congestion pricing works.") {
		t.Errorf("prefix export lost the transcript:\n%s", string(data))
	}
}

func TestRunExport_UnknownDebate(t *testing.T) {
	store, dbPath := openTestStore(t)
	seedExportDebate(t, store)
	reader := openTestReader(t, dbPath)

	var buf bytes.Buffer
	err := runExport(context.Background(), reader, &buf, "no-such-id", "")
	if err == nil {
		t.Fatal("expected error for unknown debate id")
	}

	var notFound *debate.DebateNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected DebateNotFoundError, got: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed on failure, got: %q", buf.String())
	}
}
