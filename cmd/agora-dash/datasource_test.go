package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"agora/pkg/archive"
	"agora/pkg/debate"
)

// seedArchive creates a temp archive holding one finished debate and one
// still-running debate. Returns the db path and both debate IDs.
func seedArchive(t *testing.T) (dbPath, doneID, liveID string) {
	t.Helper()

	dbPath = filepath.Join(t.TempDir(), "agora.db")
	store, err := archive.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()

	doneID, err = store.CreateDebate(ctx, archive.CreateParams{
		Topic: "Should cities ban cars?", Mode: "dynamic", MinRounds: 3, MaxRounds: 10,
	})
	if err != nil {
		t.Fatalf("create debate: %v", err)
	}
	mustInsert(t, store, doneID, 0, debate.Statement{
		Speaker: debate.ModeratorName, Stage: debate.StageBriefing, Content: "Welcome to the panel.",
	})
	mustInsert(t, store, doneID, 1, debate.Statement{
		Speaker: "Ada", Stage: debate.StageRound(1), Content: "Congestion pricing beats an outright ban.",
	})
	if err := store.SetRoundsCompleted(ctx, doneID, 1); err != nil {
		t.Fatalf("set rounds: %v", err)
	}
	if err := store.FinishDebate(ctx, doneID, debate.StatusCompleted); err != nil {
		t.Fatalf("finish debate: %v", err)
	}

	liveID, err = store.CreateDebate(ctx, archive.CreateParams{
		Topic: "Is remote work here to stay?", Mode: "static", MinRounds: 2, MaxRounds: 2,
	})
	if err != nil {
		t.Fatalf("create debate: %v", err)
	}
	mustInsert(t, store, liveID, 0, debate.Statement{
		Speaker: debate.ModeratorName, Stage: debate.StageBriefing, Content: "Tonight we take up remote work.",
	})
	mustInsert(t, store, liveID, 1, debate.Statement{
		Speaker: "Bram", Stage: debate.StageRound(1), Content: "Hybrid schedules already won.",
	})
	if err := store.InsertEvent(ctx, liveID, debate.EventRoundStart, 1, ""); err != nil {
		t.Fatalf("insert event: %v", err)
	}

	return dbPath, doneID, liveID
}

// emptyArchive creates a schema-initialized archive holding no debates.
func emptyArchive(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "agora.db")
	store, err := archive.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return dbPath
}

func mustInsert(t *testing.T, store *archive.Store, debateID string, round int, st debate.Statement) int64 {
	t.Helper()
	id, err := store.InsertStatement(context.Background(), debateID, round, st)
	if err != nil {
		t.Fatalf("insert statement: %v", err)
	}
	return id
}

func TestFetchLiveFollowsNewestDebate(t *testing.T) {
	dbPath, _, liveID := seedArchive(t)

	snap, err := fetchLive(context.Background(), dbPath, "", 0)
	if err != nil {
		t.Fatalf("fetchLive: %v", err)
	}

	if snap.debate.ID != liveID {
		t.Errorf("followed debate = %s, want %s", snap.debate.ID, liveID)
	}
	if snap.debate.Topic != "Is remote work here to stay?" {
		t.Errorf("topic = %q", snap.debate.Topic)
	}
	if len(snap.statements) != 2 {
		t.Fatalf("statements = %d, want 2", len(snap.statements))
	}
	if snap.lastEvent != debate.EventRoundStart {
		t.Errorf("lastEvent = %q, want %q", snap.lastEvent, debate.EventRoundStart)
	}
}

func TestFetchLiveCursorSkipsSeenStatements(t *testing.T) {
	dbPath, _, liveID := seedArchive(t)
	ctx := context.Background()

	snap, err := fetchLive(ctx, dbPath, "", 0)
	if err != nil {
		t.Fatalf("fetchLive: %v", err)
	}
	cursor := snap.statements[len(snap.statements)-1].ID

	store, err := archive.Open(dbPath)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer store.Close()
	mustInsert(t, store, liveID, 1, debate.Statement{
		Speaker: "Chen", Stage: debate.StageRound(1), Content: "The office still wins for apprenticeship.",
	})

	snap, err = fetchLive(ctx, dbPath, "", cursor)
	if err != nil {
		t.Fatalf("fetchLive after cursor: %v", err)
	}
	if len(snap.statements) != 1 {
		t.Fatalf("statements past cursor = %d, want 1", len(snap.statements))
	}
	if snap.statements[0].Speaker != "Chen" {
		t.Errorf("speaker = %q, want Chen", snap.statements[0].Speaker)
	}
}

func TestFetchLivePinnedDebate(t *testing.T) {
	dbPath, doneID, _ := seedArchive(t)

	snap, err := fetchLive(context.Background(), dbPath, doneID, 0)
	if err != nil {
		t.Fatalf("fetchLive: %v", err)
	}

	if snap.debate.ID != doneID {
		t.Errorf("debate = %s, want %s", snap.debate.ID, doneID)
	}
	if snap.debate.Status != debate.StatusCompleted {
		t.Errorf("status = %q, want completed", snap.debate.Status)
	}
	if len(snap.statements) != 2 {
		t.Errorf("statements = %d, want 2", len(snap.statements))
	}
}

func TestFetchLiveMissingArchive(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")

	_, err := fetchLive(context.Background(), missing, "", 0)
	if err == nil {
		t.Fatal("expected error for missing archive")
	}
	var notFound *debate.DebateNotFoundError
	if errors.As(err, &notFound) {
		t.Error("missing archive should not report a missing debate")
	}
}

func TestFetchLiveEmptyArchive(t *testing.T) {
	dbPath := emptyArchive(t)

	_, err := fetchLive(context.Background(), dbPath, "", 0)
	var notFound *debate.DebateNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected DebateNotFoundError, got %v", err)
	}
}

func TestFetchDebatesNewestFirst(t *testing.T) {
	dbPath, doneID, liveID := seedArchive(t)

	debates, err := fetchDebates(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("fetchDebates: %v", err)
	}

	if len(debates) != 2 {
		t.Fatalf("debates = %d, want 2", len(debates))
	}
	if debates[0].ID != liveID || debates[1].ID != doneID {
		t.Errorf("order = [%s %s], want newest first", debates[0].ID, debates[1].ID)
	}
}

func TestFetchSearch(t *testing.T) {
	dbPath, doneID, _ := seedArchive(t)
	ctx := context.Background()

	results, err := fetchSearch(ctx, dbPath, "congestion")
	if err != nil {
		t.Fatalf("fetchSearch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Speaker != "Ada" || results[0].DebateID != doneID {
		t.Errorf("result = %s in %s, want Ada in %s", results[0].Speaker, results[0].DebateID, doneID)
	}

	results, err = fetchSearch(ctx, dbPath, "zeppelin")
	if err != nil {
		t.Fatalf("fetchSearch no match: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil results, got %v", results)
	}
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("AGORA_DB_PATH wins", func(t *testing.T) {
		t.Setenv("AGORA_DB_PATH", "/tmp/custom.db")
		t.Setenv("AGORA_HOME", "/tmp/agora-home")
		if got := defaultDBPath(); got != "/tmp/custom.db" {
			t.Errorf("defaultDBPath() = %q", got)
		}
	})

	t.Run("AGORA_HOME sets the directory", func(t *testing.T) {
		t.Setenv("AGORA_DB_PATH", "")
		t.Setenv("AGORA_HOME", "/tmp/agora-home")
		want := filepath.Join("/tmp/agora-home", "agora.db")
		if got := defaultDBPath(); got != want {
			t.Errorf("defaultDBPath() = %q, want %q", got, want)
		}
	})

	t.Run("defaults under the home directory", func(t *testing.T) {
		t.Setenv("AGORA_DB_PATH", "")
		t.Setenv("AGORA_HOME", "")
		got := defaultDBPath()
		if got == "" {
			t.Fatal("expected non-empty default path")
		}
		if filepath.Base(got) != "agora.db" {
			t.Errorf("defaultDBPath() = %q, want an agora.db path", got)
		}
	})
}
