package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"agora/pkg/archive"
	"agora/pkg/debate"
)

// Row limits for the list and search views. The transcript has no limit;
// debates are short and the viewport handles scrolling.
const (
	maxListRows   = 50
	maxSearchRows = 10
)

// defaultDBPath returns the archive database path from env or default.
func defaultDBPath() string {
	if v := os.Getenv("AGORA_DB_PATH"); v != "" {
		return v
	}
	if home := os.Getenv("AGORA_HOME"); home != "" {
		return filepath.Join(home, "agora.db")
	}
	return archive.DefaultDBPath()
}

// liveSnapshot bundles everything one refresh of the live view needs.
type liveSnapshot struct {
	debate     debate.DebateRow
	statements []debate.StatementRow // statements past the requested cursor
	lastEvent  string                // most recent lifecycle event type
}

// fetchLive reads the followed debate plus any statements past afterID.
// An empty debateID follows the most recently started debate. The reader
// opens per call in read-only mode, so a running debate is never blocked.
//
// Error cases:
//   - dbPath missing or unopenable → returns error
//   - archive open but empty → returns debate.DebateNotFoundError
func fetchLive(ctx context.Context, dbPath, debateID string, afterID int64) (*liveSnapshot, error) {
	r, err := archive.NewReader(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dbPath, err)
	}
	defer r.Close() //nolint:errcheck // best-effort close on read-only path

	var d debate.DebateRow
	if debateID == "" {
		d, err = r.LatestDebate(ctx)
	} else {
		d, err = r.Debate(ctx, debateID)
	}
	if err != nil {
		return nil, err
	}

	statements, err := r.Statements(ctx, d.ID, archive.StatementOpts{AfterID: afterID})
	if err != nil {
		return nil, err
	}
	if statements == nil {
		statements = []debate.StatementRow{}
	}

	snap := &liveSnapshot{debate: d, statements: statements}

	events, err := r.Events(ctx, d.ID, archive.EventOpts{Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		snap.lastEvent = events[0].Type
	}

	return snap, nil
}

// fetchDebates lists archived debates, newest first.
func fetchDebates(ctx context.Context, dbPath string) ([]debate.DebateRow, error) {
	r, err := archive.NewReader(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dbPath, err)
	}
	defer r.Close() //nolint:errcheck // best-effort close on read-only path

	debates, err := r.ListDebates(ctx, archive.ListOpts{Limit: maxListRows})
	if err != nil {
		return nil, err
	}
	if debates == nil {
		debates = []debate.DebateRow{}
	}

	return debates, nil
}

// fetchSearch runs a full-text search across all archived statements.
func fetchSearch(ctx context.Context, dbPath, query string) ([]archive.ScoredStatement, error) {
	r, err := archive.NewReader(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", dbPath, err)
	}
	defer r.Close() //nolint:errcheck // best-effort close on read-only path

	results, err := r.SearchStatements(ctx, query, archive.SearchOpts{Limit: maxSearchRows})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []archive.ScoredStatement{}
	}

	return results, nil
}
