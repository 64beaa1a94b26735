// Package archive persists debates to SQLite. The Store is the write
// side, used by the CLI while a debate runs; Reader (reader.go) is the
// read-only side used by export, list, and the dashboard.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"agora/pkg/debate"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages the debates, statements, and events tables.
type Store struct {
	db *sql.DB
}

// NewStore wraps an already-open SQLite database. The caller is
// responsible for applying debate.SchemaDDL and closing the handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the archive database at path, enforces WAL
// journal mode and a 5-second busy timeout, and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode on %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout on %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, debate.SchemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle. Safe to call on a nil
// Store or more than once.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// CreateParams holds parameters for starting a new archived debate.
type CreateParams struct {
	Topic     string
	Mode      string // dynamic | static
	MinRounds int
	MaxRounds int
}

// CreateDebate inserts a new debate row in the running state and
// returns its generated ID.
func (s *Store) CreateDebate(ctx context.Context, p CreateParams) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debates (id, topic, mode, status, min_rounds, max_rounds)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Topic, p.Mode, debate.StatusRunning, p.MinRounds, p.MaxRounds,
	)
	if err != nil {
		return "", fmt.Errorf("debate insert: %w", err)
	}
	return id, nil
}

// InsertStatement appends one spoken line to a debate. Returns the
// inserted row ID.
func (s *Store) InsertStatement(ctx context.Context, debateID string, round int, st debate.Statement) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (debate_id, round, stage, speaker, content)
		 VALUES (?, ?, ?, ?, ?)`,
		debateID, round, st.Stage, st.Speaker, st.Content,
	)
	if err != nil {
		return 0, fmt.Errorf("statement insert: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("statement last insert id: %w", err)
	}
	return id, nil
}

// InsertEvent appends an engine lifecycle event to a debate.
func (s *Store) InsertEvent(ctx context.Context, debateID, typ string, round int, payload string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (debate_id, type, round, payload) VALUES (?, ?, ?, ?)`,
		debateID, typ, round, payload,
	)
	if err != nil {
		return fmt.Errorf("event insert: %w", err)
	}
	return nil
}

// SetRoundsCompleted updates the completed-round counter for a debate.
func (s *Store) SetRoundsCompleted(ctx context.Context, debateID string, rounds int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE debates SET rounds_completed = ? WHERE id = ?`,
		rounds, debateID,
	)
	if err != nil {
		return fmt.Errorf("debate update rounds: %w", err)
	}
	return nil
}

// FinishDebate marks a debate as finished with the given status and
// stamps its end time.
func (s *Store) FinishDebate(ctx context.Context, debateID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE debates SET status = ?, ended_at = datetime('now') WHERE id = ?`,
		status, debateID,
	)
	if err != nil {
		return fmt.Errorf("debate finish: %w", err)
	}
	return nil
}

// DebateRecorder writes statements and events for a single debate.
// It satisfies the engine's Recorder interface.
type DebateRecorder struct {
	store    *Store
	debateID string
}

// Recorder returns a DebateRecorder bound to debateID.
func (s *Store) Recorder(debateID string) *DebateRecorder {
	return &DebateRecorder{store: s, debateID: debateID}
}

// RecordStatement persists one spoken line under the bound debate.
func (r *DebateRecorder) RecordStatement(ctx context.Context, round int, st debate.Statement) error {
	_, err := r.store.InsertStatement(ctx, r.debateID, round, st)
	return err
}

// RecordEvent persists one lifecycle event under the bound debate.
func (r *DebateRecorder) RecordEvent(ctx context.Context, typ string, round int, payload string) error {
	return r.store.InsertEvent(ctx, r.debateID, typ, round, payload)
}

// DefaultDBPath returns the default path to the archive database.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agora", "agora.db")
}
