package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"agora/pkg/debate"
)

// Reader provides read-only access to the archive database. Opening
// read-only keeps the dashboard and export commands from blocking a
// debate that is still writing.
type Reader struct {
	db *sql.DB
}

// NewReader opens the archive database in read-only mode with WAL.
// Returns an error if the database doesn't exist or cannot be opened.
func NewReader(dbPath string) (*Reader, error) {
	// Verify database file exists before attempting to open
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("database not found: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Reader{db: db}, nil
}

// Close releases the database connection.
// Safe to call multiple times.
func (r *Reader) Close() error {
	if r.db != nil {
		err := r.db.Close()
		r.db = nil
		return err
	}
	return nil
}

// ListOpts specifies filter criteria for listing debates.
type ListOpts struct {
	// Status filters to a specific debate status (e.g., "completed")
	Status string

	// Limit restricts the number of results (0 = no limit)
	Limit int
}

// ListDebates returns archived debates, newest first.
func (r *Reader) ListDebates(ctx context.Context, opts ListOpts) ([]debate.DebateRow, error) {
	query := `SELECT id, topic, mode, status, min_rounds, max_rounds, rounds_completed,
	                 started_at, COALESCE(ended_at, '') AS ended_at
	          FROM debates WHERE 1=1`
	var args []any

	if opts.Status != "" {
		query += " AND status = ?"
		args = append(args, opts.Status)
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query debates: %w", err)
	}
	defer rows.Close()

	var debates []debate.DebateRow
	for rows.Next() {
		d, err := scanDebate(rows)
		if err != nil {
			return nil, err
		}
		debates = append(debates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debates: %w", err)
	}

	return debates, nil
}

// Debate fetches a single debate by ID. A shortened ID is accepted as
// long as it prefixes exactly one debate, so IDs can be copied straight
// from list output. Returns DebateNotFoundError if nothing matches.
func (r *Reader) Debate(ctx context.Context, id string) (debate.DebateRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, topic, mode, status, min_rounds, max_rounds, rounds_completed,
		        started_at, COALESCE(ended_at, '') AS ended_at
		 FROM debates WHERE id = ?`, id)

	d, err := scanDebate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return r.debateByPrefix(ctx, id)
	}
	if err != nil {
		return debate.DebateRow{}, err
	}
	return d, nil
}

// debateByPrefix resolves a shortened debate ID. The prefix must match
// exactly one debate; an ambiguous prefix is an error rather than a guess.
func (r *Reader) debateByPrefix(ctx context.Context, prefix string) (debate.DebateRow, error) {
	if prefix == "" {
		return debate.DebateRow{}, &debate.DebateNotFoundError{ID: prefix}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, topic, mode, status, min_rounds, max_rounds, rounds_completed,
		        started_at, COALESCE(ended_at, '') AS ended_at
		 FROM debates WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return debate.DebateRow{}, fmt.Errorf("query debates by prefix: %w", err)
	}
	defer rows.Close()

	var matches []debate.DebateRow
	for rows.Next() {
		d, err := scanDebate(rows)
		if err != nil {
			return debate.DebateRow{}, err
		}
		matches = append(matches, d)
	}
	if err := rows.Err(); err != nil {
		return debate.DebateRow{}, fmt.Errorf("iterate debates by prefix: %w", err)
	}

	switch len(matches) {
	case 0:
		return debate.DebateRow{}, &debate.DebateNotFoundError{ID: prefix}
	case 1:
		return matches[0], nil
	default:
		return debate.DebateRow{}, fmt.Errorf("debate id %q is ambiguous, use more characters", prefix)
	}
}

// LatestDebate returns the most recently started debate. Returns
// DebateNotFoundError when the archive is empty.
func (r *Reader) LatestDebate(ctx context.Context) (debate.DebateRow, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, topic, mode, status, min_rounds, max_rounds, rounds_completed,
		        started_at, COALESCE(ended_at, '') AS ended_at
		 FROM debates ORDER BY started_at DESC, rowid DESC LIMIT 1`)

	d, err := scanDebate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return debate.DebateRow{}, &debate.DebateNotFoundError{ID: "latest"}
	}
	if err != nil {
		return debate.DebateRow{}, err
	}
	return d, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan code.
type scanner interface {
	Scan(dest ...any) error
}

func scanDebate(s scanner) (debate.DebateRow, error) {
	var d debate.DebateRow
	err := s.Scan(
		&d.ID,
		&d.Topic,
		&d.Mode,
		&d.Status,
		&d.MinRounds,
		&d.MaxRounds,
		&d.RoundsCompleted,
		&d.StartedAt,
		&d.EndedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return debate.DebateRow{}, err
		}
		return debate.DebateRow{}, fmt.Errorf("scan debate: %w", err)
	}
	return d, nil
}

// StatementOpts specifies filter criteria for querying statements.
type StatementOpts struct {
	// Stage filters to a specific stage (e.g., "round", "conclusion")
	Stage string

	// Round filters to a specific round number (nil = all rounds)
	Round *int

	// AfterID returns only statements with an ID greater than this,
	// for incremental reads while a debate is running
	AfterID int64

	// Limit restricts the number of results (0 = no limit)
	Limit int
}

// Statements retrieves a debate's statements in speaking order.
// Returns an empty slice if no statements match.
func (r *Reader) Statements(ctx context.Context, debateID string, opts StatementOpts) ([]debate.StatementRow, error) {
	query, args := buildStatementQuery(debateID, opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var statements []debate.StatementRow
	for rows.Next() {
		var st debate.StatementRow
		err := rows.Scan(
			&st.ID,
			&st.DebateID,
			&st.Round,
			&st.Stage,
			&st.Speaker,
			&st.Content,
			&st.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan statement: %w", err)
		}
		statements = append(statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	return statements, nil
}

// buildStatementQuery constructs the SQL query and arguments from StatementOpts.
func buildStatementQuery(debateID string, opts StatementOpts) (string, []any) {
	var conditions []string
	args := []any{debateID}

	query := `SELECT id, debate_id, round, stage, speaker, content, created_at
	          FROM statements WHERE debate_id = ?`

	if opts.Stage != "" {
		conditions = append(conditions, "stage = ?")
		args = append(args, opts.Stage)
	}

	if opts.Round != nil {
		conditions = append(conditions, "round = ?")
		args = append(args, *opts.Round)
	}

	if opts.AfterID > 0 {
		conditions = append(conditions, "id > ?")
		args = append(args, opts.AfterID)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	// Speaking order, oldest first
	query += " ORDER BY id ASC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return query, args
}

// EventOpts specifies filter criteria for querying events.
type EventOpts struct {
	// Type filters to a specific event type (e.g., "analysis", "fallback")
	Type string

	// AfterID returns only events with an ID greater than this
	AfterID int64

	// Limit restricts the number of results (0 = no limit)
	Limit int
}

// Events retrieves a debate's lifecycle events, newest first.
// Returns an empty slice if no events match.
func (r *Reader) Events(ctx context.Context, debateID string, opts EventOpts) ([]debate.EventRow, error) {
	query, args := buildEventQuery(debateID, opts)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []debate.EventRow
	for rows.Next() {
		var e debate.EventRow
		var payload sql.NullString
		err := rows.Scan(
			&e.ID,
			&e.DebateID,
			&e.Type,
			&e.Round,
			&payload,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if payload.Valid {
			e.Payload = payload.String
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// buildEventQuery constructs the SQL query and arguments from EventOpts.
func buildEventQuery(debateID string, opts EventOpts) (string, []any) {
	var conditions []string
	args := []any{debateID}

	query := `SELECT id, debate_id, type, round, payload, created_at
	          FROM events WHERE debate_id = ?`

	if opts.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, opts.Type)
	}

	if opts.AfterID > 0 {
		conditions = append(conditions, "id > ?")
		args = append(args, opts.AfterID)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	// Order by newest first
	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return query, args
}

// SearchOpts configures a full-text search over statements.
type SearchOpts struct {
	// DebateID restricts the search to a single debate (empty = all)
	DebateID string

	// Limit restricts the number of results (default 10)
	Limit int
}

// ScoredStatement is a StatementRow with an associated relevance score.
type ScoredStatement struct {
	debate.StatementRow
	Score float64
}

// SearchStatements performs a BM25-ranked FTS5 search over statement
// content, best matches first.
func (r *Reader) SearchStatements(ctx context.Context, query string, opts SearchOpts) ([]ScoredStatement, error) {
	if query == "" {
		return nil, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	conditions := []string{"statements_fts MATCH ?"}
	args := []any{debate.SanitizeFTS5Query(query)}

	if opts.DebateID != "" {
		conditions = append(conditions, "s.debate_id = ?")
		args = append(args, opts.DebateID)
	}

	q := fmt.Sprintf(`
		SELECT s.id, s.debate_id, s.round, s.stage, s.speaker, s.content, s.created_at,
		       (-bm25(statements_fts)) AS score
		FROM statements_fts
		JOIN statements s ON statements_fts.rowid = s.id
		WHERE %s
		ORDER BY score DESC
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("statement search: %w", err)
	}
	defer rows.Close()

	var results []ScoredStatement
	for rows.Next() {
		var sm ScoredStatement
		err := rows.Scan(
			&sm.ID,
			&sm.DebateID,
			&sm.Round,
			&sm.Stage,
			&sm.Speaker,
			&sm.Content,
			&sm.CreatedAt,
			&sm.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("statement search scan: %w", err)
		}
		results = append(results, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("statement search rows: %w", err)
	}

	return results, nil
}

// ParseTime parses a SQLite timestamp string. SQLite's datetime('now')
// emits "2006-01-02 15:04:05"; RFC3339 is accepted as a fallback.
// Returns the zero time for empty or unparseable values.
func ParseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
