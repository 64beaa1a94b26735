package debate

// SchemaDDL defines the SQLite schema for the agora archive database.
// Tables: debates, statements, events, statements_fts (FTS5).
// Execute against a SQLite database with: db.Exec(SchemaDDL)
const SchemaDDL = `
-- One row per debate session
CREATE TABLE IF NOT EXISTS debates (
    id TEXT PRIMARY KEY,
    topic TEXT NOT NULL,
    mode TEXT NOT NULL DEFAULT 'dynamic',
    status TEXT NOT NULL DEFAULT 'running',
    min_rounds INTEGER NOT NULL DEFAULT 0,
    max_rounds INTEGER NOT NULL DEFAULT 0,
    rounds_completed INTEGER NOT NULL DEFAULT 0,
    started_at TEXT NOT NULL DEFAULT (datetime('now')),
    ended_at TEXT
);

-- Every spoken line, moderator and panelist alike, in speaking order
CREATE TABLE IF NOT EXISTS statements (
    id INTEGER PRIMARY KEY,
    debate_id TEXT NOT NULL,
    round INTEGER NOT NULL DEFAULT 0,
    stage TEXT NOT NULL,
    speaker TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Engine lifecycle events: round selection, analysis, fallbacks, termination
CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY,
    debate_id TEXT NOT NULL,
    type TEXT NOT NULL,
    round INTEGER NOT NULL DEFAULT 0,
    payload TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

-- FTS5 full-text index over statements for BM25-ranked search
CREATE VIRTUAL TABLE IF NOT EXISTS statements_fts USING fts5(
    speaker,
    content,
    content=statements,
    content_rowid=id
);

-- Triggers to keep FTS index in sync with statements table
CREATE TRIGGER IF NOT EXISTS statements_ai AFTER INSERT ON statements BEGIN
    INSERT INTO statements_fts(rowid, speaker, content) VALUES (new.id, new.speaker, new.content);
END;

CREATE TRIGGER IF NOT EXISTS statements_ad AFTER DELETE ON statements BEGIN
    INSERT INTO statements_fts(statements_fts, rowid, speaker, content) VALUES ('delete', old.id, old.speaker, old.content);
END;
`
