package debate

// DebateRow represents a row in the debates SQLite table.
type DebateRow struct {
	ID              string `json:"id"`
	Topic           string `json:"topic"`
	Mode            string `json:"mode"`
	Status          string `json:"status"`
	MinRounds       int    `json:"min_rounds"`
	MaxRounds       int    `json:"max_rounds"`
	RoundsCompleted int    `json:"rounds_completed"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
}

// Debate status values stored in the debates table.
const (
	StatusRunning    = "running"
	StatusCompleted  = "completed"
	StatusEndedEarly = "ended_early"
)

// StatementRow represents a row in the statements SQLite table.
type StatementRow struct {
	ID        int64  `json:"id"`
	DebateID  string `json:"debate_id"`
	Round     int    `json:"round"`
	Stage     string `json:"stage"`
	Speaker   string `json:"speaker"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

// EventRow represents a row in the events SQLite table.
// Tracks engine lifecycle events for the dashboard and diagnostics.
type EventRow struct {
	ID        int64  `json:"id"`
	DebateID  string `json:"debate_id"`
	Type      string `json:"type"`
	Round     int    `json:"round"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"created_at"`
}

// Event types written to the events table.
const (
	EventDebateStart  = "debate_start"
	EventRoundStart   = "round_start"
	EventAnalysis     = "analysis"
	EventFallback     = "fallback"
	EventEscalation   = "escalation"
	EventExtension    = "extension"
	EventEarlyEnd     = "early_end"
	EventDebateEnd    = "debate_end"
	EventHumanJoined  = "human_joined"
	EventStageChanged = "stage_changed"
)
