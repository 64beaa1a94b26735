package debate

import "fmt"

// DebateNotFoundError represents a debate lookup failure in the archive.
// It enables typed error discrimination via errors.As.
type DebateNotFoundError struct {
	ID string
}

func (e *DebateNotFoundError) Error() string {
	return fmt.Sprintf("debate %s not found", e.ID)
}

// EmptyRosterError is returned when a debate is started with no panelists.
// Roster problems are caller errors, not degradation cases.
type EmptyRosterError struct {
	Topic string
}

func (e *EmptyRosterError) Error() string {
	return fmt.Sprintf("no panelists on the roster for topic %q", e.Topic)
}
