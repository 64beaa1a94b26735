// Package main implements the agora-dash interactive dashboard.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"agora/pkg/debate"
)

// robotMode outputs a JSON snapshot of the archive: the newest debate,
// its full transcript, and the debate list. Lets scripts read the same
// state the dashboard shows without a terminal.
func robotMode(ctx context.Context, dbPath string) ([]byte, error) {
	snapshot := map[string]any{
		"debate":     nil,
		"statements": []debate.StatementRow{},
		"debates":    []debate.DebateRow{},
	}

	snap, err := fetchLive(ctx, dbPath, "", 0)
	var notFound *debate.DebateNotFoundError
	switch {
	case errors.As(err, &notFound):
		// Archive exists but holds no debates. Emit the empty snapshot.
	case err != nil:
		return nil, err
	default:
		snapshot["debate"] = snap.debate
		snapshot["statements"] = snap.statements

		debates, err := fetchDebates(ctx, dbPath)
		if err != nil {
			return nil, err
		}
		snapshot["debates"] = debates
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--robot" {
		data, err := robotMode(context.Background(), defaultDBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	p := tea.NewProgram(newModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
