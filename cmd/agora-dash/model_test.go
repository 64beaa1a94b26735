package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"agora/pkg/debate"
)

// keyMsg builds a tea.KeyMsg for a key name.
func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// TestStatusBar verifies the status bar shows archive health, debate
// count, and the followed debate's status.
func TestStatusBar(t *testing.T) {
	tests := []struct {
		name          string
		archiveOnline bool
		hasLive       bool
		status        string
		debateCount   int
		wantContains  []string
	}{
		{
			name:          "archive offline shows offline",
			archiveOnline: false,
			wantContains:  []string{"offline", "no debate"},
		},
		{
			name:          "running debate shows status",
			archiveOnline: true,
			hasLive:       true,
			status:        debate.StatusRunning,
			debateCount:   3,
			wantContains:  []string{"online", "3", "running"},
		},
		{
			name:          "completed debate shows status",
			archiveOnline: true,
			hasLive:       true,
			status:        debate.StatusCompleted,
			debateCount:   1,
			wantContains:  []string{"online", "1", "completed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			m.archiveOnline = tt.archiveOnline
			m.hasLive = tt.hasLive
			m.live.Status = tt.status
			m.debates = make([]debate.DebateRow, tt.debateCount)

			statusBar := m.renderStatusBar()

			for _, want := range tt.wantContains {
				if !strings.Contains(statusBar, want) {
					t.Errorf("renderStatusBar() missing %q, got: %s", want, statusBar)
				}
			}
		})
	}
}

func TestApplyLive(t *testing.T) {
	row := func(id, status string) debate.DebateRow {
		return debate.DebateRow{ID: id, Topic: "Should cities ban cars?", Status: status, MaxRounds: 10}
	}
	st := func(id int64, speaker, content string) debate.StatementRow {
		return debate.StatementRow{ID: id, Speaker: speaker, Stage: debate.StageRound(1), Content: content}
	}

	t.Run("first snapshot fills the transcript", func(t *testing.T) {
		m := newModel()

		updated, cmd := m.Update(liveMsg{
			online: true,
			snap: &liveSnapshot{
				debate:     row("d1", debate.StatusRunning),
				statements: []debate.StatementRow{st(1, "Ada", "Opening."), st(2, "Bram", "Reply.")},
				lastEvent:  debate.EventRoundStart,
			},
		})
		gm := updated.(Model)

		if cmd != nil {
			t.Error("full fetch should not trigger a refetch")
		}
		if !gm.hasLive || gm.live.ID != "d1" {
			t.Fatalf("live = %+v", gm.live)
		}
		if len(gm.transcript) != 2 || gm.cursor != 2 {
			t.Errorf("transcript = %d rows, cursor = %d", len(gm.transcript), gm.cursor)
		}
		if gm.lastEvent != debate.EventRoundStart {
			t.Errorf("lastEvent = %q", gm.lastEvent)
		}
	})

	t.Run("overlapping rows append once", func(t *testing.T) {
		m := newModel()
		m.live = row("d1", debate.StatusRunning)
		m.hasLive = true
		m.transcript = []debate.StatementRow{st(1, "Ada", "Opening."), st(2, "Bram", "Reply.")}
		m.cursor = 2

		updated, _ := m.Update(liveMsg{
			online:  true,
			afterID: 2,
			snap: &liveSnapshot{
				debate:     row("d1", debate.StatusRunning),
				statements: []debate.StatementRow{st(2, "Bram", "Reply."), st(3, "Chen", "Pushback.")},
			},
		})
		gm := updated.(Model)

		if len(gm.transcript) != 3 {
			t.Fatalf("transcript = %d rows, want 3", len(gm.transcript))
		}
		if gm.cursor != 3 {
			t.Errorf("cursor = %d, want 3", gm.cursor)
		}
	})

	t.Run("debate switch mid-stream resets and refetches", func(t *testing.T) {
		m := newModel()
		m.live = row("d1", debate.StatusCompleted)
		m.hasLive = true
		m.transcript = []debate.StatementRow{st(1, "Ada", "Opening.")}
		m.cursor = 5

		updated, cmd := m.Update(liveMsg{
			online:  true,
			afterID: 5,
			snap: &liveSnapshot{
				debate:     row("d2", debate.StatusRunning),
				statements: []debate.StatementRow{st(7, "Dana", "New debate.")},
			},
		})
		gm := updated.(Model)

		if gm.live.ID != "d2" {
			t.Errorf("live = %s, want d2", gm.live.ID)
		}
		if len(gm.transcript) != 0 || gm.cursor != 0 {
			t.Errorf("transcript should reset, got %d rows cursor %d", len(gm.transcript), gm.cursor)
		}
		if cmd == nil {
			t.Error("expected a refetch from the start of the new debate")
		}
	})

	t.Run("debate switch on a full fetch applies directly", func(t *testing.T) {
		m := newModel()
		m.live = row("d1", debate.StatusCompleted)
		m.hasLive = true
		m.cursor = 5

		updated, cmd := m.Update(liveMsg{
			online: true,
			snap: &liveSnapshot{
				debate:     row("d2", debate.StatusRunning),
				statements: []debate.StatementRow{st(7, "Dana", "New debate."), st(8, "Ada", "Here we go.")},
			},
		})
		gm := updated.(Model)

		if cmd != nil {
			t.Error("full fetch should not trigger a refetch")
		}
		if gm.live.ID != "d2" || len(gm.transcript) != 2 || gm.cursor != 8 {
			t.Errorf("live = %s, transcript = %d, cursor = %d", gm.live.ID, len(gm.transcript), gm.cursor)
		}
	})

	t.Run("offline refresh keeps the transcript", func(t *testing.T) {
		m := newModel()
		m.archiveOnline = true
		m.live = row("d1", debate.StatusRunning)
		m.hasLive = true
		m.transcript = []debate.StatementRow{st(1, "Ada", "Opening.")}
		m.cursor = 1

		updated, _ := m.Update(liveMsg{})
		gm := updated.(Model)

		if gm.archiveOnline {
			t.Error("archiveOnline should flip false")
		}
		if len(gm.transcript) != 1 {
			t.Errorf("transcript = %d rows, want 1", len(gm.transcript))
		}
	})
}

func TestViewTransitions(t *testing.T) {
	tests := []struct {
		name     string
		start    ViewType
		key      string
		wantView ViewType
	}{
		{"l opens the list", LiveView, "l", ListView},
		{"tab opens the list", LiveView, "tab", ListView},
		{"esc leaves the list", ListView, "esc", LiveView},
		{"slash opens search from live", LiveView, "/", SearchView},
		{"slash opens search from list", ListView, "/", SearchView},
		{"esc leaves search", SearchView, "esc", LiveView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel()
			m.activeView = tt.start

			updated, _ := m.handleKeyPress(keyMsg(tt.key))
			gm := updated.(Model)

			if gm.activeView != tt.wantView {
				t.Errorf("view = %d, want %d", gm.activeView, tt.wantView)
			}
		})
	}
}

func TestQuitKeys(t *testing.T) {
	t.Run("q quits outside search", func(t *testing.T) {
		m := newModel()
		_, cmd := m.handleKeyPress(keyMsg("q"))
		if cmd == nil {
			t.Fatal("expected quit cmd")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg, got %T", cmd())
		}
	})

	t.Run("q types into the search query", func(t *testing.T) {
		m := newModel()
		m.activeView = SearchView

		updated, _ := m.handleKeyPress(keyMsg("q"))
		gm := updated.(Model)

		if gm.activeView != SearchView {
			t.Error("q should not leave the search view")
		}
		if gm.searchQuery != "q" {
			t.Errorf("searchQuery = %q, want %q", gm.searchQuery, "q")
		}
	})

	t.Run("ctrl+c quits everywhere", func(t *testing.T) {
		m := newModel()
		m.activeView = SearchView

		_, cmd := m.handleKeyPress(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit cmd")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("expected tea.QuitMsg, got %T", cmd())
		}
	})
}

func TestListNavigation(t *testing.T) {
	m := newModel()
	m.activeView = ListView
	m.debates = []debate.DebateRow{{ID: "d1"}, {ID: "d2"}, {ID: "d3"}}

	step := func(m Model, key string) Model {
		updated, _ := m.handleListViewKeys(key)
		return updated.(Model)
	}

	m = step(m, "j")
	m = step(m, "j")
	if m.listIndex != 2 {
		t.Errorf("listIndex = %d, want 2", m.listIndex)
	}

	// Clamps at the last row
	m = step(m, "j")
	if m.listIndex != 2 {
		t.Errorf("listIndex = %d, want clamp at 2", m.listIndex)
	}

	m = step(m, "k")
	m = step(m, "k")
	m = step(m, "k")
	if m.listIndex != 0 {
		t.Errorf("listIndex = %d, want clamp at 0", m.listIndex)
	}
}

func TestFollowDebate(t *testing.T) {
	t.Run("new debate clears the transcript", func(t *testing.T) {
		m := newModel()
		m.live = debate.DebateRow{ID: "d1"}
		m.hasLive = true
		m.transcript = []debate.StatementRow{{ID: 1, Speaker: "Ada"}}
		m.cursor = 1

		updated, cmd := m.followDebate("d2")
		gm := updated.(Model)

		if gm.followID != "d2" || gm.hasLive || len(gm.transcript) != 0 || gm.cursor != 0 {
			t.Errorf("follow state = %+v", gm)
		}
		if gm.activeView != LiveView {
			t.Error("following a debate should land on the live view")
		}
		if cmd == nil {
			t.Error("expected a transcript fetch")
		}
	})

	t.Run("already-followed debate keeps the transcript", func(t *testing.T) {
		m := newModel()
		m.live = debate.DebateRow{ID: "d1"}
		m.hasLive = true
		m.transcript = []debate.StatementRow{{ID: 1, Speaker: "Ada"}}
		m.cursor = 1

		updated, cmd := m.followDebate("d1")
		gm := updated.(Model)

		if len(gm.transcript) != 1 || gm.cursor != 1 {
			t.Error("transcript should be untouched")
		}
		if cmd != nil {
			t.Error("no fetch needed for the debate already shown")
		}
	})
}

func TestRenderTranscript(t *testing.T) {
	m := newModel()
	m.transcript = []debate.StatementRow{
		{ID: 1, Stage: debate.StageBriefing, Speaker: debate.ModeratorName, Content: "Welcome to the panel."},
		{ID: 2, Stage: debate.StageRound(1), Speaker: "Ada", Content: "Prices are signals."},
		{ID: 3, Stage: debate.StageRound(1), Speaker: "Bram", Content: "Not for the carless."},
	}

	out := m.renderTranscript()

	for _, want := range []string{"── briefing ──", "── round 1 ──", "Ada", "Bram", "Prices are signals."} {
		if !strings.Contains(out, want) {
			t.Errorf("renderTranscript() missing %q", want)
		}
	}

	// One divider per stage run, not per statement
	if n := strings.Count(out, "── round 1 ──"); n != 1 {
		t.Errorf("round divider rendered %d times, want 1", n)
	}
}

func TestRenderDebateList(t *testing.T) {
	t.Run("selected row is highlighted", func(t *testing.T) {
		m := newModel()
		m.debates = []debate.DebateRow{
			{ID: "11112222-aaaa", Topic: "Should cities ban cars?", Status: debate.StatusCompleted, RoundsCompleted: 4, MaxRounds: 10},
			{ID: "33334444-bbbb", Topic: "Is remote work here to stay?", Status: debate.StatusRunning, MaxRounds: 2},
		}
		m.listIndex = 0

		out := m.renderDebateList()

		for _, want := range []string{"▸", "Should cities ban cars?", "Is remote work here to stay?", "11112222"} {
			if !strings.Contains(out, want) {
				t.Errorf("renderDebateList() missing %q", want)
			}
		}
	})

	t.Run("empty archive renders a hint", func(t *testing.T) {
		m := newModel()
		out := m.renderDebateList()
		if !strings.Contains(out, "No debates archived yet.") {
			t.Errorf("renderDebateList() = %s", out)
		}
	})
}

func TestRenderLiveViewHints(t *testing.T) {
	t.Run("offline archive names the path", func(t *testing.T) {
		m := newModel()
		m.archiveOnline = false

		out := m.renderLiveView()
		if !strings.Contains(out, "Archive not found") {
			t.Errorf("renderLiveView() = %s", out)
		}
	})

	t.Run("empty archive suggests agora run", func(t *testing.T) {
		m := newModel()
		m.archiveOnline = true

		out := m.renderLiveView()
		if !strings.Contains(out, "agora run") {
			t.Errorf("renderLiveView() = %s", out)
		}
	})
}

// TestRobotMode verifies --robot outputs a valid JSON snapshot.
func TestRobotMode(t *testing.T) {
	t.Run("populated archive", func(t *testing.T) {
		dbPath, _, liveID := seedArchive(t)

		jsonBytes, err := robotMode(context.Background(), dbPath)
		if err != nil {
			t.Fatalf("robotMode() error = %v", err)
		}

		var result map[string]any
		if err := json.Unmarshal(jsonBytes, &result); err != nil {
			t.Fatalf("robotMode() output is not valid JSON: %v\nOutput: %s", err, string(jsonBytes))
		}

		d, ok := result["debate"].(map[string]any)
		if !ok {
			t.Fatalf("robotMode() JSON missing 'debate' object: %s", string(jsonBytes))
		}
		if d["id"] != liveID {
			t.Errorf("snapshot debate = %v, want %s", d["id"], liveID)
		}
		if stmts, ok := result["statements"].([]any); !ok || len(stmts) != 2 {
			t.Errorf("snapshot statements = %v", result["statements"])
		}
		if debates, ok := result["debates"].([]any); !ok || len(debates) != 2 {
			t.Errorf("snapshot debates = %v", result["debates"])
		}
	})

	t.Run("empty archive", func(t *testing.T) {
		dbPath := emptyArchive(t)

		jsonBytes, err := robotMode(context.Background(), dbPath)
		if err != nil {
			t.Fatalf("robotMode() error = %v", err)
		}

		var result map[string]any
		if err := json.Unmarshal(jsonBytes, &result); err != nil {
			t.Fatalf("robotMode() output is not valid JSON: %v", err)
		}
		if result["debate"] != nil {
			t.Errorf("snapshot debate = %v, want null", result["debate"])
		}
	})

	t.Run("missing archive", func(t *testing.T) {
		missing := "/nonexistent/agora.db"
		if _, err := robotMode(context.Background(), missing); err == nil {
			t.Error("expected error for missing archive")
		}
	})
}
