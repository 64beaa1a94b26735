package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agora/pkg/archive"
	"agora/pkg/debate"
)

// tickMsg is sent by Bubble Tea on every poll interval.
// The fsnotify watcher usually gets there first; the tick catches
// archives on filesystems where fsnotify doesn't work.
type tickMsg time.Time

// liveMsg carries one refresh of the followed debate. online reports
// whether the archive could be opened; a nil snap with online true means
// the archive holds no debates yet.
type liveMsg struct {
	online  bool
	snap    *liveSnapshot
	afterID int64 // cursor the fetch was issued with
}

// debatesMsg carries the archived debate list for the list view.
// nil means the archive is unreachable.
type debatesMsg []debate.DebateRow

// tickCmd returns a command that sends a tickMsg after 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// fetchLiveCmd returns a tea.Cmd that fetches the followed debate and any
// statements past afterID. An empty debateID follows the newest debate.
func fetchLiveCmd(dbPath, debateID string, afterID int64) tea.Cmd {
	return func() tea.Msg {
		snap, err := fetchLive(context.Background(), dbPath, debateID, afterID)
		if err != nil {
			var notFound *debate.DebateNotFoundError
			if errors.As(err, &notFound) {
				return liveMsg{online: true, afterID: afterID}
			}
			return liveMsg{afterID: afterID}
		}
		return liveMsg{online: true, snap: snap, afterID: afterID}
	}
}

// fetchDebatesCmd returns a tea.Cmd that fetches the debate list.
func fetchDebatesCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		debates, _ := fetchDebates(context.Background(), dbPath)
		return debatesMsg(debates)
	}
}

// ViewType represents different views in the dashboard.
type ViewType int

const (
	// LiveView shows the followed debate's transcript.
	LiveView ViewType = iota
	// ListView shows the archived debate list.
	ListView
	// SearchView shows the full-text search overlay.
	SearchView
)

// Model is the Bubble Tea model for the agora dashboard.
type Model struct {
	activeView    ViewType
	dbPath        string
	archiveOnline bool

	// Live view state. followID pins the view to one debate; when empty
	// the view tracks whichever debate is newest.
	followID   string
	live       debate.DebateRow
	hasLive    bool
	transcript []debate.StatementRow
	cursor     int64 // highest statement ID already in the transcript
	lastEvent  string

	// List view state
	debates   []debate.DebateRow
	listIndex int

	// Search view state
	searchQuery         string
	searchResults       []archive.ScoredStatement
	searchSelectedIndex int
	searchRan           bool

	// UI state
	width    int
	height   int
	viewport viewport.Model
	vpReady  bool
	spinner  spinner.Model
}

// newModel creates a new Model following the newest debate.
func newModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(DefaultTheme().Success)

	return Model{
		activeView: LiveView,
		dbPath:     defaultDBPath(),
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		fetchLiveCmd(m.dbPath, m.followID, 0),
		fetchDebatesCmd(m.dbPath),
		watchArchiveDir(filepath.Dir(m.dbPath)),
		m.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resizeViewport()

	case liveMsg:
		return m.applyLive(msg)

	case debatesMsg:
		if msg == nil {
			m.archiveOnline = false
		} else {
			m.archiveOnline = true
			m.debates = []debate.DebateRow(msg)
			if m.listIndex >= len(m.debates) && len(m.debates) > 0 {
				m.listIndex = len(m.debates) - 1
			}
		}

	case searchMsg:
		m = m.applySearch(msg)

	case fsChangeMsg:
		// The archive changed on disk. Refresh now and re-arm the
		// watcher; runWatcher returns after a single message.
		return m, tea.Batch(
			fetchLiveCmd(m.dbPath, m.followID, m.cursor),
			fetchDebatesCmd(m.dbPath),
			watchArchiveDir(filepath.Dir(m.dbPath)),
		)

	case tickMsg:
		return m, tea.Batch(
			fetchLiveCmd(m.dbPath, m.followID, m.cursor),
			fetchDebatesCmd(m.dbPath),
			tickCmd(),
		)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// applyLive folds a live refresh into the model. Statements at or below
// the current cursor are dropped so an fsnotify refresh racing a tick
// refresh cannot duplicate transcript rows.
func (m Model) applyLive(msg liveMsg) (tea.Model, tea.Cmd) {
	m.archiveOnline = msg.online
	if msg.snap == nil {
		// Nothing to show. Keep whatever transcript is on screen.
		return m, nil
	}

	snap := msg.snap
	if snap.debate.ID != m.live.ID {
		// A different debate is followed now. Restart the transcript.
		m.live = snap.debate
		m.hasLive = true
		m.lastEvent = snap.lastEvent
		m.transcript = nil
		m.cursor = 0
		if msg.afterID > 0 {
			// The fetch skipped this debate's early statements.
			m = m.syncViewport()
			return m, fetchLiveCmd(m.dbPath, m.followID, 0)
		}
	} else {
		m.live = snap.debate
		m.lastEvent = snap.lastEvent
	}

	appended := false
	for _, st := range snap.statements {
		if st.ID <= m.cursor {
			continue
		}
		m.transcript = append(m.transcript, st)
		m.cursor = st.ID
		appended = true
	}
	if appended || len(m.transcript) == 0 {
		m = m.syncViewport()
	}
	return m, nil
}

// syncViewport rebuilds the viewport content from the transcript,
// keeping the view glued to the tail unless the user scrolled up.
func (m Model) syncViewport() Model {
	if !m.vpReady {
		return m
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m
}

// resizeViewport fits the viewport to the terminal, leaving room for the
// status bar, debate header, and help line.
func (m Model) resizeViewport() Model {
	const chromeHeight = 5
	vpHeight := m.height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.vpReady {
		m.viewport = viewport.New(m.width, vpHeight)
		m.vpReady = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
	return m
}

// handleKeyPress processes keyboard input and returns updated model with optional command.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global keys (work in all views except SearchView where text input is active)
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key == "q" && m.activeView != SearchView {
		return m, tea.Quit
	}

	switch m.activeView {
	case ListView:
		return m.handleListViewKeys(key)
	case SearchView:
		return m.handleSearchViewKeys(key, msg)
	default: // LiveView
		return m.handleLiveViewKeys(key, msg)
	}
}

// handleLiveViewKeys processes keyboard input in LiveView. Keys the view
// doesn't claim fall through to the viewport for scrolling.
func (m Model) handleLiveViewKeys(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "l", "tab":
		m.activeView = ListView
		return m, fetchDebatesCmd(m.dbPath)
	case "/":
		return m.openSearch(), nil
	case "esc":
		if m.followID != "" {
			// Unpin and go back to following the newest debate.
			m.followID = ""
			return m, fetchLiveCmd(m.dbPath, "", m.cursor)
		}
		return m, nil
	}

	if m.vpReady {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleListViewKeys processes keyboard input in ListView.
func (m Model) handleListViewKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "l", "tab":
		m.activeView = LiveView
	case "j", "down":
		if m.listIndex < len(m.debates)-1 {
			m.listIndex++
		}
	case "k", "up":
		if m.listIndex > 0 {
			m.listIndex--
		}
	case "/":
		return m.openSearch(), nil
	case "enter":
		if m.listIndex < len(m.debates) {
			return m.followDebate(m.debates[m.listIndex].ID)
		}
	}
	return m, nil
}

// followDebate pins the live view to one debate and loads its transcript.
func (m Model) followDebate(id string) (tea.Model, tea.Cmd) {
	m.activeView = LiveView
	m.followID = id
	if id == m.live.ID && m.hasLive {
		return m, nil
	}

	m.live = debate.DebateRow{}
	m.hasLive = false
	m.transcript = nil
	m.cursor = 0
	m.lastEvent = ""
	if m.vpReady {
		m.viewport.SetContent("")
	}
	return m, fetchLiveCmd(m.dbPath, id, 0)
}

// View implements tea.Model.
func (m Model) View() string {
	statusBar := m.renderStatusBar()

	switch m.activeView {
	case ListView:
		return statusBar + "\n" + m.renderDebateList()
	case SearchView:
		return statusBar + "\n" + m.renderSearchOverlay()
	default:
		return statusBar + "\n" + m.renderLiveView()
	}
}

// renderStatusBar renders the status bar with archive health, debate
// count, and the followed debate's status.
func (m Model) renderStatusBar() string {
	theme := DefaultTheme()

	var archiveStatus string
	if m.archiveOnline {
		archiveStatus = lipgloss.NewStyle().Foreground(theme.Success).Render("archive: online")
	} else {
		archiveStatus = lipgloss.NewStyle().Foreground(theme.Error).Render("archive: offline")
	}

	status := "no debate"
	color := theme.Muted
	if m.hasLive {
		status = m.live.Status
		color = theme.StatusColor(m.live.Status)
	}
	statusSegment := lipgloss.NewStyle().Foreground(color).Render(status)
	if m.hasLive && m.live.Status == debate.StatusRunning {
		statusSegment = m.spinner.View() + statusSegment
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		archiveStatus,
		lipgloss.NewStyle().Render(" | Debates: "),
		lipgloss.NewStyle().Foreground(theme.Primary).Render(fmt.Sprintf("%d", len(m.debates))),
		lipgloss.NewStyle().Render(" | "),
		statusSegment,
	)
}

// renderLiveView renders the followed debate's header, transcript, and
// help line.
func (m Model) renderLiveView() string {
	theme := DefaultTheme()

	if !m.hasLive {
		hint := "No debates archived yet. Start one with: agora run <topic>"
		if !m.archiveOnline {
			hint = fmt.Sprintf("Archive not found at %s. Start a debate with: agora run <topic>", m.dbPath)
		}
		return lipgloss.NewStyle().Foreground(theme.Muted).Padding(1, 0).Render(hint)
	}

	body := m.renderTranscript()
	if m.vpReady {
		body = m.viewport.View()
	}

	help := "j/k scroll · l list · / search · q quit"
	if m.followID != "" {
		help = "esc follow latest · " + help
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderDebateHeader(theme),
		body,
		lipgloss.NewStyle().Foreground(theme.Muted).Render(help),
	)
}

// renderDebateHeader renders the topic line and round/mode metadata.
func (m Model) renderDebateHeader(theme Theme) string {
	topic := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Render(m.live.Topic)

	meta := fmt.Sprintf("%s · round %d/%d", m.live.Mode, m.live.RoundsCompleted, m.live.MaxRounds)
	if m.lastEvent != "" {
		meta += " · " + m.lastEvent
	}
	if m.followID != "" {
		meta += " · pinned"
	}

	return topic + "\n" + lipgloss.NewStyle().Foreground(theme.Muted).Render(meta) + "\n"
}

// renderTranscript renders the transcript with a muted divider at each
// stage change and each speaker in their palette color.
func (m Model) renderTranscript() string {
	theme := DefaultTheme()

	var b strings.Builder
	lastStage := ""
	for _, st := range m.transcript {
		if st.Stage != lastStage {
			divider := lipgloss.NewStyle().Foreground(theme.Muted).Render("── " + st.Stage + " ──")
			b.WriteString(divider + "\n\n")
			lastStage = st.Stage
		}

		speaker := lipgloss.NewStyle().Bold(true).Foreground(theme.SpeakerColor(st.Speaker)).Render(st.Speaker)
		line := speaker + ": " + st.Content
		if m.width > 0 {
			line = lipgloss.NewStyle().Width(m.width).Render(line)
		}
		b.WriteString(line + "\n\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderDebateList renders the archived debates with a selection cursor.
func (m Model) renderDebateList() string {
	theme := DefaultTheme()

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(1, 0).Render("Archived Debates")

	if len(m.debates) == 0 {
		empty := lipgloss.NewStyle().Foreground(theme.Muted).Render("No debates archived yet.")
		return lipgloss.JoinVertical(lipgloss.Left, title, empty)
	}

	var rows strings.Builder
	for i, d := range m.debates {
		rows.WriteString(m.renderDebateRow(theme, i, d))
		rows.WriteString("\n")
	}

	help := lipgloss.NewStyle().Foreground(theme.Muted).Padding(1, 0).
		Render("↑↓ navigate · Enter watch · Esc back · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, rows.String(), help)
}

// renderDebateRow renders a single debate list row with optional highlighting.
func (m Model) renderDebateRow(theme Theme, index int, d debate.DebateRow) string {
	line := fmt.Sprintf("%s  %-11s  %2d/%d  %s", shortID(d.ID), d.Status, d.RoundsCompleted, d.MaxRounds, d.Topic)

	if index == m.listIndex {
		return lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1).
			Render("▸ " + line)
	}

	statusStyle := lipgloss.NewStyle().Foreground(theme.StatusColor(d.Status))
	return "   " + fmt.Sprintf("%s  %s  %2d/%d  %s",
		lipgloss.NewStyle().Foreground(theme.Muted).Render(shortID(d.ID)),
		statusStyle.Render(fmt.Sprintf("%-11s", d.Status)),
		d.RoundsCompleted, d.MaxRounds, d.Topic)
}

// shortID truncates a debate UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
