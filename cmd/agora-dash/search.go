package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"agora/pkg/archive"
)

// searchMsg carries full-text search results for one query. Results are
// nil when the archive was unreachable. The query rides along so replies
// arriving after further typing can be dropped.
type searchMsg struct {
	query   string
	results []archive.ScoredStatement
}

// fetchSearchCmd returns a tea.Cmd that searches archived statements.
func fetchSearchCmd(dbPath, query string) tea.Cmd {
	return func() tea.Msg {
		results, err := fetchSearch(context.Background(), dbPath, query)
		if err != nil {
			return searchMsg{query: query}
		}
		return searchMsg{query: query, results: results}
	}
}

// openSearch switches to SearchView with a cleared query.
func (m Model) openSearch() Model {
	m.activeView = SearchView
	m.searchQuery = ""
	m.searchResults = nil
	m.searchSelectedIndex = 0
	m.searchRan = false
	return m
}

// applySearch folds search results into the model, dropping replies for
// queries the user has already typed past.
func (m Model) applySearch(msg searchMsg) Model {
	if msg.query != m.searchQuery {
		return m
	}
	if msg.results == nil {
		m.archiveOnline = false
		m.searchResults = nil
		m.searchRan = true
		return m
	}

	m.archiveOnline = true
	m.searchResults = msg.results
	m.searchRan = true
	if m.searchSelectedIndex >= len(m.searchResults) {
		m.searchSelectedIndex = 0
	}
	return m
}

// handleSearchViewKeys processes keyboard input in SearchView. Every
// keystroke re-runs the query; Enter jumps to the selected statement's
// debate. Navigation uses the arrow keys because letters are input.
func (m Model) handleSearchViewKeys(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.activeView = LiveView
		m.searchQuery = ""
		m.searchResults = nil
		m.searchSelectedIndex = 0
		m.searchRan = false
	case "enter":
		if len(m.searchResults) > 0 && m.searchSelectedIndex < len(m.searchResults) {
			selected := m.searchResults[m.searchSelectedIndex]
			return m.followDebate(selected.DebateID)
		}
	case "down":
		if len(m.searchResults) > 0 && m.searchSelectedIndex < len(m.searchResults)-1 {
			m.searchSelectedIndex++
		}
	case "up":
		if m.searchSelectedIndex > 0 {
			m.searchSelectedIndex--
		}
	case "backspace":
		if m.searchQuery != "" {
			runes := []rune(m.searchQuery)
			m.searchQuery = string(runes[:len(runes)-1])
			m.searchSelectedIndex = 0
			if m.searchQuery == "" {
				m.searchResults = nil
				m.searchRan = false
				return m, nil
			}
			return m, fetchSearchCmd(m.dbPath, m.searchQuery)
		}
	default:
		// Handle text input
		if len(msg.Runes) > 0 {
			m.searchQuery += string(msg.Runes)
			m.searchSelectedIndex = 0
			return m, fetchSearchCmd(m.dbPath, m.searchQuery)
		}
	}
	return m, nil
}

// renderSearchOverlay renders the search overlay with text input and results.
func (m Model) renderSearchOverlay() string {
	theme := DefaultTheme()
	title := m.renderSearchTitle(theme)
	searchInput := m.renderSearchInput(theme)
	helpText := m.renderSearchHelp(theme)
	results := m.renderSearchResults(theme)

	return lipgloss.JoinVertical(lipgloss.Left, title, searchInput, helpText, results)
}

// renderSearchTitle renders the search overlay title.
func (m Model) renderSearchTitle(theme Theme) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(1, 0)
	return titleStyle.Render("Search Statements")
}

// renderSearchInput renders the search input field with current query.
func (m Model) renderSearchInput(theme Theme) string {
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1).
		Width(60)
	searchPrompt := "Query: " + m.searchQuery + "▌"
	return inputStyle.Render(searchPrompt)
}

// renderSearchHelp renders the help text for the search overlay.
func (m Model) renderSearchHelp(theme Theme) string {
	helpStyle := lipgloss.NewStyle().Foreground(theme.Muted).Padding(1, 0)
	return helpStyle.Render("Full-text search across all debates. ↑↓ navigate, Enter to open the debate, Esc to cancel")
}

// renderSearchResults renders the ranked search results.
func (m Model) renderSearchResults(theme Theme) string {
	resultsStyle := lipgloss.NewStyle().Padding(1, 0)
	mutedStyle := lipgloss.NewStyle().Foreground(theme.Muted)

	if m.searchQuery == "" || !m.searchRan {
		return resultsStyle.Render(mutedStyle.Render("Type to search the archive"))
	}
	if len(m.searchResults) == 0 {
		return resultsStyle.Render(mutedStyle.Render("No matching statements"))
	}

	var b strings.Builder
	for i, res := range m.searchResults {
		b.WriteString(m.renderSearchResultLine(theme, i, res))
		b.WriteString("\n")
	}
	return resultsStyle.Render(b.String())
}

// renderSearchResultLine renders a single search result with optional highlighting.
func (m Model) renderSearchResultLine(theme Theme, index int, res archive.ScoredStatement) string {
	where := fmt.Sprintf("%s · %s", shortID(res.DebateID), res.Stage)
	snippet := searchSnippet(res.Content, 70)

	if index == m.searchSelectedIndex {
		highlightStyle := lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true).
			Padding(0, 1)
		return highlightStyle.Render(fmt.Sprintf("▸ %s (%s): %s", res.Speaker, where, snippet))
	}

	speakerStyle := lipgloss.NewStyle().Foreground(theme.SpeakerColor(res.Speaker))
	whereStyle := lipgloss.NewStyle().Foreground(theme.Muted)
	return fmt.Sprintf("  %s (%s): %s", speakerStyle.Render(res.Speaker), whereStyle.Render(where), snippet)
}

// searchSnippet flattens statement content to a single line of at most
// maxLen characters.
func searchSnippet(content string, maxLen int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= maxLen {
		return flat
	}
	return string(runes[:maxLen-1]) + "…"
}
