package main

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"agora/pkg/debate"
)

// Theme defines the visual styling for the agora dashboard.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme returns the default theme for agora dash.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("12"),  // Blue
		Secondary: lipgloss.Color("14"),  // Cyan
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// speakerPalette holds the colors assigned to panelist names. The
// moderator is excluded; it always renders in the theme secondary color.
var speakerPalette = []lipgloss.Color{
	lipgloss.Color("10"),  // Green
	lipgloss.Color("11"),  // Yellow
	lipgloss.Color("13"),  // Magenta
	lipgloss.Color("12"),  // Blue
	lipgloss.Color("9"),   // Red
	lipgloss.Color("208"), // Orange
}

// SpeakerColor returns the color for a speaker name. The same name maps
// to the same palette entry for the lifetime of the process, so a
// panelist keeps their color across refreshes.
func (t Theme) SpeakerColor(name string) lipgloss.Color {
	if name == debate.ModeratorName {
		return t.Secondary
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return speakerPalette[h.Sum32()%uint32(len(speakerPalette))]
}

// StatusColor returns the color used to render a debate status.
func (t Theme) StatusColor(status string) lipgloss.Color {
	switch status {
	case debate.StatusRunning:
		return t.Success
	case debate.StatusCompleted:
		return t.Primary
	case debate.StatusEndedEarly:
		return t.Warning
	default:
		return t.Muted
	}
}
