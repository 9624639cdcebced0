package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gabrielfornes/scribble/internal/theme"
)

// Document tab bar
var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(theme.ColorHighlight).
			Background(theme.ColorBorder).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(theme.ColorMuted).
			Padding(0, 1)

	markStyle = lipgloss.NewStyle().
			Foreground(theme.ColorPrimary)
)

// Constants for layout
const (
	leftPaneWidthFraction = 0.30
	minLeftPaneWidth      = 24
	minRightPaneWidth     = 30
	defaultTerminalWidth  = 80
	defaultTerminalHeight = 24

	// Where the editor body starts inside the terminal on the edit screen:
	// app padding, title with its margin, and the tab bar.
	editorTop  = 1 + 2 + 1
	editorLeft = 2
	// Lines around the editor body: app padding, title, tabs, status, help.
	editChrome = 2 + 2 + 1 + 1 + 2
)

// helpBar renders "[key] description" entries on one line, clipped to width.
func helpBar(width int, entries ...[2]string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, theme.HelpEntry(e[0], e[1]))
	}
	if width < 20 {
		width = 20
	}
	return theme.HelpBar.MaxWidth(width).Render(strings.Join(parts, "  "))
}
