// Package theme holds the colours and lipgloss styles shared by the editors
// and the host screens.
package theme

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	ColorPrimary   = lipgloss.Color("#E0A458") // warm gold
	ColorSecondary = lipgloss.Color("#A8D8B9") // soft green
	ColorMuted     = lipgloss.Color("#666666")
	ColorHighlight = lipgloss.Color("#FFFBE6") // cream
	ColorDanger    = lipgloss.Color("#E06C75")
	ColorBorder    = lipgloss.Color("#444444")
	ColorText      = lipgloss.Color("#CCCCCC")
	ColorCodeBg    = lipgloss.Color("#2A2A2A")
)

// Layout styles
var (
	// App-level wrapper
	App = lipgloss.NewStyle().Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		MarginBottom(1)

	Pane = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1)

	FocusedPane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	// PaneHeader has no margin, for use inside bordered panes where
	// vertical space is tight.
	PaneHeader = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

// List item styles
var (
	SelectedItem = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true)

	NormalItem = lipgloss.NewStyle().
			Foreground(ColorText)

	Muted = lipgloss.NewStyle().
		Foreground(ColorMuted)

	Cursor = lipgloss.NewStyle().
		Foreground(ColorPrimary)
)

// Help bar
var (
	HelpKey = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpBar = lipgloss.NewStyle().
		MarginTop(1)
)

// Status messages
var (
	Success = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	Error = lipgloss.NewStyle().
		Foreground(ColorDanger)
)

// Toolbar buttons
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999")).
		Padding(0, 1)

	ActiveButton = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Background(ColorPrimary).
			Bold(true).
			Padding(0, 1)
)

// HelpEntry renders a single "[key] description" help item.
func HelpEntry(key, desc string) string {
	return HelpKey.Render("["+key+"]") + " " + HelpDesc.Render(desc)
}

// Status renders a status line in the success or error colour.
func Status(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return Error.Render(msg)
	}
	return Success.Render(msg)
}
