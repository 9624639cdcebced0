package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gabrielfornes/scribble/internal/theme"
)

// --- Screen: Edit ---

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != "ctrl+x" {
		m.confirmClose = uuid.Nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		// Documents stay open; tab on the file list comes back here
		m.screen = screenFiles
		m.statusMsg = ""
		return m, m.listFiles
	case "ctrl+n":
		m.docs.Next()
		m.statusMsg = ""
		return m, nil
	case "ctrl+p":
		m.docs.Prev()
		m.statusMsg = ""
		return m, nil
	case "ctrl+x":
		return m.closeActive()
	}

	m.statusMsg = ""
	return m.updateActive(msg)
}

// closeActive closes the active document. A document with unsaved changes
// needs a second ctrl+x.
func (m Model) closeActive() (tea.Model, tea.Cmd) {
	id, ed, ok := m.docs.Active()
	if !ok {
		m.screen = screenFiles
		return m, nil
	}
	if ed.Dirty() && m.confirmClose != id {
		m.confirmClose = id
		m.statusMsg = "Unsaved changes: [ctrl+s] to save, [ctrl+x] again to close"
		m.statusErr = true
		return m, nil
	}

	name := m.docs.Name(id)
	m.docs.Close(id)
	m.confirmClose = uuid.Nil
	m.statusMsg = "Closed " + name
	m.statusErr = false
	if m.docs.Len() == 0 {
		m.screen = screenFiles
		return m, m.listFiles
	}
	return m, nil
}

func (m Model) viewTabs() string {
	activeID, _, _ := m.docs.Active()
	tabs := make([]string, 0, m.docs.Len())
	for _, id := range m.docs.IDs() {
		ed, _ := m.docs.Get(id)
		label := m.docs.Name(id)
		if ed.Dirty() {
			label += markStyle.Render("*")
		}
		if id == activeID {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.width - 4).Render(strings.Join(tabs, " "))
}

func (m Model) viewEdit() string {
	id, ed, ok := m.docs.Active()
	if !ok {
		return theme.Title.Render("✎ scribble") + "\n" + theme.Muted.Render("No open documents.")
	}

	title := theme.Title.Render("✎ scribble — " + m.docs.Name(id) + " [" + ed.Kind() + "]")

	status := theme.Status(m.statusMsg, m.statusErr)
	if status == "" {
		status = theme.Status(ed.Status())
	}

	entries := [][2]string{
		{"esc", "files"},
		{"ctrl+n/p", "next/prev"},
		{"ctrl+x", "close"},
	}
	entries = append(entries, ed.Help()...)
	entries = append(entries, [2]string{"ctrl+c", "quit"})

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.viewTabs(),
		ed.View(),
		status,
		helpBar(m.width-4, entries...),
	)
}
