package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gabrielfornes/scribble/internal/theme"
)

// --- Screen: File List ---

func (m Model) selectedName() string {
	if m.cursor < 0 || m.cursor >= len(m.files) {
		return ""
	}
	return m.files[m.cursor].Name
}

func (m Model) updateFiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.creatingNew {
		return m.updateCreateFile(msg)
	}

	key := msg.String()
	if key != "d" {
		m.confirmDelete = ""
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			return m, m.loadPreview(m.selectedName())
		}
	case "down", "j":
		if m.cursor < len(m.files)-1 {
			m.cursor++
			return m, m.loadPreview(m.selectedName())
		}
	case "enter", "e":
		if name := m.selectedName(); name != "" {
			return m.openFile(name)
		}
	case "tab":
		if m.docs.Len() > 0 {
			m.screen = screenEdit
			m.statusMsg = ""
		}
	case "n":
		m.creatingNew = true
		m.newNameInput.Reset()
		m.newNameInput.Focus()
		return m, m.newNameInput.Cursor.BlinkCmd()
	case "d":
		name := m.selectedName()
		if name == "" {
			return m, nil
		}
		if m.confirmDelete != name {
			m.confirmDelete = name
			m.statusMsg = fmt.Sprintf("Press [d] again to delete %s", name)
			m.statusErr = true
			return m, nil
		}
		m.confirmDelete = ""
		m.closeByName(name)
		return m, m.deleteFile(name)
	case "r":
		return m, m.listFiles
	}

	return m, nil
}

// openFile activates the editor already showing name, or opens a new one.
func (m Model) openFile(name string) (tea.Model, tea.Cmd) {
	m.statusMsg = ""
	if id, ok := m.docs.FindByName(name); ok {
		m.docs.Activate(id)
		m.screen = screenEdit
		return m, nil
	}
	h, err := m.store.Open(name)
	if err != nil {
		m.statusMsg = "Error opening file: " + err.Error()
		m.statusErr = true
		return m, m.listFiles
	}
	return m.openHandle(h)
}

// closeByName closes every open editor for name.
func (m Model) closeByName(name string) {
	for {
		id, ok := m.docs.FindByName(name)
		if !ok {
			return
		}
		m.docs.Close(id)
	}
}

func (m Model) updateCreateFile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.creatingNew = false
		return m, nil
	case "enter":
		name := m.newNameInput.Value()
		if name != "" {
			m.creatingNew = false
			return m, m.createFile(name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.newNameInput, cmd = m.newNameInput.Update(msg)
	return m, cmd
}

func (m Model) viewFiles() string {
	leftWidth, rightWidth, paneHeight := m.listLayout()

	// Left pane: file list
	leftContent := theme.PaneHeader.Render(m.store.Root) + "\n\n"
	if m.err != nil {
		leftContent += theme.Error.Render("Error: "+m.err.Error()) + "\n\n"
	}
	if len(m.files) == 0 {
		leftContent += theme.Muted.Render("No files yet.\nPress [n] to create one.")
	}
	for i, f := range m.files {
		mark := ""
		if _, open := m.docs.FindByName(f.Name); open {
			mark = markStyle.Render(" ●")
		}
		if i == m.cursor {
			leftContent += theme.SelectedItem.Render("  > "+f.Name) + mark + "\n"
		} else {
			leftContent += theme.NormalItem.Render("    "+f.Name) + mark + "\n"
		}
	}

	leftPane := theme.Pane.
		Width(leftWidth).
		Height(paneHeight).
		Render(leftContent)

	// Right pane: preview
	rightContent := ""
	if name := m.selectedName(); name != "" {
		rightContent += theme.PaneHeader.Render(name) + "\n\n"
		switch {
		case m.previewName != name:
			rightContent += theme.Muted.Render("Loading...")
		case m.preview == "":
			rightContent += theme.Muted.Render("(empty)")
		case m.previewRendered == "":
			rightContent += theme.Muted.Render("Rendering...")
		default:
			rightContent += m.previewRendered
		}
	} else {
		rightContent += theme.Muted.Render("Select a file to preview")
	}

	rightPane := theme.Pane.
		Width(rightWidth).
		Height(paneHeight).
		MaxHeight(paneHeight + 2).
		Render(rightContent)

	body := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)

	title := theme.Title.Render("✎ scribble")

	var bottom string
	if m.creatingNew {
		bottom = "File name: " + m.newNameInput.View() + "\n" +
			helpBar(m.width-4, [2]string{"enter", "create"}, [2]string{"esc", "cancel"})
	} else {
		entries := [][2]string{
			{"↑/↓", "navigate"},
			{"enter", "open"},
			{"n", "new file"},
			{"d", "delete"},
		}
		if m.docs.Len() > 0 {
			entries = append(entries, [2]string{"tab", "open documents"})
		}
		entries = append(entries, [2]string{"q", "quit"})
		bottom = theme.Status(m.statusMsg, m.statusErr) + "\n" + helpBar(m.width-4, entries...)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, bottom)
}
