package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/editor"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/markdown"
	"github.com/gabrielfornes/scribble/internal/richtext"
	"github.com/gabrielfornes/scribble/internal/storage"
)

// --- Commands (async operations) ---

type filesListedMsg struct {
	files []storage.Entry
	err   error
}

type previewLoadedMsg struct {
	name    string
	content string
	err     error
}

type previewRenderedMsg struct {
	name    string
	width   int
	content string
}

type fileCreatedMsg struct {
	handle *file.Handle
	err    error
}

type fileDeletedMsg struct {
	name string
	err  error
}

// externalContentMsg carries a file's content after a watcher event.
type externalContentMsg struct {
	name string
	data []byte
	err  error
}

func (m Model) listFiles() tea.Msg {
	files, err := m.store.List()
	return filesListedMsg{files: files, err: err}
}

func (m Model) loadPreview(name string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.store.Read(name)
		return previewLoadedMsg{name: name, content: content, err: err}
	}
}

// renderPreview renders markdown files with glamour and shows other files
// as the plain text of their rich-text document.
func (m Model) renderPreview(name, content string) tea.Cmd {
	_, rw, _ := m.listLayout()
	width := rw - 2
	kind := editor.KindFor(file.New(name, file.TypeForName(name), nil), m.cfg)
	style := m.cfg.Preview.Style
	mode := m.opts.LoadMode

	return func() tea.Msg {
		var rendered string
		if kind == config.EditorMarkdown {
			rendered = markdown.RenderTerminal(content, style, width)
		} else if state, _, err := richtext.Load(content, mode); err == nil {
			rendered = state.PlainText()
		} else {
			rendered = content
		}
		return previewRenderedMsg{name: name, width: width, content: rendered}
	}
}

func (m Model) createFile(name string) tea.Cmd {
	return func() tea.Msg {
		h, err := m.store.Create(name)
		return fileCreatedMsg{handle: h, err: err}
	}
}

func (m Model) deleteFile(name string) tea.Cmd {
	return func() tea.Msg {
		return fileDeletedMsg{name: name, err: m.store.Delete(name)}
	}
}

func (m Model) readExternal(name string) tea.Cmd {
	return func() tea.Msg {
		content, err := m.store.Read(name)
		return externalContentMsg{name: name, data: []byte(content), err: err}
	}
}
