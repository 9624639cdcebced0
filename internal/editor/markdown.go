package editor

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/markdown"
	"github.com/gabrielfornes/scribble/internal/theme"
)

type pane int

const (
	editorPane pane = iota
	previewPane
)

// previewRenderedMsg carries a terminal rendering of one text revision.
type previewRenderedMsg struct {
	session  uuid.UUID
	revision int
	content  string
}

// clipboardMsg reports the result of copying the HTML preview.
type clipboardMsg struct {
	session uuid.UUID
	err     error
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// MarkdownSession edits markdown text next to a preview of it. Every edit
// re-renders the HTML preview and hands a new handle to the WriteFunc.
type MarkdownSession struct {
	id     uuid.UUID
	handle *file.Handle
	write  WriteFunc

	text string
	html string

	textarea textarea.Model
	viewport viewport.Model
	rendered string
	revision int
	style    string
	showHTML bool

	focus         pane
	width, height int

	status    string
	statusErr bool
}

// NewMarkdownSession creates a session over content. h supplies the name and
// type of the handles passed to write.
func NewMarkdownSession(h *file.Handle, content string, write WriteFunc, opts Options) MarkdownSession {
	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(60)
	ta.SetHeight(15)
	ta.SetValue(lineBreaks.Replace(content))
	ta.Focus()

	// The textarea expands tabs, so its value is the baseline text.
	text := ta.Value()

	return MarkdownSession{
		id:       uuid.New(),
		handle:   h,
		write:    write,
		text:     text,
		html:     markdown.RenderHTML(text),
		textarea: ta,
		viewport: viewport.New(40, 15),
		style:    opts.PreviewStyle,
	}
}

// Init renders the initial preview and starts the cursor blinking.
func (s MarkdownSession) Init() tea.Cmd {
	return tea.Batch(s.renderPreview(), s.textarea.Cursor.BlinkCmd())
}

func (s MarkdownSession) renderPreview() tea.Cmd {
	id, rev, text, style := s.id, s.revision, s.text, s.style
	width := s.viewport.Width
	return func() tea.Msg {
		return previewRenderedMsg{
			session:  id,
			revision: rev,
			content:  markdown.RenderTerminal(text, style, width),
		}
	}
}

// Update implements the tea.Model contract for the session.
func (s MarkdownSession) Update(msg tea.Msg) (MarkdownSession, tea.Cmd) {
	switch msg := msg.(type) {
	case previewRenderedMsg:
		if msg.session != s.id || msg.revision != s.revision {
			return s, nil
		}
		s.rendered = msg.content
		s.refreshViewport()
		return s, nil

	case clipboardMsg:
		if msg.session != s.id {
			return s, nil
		}
		if msg.err != nil {
			log.LogWithFields(log.F("error", msg.err)).Warn("could not copy HTML to clipboard")
			s.status, s.statusErr = "Clipboard unavailable: "+msg.err.Error(), true
		} else {
			s.status, s.statusErr = "HTML copied to clipboard", false
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			if s.focus == editorPane {
				s.focus = previewPane
				s.textarea.Blur()
				return s, nil
			}
			s.focus = editorPane
			cmd := s.textarea.Focus()
			return s, cmd
		case "ctrl+y":
			return s, s.copyHTML()
		case "ctrl+t":
			s.showHTML = !s.showHTML
			s.refreshViewport()
			return s, nil
		}
	}

	if s.focus == previewPane {
		var cmd tea.Cmd
		s.viewport, cmd = s.viewport.Update(msg)
		return s, cmd
	}

	before := s.textarea.Value()
	var cmd tea.Cmd
	s.textarea, cmd = s.textarea.Update(msg)
	if v := s.textarea.Value(); v != before {
		var changeCmd tea.Cmd
		s, changeCmd = s.change(v)
		return s, tea.Batch(cmd, changeCmd)
	}
	return s, cmd
}

// change applies new text: synchronous HTML preview, one write, and an
// asynchronous terminal preview for this revision.
func (s MarkdownSession) change(text string) (MarkdownSession, tea.Cmd) {
	s.text = text
	s.html = markdown.RenderHTML(text)
	s.revision++
	s.status = ""
	if s.showHTML {
		s.refreshViewport()
	}

	var writeCmd tea.Cmd
	if s.handle != nil {
		s.handle = s.handle.WithText(text)
		if s.write != nil {
			writeCmd = s.write(s.handle)
		}
	}
	return s, tea.Batch(writeCmd, s.renderPreview())
}

func (s MarkdownSession) copyHTML() tea.Cmd {
	id, html := s.id, s.html
	return func() tea.Msg {
		return clipboardMsg{session: id, err: writeClipboard(html)}
	}
}

func (s *MarkdownSession) refreshViewport() {
	if s.showHTML {
		s.viewport.SetContent(s.html)
		return
	}
	s.viewport.SetContent(s.rendered)
}

// SetSize splits the area between the editor and the preview pane. A new
// preview width re-renders the preview.
func (s MarkdownSession) SetSize(width, height int) (MarkdownSession, tea.Cmd) {
	s.width, s.height = width, height

	// Each pane has a border (2) and horizontal padding (2); the header
	// takes one line.
	left := width / 2
	right := width - left
	taWidth := max(left-4, 10)
	vpWidth := max(right-4, 10)
	inner := max(height-3, 3)

	s.textarea.SetWidth(taWidth)
	s.textarea.SetHeight(inner)
	s.viewport.Height = inner

	if s.viewport.Width == vpWidth {
		return s, nil
	}
	s.viewport.Width = vpWidth
	s.revision++
	s.rendered = ""
	s.refreshViewport()
	return s, s.renderPreview()
}

// View renders the editor and preview side by side.
func (s MarkdownSession) View() string {
	left, right := theme.Pane, theme.Pane
	if s.focus == editorPane {
		left = theme.FocusedPane
	} else {
		right = theme.FocusedPane
	}

	previewLabel := "Preview"
	if s.showHTML {
		previewLabel = "HTML"
	}
	preview := s.viewport.View()
	if !s.showHTML && s.rendered == "" && s.text != "" {
		preview = theme.Muted.Render("Rendering...")
	}

	editor := left.Render(theme.PaneHeader.Render("Markdown") + "\n" + s.textarea.View())
	view := right.Width(s.viewport.Width + 2).Render(theme.PaneHeader.Render(previewLabel) + "\n" + preview)
	return lipgloss.JoinHorizontal(lipgloss.Top, editor, view)
}

// Text returns the current markdown source.
func (s MarkdownSession) Text() string { return s.text }

// HTML returns the HTML preview of the current text.
func (s MarkdownSession) HTML() string { return s.html }

// Rendered returns the latest terminal preview.
func (s MarkdownSession) Rendered() string { return s.rendered }

// File returns the handle of the last write, or the opened handle.
func (s MarkdownSession) File() *file.Handle { return s.handle }

// Dirty is always false: every edit is written.
func (s MarkdownSession) Dirty() bool { return false }

// Status returns the last clipboard message.
func (s MarkdownSession) Status() (string, bool) { return s.status, s.statusErr }

// Help lists the session's key bindings.
func (s MarkdownSession) Help() [][2]string {
	focus := "preview"
	if s.focus == previewPane {
		focus = "editor"
	}
	source := "html"
	if s.showHTML {
		source = "rendered"
	}
	return [][2]string{
		{"tab", focus},
		{"ctrl+t", source},
		{"ctrl+y", "copy html"},
	}
}
