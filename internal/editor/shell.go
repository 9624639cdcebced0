package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/loader"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/theme"
)

// session is what a shell hosts once the content has loaded.
type session[S any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (S, tea.Cmd)
	View() string
	SetSize(width, height int) (S, tea.Cmd)
	Dirty() bool
	Status() (string, bool)
	Help() [][2]string
}

// shell composes a loader with a session built from the loaded text. While
// the content is loading the session does not exist.
type shell[S session[S]] struct {
	kind   string
	build  func(h *file.Handle, content string) (S, error)
	loader loader.Model

	session S
	ready   bool
	err     error

	width, height int
	initCmd       tea.Cmd
}

// MarkdownEditor edits markdown files with a live preview.
type MarkdownEditor = shell[MarkdownSession]

// PlaintextEditor edits text files as rich text.
type PlaintextEditor = shell[RichTextSession]

// NewMarkdownEditor starts loading h into a markdown session.
func NewMarkdownEditor(h *file.Handle, write WriteFunc, opts Options) MarkdownEditor {
	return newShell(config.EditorMarkdown, h, opts, func(h *file.Handle, content string) (MarkdownSession, error) {
		return NewMarkdownSession(h, content, write, opts), nil
	})
}

// NewPlaintextEditor starts loading h into a rich-text session.
func NewPlaintextEditor(h *file.Handle, write WriteFunc, opts Options) PlaintextEditor {
	return newShell(config.EditorPlaintext, h, opts, func(h *file.Handle, content string) (RichTextSession, error) {
		return NewRichTextSession(h, content, write, opts)
	})
}

func newShell[S session[S]](kind string, h *file.Handle, opts Options, build func(*file.Handle, string) (S, error)) shell[S] {
	m := shell[S]{
		kind:   kind,
		build:  build,
		loader: loader.New(loader.WithTimeout(opts.ReadTimeout)),
	}
	m.loader, m.initCmd = m.loader.Load(h)
	return m
}

// Init implements tea.Model.
func (m shell[S]) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model.
func (m shell[S]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	wasLoading := m.loader.Loading()

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.loader, cmd = m.loader.Update(msg)
	cmds = append(cmds, cmd)

	if wasLoading && m.loader.Phase() == loader.Ready {
		content, _ := m.loader.Content()
		s, err := m.build(m.loader.Handle(), content)
		if err != nil {
			m.err = err
			log.LogWithFields(log.F("file", m.loader.Handle().Name()), log.F("error", err)).Error("could not open editor")
			return m, tea.Batch(cmds...)
		}
		m.session = s
		if m.width > 0 {
			m.session, cmd = m.session.SetSize(m.width, m.height)
			cmds = append(cmds, cmd)
		}
		m.ready = true
		cmds = append(cmds, m.session.Init())
		return m, tea.Batch(cmds...)
	}

	if m.ready {
		m.session, cmd = m.session.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m shell[S]) View() string {
	if m.err != nil {
		return theme.Error.Render("Could not open " + m.File().Name() + ": " + m.err.Error())
	}
	if !m.ready {
		return m.loader.View()
	}
	return m.session.View()
}

// Kind implements Editor.
func (m shell[S]) Kind() string { return m.kind }

// SetSize implements Editor.
func (m shell[S]) SetSize(width, height int) (Editor, tea.Cmd) {
	m.width, m.height = width, height
	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.session, cmd = m.session.SetSize(width, height)
	return m, cmd
}

// SetFile implements Editor. A different handle discards the session and
// restarts the load.
func (m shell[S]) SetFile(h *file.Handle) (Editor, tea.Cmd) {
	if file.Same(h, m.loader.Handle()) {
		return m, nil
	}
	var zero S
	m.session = zero
	m.ready = false
	m.err = nil
	var cmd tea.Cmd
	m.loader, cmd = m.loader.Load(h)
	m.initCmd = cmd
	return m, cmd
}

// File implements Editor.
func (m shell[S]) File() *file.Handle { return m.loader.Handle() }

// Phase returns the load state.
func (m shell[S]) Phase() loader.Phase { return m.loader.Phase() }

// Session returns the session and whether it exists yet.
func (m shell[S]) Session() (S, bool) { return m.session, m.ready }

// Dirty implements Editor.
func (m shell[S]) Dirty() bool { return m.ready && m.session.Dirty() }

// Status implements Editor.
func (m shell[S]) Status() (string, bool) {
	if !m.ready {
		return "", false
	}
	return m.session.Status()
}

// Help implements Editor.
func (m shell[S]) Help() [][2]string {
	if !m.ready {
		return nil
	}
	return m.session.Help()
}
