// Package tui is the scribble host program: a file list with a rendered
// preview, and an edit screen that hosts one independent editor per open
// document.
package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/editor"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/storage"
	"github.com/gabrielfornes/scribble/internal/theme"
	"github.com/gabrielfornes/scribble/internal/workspace"
)

// screen represents which screen is currently active.
type screen int

const (
	screenFiles screen = iota
	screenEdit
)

// Model is the root Bubble Tea model for scribble.
type Model struct {
	store   *storage.Store
	watcher *storage.Watcher
	cfg     *config.Config
	opts    editor.Options

	// Terminal dimensions
	width  int
	height int

	// Current screen
	screen screen

	// File list state
	files         []storage.Entry
	cursor        int
	creatingNew   bool
	newNameInput  textarea.Model
	confirmDelete string

	// Preview of the selected file
	previewName     string
	preview         string
	previewRendered string

	// Open documents, one editor each
	docs         *workspace.Arena[editor.Editor]
	confirmClose uuid.UUID

	// Status message (shown briefly)
	statusMsg string
	statusErr bool

	// Error state
	err error
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher makes the model reload open documents changed on disk.
func WithWatcher(w *storage.Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithOpenFile opens h on start and shows the edit screen.
func WithOpenFile(h *file.Handle) Option {
	return func(m *Model) {
		m.docs.Open(h.Name(), m.newEditor(h))
		m.screen = screenEdit
	}
}

// NewModel creates and returns a new root model.
func NewModel(store *storage.Store, cfg *config.Config, opts ...Option) Model {
	if cfg == nil {
		cfg = config.New()
	}

	ta := textarea.New()
	ta.Placeholder = "Enter file name..."
	ta.CharLimit = 64
	ta.SetWidth(30)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	m := Model{
		store:        store,
		cfg:          cfg,
		opts:         editor.OptionsFromConfig(cfg),
		screen:       screenFiles,
		width:        defaultTerminalWidth,
		height:       defaultTerminalHeight,
		newNameInput: ta,
		docs:         workspace.New[editor.Editor](),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("scribble"),
		m.listFiles,
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Next())
	}
	for _, id := range m.docs.IDs() {
		ed, _ := m.docs.Get(id)
		cmds = append(cmds, ed.Init())
	}
	return tea.Batch(cmds...)
}

// Layout calculation helpers
func (m Model) listLayout() (int, int, int) {
	usableWidth := m.width - 8
	leftWidth := int(float64(usableWidth) * leftPaneWidthFraction)
	if leftWidth < minLeftPaneWidth {
		leftWidth = minLeftPaneWidth
	}
	rightWidth := usableWidth - leftWidth - 2
	if rightWidth < minRightPaneWidth {
		rightWidth = minRightPaneWidth
	}
	paneHeight := m.height - 9
	if paneHeight < 5 {
		paneHeight = 5
	}
	return leftWidth, rightWidth, paneHeight
}

func (m Model) editorSize() (int, int) {
	w := m.width - 2*editorLeft
	if w < 20 {
		w = 20
	}
	h := m.height - editChrome
	if h < 5 {
		h = 5
	}
	return w, h
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cmds := []tea.Cmd{m.resizeEditors()}
		if m.previewName != "" {
			m.previewRendered = "" // Force "Rendering..." while re-rendering
			cmds = append(cmds, m.renderPreview(m.previewName, m.preview))
		}
		return m, tea.Batch(cmds...)

	case filesListedMsg:
		m.files = msg.files
		m.err = msg.err
		if m.cursor >= len(m.files) {
			m.cursor = max(len(m.files)-1, 0)
		}
		if len(m.files) > 0 && m.files[m.cursor].Name != m.previewName {
			return m, m.loadPreview(m.files[m.cursor].Name)
		}
		return m, nil

	case previewLoadedMsg:
		if msg.name != m.selectedName() {
			return m, nil
		}
		m.previewName = msg.name
		m.previewRendered = ""
		if msg.err != nil {
			m.preview = ""
			m.statusMsg = "Error loading preview: " + msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.preview = msg.content
		return m, m.renderPreview(msg.name, msg.content)

	case previewRenderedMsg:
		_, rw, _ := m.listLayout()
		if msg.name == m.previewName && msg.width == rw-2 {
			m.previewRendered = msg.content
		}
		return m, nil

	case storage.SavedMsg:
		switch {
		case msg.Skipped:
		case msg.Err != nil:
			log.LogWithFields(log.F("file", msg.Name), log.F("error", msg.Err)).Error("save failed")
			m.statusMsg = "Error saving: " + msg.Err.Error()
			m.statusErr = true
		default:
			m.statusMsg = "Saved ✓"
			m.statusErr = false
		}
		return m, nil

	case fileCreatedMsg:
		if msg.err != nil {
			m.statusMsg = "Error creating file: " + msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.statusMsg = "Created ✓"
		m.statusErr = false
		var cmd tea.Cmd
		m, cmd = m.openHandle(msg.handle)
		return m, tea.Batch(cmd, m.listFiles)

	case fileDeletedMsg:
		if msg.err != nil {
			m.statusMsg = "Error deleting file: " + msg.err.Error()
			m.statusErr = true
		} else {
			m.statusMsg = "Deleted " + msg.name
			m.statusErr = false
		}
		return m, m.listFiles

	case storage.ChangedMsg:
		return m.handleChange(msg)

	case externalContentMsg:
		return m.reloadExternal(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.screen {
		case screenFiles:
			return m.updateFiles(msg)
		case screenEdit:
			return m.updateEdit(msg)
		}
	case tea.MouseMsg:
		if m.screen == screenEdit {
			return m.forwardMouse(msg)
		}
		return m, nil
	}

	// Everything else (load results, preview renders, spinner and cursor
	// ticks) goes to every editor; each one ignores results that are not
	// its own.
	cmds := []tea.Cmd{m.broadcast(msg)}
	if m.creatingNew {
		var cmd tea.Cmd
		m.newNameInput, cmd = m.newNameInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	var content string

	switch m.screen {
	case screenFiles:
		content = m.viewFiles()
	case screenEdit:
		content = m.viewEdit()
	}

	return theme.App.MaxWidth(m.width).MaxHeight(m.height).Render(content)
}

// --- Editors ---

func (m Model) newEditor(h *file.Handle) editor.Editor {
	return editor.ForHandle(h, m.store.Save, m.opts, m.cfg)
}

// openHandle opens h in a new editor and switches to the edit screen.
func (m Model) openHandle(h *file.Handle) (Model, tea.Cmd) {
	ed, sizeCmd := m.newEditor(h).SetSize(m.editorSize())
	m.docs.Open(h.Name(), ed)
	m.screen = screenEdit
	m.confirmClose = uuid.Nil
	log.LogWithFields(log.F("file", h.Name()), log.F("editor", ed.Kind())).Debug("document opened")
	return m, tea.Batch(ed.Init(), sizeCmd)
}

func (m Model) resizeEditors() tea.Cmd {
	w, h := m.editorSize()
	var cmds []tea.Cmd
	m.docs.Update(func(_ uuid.UUID, ed editor.Editor) editor.Editor {
		next, cmd := ed.SetSize(w, h)
		cmds = append(cmds, cmd)
		return next
	})
	return tea.Batch(cmds...)
}

func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	m.docs.Update(func(_ uuid.UUID, ed editor.Editor) editor.Editor {
		next, cmd := ed.Update(msg)
		cmds = append(cmds, cmd)
		return next.(editor.Editor)
	})
	return tea.Batch(cmds...)
}

// updateActive sends msg to the active editor only.
func (m Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	id, ed, ok := m.docs.Active()
	if !ok {
		return m, nil
	}
	next, cmd := ed.Update(msg)
	m.docs.Set(id, next.(editor.Editor))
	return m, cmd
}

// forwardMouse translates terminal coordinates into editor coordinates.
func (m Model) forwardMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	msg.X -= editorLeft
	msg.Y -= editorTop
	if msg.X < 0 || msg.Y < 0 {
		return m, nil
	}
	return m.updateActive(msg)
}

// --- External changes ---

func (m Model) handleChange(msg storage.ChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.listFiles}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Next())
	}

	if msg.Removed {
		if _, open := m.docs.FindByName(msg.Name); open {
			m.statusMsg = msg.Name + " was removed from disk"
			m.statusErr = true
		}
		return m, tea.Batch(cmds...)
	}

	_, open := m.docs.FindByName(msg.Name)
	if open || msg.Name == m.previewName {
		cmds = append(cmds, m.readExternal(msg.Name))
	}
	return m, tea.Batch(cmds...)
}

// reloadExternal hands content changed by another program to every editor
// showing that file, unless the content is our own write echoing back.
func (m Model) reloadExternal(msg externalContentMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.LogWithFields(log.F("file", msg.name), log.F("error", msg.err)).Warn("could not read changed file")
		return m, nil
	}
	if m.store.IsOwnWrite(msg.name, msg.data) {
		return m, nil
	}

	var cmds []tea.Cmd
	if msg.name == m.previewName {
		m.preview = string(msg.data)
		cmds = append(cmds, m.renderPreview(msg.name, m.preview))
	}

	for _, id := range m.docs.IDs() {
		if m.docs.Name(id) != msg.name {
			continue
		}
		ed, _ := m.docs.Get(id)
		if ed.Dirty() {
			m.statusMsg = msg.name + " changed on disk; keeping your edits"
			m.statusErr = true
			continue
		}
		next, cmd := ed.SetFile(file.New(msg.name, file.TypeForName(msg.name), msg.data))
		m.docs.Set(id, next)
		cmds = append(cmds, cmd)
		m.statusMsg = "Reloaded " + msg.name
		m.statusErr = false
		log.LogWithFields(log.F("file", msg.name)).Info("reloaded after external change")
	}
	return m, tea.Batch(cmds...)
}
