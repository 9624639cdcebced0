// Package loader reads a file handle's content asynchronously and tracks the
// result as a small state machine: Idle, Loading, Ready or Failed.
package loader

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/theme"
)

// Phase is the load state of the current handle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// readMsg carries the result of reading one handle.
type readMsg struct {
	id      uuid.UUID
	content string
	err     error
}

// Model loads one handle at a time. Loading a new handle discards the state
// of the previous one; late results for a superseded handle are dropped.
type Model struct {
	handle  *file.Handle
	phase   Phase
	content string
	err     error

	timeout time.Duration
	spinner spinner.Model
}

// Option configures a Model.
type Option func(*Model)

// WithTimeout bounds each read. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// New creates an idle loader.
func New(opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Cursor

	m := Model{spinner: s}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Load starts reading h. Any in-flight or completed read is discarded.
func (m Model) Load(h *file.Handle) (Model, tea.Cmd) {
	m.handle = h
	m.phase = Loading
	m.content = ""
	m.err = nil

	if h == nil {
		m.phase = Failed
		m.err = file.ErrNoContent
		return m, nil
	}

	log.LogWithFields(log.F("file", h.Name()), log.F("id", h.ID())).Debug("loading file")
	return m, tea.Batch(m.read(h), m.spinner.Tick)
}

func (m Model) read(h *file.Handle) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		data, err := h.ReadAll(ctx)
		if err != nil {
			return readMsg{id: h.ID(), err: err}
		}
		return readMsg{id: h.ID(), content: string(data)}
	}
}

// Update applies read results and drives the placeholder spinner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case readMsg:
		if m.handle == nil || msg.id != m.handle.ID() || m.phase != Loading {
			log.LogWithFields(log.F("id", msg.id)).Debug("dropping stale read result")
			return m, nil
		}
		if msg.err != nil {
			m.phase = Failed
			m.err = msg.err
			log.LogWithFields(log.F("file", m.handle.Name()), log.F("error", msg.err)).Error("could not load file")
			return m, nil
		}
		m.phase = Ready
		m.content = msg.content
		log.LogWithFields(log.F("file", m.handle.Name()), log.F("bytes", len(msg.content))).Debug("file loaded")
		return m, nil

	case spinner.TickMsg:
		if m.phase != Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// Handle returns the handle being loaded or loaded last.
func (m Model) Handle() *file.Handle { return m.handle }

// Phase returns the current state.
func (m Model) Phase() Phase { return m.phase }

// Loading reports whether the content is still being read.
func (m Model) Loading() bool { return m.phase == Loading }

// Content returns the loaded text; ok is false unless the phase is Ready.
func (m Model) Content() (string, bool) {
	if m.phase != Ready {
		return "", false
	}
	return m.content, true
}

// Err returns the read error when the phase is Failed.
func (m Model) Err() error { return m.err }

// View renders the placeholder for the loading and failed phases.
func (m Model) View() string {
	switch m.phase {
	case Loading:
		return m.spinner.View() + theme.Muted.Render(" loading...")
	case Failed:
		name := "file"
		if m.handle != nil {
			name = m.handle.Name()
		}
		return theme.Error.Render("Could not load " + name + ": " + m.err.Error())
	default:
		return ""
	}
}
