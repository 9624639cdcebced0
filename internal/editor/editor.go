// Package editor provides the two embeddable file editors: a markdown editor
// with a live preview and a rich-text editor with style controls. Both load
// their content from a file.Handle and report every change through a
// WriteFunc supplied by the host.
package editor

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/richtext"
)

// WriteFunc receives a new handle carrying the edited content. It runs
// synchronously inside the change handler; the returned command, which may
// be nil, lets the host persist asynchronously.
type WriteFunc func(*file.Handle) tea.Cmd

// Options configures both editors.
type Options struct {
	MaxListDepth int
	WriteMode    string // config.WriteOnChange or config.WriteOnSave
	LoadMode     richtext.LoadMode
	PreviewStyle string
	ReadTimeout  time.Duration
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.New())
}

// OptionsFromConfig extracts editor options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	mode, err := richtext.ParseLoadMode(cfg.Editor.RichTextLoadMode)
	if err != nil {
		log.Warnf("falling back to auto load mode: %v", err)
	}
	return Options{
		MaxListDepth: cfg.Editor.MaxListDepth,
		WriteMode:    cfg.Editor.RichTextWriteMode,
		LoadMode:     mode,
		PreviewStyle: cfg.Preview.Style,
		ReadTimeout:  cfg.Editor.ReadTimeout,
	}
}

func (o Options) maxDepth() int {
	if o.MaxListDepth <= 0 {
		return richtext.DefaultMaxDepth
	}
	return o.MaxListDepth
}

// Editor is a loaded-or-loading editor for one file.
type Editor interface {
	tea.Model

	// Kind is config.EditorMarkdown or config.EditorPlaintext.
	Kind() string
	// SetSize resizes the editor to the given outer dimensions.
	SetSize(width, height int) (Editor, tea.Cmd)
	// SetFile switches to another handle. The same handle is a no-op.
	SetFile(h *file.Handle) (Editor, tea.Cmd)
	// File returns the handle the editor was opened with.
	File() *file.Handle
	// Dirty reports unsaved changes.
	Dirty() bool
	// Status is the last user-facing message, if any.
	Status() (string, bool)
	// Help lists the editor's key bindings as key, description pairs.
	Help() [][2]string
}

// KindFor picks the editor kind for h: the first configured glob rule that
// matches the file name wins, then the MIME type decides.
func KindFor(h *file.Handle, cfg *config.Config) string {
	if cfg != nil {
		if kind, ok := cfg.EditorFor(h.Name()); ok {
			return kind
		}
	}
	if strings.HasPrefix(h.Type(), "text/markdown") {
		return config.EditorMarkdown
	}
	return config.EditorPlaintext
}

// ForHandle creates the editor configured for h.
func ForHandle(h *file.Handle, write WriteFunc, opts Options, cfg *config.Config) Editor {
	if KindFor(h, cfg) == config.EditorMarkdown {
		return NewMarkdownEditor(h, write, opts)
	}
	return NewPlaintextEditor(h, write, opts)
}
