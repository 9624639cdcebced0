package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/log"
	"github.com/gabrielfornes/scribble/internal/richtext"
	"github.com/gabrielfornes/scribble/internal/theme"
	"github.com/gabrielfornes/scribble/internal/toolbar"
)

// Key bindings for block types.
var blockTypeKeys = map[string]richtext.BlockType{
	"alt+1": richtext.HeaderOne,
	"alt+2": richtext.HeaderTwo,
	"alt+3": richtext.HeaderThree,
	"alt+4": richtext.HeaderFour,
	"alt+5": richtext.HeaderFive,
	"alt+6": richtext.HeaderSix,
	"alt+q": richtext.Blockquote,
	"alt+u": richtext.UnorderedListItem,
	"alt+o": richtext.OrderedListItem,
	"alt+c": richtext.CodeBlock,
}

// Key bindings for named editing commands.
var commandKeys = map[string]string{
	"ctrl+b":        richtext.CommandBold,
	"alt+i":         richtext.CommandItalic,
	"ctrl+u":        richtext.CommandUnderline,
	"ctrl+k":        richtext.CommandCode,
	"backspace":     richtext.CommandBackspace,
	"alt+backspace": richtext.CommandBackspaceWord,
	"ctrl+w":        richtext.CommandBackspaceWord,
	"alt+h":         richtext.CommandBackspaceToStartOfLine,
	"delete":        richtext.CommandDelete,
	"ctrl+d":        richtext.CommandDelete,
	"alt+d":         richtext.CommandDeleteWord,
	"alt+k":         richtext.CommandDeleteToEndOfBlock,
	"enter":         richtext.CommandSplitBlock,
}

const placeholder = "Tell a story..."

// toolbarHeight is the two control rows plus a blank line.
const toolbarHeight = 3

// RichTextSession edits a structured document of styled blocks. In change
// mode every mutation is serialized and written; in save mode only ctrl+s
// writes.
type RichTextSession struct {
	handle *file.Handle
	write  WriteFunc

	state    richtext.State
	loadedAs richtext.LoadMode

	writeMode    string
	maxDepth     int
	savedVersion uint64

	width, height int
	top           int

	status    string
	statusErr bool
}

// NewRichTextSession builds a session from content according to
// opts.LoadMode. It fails only when structured content is required and the
// content is not structured.
func NewRichTextSession(h *file.Handle, content string, write WriteFunc, opts Options) (RichTextSession, error) {
	state, mode, err := richtext.Load(content, opts.LoadMode)
	if err != nil {
		return RichTextSession{}, err
	}
	writeMode := opts.WriteMode
	if writeMode == "" {
		writeMode = config.WriteOnChange
	}
	name := ""
	if h != nil {
		name = h.Name()
	}
	log.LogWithFields(log.F("file", name), log.F("mode", mode.String()), log.F("blocks", state.BlockCount())).Debug("rich text document loaded")

	return RichTextSession{
		handle:       h,
		write:        write,
		state:        state,
		loadedAs:     mode,
		writeMode:    writeMode,
		maxDepth:     opts.maxDepth(),
		savedVersion: state.Version(),
		width:        80,
		height:       24,
	}, nil
}

// Init implements the tea.Model contract for the session.
func (s RichTextSession) Init() tea.Cmd { return nil }

// Update maps keys and toolbar clicks onto document operations.
func (s RichTextSession) Update(msg tea.Msg) (RichTextSession, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return s.handleKey(msg)
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			return s.click(msg.X, msg.Y)
		}
	}
	return s, nil
}

func (s RichTextSession) handleKey(msg tea.KeyMsg) (RichTextSession, tea.Cmd) {
	key := msg.String()

	if t, ok := blockTypeKeys[key]; ok {
		return s.ToggleBlockType(t)
	}
	if command, ok := commandKeys[key]; ok {
		next, cmd, _ := s.HandleKeyCommand(command)
		return next, cmd
	}

	switch key {
	case "ctrl+s":
		return s.Save()
	case "tab", "shift+tab":
		next, cmd, _ := s.OnTab(key == "shift+tab")
		return next, cmd
	case "ctrl+a":
		return s.apply(s.state.SelectAll())
	case "left", "shift+left":
		return s.apply(s.state.MoveLeft(key != "left"))
	case "right", "shift+right":
		return s.apply(s.state.MoveRight(key != "right"))
	case "up", "shift+up":
		return s.apply(s.state.MoveUp(key != "up"))
	case "down", "shift+down":
		return s.apply(s.state.MoveDown(key != "down"))
	case "home", "shift+home":
		return s.apply(s.state.MoveHome(key != "home"))
	case "end", "shift+end":
		return s.apply(s.state.MoveEnd(key != "end"))
	}

	switch {
	case msg.Type == tea.KeySpace:
		return s.apply(s.state.InsertText(" "))
	case msg.Type == tea.KeyRunes && !msg.Alt:
		return s.apply(s.state.InsertText(string(msg.Runes)))
	}
	return s, nil
}

func (s RichTextSession) click(x, y int) (RichTextSession, tea.Cmd) {
	bar := toolbar.ForState(s.state)
	switch y {
	case 0:
		if style, ok := pressed(bar.Block, x); ok {
			return s.ToggleBlockType(richtext.BlockType(style))
		}
	case 1:
		if style, ok := pressed(bar.Inline, x); ok {
			return s.ToggleInlineStyle(richtext.InlineStyle(style))
		}
	}
	return s, nil
}

// pressed returns the style id of the button under column x.
func pressed(c toolbar.Controls, x int) (string, bool) {
	i, ok := c.ButtonAt(x)
	if !ok {
		return "", false
	}
	return c.Toggle(i)
}

// HandleKeyCommand runs a named command. handled is false for unknown
// commands, which leave the document untouched.
func (s RichTextSession) HandleKeyCommand(command string) (next RichTextSession, cmd tea.Cmd, handled bool) {
	state, handled := s.state.HandleKeyCommand(command)
	if !handled {
		return s, nil, false
	}
	next, cmd = s.apply(state)
	return next, cmd, true
}

// OnTab nests (or with shift un-nests) the current list item.
func (s RichTextSession) OnTab(shift bool) (next RichTextSession, cmd tea.Cmd, changed bool) {
	state, changed := s.state.OnTab(shift, s.maxDepth)
	if !changed {
		return s, nil, false
	}
	next, cmd = s.apply(state)
	return next, cmd, true
}

// ToggleBlockType applies the block-type toggle to the selection.
func (s RichTextSession) ToggleBlockType(t richtext.BlockType) (RichTextSession, tea.Cmd) {
	return s.apply(s.state.ToggleBlockType(t))
}

// ToggleInlineStyle applies the inline-style toggle to the selection.
func (s RichTextSession) ToggleInlineStyle(st richtext.InlineStyle) (RichTextSession, tea.Cmd) {
	return s.apply(s.state.ToggleInlineStyle(st))
}

// apply installs next and writes it when the content changed in change mode.
func (s RichTextSession) apply(next richtext.State) (RichTextSession, tea.Cmd) {
	changed := next.Version() != s.state.Version()
	s.state = next
	s.scrollToCursor()
	if !changed {
		return s, nil
	}
	s.status = ""
	if s.writeMode == config.WriteOnChange {
		return s.commit()
	}
	return s, nil
}

// Save writes the current document regardless of the write mode.
func (s RichTextSession) Save() (RichTextSession, tea.Cmd) {
	s, cmd := s.commit()
	if !s.statusErr {
		s.status = "Saved"
	}
	return s, cmd
}

func (s RichTextSession) commit() (RichTextSession, tea.Cmd) {
	data, err := s.state.Marshal()
	if err != nil {
		log.LogWithFields(log.F("error", err)).Error("could not serialize document")
		s.status, s.statusErr = "Could not serialize document: "+err.Error(), true
		return s, nil
	}
	s.statusErr = false
	s.savedVersion = s.state.Version()
	if s.handle == nil {
		return s, nil
	}
	s.handle = s.handle.WithContent(data)
	if s.write == nil {
		return s, nil
	}
	return s, s.write(s.handle)
}

// SetSize sets the outer dimensions of the session.
func (s RichTextSession) SetSize(width, height int) (RichTextSession, tea.Cmd) {
	s.width, s.height = width, height
	s.scrollToCursor()
	return s, nil
}

func (s RichTextSession) docHeight() int {
	return max(s.height-toolbarHeight, 1)
}

func (s *RichTextSession) scrollToCursor() {
	_, line := renderDocument(s.state, s.width)
	h := s.docHeight()
	if line < s.top {
		s.top = line
	}
	if line >= s.top+h {
		s.top = line - h + 1
	}
}

// View renders the toolbar above the visible part of the document.
func (s RichTextSession) View() string {
	lines, _ := renderDocument(s.state, s.width)
	end := min(s.top+s.docHeight(), len(lines))
	start := min(s.top, end)

	var b strings.Builder
	b.WriteString(toolbar.ForState(s.state).View())
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines[start:end], "\n"))
	return b.String()
}

// State returns the current document.
func (s RichTextSession) State() richtext.State { return s.state }

// LoadedAs returns the mode the content was actually loaded with.
func (s RichTextSession) LoadedAs() richtext.LoadMode { return s.loadedAs }

// File returns the handle of the last write, or the opened handle.
func (s RichTextSession) File() *file.Handle { return s.handle }

// Dirty reports changes not yet written.
func (s RichTextSession) Dirty() bool { return s.state.Version() != s.savedVersion }

// Status returns the last save or serialization message.
func (s RichTextSession) Status() (string, bool) { return s.status, s.statusErr }

// Help lists the session's main key bindings.
func (s RichTextSession) Help() [][2]string {
	help := [][2]string{
		{"ctrl+b/alt+i/ctrl+u/ctrl+k", "bold/italic/underline/code"},
		{"alt+1-6", "heading"},
		{"alt+q/u/o/c", "quote/list/numbered/code"},
		{"tab", "nest"},
	}
	if s.writeMode == config.WriteOnSave {
		help = append(help, [2]string{"ctrl+s", "save"})
	}
	return help
}

// showPlaceholder reports an empty document whose only block is a plain
// paragraph.
func showPlaceholder(s richtext.State) bool {
	return s.BlockCount() == 1 && !s.HasText() && s.Blocks()[0].Type == richtext.Unstyled
}

func renderPlaceholder() string {
	return cursorStyle.Render(" ") + theme.Muted.Render(placeholder)
}
