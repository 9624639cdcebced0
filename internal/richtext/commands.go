package richtext

// Named editing commands understood by HandleKeyCommand.
const (
	CommandBold                   = "bold"
	CommandItalic                 = "italic"
	CommandUnderline              = "underline"
	CommandCode                   = "code"
	CommandBackspace              = "backspace"
	CommandBackspaceWord          = "backspace-word"
	CommandBackspaceToStartOfLine = "backspace-to-start-of-line"
	CommandDelete                 = "delete"
	CommandDeleteWord             = "delete-word"
	CommandDeleteToEndOfBlock     = "delete-to-end-of-block"
	CommandSplitBlock             = "split-block"
)

// HandleKeyCommand applies a named command. The second result is false for
// unknown commands, in which case the state is returned unchanged.
func (s State) HandleKeyCommand(command string) (State, bool) {
	switch command {
	case CommandBold:
		return s.ToggleInlineStyle(Bold), true
	case CommandItalic:
		return s.ToggleInlineStyle(Italic), true
	case CommandUnderline:
		return s.ToggleInlineStyle(Underline), true
	case CommandCode:
		return s.ToggleInlineStyle(Code), true
	case CommandBackspace:
		return s.Backspace(), true
	case CommandBackspaceWord:
		return s.BackspaceWord(), true
	case CommandBackspaceToStartOfLine:
		return s.BackspaceToStartOfLine(), true
	case CommandDelete:
		return s.Delete(), true
	case CommandDeleteWord:
		return s.DeleteWord(), true
	case CommandDeleteToEndOfBlock:
		return s.DeleteToEndOfBlock(), true
	case CommandSplitBlock:
		return s.SplitBlock(), true
	}
	return s, false
}
