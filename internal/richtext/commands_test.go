package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(s State) []string {
	var out []string
	for _, b := range s.Blocks() {
		out = append(out, b.Text())
	}
	return out
}

func TestHandleKeyCommandUnknown(t *testing.T) {
	s := FromText("text")
	next, handled := s.HandleKeyCommand("transpose-characters")
	assert.False(t, handled)
	assert.Equal(t, s.Version(), next.Version())
	assert.Equal(t, texts(s), texts(next))
}

func TestHandleKeyCommandStyles(t *testing.T) {
	s := selectRange(FromText("word"), 0, 0, 4)
	for _, tc := range []struct {
		command string
		style   InlineStyle
	}{
		{CommandBold, Bold},
		{CommandItalic, Italic},
		{CommandUnderline, Underline},
		{CommandCode, Code},
	} {
		var handled bool
		s, handled = s.HandleKeyCommand(tc.command)
		require.True(t, handled, tc.command)
		assert.True(t, s.CurrentInlineStyle().Has(tc.style), tc.command)
	}
	assert.Len(t, s.Blocks()[0].StyleAt(0).Styles(), 4)
}

func TestBackspace(t *testing.T) {
	s := caret(FromText("abc"), 0, 3)
	s, handled := s.HandleKeyCommand(CommandBackspace)
	require.True(t, handled)
	assert.Equal(t, []string{"ab"}, texts(s))
	assert.Equal(t, 2, s.Selection().Focus.Offset)
}

func TestBackspaceMergesBlocks(t *testing.T) {
	s := caret(FromText("ab\ncd"), 1, 0)
	s, _ = s.HandleKeyCommand(CommandBackspace)
	assert.Equal(t, []string{"abcd"}, texts(s))
	assert.Equal(t, 2, s.Selection().Focus.Offset)
}

func TestBackspaceAtStartOfStyledBlockResetsType(t *testing.T) {
	s := caret(FromText("ab\ncd"), 1, 0).ToggleBlockType(HeaderTwo)
	s, _ = s.HandleKeyCommand(CommandBackspace)
	assert.Equal(t, []string{"ab", "cd"}, texts(s))
	assert.Equal(t, Unstyled, s.Blocks()[1].Type)
}

func TestBackspaceInsideCodeRunMerges(t *testing.T) {
	s := FromText("x := 1\ny := 2").SelectAll().ToggleBlockType(CodeBlock)
	s = caret(s, 1, 0)
	s, _ = s.HandleKeyCommand(CommandBackspace)
	assert.Equal(t, []string{"x := 1y := 2"}, texts(s))
	assert.Equal(t, CodeBlock, s.Blocks()[0].Type)
}

func TestBackspaceAtDocumentStart(t *testing.T) {
	s := FromText("abc")
	next, handled := s.HandleKeyCommand(CommandBackspace)
	assert.True(t, handled)
	assert.Equal(t, s.Version(), next.Version())
}

func TestBackspaceWordAndLine(t *testing.T) {
	s := caret(FromText("one two  "), 0, 9)
	s, _ = s.HandleKeyCommand(CommandBackspaceWord)
	assert.Equal(t, []string{"one "}, texts(s))

	s, _ = s.HandleKeyCommand(CommandBackspaceToStartOfLine)
	assert.Equal(t, []string{""}, texts(s))
}

func TestDelete(t *testing.T) {
	s := caret(FromText("ab\ncd"), 0, 1)
	s, _ = s.HandleKeyCommand(CommandDelete)
	assert.Equal(t, []string{"a", "cd"}, texts(s))

	s, _ = s.HandleKeyCommand(CommandDelete)
	assert.Equal(t, []string{"acd"}, texts(s))

	s = caret(s, 0, 3)
	next, _ := s.HandleKeyCommand(CommandDelete)
	assert.Equal(t, s.Version(), next.Version(), "delete at document end is a no-op")
}

func TestDeleteWordAndToEnd(t *testing.T) {
	s := caret(FromText("one two three"), 0, 3)
	s, _ = s.HandleKeyCommand(CommandDeleteWord)
	assert.Equal(t, []string{"one three"}, texts(s))

	s, _ = s.HandleKeyCommand(CommandDeleteToEndOfBlock)
	assert.Equal(t, []string{"one"}, texts(s))
}

func TestDeleteRange(t *testing.T) {
	s := FromText("hello\nbig\nworld")
	blocks := s.Blocks()
	s = s.WithSelection(Selection{
		Anchor: Position{Key: blocks[0].Key, Offset: 2},
		Focus:  Position{Key: blocks[2].Key, Offset: 3},
	})
	s, _ = s.HandleKeyCommand(CommandDelete)
	assert.Equal(t, []string{"held"}, texts(s))
	assert.True(t, s.Selection().IsCollapsed())
}

func TestSplitBlock(t *testing.T) {
	s := caret(FromText("headline"), 0, 4).ToggleBlockType(HeaderOne)
	s, handled := s.HandleKeyCommand(CommandSplitBlock)
	require.True(t, handled)

	blocks := s.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "head", blocks[0].Text())
	assert.Equal(t, HeaderOne, blocks[0].Type)
	assert.Equal(t, "line", blocks[1].Text())
	assert.Equal(t, Unstyled, blocks[1].Type, "text after a heading continues as a paragraph")
	assert.Equal(t, Position{Key: blocks[1].Key}, s.Selection().Focus)
}

func TestSplitListItemKeepsTypeAndDepth(t *testing.T) {
	s := listItemAtDepth(t, 2)
	s = caret(s, 0, 4)
	s, _ = s.HandleKeyCommand(CommandSplitBlock)

	blocks := s.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, UnorderedListItem, blocks[1].Type)
	assert.Equal(t, 2, blocks[1].Depth)

	// Enter on the new, empty item leaves the list.
	s, _ = s.HandleKeyCommand(CommandSplitBlock)
	blocks = s.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, Unstyled, blocks[1].Type)
	assert.Equal(t, 0, blocks[1].Depth)
}

func TestSplitKeepsStyles(t *testing.T) {
	s := selectRange(FromText("abcd"), 0, 0, 4).ToggleInlineStyle(Bold)
	s = caret(s, 0, 2)
	s, _ = s.HandleKeyCommand(CommandSplitBlock)
	assert.True(t, s.Blocks()[1].StyleAt(0).Has(Bold))
	assert.Equal(t, 2, s.Blocks()[1].Len())
}

func TestMovement(t *testing.T) {
	s := FromText("ab\ncde")
	first, second := s.Blocks()[0].Key, s.Blocks()[1].Key

	s = s.MoveRight(false).MoveRight(false).MoveRight(false)
	assert.Equal(t, Position{Key: second, Offset: 0}, s.Selection().Focus)

	s = s.MoveLeft(false)
	assert.Equal(t, Position{Key: first, Offset: 2}, s.Selection().Focus)

	s = s.MoveDown(false)
	assert.Equal(t, Position{Key: second, Offset: 2}, s.Selection().Focus)

	s = s.MoveEnd(false)
	assert.Equal(t, 3, s.Selection().Focus.Offset)

	s = s.MoveUp(false)
	assert.Equal(t, Position{Key: first, Offset: 2}, s.Selection().Focus, "column is clamped")

	s = s.MoveHome(true)
	assert.False(t, s.Selection().IsCollapsed())
	assert.Equal(t, Position{Key: first, Offset: 2}, s.Selection().Anchor)

	s = s.MoveRight(false)
	assert.True(t, s.Selection().IsCollapsed())
	assert.Equal(t, Position{Key: first, Offset: 2}, s.Selection().Focus)
}

func TestMovementDropsOverride(t *testing.T) {
	s := FromText("ab").ToggleInlineStyle(Bold)
	_, has := s.InlineStyleOverride()
	require.True(t, has)

	s = s.MoveRight(false)
	_, has = s.InlineStyleOverride()
	assert.False(t, has)
}
