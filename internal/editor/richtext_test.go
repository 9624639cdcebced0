package editor

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielfornes/scribble/internal/config"
	"github.com/gabrielfornes/scribble/internal/file"
	"github.com/gabrielfornes/scribble/internal/richtext"
)

func newRich(t *testing.T, content string, rec *recorder, opts Options) RichTextSession {
	t.Helper()
	h := file.New("story.txt", "text/plain", []byte(content))
	s, err := NewRichTextSession(h, content, rec.write, opts)
	require.NoError(t, err)
	s, _ = s.SetSize(80, 20)
	return s
}

func TestRichTextLoadsPlainText(t *testing.T) {
	s := newRich(t, "Hello", &recorder{}, DefaultOptions())
	assert.Equal(t, richtext.LoadPlain, s.LoadedAs())

	blocks := s.State().Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, "Hello", blocks[0].Text())
	assert.Equal(t, richtext.Unstyled, blocks[0].Type)
	assert.True(t, s.State().CurrentInlineStyle().IsEmpty())
	assert.False(t, s.Dirty())
}

func TestRichTextLoadsStructuredContent(t *testing.T) {
	doc := richtext.FromText("Title").ToggleBlockType(richtext.HeaderTwo)
	data, err := doc.Marshal()
	require.NoError(t, err)

	s := newRich(t, string(data), &recorder{}, DefaultOptions())
	assert.Equal(t, richtext.LoadStructured, s.LoadedAs())
	assert.Equal(t, richtext.HeaderTwo, s.State().CurrentBlockType())

	opts := DefaultOptions()
	opts.LoadMode = richtext.LoadPlain
	s = newRich(t, string(data), &recorder{}, opts)
	assert.Equal(t, string(data), s.State().PlainText())
}

func TestRichTextWritesEveryChange(t *testing.T) {
	rec := &recorder{}
	s := newRich(t, "Hello", rec, DefaultOptions())

	s, _ = s.Update(runes("a"))
	require.Len(t, rec.handles, 1)
	back, err := richtext.Unmarshal([]byte(rec.last(t)))
	require.NoError(t, err)
	assert.Equal(t, "aHello", back.PlainText())

	// Moving the caret or arming a style changes no content.
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyRight})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Len(t, rec.handles, 1)
	assert.True(t, s.State().CurrentInlineStyle().Has(richtext.Bold))

	s, _ = s.Update(runes("b"))
	require.Len(t, rec.handles, 2)
	back, err = richtext.Unmarshal([]byte(rec.last(t)))
	require.NoError(t, err)
	assert.True(t, back.Blocks()[0].StyleAt(1).Has(richtext.Bold))
	assert.False(t, s.Dirty())
}

func TestRichTextSaveMode(t *testing.T) {
	rec := &recorder{}
	opts := DefaultOptions()
	opts.WriteMode = config.WriteOnSave
	s := newRich(t, "", rec, opts)

	s, _ = s.Update(runes("draft"))
	assert.Empty(t, rec.handles)
	assert.True(t, s.Dirty())

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Len(t, rec.handles, 1)
	assert.False(t, s.Dirty())
	status, isErr := s.Status()
	assert.Equal(t, "Saved", status)
	assert.False(t, isErr)

	back, err := richtext.Unmarshal([]byte(rec.last(t)))
	require.NoError(t, err)
	assert.Equal(t, "draft", back.PlainText())
}

func TestRichTextKeyBindings(t *testing.T) {
	s := newRich(t, "line", &recorder{}, DefaultOptions())

	for r, want := range map[rune]richtext.BlockType{
		'1': richtext.HeaderOne,
		'6': richtext.HeaderSix,
		'q': richtext.Blockquote,
		'u': richtext.UnorderedListItem,
		'o': richtext.OrderedListItem,
		'c': richtext.CodeBlock,
	} {
		next, _ := s.Update(alt(r))
		assert.Equal(t, want, next.State().CurrentBlockType(), string(r))

		next, _ = next.Update(alt(r))
		assert.Equal(t, richtext.Unstyled, next.State().CurrentBlockType(), "second press toggles off")
	}

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	s, _ = s.Update(alt('i'))
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	style := s.State().Blocks()[0].StyleAt(0)
	assert.True(t, style.Has(richtext.Italic))
	assert.True(t, style.Has(richtext.Underline))

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnd})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 2, s.State().BlockCount())

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, 1, s.State().BlockCount())
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	assert.Equal(t, "", s.State().PlainText())
}

func TestRichTextHandleKeyCommand(t *testing.T) {
	rec := &recorder{}
	s := newRich(t, "abc", rec, DefaultOptions())

	next, cmd, handled := s.HandleKeyCommand("rotate")
	assert.False(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, s.State().Version(), next.State().Version())
	assert.Empty(t, rec.handles)

	next, _, handled = s.HandleKeyCommand(richtext.CommandDelete)
	assert.True(t, handled)
	assert.Equal(t, "bc", next.State().PlainText())
	assert.Len(t, rec.handles, 1)
}

func TestRichTextTabRespectsMaxDepth(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxListDepth = 2
	var blocks []richtext.Block
	for i, d := range []int{0, 1, 2, 3, 1} {
		b := richtext.NewBlock(string(rune('a'+i)), richtext.UnorderedListItem, "item")
		b.Depth = d
		blocks = append(blocks, b)
	}
	data, err := richtext.FromBlocks(blocks).Marshal()
	require.NoError(t, err)
	s := newRich(t, string(data), &recorder{}, opts)
	for i := 0; i < 4; i++ {
		s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	for i := 0; i < 4; i++ {
		s, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	assert.Equal(t, 2, s.State().Blocks()[4].Depth)

	_, _, changed := s.OnTab(false)
	assert.False(t, changed)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 1, s.State().Blocks()[4].Depth)
}

func TestRichTextToolbarClick(t *testing.T) {
	s := newRich(t, "line", &recorder{}, DefaultOptions())

	s, _ = s.Update(tea.MouseMsg{X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, richtext.HeaderOne, s.State().CurrentBlockType())

	s, _ = s.Update(tea.MouseMsg{X: 0, Y: 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.True(t, s.State().CurrentInlineStyle().Has(richtext.Bold))

	// Clicks outside the toolbar do nothing.
	v := s.State().Version()
	s, _ = s.Update(tea.MouseMsg{X: 0, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, v, s.State().Version())
}

func TestRichTextPlaceholder(t *testing.T) {
	s := newRich(t, "", &recorder{}, DefaultOptions())
	assert.Contains(t, plain(s.View()), placeholder)

	s, _ = s.ToggleBlockType(richtext.HeaderOne)
	assert.NotContains(t, plain(s.View()), placeholder)

	s = newRich(t, "x", &recorder{}, DefaultOptions())
	assert.NotContains(t, plain(s.View()), placeholder)
}

func TestRichTextViewShowsToolbarAndText(t *testing.T) {
	s := newRich(t, "first\nsecond", &recorder{}, DefaultOptions())
	view := plain(s.View())
	assert.Contains(t, view, "Blockquote")
	assert.Contains(t, view, "Monospace")
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestRenderDocumentNumbersOrderedLists(t *testing.T) {
	s := richtext.FromText("a\nb\nc").SelectAll().ToggleBlockType(richtext.OrderedListItem)
	lines, _ := renderDocument(s, 40)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "1.")
	assert.Contains(t, lines[1], "2.")
	assert.Contains(t, lines[2], "3.")
}

func TestRenderDocumentWrapsLongBlocks(t *testing.T) {
	s := richtext.FromText(strings.Repeat("x", 25))
	lines, cursor := renderDocument(s, 10)
	assert.Len(t, lines, 3)
	assert.Equal(t, 0, cursor)

	s = s.MoveEnd(false)
	_, cursor = renderDocument(s, 10)
	assert.Equal(t, 2, cursor)
}

func TestRichTextScrollsToCursor(t *testing.T) {
	var text []string
	for i := 0; i < 50; i++ {
		text = append(text, fmt.Sprintf("line %02d", i))
	}
	s := newRich(t, strings.Join(text, "\n"), &recorder{}, DefaultOptions())
	s, _ = s.SetSize(80, 10)
	assert.NotContains(t, plain(s.View()), "line 30")

	for i := 0; i < 30; i++ {
		s, _ = s.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	view := plain(s.View())
	assert.Contains(t, view, "line 30")
	assert.NotContains(t, view, "line 00")
}
