package editor

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielfornes/scribble/internal/file"
)

func newMarkdown(content string, rec *recorder) MarkdownSession {
	h := file.New("note.md", "text/markdown", []byte(content))
	s := NewMarkdownSession(h, content, rec.write, DefaultOptions())
	s, _ = s.SetSize(100, 30)
	return s
}

func TestMarkdownWritesOncePerEdit(t *testing.T) {
	rec := &recorder{}
	s := newMarkdown("", rec)

	s, _ = s.Update(runes("# Hi"))
	require.Len(t, rec.handles, 1)
	assert.Equal(t, "# Hi", rec.last(t))
	assert.Contains(t, s.HTML(), "<h1")
	assert.Contains(t, s.HTML(), "Hi")

	s, _ = s.Update(runes("!"))
	require.Len(t, rec.handles, 2)
	assert.Equal(t, "# Hi!", rec.last(t))
	assert.Equal(t, "# Hi!", s.Text())

	h := rec.handles[1]
	assert.Equal(t, "note.md", h.Name())
	assert.Equal(t, "text/markdown", h.Type())
	assert.False(t, file.Same(rec.handles[0], h))
}

func TestMarkdownNonEditingKeysDoNotWrite(t *testing.T) {
	rec := &recorder{}
	s := newMarkdown("text", rec)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Empty(t, rec.handles)
	assert.Equal(t, "text", s.Text())
}

func TestMarkdownOpeningDoesNotWrite(t *testing.T) {
	type tick struct{}
	tests := []struct {
		name    string
		content string
		text    string
	}{
		{"crlf", "line1\r\nline2", "line1\nline2"},
		{"cr", "line1\rline2", "line1\nline2"},
		{"tab", "a\tb", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s := newMarkdown(tt.content, rec)
			text := s.Text()
			if tt.text != "" {
				assert.Equal(t, tt.text, text)
			}

			s, _ = s.Update(tick{})
			s, _ = s.Update(tea.KeyMsg{Type: tea.KeyLeft})
			s, _ = s.Update(tea.KeyMsg{Type: tea.KeyRight})
			assert.Empty(t, rec.handles)
			assert.Equal(t, text, s.Text())
		})
	}
}

func TestMarkdownCRLFEditKeepsSingleLineBreaks(t *testing.T) {
	rec := &recorder{}
	s := newMarkdown("line1\r\nline2", rec)

	s, _ = s.Update(runes("!"))
	require.Len(t, rec.handles, 1)
	assert.NotContains(t, rec.last(t), "\n\n")
	assert.Contains(t, rec.last(t), "line1\n")
	assert.Equal(t, rec.last(t), s.Text())
}

func TestMarkdownEmptyDocument(t *testing.T) {
	s := newMarkdown("", &recorder{})
	assert.Equal(t, "", s.HTML())
	assert.NotPanics(t, func() { _ = s.View() })
}

func TestMarkdownPreviewAppliesOnlyCurrentRevision(t *testing.T) {
	s := newMarkdown("", &recorder{})
	stale := s.renderPreview()

	s, _ = s.Update(runes("# Fresh"))
	s, _ = s.Update(stale())
	assert.Empty(t, s.Rendered(), "rendering of an older revision is dropped")

	s, _ = s.Update(s.renderPreview()())
	assert.Contains(t, plain(s.Rendered()), "Fresh")

	other := newMarkdown("", &recorder{})
	s, _ = s.Update(previewRenderedMsg{session: other.id, revision: s.revision, content: "foreign"})
	assert.NotEqual(t, "foreign", s.Rendered())
}

func TestMarkdownTabSwitchesFocus(t *testing.T) {
	rec := &recorder{}
	s := newMarkdown("abc", rec)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, previewPane, s.focus)

	s, _ = s.Update(runes("x"))
	assert.Equal(t, "abc", s.Text(), "typing goes to the preview while it has focus")
	assert.Empty(t, rec.handles)

	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, editorPane, s.focus)
	s, _ = s.Update(runes("x"))
	assert.Equal(t, "abcx", s.Text())
}

func TestMarkdownCopyHTML(t *testing.T) {
	orig := writeClipboard
	defer func() { writeClipboard = orig }()

	var copied string
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}

	s := newMarkdown("**bold**", &recorder{})
	s, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	s, _ = s.Update(cmd())
	assert.Contains(t, copied, "<strong>bold</strong>")
	status, isErr := s.Status()
	assert.Equal(t, "HTML copied to clipboard", status)
	assert.False(t, isErr)

	writeClipboard = func(string) error { return errors.New("no display") }
	s, cmd = s.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	s, _ = s.Update(cmd())
	status, isErr = s.Status()
	assert.Contains(t, status, "no display")
	assert.True(t, isErr)
}

func TestMarkdownHTMLView(t *testing.T) {
	s := newMarkdown("*x*", &recorder{})
	s, _ = s.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	view := plain(s.View())
	assert.Contains(t, view, "HTML")
	assert.Contains(t, view, "<em>x</em>")
}
