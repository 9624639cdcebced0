package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderHTMLEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.Equal(t, "", RenderHTML(""))
	})
}

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"heading", "# Title", []string{"<h1", "Title</h1>"}},
		{"emphasis", "some **bold** and *em*", []string{"<strong>bold</strong>", "<em>em</em>"}},
		{"list", "- a\n- b", []string{"<ul>", "<li>a</li>", "<li>b</li>"}},
		{"strikethrough", "~~gone~~", []string{"<del>gone</del>"}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"code", "```\nx := 1\n```", []string{"<pre><code>x := 1\n</code></pre>"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderHTML(tt.in)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestRenderHTMLEscapesRawHTML(t *testing.T) {
	out := RenderHTML("a <b>x</b> c")
	assert.Contains(t, out, "&lt;b&gt;x&lt;/b&gt;")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "raw HTML omitted")

	out = RenderHTML("<script>alert(1)</script>")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>")
}

func TestRenderHTMLIsDeterministic(t *testing.T) {
	in := "# A\n\nparagraph with `code`"
	assert.Equal(t, RenderHTML(in), RenderHTML(in))
}

func TestRenderTerminal(t *testing.T) {
	assert.Equal(t, "", RenderTerminal("", "dark", 40))

	out := RenderTerminal("# Hello\n\nworld", "notty", 40)
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "world")
}
