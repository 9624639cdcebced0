package editor

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gabrielfornes/scribble/internal/richtext"
	"github.com/gabrielfornes/scribble/internal/theme"
)

var (
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary)
	quoteStyle     = lipgloss.NewStyle().Italic(true).Foreground(theme.ColorSecondary)
	quoteBarStyle  = lipgloss.NewStyle().Foreground(theme.ColorBorder)
	codeBlockStyle = lipgloss.NewStyle().Foreground(theme.ColorSecondary).Background(theme.ColorCodeBg)
	bulletStyle    = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
)

var bullets = []string{"•", "◦", "▪"}

// cell is one rune with everything that affects how it is drawn.
type cell struct {
	r        rune
	style    richtext.StyleSet
	selected bool
	cursor   bool
}

// renderDocument draws every block of s wrapped to width and returns the
// lines plus the index of the line holding the caret.
func renderDocument(s richtext.State, width int) ([]string, int) {
	if showPlaceholder(s) {
		return []string{renderPlaceholder()}, 0
	}

	blocks := s.Blocks()
	index := make(map[string]int, len(blocks))
	for i, b := range blocks {
		index[b.Key] = i
	}
	start, end := s.Start(), s.End()
	si, ei := index[start.Key], index[end.Key]
	focus := s.Selection().Focus
	fi := index[focus.Key]

	var lines []string
	cursorLine := 0
	counters := make([]int, 16)

	for i, b := range blocks {
		prefix := blockPrefix(b, counters)

		cells := make([]cell, 0, b.Len()+1)
		for j, r := range []rune(b.Text()) {
			selected := i > si && i < ei ||
				si == ei && i == si && j >= start.Offset && j < end.Offset ||
				si != ei && i == si && j >= start.Offset ||
				si != ei && i == ei && j < end.Offset
			cells = append(cells, cell{
				r:        r,
				style:    b.StyleAt(j),
				selected: selected,
				cursor:   i == fi && j == focus.Offset,
			})
		}
		if i == fi && focus.Offset == b.Len() {
			cells = append(cells, cell{r: ' ', cursor: true})
		}

		wrapped, caretRow := wrapCells(cells, max(width-lipgloss.Width(prefix), 1))
		base := blockStyle(b.Type)
		indent := strings.Repeat(" ", lipgloss.Width(prefix))
		for row, segment := range wrapped {
			lead := indent
			if row == 0 {
				lead = prefix
			}
			if i == fi && row == caretRow {
				cursorLine = len(lines)
			}
			lines = append(lines, lead+renderCells(segment, base))
		}
	}
	return lines, cursorLine
}

// blockPrefix returns the marker drawn before a block and advances the
// ordered-list counters.
func blockPrefix(b richtext.Block, counters []int) string {
	depth := min(b.Depth, len(counters)-1)
	indent := strings.Repeat("  ", depth)

	switch b.Type {
	case richtext.OrderedListItem:
		counters[depth]++
		clear(counters[depth+1:])
		return indent + bulletStyle.Render(strconv.Itoa(counters[depth])+".") + " "
	case richtext.UnorderedListItem:
		counters[depth] = 0
		clear(counters[depth+1:])
		return indent + bulletStyle.Render(bullets[depth%len(bullets)]) + " "
	}

	clear(counters)
	switch b.Type {
	case richtext.Blockquote:
		return quoteBarStyle.Render("│") + " "
	case richtext.CodeBlock:
		return "  "
	}
	if level := b.Type.HeaderLevel(); level > 0 {
		return headerStyle.Render(strings.Repeat("#", level)) + " "
	}
	return ""
}

func blockStyle(t richtext.BlockType) lipgloss.Style {
	switch {
	case t.IsHeader():
		return headerStyle
	case t == richtext.Blockquote:
		return quoteStyle
	case t == richtext.CodeBlock:
		return codeBlockStyle
	}
	return lipgloss.NewStyle()
}

// wrapCells breaks cells into rows no wider than width and reports the row
// holding the caret.
func wrapCells(cells []cell, width int) ([][]cell, int) {
	rows := [][]cell{nil}
	caretRow, w := 0, 0
	for _, c := range cells {
		rw := runewidth.RuneWidth(c.r)
		if w+rw > width && len(rows[len(rows)-1]) > 0 {
			rows = append(rows, nil)
			w = 0
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], c)
		w += rw
		if c.cursor {
			caretRow = len(rows) - 1
		}
	}
	return rows, caretRow
}

// renderCells draws runs of identically styled cells.
func renderCells(cells []cell, base lipgloss.Style) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i + 1
		for j < len(cells) && sameLook(cells[i], cells[j]) {
			j++
		}
		var run strings.Builder
		for _, c := range cells[i:j] {
			run.WriteRune(c.r)
		}
		b.WriteString(cellStyle(cells[i], base).Render(run.String()))
		i = j
	}
	return b.String()
}

func sameLook(a, b cell) bool {
	return a.style == b.style && a.selected == b.selected && a.cursor == b.cursor
}

func cellStyle(c cell, base lipgloss.Style) lipgloss.Style {
	st := base
	if c.style.Has(richtext.Bold) {
		st = st.Bold(true)
	}
	if c.style.Has(richtext.Italic) {
		st = st.Italic(true)
	}
	if c.style.Has(richtext.Underline) {
		st = st.Underline(true)
	}
	if c.style.Has(richtext.Code) {
		st = st.Background(theme.ColorCodeBg).Foreground(theme.ColorHighlight)
	}
	if c.selected || c.cursor {
		st = st.Reverse(true)
	}
	return st
}
