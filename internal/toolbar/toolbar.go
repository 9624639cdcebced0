// Package toolbar renders the block-type and inline-style buttons shown
// above the rich-text editor.
package toolbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gabrielfornes/scribble/internal/richtext"
	"github.com/gabrielfornes/scribble/internal/theme"
)

// Button is a labelled toggle for one style id.
type Button struct {
	Label string
	Style string
}

// BlockTypes are the block-type buttons in display order.
var BlockTypes = []Button{
	{Label: "H1", Style: string(richtext.HeaderOne)},
	{Label: "H2", Style: string(richtext.HeaderTwo)},
	{Label: "H3", Style: string(richtext.HeaderThree)},
	{Label: "H4", Style: string(richtext.HeaderFour)},
	{Label: "H5", Style: string(richtext.HeaderFive)},
	{Label: "H6", Style: string(richtext.HeaderSix)},
	{Label: "Blockquote", Style: string(richtext.Blockquote)},
	{Label: "UL", Style: string(richtext.UnorderedListItem)},
	{Label: "OL", Style: string(richtext.OrderedListItem)},
	{Label: "Code Block", Style: string(richtext.CodeBlock)},
}

// InlineStyles are the inline-style buttons in display order.
var InlineStyles = []Button{
	{Label: "Bold", Style: string(richtext.Bold)},
	{Label: "Italic", Style: string(richtext.Italic)},
	{Label: "Underline", Style: string(richtext.Underline)},
	{Label: "Monospace", Style: string(richtext.Code)},
}

// Controls is a row of buttons plus the predicate deciding which are active.
type Controls struct {
	Buttons []Button
	active  func(style string) bool
}

// New builds a row from buttons and an active predicate.
func New(buttons []Button, active func(style string) bool) Controls {
	return Controls{Buttons: buttons, active: active}
}

// BlockControls marks the button whose style equals the current block type.
func BlockControls(current richtext.BlockType) Controls {
	return New(BlockTypes, func(style string) bool {
		return style == string(current)
	})
}

// InlineControls marks every button whose style is in the current set.
func InlineControls(current richtext.StyleSet) Controls {
	return New(InlineStyles, func(style string) bool {
		return current.Has(richtext.InlineStyle(style))
	})
}

// Active reports whether button i is active.
func (c Controls) Active(i int) bool {
	if c.active == nil || i < 0 || i >= len(c.Buttons) {
		return false
	}
	return c.active(c.Buttons[i].Style)
}

// ActiveStyles returns the style ids of the active buttons.
func (c Controls) ActiveStyles() []string {
	var out []string
	for i, b := range c.Buttons {
		if c.Active(i) {
			out = append(out, b.Style)
		}
	}
	return out
}

// Toggle returns the style id button i applies.
func (c Controls) Toggle(i int) (string, bool) {
	if i < 0 || i >= len(c.Buttons) {
		return "", false
	}
	return c.Buttons[i].Style, true
}

const separator = " "

func (c Controls) renderButton(i int) string {
	if c.Active(i) {
		return theme.ActiveButton.Render(c.Buttons[i].Label)
	}
	return theme.Button.Render(c.Buttons[i].Label)
}

// View renders the row on one line.
func (c Controls) View() string {
	parts := make([]string, len(c.Buttons))
	for i := range c.Buttons {
		parts[i] = c.renderButton(i)
	}
	return strings.Join(parts, separator)
}

// ButtonAt returns the index of the button under column x of the rendered
// row.
func (c Controls) ButtonAt(x int) (int, bool) {
	col := 0
	for i := range c.Buttons {
		w := lipgloss.Width(c.renderButton(i))
		if x >= col && x < col+w {
			return i, true
		}
		col += w + len(separator)
	}
	return 0, false
}

// Bar is the two-row toolbar for a rich-text state.
type Bar struct {
	Block  Controls
	Inline Controls
}

// ForState builds the toolbar reflecting the selection of s.
func ForState(s richtext.State) Bar {
	return Bar{
		Block:  BlockControls(s.CurrentBlockType()),
		Inline: InlineControls(s.CurrentInlineStyle()),
	}
}

// View renders block controls above inline controls.
func (b Bar) View() string {
	return b.Block.View() + "\n" + b.Inline.View()
}
