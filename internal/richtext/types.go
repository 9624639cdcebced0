// Package richtext is a block-structured rich-text document model.
//
// A document is an ordered list of blocks. Each block has a type (paragraph,
// heading, list item, ...), a nesting depth and a run of characters, each
// carrying a set of inline styles. A State pairs a document with a selection
// and is immutable: every operation returns a new State. Obtain one from
// Empty, FromText, FromBlocks or Load; the zero State has no blocks.
package richtext

// BlockType is the structural role of a block.
type BlockType string

const (
	Unstyled          BlockType = "unstyled"
	HeaderOne         BlockType = "header-one"
	HeaderTwo         BlockType = "header-two"
	HeaderThree       BlockType = "header-three"
	HeaderFour        BlockType = "header-four"
	HeaderFive        BlockType = "header-five"
	HeaderSix         BlockType = "header-six"
	Blockquote        BlockType = "blockquote"
	UnorderedListItem BlockType = "unordered-list-item"
	OrderedListItem   BlockType = "ordered-list-item"
	CodeBlock         BlockType = "code-block"
)

var knownBlockTypes = map[BlockType]bool{
	Unstyled: true, HeaderOne: true, HeaderTwo: true, HeaderThree: true,
	HeaderFour: true, HeaderFive: true, HeaderSix: true, Blockquote: true,
	UnorderedListItem: true, OrderedListItem: true, CodeBlock: true,
}

// Valid reports whether t is a known block type.
func (t BlockType) Valid() bool { return knownBlockTypes[t] }

// IsList reports whether t is a list item type.
func (t BlockType) IsList() bool {
	return t == UnorderedListItem || t == OrderedListItem
}

// IsHeader reports whether t is one of the six heading levels.
func (t BlockType) IsHeader() bool {
	switch t {
	case HeaderOne, HeaderTwo, HeaderThree, HeaderFour, HeaderFive, HeaderSix:
		return true
	}
	return false
}

// HeaderLevel returns 1-6 for headings and 0 otherwise.
func (t BlockType) HeaderLevel() int {
	switch t {
	case HeaderOne:
		return 1
	case HeaderTwo:
		return 2
	case HeaderThree:
		return 3
	case HeaderFour:
		return 4
	case HeaderFive:
		return 5
	case HeaderSix:
		return 6
	}
	return 0
}

// InlineStyle is a character formatting attribute.
type InlineStyle string

const (
	Bold      InlineStyle = "BOLD"
	Italic    InlineStyle = "ITALIC"
	Underline InlineStyle = "UNDERLINE"
	Code      InlineStyle = "CODE"
)

// AllInlineStyles lists the supported styles in encoding order.
var AllInlineStyles = []InlineStyle{Bold, Italic, Underline, Code}

// StyleSet is a set of inline styles.
type StyleSet uint8

func styleBit(s InlineStyle) StyleSet {
	switch s {
	case Bold:
		return 1 << 0
	case Italic:
		return 1 << 1
	case Underline:
		return 1 << 2
	case Code:
		return 1 << 3
	}
	return 0
}

// NewStyleSet builds a set from styles; unknown styles are ignored.
func NewStyleSet(styles ...InlineStyle) StyleSet {
	var s StyleSet
	for _, st := range styles {
		s |= styleBit(st)
	}
	return s
}

// Has reports whether st is in the set.
func (s StyleSet) Has(st InlineStyle) bool {
	bit := styleBit(st)
	return bit != 0 && s&bit != 0
}

func (s StyleSet) Add(st InlineStyle) StyleSet    { return s | styleBit(st) }
func (s StyleSet) Remove(st InlineStyle) StyleSet { return s &^ styleBit(st) }

// Toggle adds st if absent and removes it if present.
func (s StyleSet) Toggle(st InlineStyle) StyleSet {
	if s.Has(st) {
		return s.Remove(st)
	}
	return s.Add(st)
}

func (s StyleSet) IsEmpty() bool { return s == 0 }

// Styles returns the members in encoding order.
func (s StyleSet) Styles() []InlineStyle {
	var out []InlineStyle
	for _, st := range AllInlineStyles {
		if s.Has(st) {
			out = append(out, st)
		}
	}
	return out
}
