package richtext

// Position is a caret location: a block key and a rune offset in it.
type Position struct {
	Key    string
	Offset int
}

// Selection spans from Anchor (where it started) to Focus (where the caret
// is). A collapsed selection is a caret.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Collapsed returns a caret selection at p.
func Collapsed(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

// IsCollapsed reports whether anchor and focus coincide.
func (s Selection) IsCollapsed() bool { return s.Anchor == s.Focus }

// State is an immutable document plus selection.
type State struct {
	blocks    []Block
	selection Selection

	override    StyleSet
	hasOverride bool

	version uint64
}

// Empty returns a document with a single empty unstyled block.
func Empty() State {
	return FromText("")
}

// FromText builds a document of unstyled blocks, one per line, with the
// caret at the start of the first block.
func FromText(text string) State {
	lines := splitLines(text)
	used := make(map[string]bool, len(lines))
	blocks := make([]Block, len(lines))
	for i, line := range lines {
		blocks[i] = NewBlock(newKey(used), Unstyled, line)
	}
	return State{
		blocks:    blocks,
		selection: Collapsed(Position{Key: blocks[0].Key}),
	}
}

// FromBlocks builds a state from blocks. Missing or duplicate keys are
// replaced and unknown types become unstyled. An empty list yields Empty().
func FromBlocks(blocks []Block) State {
	if len(blocks) == 0 {
		return Empty()
	}
	used := make(map[string]bool, len(blocks))
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		b = b.clone()
		if len(b.styles) != len(b.text) {
			b.styles = make([]StyleSet, len(b.text))
		}
		if b.Key == "" || used[b.Key] {
			b.Key = newKey(used)
		}
		used[b.Key] = true
		if !b.Type.Valid() {
			b.Type = Unstyled
		}
		if b.Depth < 0 {
			b.Depth = 0
		}
		out[i] = b
	}
	return State{blocks: out, selection: Collapsed(Position{Key: out[0].Key})}
}

// Blocks returns the document blocks in order.
func (s State) Blocks() []Block {
	return append([]Block(nil), s.blocks...)
}

// BlockCount returns the number of blocks.
func (s State) BlockCount() int { return len(s.blocks) }

// Block returns the block with key.
func (s State) Block(key string) (Block, bool) {
	i := s.index(key)
	if i < 0 {
		return Block{}, false
	}
	return s.blocks[i], true
}

// Selection returns the current selection.
func (s State) Selection() Selection { return s.selection }

// Version increases on every content change; selection moves and style
// overrides do not change it.
func (s State) Version() uint64 { return s.version }

// HasText reports whether any block contains text.
func (s State) HasText() bool {
	for _, b := range s.blocks {
		if b.Len() > 0 {
			return true
		}
	}
	return false
}

// PlainText joins block texts with newlines.
func (s State) PlainText() string {
	n := 0
	for _, b := range s.blocks {
		n += b.Len() + 1
	}
	out := make([]rune, 0, n)
	for i, b := range s.blocks {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, b.text...)
	}
	return string(out)
}

func (s State) index(key string) int {
	for i, b := range s.blocks {
		if b.Key == key {
			return i
		}
	}
	return -1
}

// bounds returns the selection start and end as (block index, offset),
// in document order.
func (s State) bounds() (si, so, ei, eo int) {
	ai, ao := s.index(s.selection.Anchor.Key), s.selection.Anchor.Offset
	fi, fo := s.index(s.selection.Focus.Key), s.selection.Focus.Offset
	if ai < fi || (ai == fi && ao <= fo) {
		return ai, ao, fi, fo
	}
	return fi, fo, ai, ao
}

// IsBackward reports whether the focus precedes the anchor.
func (s State) IsBackward() bool {
	si, so, _, _ := s.bounds()
	return si != s.index(s.selection.Anchor.Key) || so != s.selection.Anchor.Offset
}

// Start returns the selection start in document order.
func (s State) Start() Position {
	si, so, _, _ := s.bounds()
	return Position{Key: s.blocks[si].Key, Offset: so}
}

// End returns the selection end in document order.
func (s State) End() Position {
	_, _, ei, eo := s.bounds()
	return Position{Key: s.blocks[ei].Key, Offset: eo}
}

// clamp fixes p to an existing block and a valid offset.
func (s State) clamp(p Position) Position {
	i := s.index(p.Key)
	if i < 0 {
		return Position{Key: s.blocks[0].Key}
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := s.blocks[i].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// WithSelection moves the selection. Positions are clamped into the
// document and any pending inline style override is dropped.
func (s State) WithSelection(sel Selection) State {
	s.selection = Selection{Anchor: s.clamp(sel.Anchor), Focus: s.clamp(sel.Focus)}
	s.hasOverride = false
	s.override = 0
	return s
}

// CurrentBlockType is the type of the block where the selection starts.
func (s State) CurrentBlockType() BlockType {
	si, _, _, _ := s.bounds()
	return s.blocks[si].Type
}

// CurrentInlineStyle returns the style set that applies at the caret: the
// pending override if any, otherwise the style of the neighbouring text.
func (s State) CurrentInlineStyle() StyleSet {
	if s.hasOverride {
		return s.override
	}
	si, so, _, _ := s.bounds()
	b := s.blocks[si]
	if s.selection.IsCollapsed() {
		if so > 0 {
			return b.StyleAt(so - 1)
		}
		if b.Len() > 0 {
			return b.StyleAt(0)
		}
		return s.styleBefore(si)
	}
	if so < b.Len() {
		return b.StyleAt(so)
	}
	if so > 0 {
		return b.StyleAt(so - 1)
	}
	return s.styleBefore(si)
}

// styleBefore returns the style of the last character before block i.
func (s State) styleBefore(i int) StyleSet {
	for j := i - 1; j >= 0; j-- {
		if n := s.blocks[j].Len(); n > 0 {
			return s.blocks[j].StyleAt(n - 1)
		}
	}
	return 0
}

// InlineStyleOverride returns the pending style for the next insertion.
func (s State) InlineStyleOverride() (StyleSet, bool) {
	return s.override, s.hasOverride
}

// mutate returns a copy of s with deep-copied blocks, ready for edits.
func (s State) mutate() State {
	blocks := make([]Block, len(s.blocks))
	for i, b := range s.blocks {
		blocks[i] = b.clone()
	}
	s.blocks = blocks
	s.version++
	s.hasOverride = false
	s.override = 0
	return s
}
