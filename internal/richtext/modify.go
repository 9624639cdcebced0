package richtext

import "unicode"

// DefaultMaxDepth is the list nesting limit used by the editors.
const DefaultMaxDepth = 4

// ToggleBlockType sets every selected block to t, or back to unstyled when
// the block at the selection start already has type t.
func (s State) ToggleBlockType(t BlockType) State {
	if !t.Valid() {
		return s
	}
	target := t
	if s.CurrentBlockType() == t {
		target = Unstyled
	}
	return s.setBlockType(target)
}

func (s State) setBlockType(t BlockType) State {
	si, _, ei, _ := s.bounds()
	s = s.mutate()
	for i := si; i <= ei; i++ {
		s.blocks[i].Type = t
		if !t.IsList() {
			s.blocks[i].Depth = 0
		}
	}
	return s
}

// ToggleInlineStyle toggles st. With a caret it flips the pending style for
// the next insertion; with a range it removes st from the range when the
// current style has it and applies it otherwise.
func (s State) ToggleInlineStyle(st InlineStyle) State {
	if styleBit(st) == 0 {
		return s
	}
	current := s.CurrentInlineStyle()
	if s.selection.IsCollapsed() {
		s.override = current.Toggle(st)
		s.hasOverride = true
		return s
	}
	remove := current.Has(st)
	si, so, ei, eo := s.bounds()
	s = s.mutate()
	for i := si; i <= ei; i++ {
		b := &s.blocks[i]
		from, to := 0, b.Len()
		if i == si {
			from = so
		}
		if i == ei {
			to = eo
		}
		for j := from; j < to; j++ {
			if remove {
				b.styles[j] = b.styles[j].Remove(st)
			} else {
				b.styles[j] = b.styles[j].Add(st)
			}
		}
	}
	return s
}

// removeRange deletes the selected range and collapses the caret at its
// start. The start block keeps its type and depth.
func (s State) removeRange() State {
	if s.selection.IsCollapsed() {
		return s
	}
	si, so, ei, eo := s.bounds()
	s = s.mutate()
	start, end := s.blocks[si], s.blocks[ei]
	start.text = append(start.text[:so:so], end.text[eo:]...)
	start.styles = append(start.styles[:so:so], end.styles[eo:]...)
	blocks := append(s.blocks[:si:si], start)
	s.blocks = append(blocks, s.blocks[ei+1:]...)
	s.selection = Collapsed(Position{Key: start.Key, Offset: so})
	return s
}

// InsertText replaces the selection with text using the current inline
// style. Newlines split blocks.
func (s State) InsertText(text string) State {
	if text == "" {
		return s
	}
	style := s.CurrentInlineStyle()
	s = s.removeRange()
	lines := splitLines(text)
	for i, line := range lines {
		if i > 0 {
			s = s.splitBlock()
		}
		s = s.insertRunes([]rune(line), style)
	}
	return s
}

func (s State) insertRunes(r []rune, style StyleSet) State {
	if len(r) == 0 {
		return s
	}
	i := s.index(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	s = s.mutate()
	b := &s.blocks[i]
	styles := make([]StyleSet, len(r))
	for j := range styles {
		styles[j] = style
	}
	b.text = append(b.text[:off:off], append(r, b.text[off:]...)...)
	b.styles = append(b.styles[:off:off], append(styles, b.styles[off:]...)...)
	s.selection = Collapsed(Position{Key: b.Key, Offset: off + len(r)})
	return s
}

// SplitBlock replaces the selection with a block break. An empty styled
// block is reset to unstyled instead of being split.
func (s State) SplitBlock() State {
	s = s.removeRange()
	i := s.index(s.selection.Focus.Key)
	b := s.blocks[i]
	if b.Len() == 0 && b.Type != Unstyled {
		return s.setBlockType(Unstyled)
	}
	return s.splitBlock()
}

func (s State) splitBlock() State {
	i := s.index(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	s = s.mutate()
	above := s.blocks[i]
	below := Block{
		Key:    newKey(keySet(s.blocks)),
		Type:   above.Type,
		Depth:  above.Depth,
		text:   append([]rune(nil), above.text[off:]...),
		styles: append([]StyleSet(nil), above.styles[off:]...),
	}
	if below.Type.IsHeader() {
		below.Type = Unstyled
		below.Depth = 0
	}
	above.text = above.text[:off]
	above.styles = above.styles[:off]
	s.blocks[i] = above

	blocks := make([]Block, 0, len(s.blocks)+1)
	blocks = append(blocks, s.blocks[:i+1]...)
	blocks = append(blocks, below)
	s.blocks = append(blocks, s.blocks[i+1:]...)
	s.selection = Collapsed(Position{Key: below.Key})
	return s
}

// Backspace deletes backwards. At the start of a styled block it resets
// the block to unstyled instead, except inside a run of code blocks.
func (s State) Backspace() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	i := s.index(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	if off > 0 {
		return s.deleteBefore(1)
	}
	b := s.blocks[i]
	if b.Type != Unstyled {
		codeRun := b.Type == CodeBlock && i > 0 &&
			s.blocks[i-1].Type == CodeBlock && s.blocks[i-1].Len() > 0
		if !codeRun {
			return s.setBlockType(Unstyled)
		}
	}
	if i == 0 {
		return s
	}
	return s.mergeWithPrevious(i)
}

// BackspaceWord deletes back to the start of the previous word.
func (s State) BackspaceWord() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	off := s.selection.Focus.Offset
	if off == 0 {
		return s.Backspace()
	}
	b, _ := s.Block(s.selection.Focus.Key)
	return s.deleteBefore(off - wordStartBefore(b.text, off))
}

// BackspaceToStartOfLine deletes back to the start of the block.
func (s State) BackspaceToStartOfLine() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	off := s.selection.Focus.Offset
	if off == 0 {
		return s.Backspace()
	}
	return s.deleteBefore(off)
}

// Delete deletes forwards, joining the next block at the end of a block.
func (s State) Delete() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	i := s.index(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	if off < s.blocks[i].Len() {
		return s.deleteAfter(1)
	}
	if i == len(s.blocks)-1 {
		return s
	}
	return s.mergeWithPrevious(i + 1)
}

// DeleteWord deletes forward to the end of the next word.
func (s State) DeleteWord() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	b, _ := s.Block(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	if off == b.Len() {
		return s.Delete()
	}
	return s.deleteAfter(wordEndAfter(b.text, off) - off)
}

// DeleteToEndOfBlock deletes from the caret to the end of the block.
func (s State) DeleteToEndOfBlock() State {
	if !s.selection.IsCollapsed() {
		return s.removeRange()
	}
	b, _ := s.Block(s.selection.Focus.Key)
	off := s.selection.Focus.Offset
	if off == b.Len() {
		return s.Delete()
	}
	return s.deleteAfter(b.Len() - off)
}

func (s State) deleteBefore(n int) State {
	key, off := s.selection.Focus.Key, s.selection.Focus.Offset
	s.selection = Selection{Anchor: Position{Key: key, Offset: off - n}, Focus: Position{Key: key, Offset: off}}
	return s.removeRange()
}

func (s State) deleteAfter(n int) State {
	key, off := s.selection.Focus.Key, s.selection.Focus.Offset
	s.selection = Selection{Anchor: Position{Key: key, Offset: off}, Focus: Position{Key: key, Offset: off + n}}
	return s.removeRange()
}

// mergeWithPrevious appends block i to block i-1.
func (s State) mergeWithPrevious(i int) State {
	prev := s.blocks[i-1]
	s.selection = Selection{
		Anchor: Position{Key: prev.Key, Offset: prev.Len()},
		Focus:  Position{Key: s.blocks[i].Key},
	}
	return s.removeRange()
}

// OnTab changes the nesting depth of the list item holding the caret by one
// level, deeper unless shift is set. An item only nests under a list item
// right before it and at most one level below that item, never past
// maxDepth. Selections that span blocks, non-list blocks and list items
// with no list item before them are left unchanged. The second result
// reports whether the document changed.
func (s State) OnTab(shift bool, maxDepth int) (State, bool) {
	if s.selection.Anchor.Key != s.selection.Focus.Key {
		return s, false
	}
	i := s.index(s.selection.Anchor.Key)
	b := s.blocks[i]
	if !b.Type.IsList() || i == 0 || !s.blocks[i-1].Type.IsList() {
		return s, false
	}
	maxDepth = min(s.blocks[i-1].Depth+1, maxDepth)
	depth := b.Depth + 1
	if shift {
		depth = b.Depth - 1
	}
	depth = max(0, min(depth, maxDepth))
	if depth == b.Depth {
		return s, false
	}
	s = s.mutate()
	s.blocks[i].Depth = depth
	return s, true
}

// Movement. extend keeps the anchor in place to grow the selection.

func (s State) moveTo(p Position, extend bool) State {
	if extend {
		return s.WithSelection(Selection{Anchor: s.selection.Anchor, Focus: p})
	}
	return s.WithSelection(Collapsed(p))
}

// MoveLeft moves the caret one character back, across block boundaries.
func (s State) MoveLeft(extend bool) State {
	if !extend && !s.selection.IsCollapsed() {
		return s.WithSelection(Collapsed(s.Start()))
	}
	f := s.selection.Focus
	if f.Offset > 0 {
		return s.moveTo(Position{Key: f.Key, Offset: f.Offset - 1}, extend)
	}
	if i := s.index(f.Key); i > 0 {
		prev := s.blocks[i-1]
		return s.moveTo(Position{Key: prev.Key, Offset: prev.Len()}, extend)
	}
	return s.moveTo(f, extend)
}

// MoveRight moves the caret one character forward, across block boundaries.
func (s State) MoveRight(extend bool) State {
	if !extend && !s.selection.IsCollapsed() {
		return s.WithSelection(Collapsed(s.End()))
	}
	f := s.selection.Focus
	i := s.index(f.Key)
	if f.Offset < s.blocks[i].Len() {
		return s.moveTo(Position{Key: f.Key, Offset: f.Offset + 1}, extend)
	}
	if i < len(s.blocks)-1 {
		return s.moveTo(Position{Key: s.blocks[i+1].Key}, extend)
	}
	return s.moveTo(f, extend)
}

// MoveUp moves the caret to the previous block, keeping the column.
func (s State) MoveUp(extend bool) State {
	f := s.selection.Focus
	i := s.index(f.Key)
	if i == 0 {
		return s.moveTo(Position{Key: f.Key}, extend)
	}
	return s.moveTo(Position{Key: s.blocks[i-1].Key, Offset: f.Offset}, extend)
}

// MoveDown moves the caret to the next block, keeping the column.
func (s State) MoveDown(extend bool) State {
	f := s.selection.Focus
	i := s.index(f.Key)
	if i == len(s.blocks)-1 {
		return s.moveTo(Position{Key: f.Key, Offset: s.blocks[i].Len()}, extend)
	}
	return s.moveTo(Position{Key: s.blocks[i+1].Key, Offset: f.Offset}, extend)
}

// MoveHome moves the caret to the start of its block.
func (s State) MoveHome(extend bool) State {
	return s.moveTo(Position{Key: s.selection.Focus.Key}, extend)
}

// MoveEnd moves the caret to the end of its block.
func (s State) MoveEnd(extend bool) State {
	b, _ := s.Block(s.selection.Focus.Key)
	return s.moveTo(Position{Key: b.Key, Offset: b.Len()}, extend)
}

// SelectAll selects the whole document.
func (s State) SelectAll() State {
	last := s.blocks[len(s.blocks)-1]
	return s.WithSelection(Selection{
		Anchor: Position{Key: s.blocks[0].Key},
		Focus:  Position{Key: last.Key, Offset: last.Len()},
	})
}

func wordStartBefore(text []rune, off int) int {
	i := off
	for i > 0 && unicode.IsSpace(text[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(text[i-1]) {
		i--
	}
	return i
}

func wordEndAfter(text []rune, off int) int {
	i := off
	for i < len(text) && unicode.IsSpace(text[i]) {
		i++
	}
	for i < len(text) && !unicode.IsSpace(text[i]) {
		i++
	}
	return i
}
