package richtext

import (
	"strings"

	"github.com/google/uuid"
)

// Block is one paragraph-level unit of a document.
type Block struct {
	Key   string
	Type  BlockType
	Depth int

	text   []rune
	styles []StyleSet // one entry per rune
}

// NewBlock creates an unstyled-character block.
func NewBlock(key string, typ BlockType, text string) Block {
	r := []rune(text)
	return Block{Key: key, Type: typ, text: r, styles: make([]StyleSet, len(r))}
}

// Text returns the block's text.
func (b Block) Text() string { return string(b.text) }

// Len returns the block length in runes.
func (b Block) Len() int { return len(b.text) }

// StyleAt returns the style of the character at offset i.
func (b Block) StyleAt(i int) StyleSet {
	if i < 0 || i >= len(b.styles) {
		return 0
	}
	return b.styles[i]
}

// HasInlineStyles reports whether any character carries a style.
func (b Block) HasInlineStyles() bool {
	for _, s := range b.styles {
		if s != 0 {
			return true
		}
	}
	return false
}

// Run is a maximal stretch of characters sharing one style set.
type Run struct {
	Text  string
	Style StyleSet
	Start int
}

// Runs splits the block into style runs.
func (b Block) Runs() []Run {
	var runs []Run
	start := 0
	for i := 1; i <= len(b.text); i++ {
		if i == len(b.text) || b.styles[i] != b.styles[start] {
			runs = append(runs, Run{Text: string(b.text[start:i]), Style: b.styles[start], Start: start})
			start = i
		}
	}
	return runs
}

func (b Block) clone() Block {
	b.text = append([]rune(nil), b.text...)
	b.styles = append([]StyleSet(nil), b.styles...)
	return b
}

// splitLines splits text on \r\n, \r and \n.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// newKey returns a short key not present in used.
func newKey(used map[string]bool) string {
	for {
		k := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
		if !used[k] {
			used[k] = true
			return k
		}
	}
}

func keySet(blocks []Block) map[string]bool {
	used := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		used[b.Key] = true
	}
	return used
}
