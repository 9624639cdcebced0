package richtext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotStructured is returned when content is not a raw document.
var ErrNotStructured = errors.New("content is not a structured rich-text document")

// RawDocument is the structured textual encoding of a document.
type RawDocument struct {
	Blocks    []RawBlock             `json:"blocks"`
	EntityMap map[string]interface{} `json:"entityMap"`
}

// RawBlock is the encoding of one block. Offsets and lengths count runes.
type RawBlock struct {
	Key               string                 `json:"key"`
	Text              string                 `json:"text"`
	Type              string                 `json:"type"`
	Depth             int                    `json:"depth"`
	InlineStyleRanges []RawStyleRange        `json:"inlineStyleRanges"`
	EntityRanges      []RawEntityRange       `json:"entityRanges"`
	Data              map[string]interface{} `json:"data"`
}

// RawStyleRange marks Length characters from Offset with Style.
type RawStyleRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Style  string `json:"style"`
}

// RawEntityRange is kept for format compatibility; entities are not
// modelled and are dropped on decode.
type RawEntityRange struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	Key    int `json:"key"`
}

// ToRaw encodes the document.
func (s State) ToRaw() RawDocument {
	doc := RawDocument{
		Blocks:    make([]RawBlock, len(s.blocks)),
		EntityMap: map[string]interface{}{},
	}
	for i, b := range s.blocks {
		doc.Blocks[i] = RawBlock{
			Key:               b.Key,
			Text:              b.Text(),
			Type:              string(b.Type),
			Depth:             b.Depth,
			InlineStyleRanges: styleRanges(b),
			EntityRanges:      []RawEntityRange{},
			Data:              map[string]interface{}{},
		}
	}
	return doc
}

// styleRanges returns one range per maximal run of each style, grouped by
// style in encoding order.
func styleRanges(b Block) []RawStyleRange {
	ranges := []RawStyleRange{}
	for _, st := range AllInlineStyles {
		start := -1
		for i := 0; i <= b.Len(); i++ {
			has := i < b.Len() && b.styles[i].Has(st)
			switch {
			case has && start < 0:
				start = i
			case !has && start >= 0:
				ranges = append(ranges, RawStyleRange{Offset: start, Length: i - start, Style: string(st)})
				start = -1
			}
		}
	}
	return ranges
}

// Marshal serializes the document to its structured encoding.
func (s State) Marshal() ([]byte, error) {
	data, err := json.Marshal(s.ToRaw())
	if err != nil {
		return nil, fmt.Errorf("could not encode document: %w", err)
	}
	return data, nil
}

// maxStoredDepth is the deepest nesting any configured editor produces.
const maxStoredDepth = 8

// FromRaw decodes a raw document. Unknown block types become unstyled,
// unknown styles are ignored and ranges are clipped to the block text.
// Depth is kept for list items only, within [0, maxStoredDepth].
func FromRaw(doc RawDocument) State {
	blocks := make([]Block, len(doc.Blocks))
	for i, rb := range doc.Blocks {
		b := NewBlock(rb.Key, BlockType(rb.Type), rb.Text)
		if b.Type.IsList() {
			b.Depth = max(0, min(rb.Depth, maxStoredDepth))
		}
		for _, r := range rb.InlineStyleRanges {
			bit := styleBit(InlineStyle(r.Style))
			if bit == 0 {
				continue
			}
			from, to := r.Offset, r.Offset+r.Length
			if from < 0 {
				from = 0
			}
			if to > b.Len() {
				to = b.Len()
			}
			for j := from; j < to; j++ {
				b.styles[j] |= bit
			}
		}
		blocks[i] = b
	}
	return FromBlocks(blocks)
}

// Unmarshal parses the structured encoding. Content that is not a JSON
// object with a "blocks" array returns ErrNotStructured.
func Unmarshal(data []byte) (State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return State{}, ErrNotStructured
	}
	var probe struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrNotStructured, err)
	}
	if len(probe.Blocks) == 0 || probe.Blocks[0] != '[' {
		return State{}, fmt.Errorf("%w: missing blocks array", ErrNotStructured)
	}
	var doc RawDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrNotStructured, err)
	}
	return FromRaw(doc), nil
}

// LoadMode selects how text content becomes a document.
type LoadMode int

const (
	// LoadAuto treats content as structured when it parses as such and as
	// plain text otherwise.
	LoadAuto LoadMode = iota
	// LoadPlain always treats content as unstyled plain text.
	LoadPlain
	// LoadStructured requires the structured encoding.
	LoadStructured
)

// Load builds a document from file content according to mode. The returned
// mode is the one actually used.
func Load(content string, mode LoadMode) (State, LoadMode, error) {
	switch mode {
	case LoadPlain:
		return FromText(content), LoadPlain, nil
	case LoadStructured:
		s, err := Unmarshal([]byte(content))
		if err != nil {
			return State{}, LoadStructured, err
		}
		return s, LoadStructured, nil
	default:
		if s, err := Unmarshal([]byte(content)); err == nil {
			return s, LoadStructured, nil
		}
		return FromText(content), LoadPlain, nil
	}
}

func (m LoadMode) String() string {
	switch m {
	case LoadPlain:
		return "plain"
	case LoadStructured:
		return "structured"
	default:
		return "auto"
	}
}

// ParseLoadMode maps a configuration value to a LoadMode.
func ParseLoadMode(s string) (LoadMode, error) {
	switch s {
	case "", "auto":
		return LoadAuto, nil
	case "plain":
		return LoadPlain, nil
	case "structured":
		return LoadStructured, nil
	}
	return LoadAuto, fmt.Errorf("unknown load mode %q", s)
}
