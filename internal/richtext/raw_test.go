package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func styledDocument(t *testing.T) State {
	t.Helper()
	s := FromText("Title\nsome bold text\nfirst\nitem")
	s = caret(s, 0, 0).ToggleBlockType(HeaderOne)
	s = selectRange(s, 1, 5, 9).ToggleInlineStyle(Bold)
	s = selectRange(s, 1, 7, 14).ToggleInlineStyle(Italic)
	s = caret(s, 2, 0).ToggleBlockType(OrderedListItem)
	s = caret(s, 3, 0).ToggleBlockType(OrderedListItem)
	s, changed := s.OnTab(false, DefaultMaxDepth)
	require.True(t, changed)
	return s
}

func TestToRaw(t *testing.T) {
	raw := styledDocument(t).ToRaw()
	require.Len(t, raw.Blocks, 4)

	assert.Equal(t, "header-one", raw.Blocks[0].Type)
	assert.Empty(t, raw.Blocks[0].InlineStyleRanges)

	assert.Equal(t, []RawStyleRange{
		{Offset: 5, Length: 4, Style: "BOLD"},
		{Offset: 7, Length: 7, Style: "ITALIC"},
	}, raw.Blocks[1].InlineStyleRanges)

	assert.Equal(t, "ordered-list-item", raw.Blocks[2].Type)
	assert.Equal(t, 0, raw.Blocks[2].Depth)
	assert.Equal(t, "ordered-list-item", raw.Blocks[3].Type)
	assert.Equal(t, 1, raw.Blocks[3].Depth)
	assert.NotNil(t, raw.Blocks[3].EntityRanges)
	assert.NotNil(t, raw.EntityMap)
}

func TestMarshalShape(t *testing.T) {
	data, err := FromText("Hello").Marshal()
	require.NoError(t, err)

	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &generic))
	assert.Contains(t, generic, "blocks")
	assert.Contains(t, generic, "entityMap")

	blocks := generic["blocks"].([]interface{})
	block := blocks[0].(map[string]interface{})
	assert.Equal(t, "Hello", block["text"])
	assert.Equal(t, "unstyled", block["type"])
	assert.Equal(t, []interface{}{}, block["inlineStyleRanges"])
}

func TestMarshalRoundTrip(t *testing.T) {
	orig := styledDocument(t)
	data, err := orig.Marshal()
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, orig.ToRaw(), back.ToRaw())
}

func TestUnmarshalRejectsPlainText(t *testing.T) {
	for _, in := range []string{
		"",
		"Hello",
		"{not json",
		`{"title": "no blocks"}`,
		`{"blocks": null}`,
		`{"blocks": "x"}`,
		`[1, 2]`,
	} {
		_, err := Unmarshal([]byte(in))
		assert.ErrorIs(t, err, ErrNotStructured, in)
	}
}

func TestFromRawClipsRanges(t *testing.T) {
	s := FromRaw(RawDocument{Blocks: []RawBlock{{
		Key:  "a",
		Text: "abc",
		Type: "blockquote",
		InlineStyleRanges: []RawStyleRange{
			{Offset: -1, Length: 2, Style: "BOLD"},
			{Offset: 2, Length: 10, Style: "CODE"},
			{Offset: 0, Length: 3, Style: "STRIKETHROUGH"},
		},
	}}})

	b := s.Blocks()[0]
	assert.Equal(t, Blockquote, b.Type)
	assert.True(t, b.StyleAt(0).Has(Bold))
	assert.False(t, b.StyleAt(1).Has(Bold))
	assert.True(t, b.StyleAt(2).Has(Code))
	assert.Equal(t, []InlineStyle{Bold}, b.StyleAt(0).Styles())
}

func TestFromRawClampsDepth(t *testing.T) {
	s := FromRaw(RawDocument{Blocks: []RawBlock{
		{Key: "a", Text: "deep", Type: "unordered-list-item", Depth: 99},
		{Key: "b", Text: "negative", Type: "ordered-list-item", Depth: -3},
		{Key: "c", Text: "quote", Type: "blockquote", Depth: 2},
		{Key: "d", Text: "unknown", Type: "mystery", Depth: 1},
	}})

	blocks := s.Blocks()
	assert.Equal(t, maxStoredDepth, blocks[0].Depth)
	assert.Equal(t, 0, blocks[1].Depth)
	assert.Equal(t, 0, blocks[2].Depth, "depth resets outside lists")
	assert.Equal(t, Unstyled, blocks[3].Type)
	assert.Equal(t, 0, blocks[3].Depth)
}

func TestFromRawCountsRunes(t *testing.T) {
	s := FromRaw(RawDocument{Blocks: []RawBlock{{
		Text:              "héllo",
		Type:              "unstyled",
		InlineStyleRanges: []RawStyleRange{{Offset: 1, Length: 1, Style: "ITALIC"}},
	}}})
	b := s.Blocks()[0]
	assert.True(t, b.StyleAt(1).Has(Italic))
	assert.NotEmpty(t, b.Key)
}

func TestLoadModes(t *testing.T) {
	structured, err := styledDocument(t).Marshal()
	require.NoError(t, err)

	s, mode, err := Load(string(structured), LoadAuto)
	require.NoError(t, err)
	assert.Equal(t, LoadStructured, mode)
	assert.Equal(t, HeaderOne, s.Blocks()[0].Type)

	s, mode, err = Load("just text", LoadAuto)
	require.NoError(t, err)
	assert.Equal(t, LoadPlain, mode)
	assert.Equal(t, []string{"just text"}, texts(s))

	// Plain mode keeps the encoding as literal text.
	s, mode, err = Load(string(structured), LoadPlain)
	require.NoError(t, err)
	assert.Equal(t, LoadPlain, mode)
	assert.Equal(t, string(structured), s.PlainText())

	_, _, err = Load("just text", LoadStructured)
	assert.ErrorIs(t, err, ErrNotStructured)
}

func TestParseLoadMode(t *testing.T) {
	for _, mode := range []LoadMode{LoadAuto, LoadPlain, LoadStructured} {
		got, err := ParseLoadMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, got)
	}
	_, err := ParseLoadMode("lossy")
	assert.Error(t, err)
}
