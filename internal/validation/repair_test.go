package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/class-reporter/internal/types"
)

func limitsFor(spanLen, spansPerBlock, blocks int) types.Limits {
	return types.Limits{
		MaxSpanTextLen:   spanLen,
		MaxSpansPerBlock: spansPerBlock,
		MaxBlocks:        blocks,
	}
}

func paragraph(spans ...types.StyledSpan) types.Block {
	return types.Block{Kind: types.KindParagraph, Spans: spans}
}

func TestRepair_InvalidLimits(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{paragraph(types.StyledSpan{Text: "x"})}}

	_, _, err := Repair(doc, limitsFor(0, 10, 10))
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	_, _, err = Repair(doc, limitsFor(10, -1, 10))
	assert.Error(t, err)
}

func TestRepair_CleanDocumentUntouched(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindHeading2, Spans: []types.StyledSpan{{Text: "title"}}},
		paragraph(types.StyledSpan{Text: "hello"}, types.StyledSpan{Text: "bold", Bold: true}),
		{Kind: types.KindDivider},
	}}

	repaired, issues, err := Repair(doc, types.DefaultLimits())
	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, doc.Blocks, repaired.Blocks)
}

func TestRepair_AtomicTokenSplit(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		paragraph(types.StyledSpan{Text: "abcdefghij"}),
	}}

	repaired, issues, err := Repair(doc, limitsFor(5, 10, 10))
	require.NoError(t, err)

	require.Len(t, repaired.Blocks, 1)
	spans := repaired.Blocks[0].Spans
	require.Len(t, spans, 2)
	assert.Equal(t, "abcde", spans[0].Text)
	assert.Equal(t, "fghij", spans[1].Text)
	assert.False(t, spans[0].Bold)
	assert.False(t, spans[1].Bold)

	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].BlockIndex)
	assert.Equal(t, types.ActionSplit, issues[0].Action)
	// A mid-word cut is escalated so callers can reject the document.
	assert.Equal(t, types.ReasonUnsupportedNesting, issues[0].Reason)
}

func TestRepair_WordBoundarySplit(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		paragraph(types.StyledSpan{Text: "hello world", Bold: true}),
	}}

	repaired, issues, err := Repair(doc, limitsFor(8, 10, 10))
	require.NoError(t, err)

	spans := repaired.Blocks[0].Spans
	require.Len(t, spans, 2)
	assert.Equal(t, "hello ", spans[0].Text)
	assert.Equal(t, "world", spans[1].Text)
	assert.True(t, spans[0].Bold)
	assert.True(t, spans[1].Bold, "split pieces carry identical styling")

	require.Len(t, issues, 1)
	assert.Equal(t, types.ReasonTextTooLong, issues[0].Reason)
	assert.Equal(t, types.ActionSplit, issues[0].Action)
}

func TestRepair_RecursiveSplit(t *testing.T) {
	text := strings.Repeat("word ", 10) // 50 runes
	doc := types.Document{Blocks: []types.Block{
		paragraph(types.StyledSpan{Text: text}),
	}}

	repaired, issues, err := Repair(doc, limitsFor(12, 100, 10))
	require.NoError(t, err)

	var rebuilt string
	for _, span := range repaired.Blocks[0].Spans {
		assert.LessOrEqual(t, len([]rune(span.Text)), 12)
		rebuilt += span.Text
	}
	assert.Equal(t, text, rebuilt, "no content lost across splits")
	assert.Equal(t, len(repaired.Blocks[0].Spans)-1, len(issues), "one issue per split performed")
}

func TestRepair_TooManySpansMergesFirst(t *testing.T) {
	// Four spans, but the middle two share styling and merge within the
	// length cap, bringing the block under the limit for free.
	doc := types.Document{Blocks: []types.Block{
		paragraph(
			types.StyledSpan{Text: "a", Bold: true},
			types.StyledSpan{Text: "b"},
			types.StyledSpan{Text: "c"},
			types.StyledSpan{Text: "d", Italic: true},
		),
	}}

	repaired, issues, err := Repair(doc, limitsFor(100, 3, 10))
	require.NoError(t, err)
	require.Len(t, repaired.Blocks[0].Spans, 3)
	assert.Equal(t, "bc", repaired.Blocks[0].Spans[1].Text)
	assert.Empty(t, issues)
}

func TestRepair_TooManySpansDropsTrailing(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		paragraph(
			types.StyledSpan{Text: "a", Bold: true},
			types.StyledSpan{Text: "b", Italic: true},
			types.StyledSpan{Text: "c", Bold: true},
		),
	}}

	repaired, issues, err := Repair(doc, limitsFor(100, 2, 10))
	require.NoError(t, err)

	spans := repaired.Blocks[0].Spans
	require.Len(t, spans, 2)
	assert.Equal(t, "a", spans[0].Text)
	assert.Equal(t, "b", spans[1].Text)

	require.Len(t, issues, 1)
	assert.Equal(t, types.ReasonTooManySpans, issues[0].Reason)
	assert.Equal(t, types.ActionDropped, issues[0].Action)
}

func TestRepair_DocumentTruncation(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		paragraph(types.StyledSpan{Text: "one"}),
		paragraph(types.StyledSpan{Text: "two"}),
		paragraph(types.StyledSpan{Text: "three"}),
	}}

	repaired, issues, err := Repair(doc, limitsFor(100, 10, 2))
	require.NoError(t, err)

	require.Len(t, repaired.Blocks, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].BlockIndex)
	assert.Equal(t, types.ReasonUnsupportedNesting, issues[0].Reason)
	assert.Equal(t, types.ActionTruncated, issues[0].Action)
}

func TestRepair_EmptyBlocksDropped(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindHeading2},
		paragraph(types.StyledSpan{Text: "kept"}),
		{Kind: types.KindParagraph, Spans: []types.StyledSpan{{Text: ""}}},
	}}

	repaired, issues, err := Repair(doc, types.DefaultLimits())
	require.NoError(t, err)
	assert.Empty(t, issues, "empty blocks carry no content, so no issue")
	require.Len(t, repaired.Blocks, 1)
	assert.Equal(t, "kept", repaired.Blocks[0].Spans[0].Text)
}

func TestRepair_DividerSurvivesSpanLimits(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindDivider},
		paragraph(types.StyledSpan{Text: "text"}),
	}}

	repaired, issues, err := Repair(doc, limitsFor(100, 1, 10))
	require.NoError(t, err)
	assert.Empty(t, issues)
	require.Len(t, repaired.Blocks, 2)
	assert.Equal(t, types.KindDivider, repaired.Blocks[0].Kind)
	assert.Empty(t, repaired.Blocks[0].Spans)
}

func TestRepair_Idempotent(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindHeading2, Spans: []types.StyledSpan{{Text: "a long heading here"}}},
		paragraph(types.StyledSpan{Text: strings.Repeat("word ", 20)}),
		{Kind: types.KindDivider},
		paragraph(
			types.StyledSpan{Text: "a", Bold: true},
			types.StyledSpan{Text: "b"},
			types.StyledSpan{Text: "c", Italic: true},
			types.StyledSpan{Text: "d"},
		),
	}}
	limits := limitsFor(10, 3, 3)

	once, onceIssues, err := Repair(doc, limits)
	require.NoError(t, err)
	assert.NotEmpty(t, onceIssues)

	twice, twiceIssues, err := Repair(once, limits)
	require.NoError(t, err)
	assert.Empty(t, twiceIssues, "repairing a repaired document reports nothing")
	assert.Equal(t, once.Blocks, twice.Blocks)
}
