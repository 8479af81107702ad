package rendering

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/class-reporter/internal/types"
)

func TestWorkspaceEmitter_BlockTypes(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindHeading2, Spans: []types.StyledSpan{{Text: "title"}}},
		{Kind: types.KindParagraph, Spans: []types.StyledSpan{{Text: "body"}}},
		{Kind: types.KindBulletedItem, Spans: []types.StyledSpan{{Text: "item"}}},
		{Kind: types.KindNumberedItem, Spans: []types.StyledSpan{{Text: "step"}}, ListIndex: 1},
		{Kind: types.KindQuote, Spans: []types.StyledSpan{{Text: "wisdom"}}},
		{Kind: types.KindDivider},
	}}

	blocks := NewWorkspaceEmitter().Blocks(doc)
	require.Len(t, blocks, 6)

	wantTypes := []string{"heading_2", "paragraph", "bulleted_list_item", "numbered_list_item", "quote", "divider"}
	for i, want := range wantTypes {
		assert.Equal(t, "block", blocks[i]["object"])
		assert.Equal(t, want, blocks[i]["type"], "block %d", i)
	}

	// Divider carries no rich text children.
	divider, ok := blocks[5]["divider"].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, divider)
}

func TestWorkspaceEmitter_RichTextAnnotations(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindParagraph, Spans: []types.StyledSpan{
			{Text: "plain "},
			{Text: "strong", Bold: true},
			{Text: "both", Bold: true, Italic: true},
			{Text: "site", LinkURL: "https://example.com"},
		}},
	}}

	payload, err := NewWorkspaceEmitter().Emit(doc)
	require.NoError(t, err)

	var blocks []struct {
		Paragraph struct {
			RichText []RichText `json:"rich_text"`
		} `json:"paragraph"`
	}
	require.NoError(t, json.Unmarshal(payload, &blocks))
	require.Len(t, blocks, 1)

	rt := blocks[0].Paragraph.RichText
	require.Len(t, rt, 4)

	assert.Equal(t, "plain ", rt[0].Text.Content)
	assert.Nil(t, rt[0].Annotations)

	require.NotNil(t, rt[1].Annotations)
	assert.True(t, rt[1].Annotations.Bold)
	assert.False(t, rt[1].Annotations.Italic)

	require.NotNil(t, rt[2].Annotations)
	assert.True(t, rt[2].Annotations.Bold)
	assert.True(t, rt[2].Annotations.Italic)

	require.NotNil(t, rt[3].Text.Link)
	assert.Equal(t, "https://example.com", rt[3].Text.Link.URL)
}

func TestWorkspaceEmitter_PreservesEmbeddedLineBreaks(t *testing.T) {
	doc := types.Document{Blocks: []types.Block{
		{Kind: types.KindParagraph, Spans: []types.StyledSpan{{Text: "a\nb"}}},
	}}

	blocks := NewWorkspaceEmitter().Blocks(doc)
	para := blocks[0]["paragraph"].(map[string]any)
	rt := para["rich_text"].([]RichText)
	require.Len(t, rt, 1)
	assert.Equal(t, "a\nb", rt[0].Text.Content)
}

func TestImageBlock(t *testing.T) {
	block := ImageBlock("https://example.com/photo.jpg", "class photo")
	assert.Equal(t, "image", block["type"])
	image := block["image"].(map[string]any)
	assert.Equal(t, "external", image["type"])
	assert.Equal(t, "https://example.com/photo.jpg", image["external"].(map[string]any)["url"])
}

func TestForDestination(t *testing.T) {
	e, err := ForDestination(types.DestinationWorkspace)
	require.NoError(t, err)
	assert.Equal(t, types.DestinationWorkspace, e.Destination())

	e, err = ForDestination(types.DestinationStaticPage)
	require.NoError(t, err)
	assert.Equal(t, types.DestinationStaticPage, e.Destination())

	_, err = ForDestination(types.Destination("carrier-pigeon"))
	assert.Error(t, err)
}
