package rendering

import (
	"encoding/json"

	"github.com/jonathan/class-reporter/internal/types"
)

// RichText is one rich-text segment in the workspace API's native shape.
type RichText struct {
	Type        string       `json:"type"`
	Text        TextContent  `json:"text"`
	Annotations *Annotations `json:"annotations,omitempty"`
}

// TextContent holds the segment text and optional link target.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is a rich-text link target.
type Link struct {
	URL string `json:"url"`
}

// Annotations carries the style flags the workspace API understands.
type Annotations struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// WorkspaceEmitter renders documents as the workspace API's JSON block
// list: one native block per Block, one rich-text segment per StyledSpan,
// order preserved.
type WorkspaceEmitter struct{}

// NewWorkspaceEmitter creates a workspace emitter.
func NewWorkspaceEmitter() *WorkspaceEmitter {
	return &WorkspaceEmitter{}
}

// Destination identifies the publish target this emitter serves.
func (e *WorkspaceEmitter) Destination() types.Destination {
	return types.DestinationWorkspace
}

// ContentType returns the MIME type of the emitted payload.
func (e *WorkspaceEmitter) ContentType() string {
	return "application/json"
}

// Emit marshals the block list to JSON.
func (e *WorkspaceEmitter) Emit(doc types.Document) ([]byte, error) {
	return json.Marshal(e.Blocks(doc))
}

// Blocks converts the document into workspace block objects. Block kinds
// map one-to-one onto the API's block-type identifiers; a divider maps to
// the native divider type with no children.
func (e *WorkspaceEmitter) Blocks(doc types.Document) []map[string]any {
	blocks := make([]map[string]any, 0, len(doc.Blocks))
	for _, block := range doc.Blocks {
		if block.Kind == types.KindDivider {
			blocks = append(blocks, DividerBlock())
			continue
		}
		blocks = append(blocks, BlockOf(string(block.Kind), Spans(block.Spans)))
	}
	return blocks
}

// Spans converts styled spans into workspace rich-text segments, one per
// span, order preserved. Line breaks stay embedded in the segment content;
// the workspace renderer materializes them.
func Spans(spans []types.StyledSpan) []RichText {
	out := make([]RichText, 0, len(spans))
	for _, span := range spans {
		rt := RichText{
			Type: "text",
			Text: TextContent{Content: span.Text},
		}
		if span.LinkURL != "" {
			rt.Text.Link = &Link{URL: span.LinkURL}
		}
		if span.Bold || span.Italic {
			rt.Annotations = &Annotations{Bold: span.Bold, Italic: span.Italic}
		}
		out = append(out, rt)
	}
	return out
}

// BlockOf builds one workspace block object of the given native type.
func BlockOf(blockType string, richText []RichText) map[string]any {
	return map[string]any{
		"object": "block",
		"type":   blockType,
		blockType: map[string]any{
			"rich_text": richText,
		},
	}
}

// DividerBlock builds the native divider block.
func DividerBlock() map[string]any {
	return map[string]any{
		"object":  "block",
		"type":    "divider",
		"divider": map[string]any{},
	}
}

// ImageBlock builds an external image block with an optional caption.
func ImageBlock(url, caption string) map[string]any {
	image := map[string]any{
		"type":     "external",
		"external": map[string]any{"url": url},
	}
	if caption != "" {
		image["caption"] = []RichText{{Type: "text", Text: TextContent{Content: caption}}}
	}
	return map[string]any{
		"object": "block",
		"type":   "image",
		"image":  image,
	}
}
