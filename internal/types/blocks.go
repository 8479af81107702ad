// Package types provides type definitions for structured data used throughout the class-reporter system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// BlockKind identifies the structural role of a block within a report body.
type BlockKind string

// Block kinds supported by the rich-content model.
const (
	KindHeading1     BlockKind = "heading_1"
	KindHeading2     BlockKind = "heading_2"
	KindHeading3     BlockKind = "heading_3"
	KindParagraph    BlockKind = "paragraph"
	KindBulletedItem BlockKind = "bulleted_list_item"
	KindNumberedItem BlockKind = "numbered_list_item"
	KindQuote        BlockKind = "quote"
	KindDivider      BlockKind = "divider"
)

// StyledSpan is a contiguous run of text sharing one style combination.
// Text is never empty, and adjacent spans with identical styling are merged
// before a document leaves the formatter.
type StyledSpan struct {
	Text    string `json:"text"`
	Bold    bool   `json:"bold,omitempty"`
	Italic  bool   `json:"italic,omitempty"`
	LinkURL string `json:"link_url,omitempty"`
}

// SameStyle reports whether two spans carry an identical style combination.
func (s StyledSpan) SameStyle(o StyledSpan) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.LinkURL == o.LinkURL
}

// Block is one structural unit of a report body. A divider block has no
// spans; every other kind has at least one span after validation.
type Block struct {
	Kind  BlockKind    `json:"kind"`
	Spans []StyledSpan `json:"spans,omitempty"`

	// ListIndex is the 1-based ordinal within an unbroken numbered-list run.
	// Zero for every other kind.
	ListIndex int `json:"list_index,omitempty"`
}

// Document is the ordered block sequence of one generated report body.
// It is created fresh per generation request and never mutated once handed
// to an emitter.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// MergeSpans collapses adjacent spans with identical styling into one span.
// Spans with empty text are dropped. The input slice is not modified.
func MergeSpans(spans []StyledSpan) []StyledSpan {
	merged := make([]StyledSpan, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].SameStyle(span) {
			merged[n-1].Text += span.Text
			continue
		}
		merged = append(merged, span)
	}
	return merged
}

// PlainText returns the concatenated text of all spans in the block.
func (b Block) PlainText() string {
	var out string
	for _, span := range b.Spans {
		out += span.Text
	}
	return out
}
