package markdown

import "github.com/jonathan/class-reporter/internal/types"

// Compile maps one classified segment into a typed block, delegating the
// segment text to the inline formatter. No limit enforcement happens here;
// that belongs to the validation pass.
func Compile(seg Segment) types.Block {
	if seg.Kind == types.KindDivider {
		return types.Block{Kind: types.KindDivider}
	}
	return types.Block{
		Kind:      seg.Kind,
		Spans:     FormatInline(seg.RawText),
		ListIndex: seg.ListIndex,
	}
}

// Parse segments a Markdown document and compiles every segment, preserving
// source order.
func Parse(doc string) types.Document {
	segments := SegmentDocument(doc)
	blocks := make([]types.Block, 0, len(segments))
	for _, seg := range segments {
		blocks = append(blocks, Compile(seg))
	}
	return types.Document{Blocks: blocks}
}
