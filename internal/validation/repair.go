package validation

import (
	"fmt"
	"unicode"

	"github.com/jonathan/class-reporter/internal/types"
)

// Repair walks the document in order and enforces the destination limits,
// degrading content instead of failing: over-length spans are split at word
// boundaries, over-full blocks are merged then trimmed, empty blocks are
// dropped, and the document is cut off at the block cap. The repaired
// document and the list of repairs performed are returned together.
// Repair is idempotent: running it over its own output yields the same
// blocks and no issues.
//
// The only error case is an invalid limits value, rejected before any block
// is touched.
func Repair(doc types.Document, limits types.Limits) (types.Document, []types.ValidationIssue, error) {
	if err := limits.Validate(); err != nil {
		return types.Document{}, nil, &ConfigError{Message: "limits rejected", Cause: err}
	}

	var issues []types.ValidationIssue
	blocks := make([]types.Block, 0, len(doc.Blocks))

	for _, block := range doc.Blocks {
		if block.Kind == types.KindDivider {
			if len(blocks) >= limits.MaxBlocks {
				issues = append(issues, truncationIssue(limits.MaxBlocks))
				break
			}
			// Dividers carry no spans at any stage.
			blocks = append(blocks, types.Block{Kind: types.KindDivider})
			continue
		}

		idx := len(blocks)
		spans, spanIssues := repairSpans(block.Spans, idx, limits)
		if len(spans) == 0 {
			// Empty after repair: dropped without an issue since there is no
			// content to lose. Covers empty headings in particular.
			continue
		}
		if idx >= limits.MaxBlocks {
			issues = append(issues, truncationIssue(limits.MaxBlocks))
			break
		}
		issues = append(issues, spanIssues...)
		blocks = append(blocks, types.Block{
			Kind:      block.Kind,
			Spans:     spans,
			ListIndex: block.ListIndex,
		})
	}

	return types.Document{Blocks: blocks}, issues, nil
}

// truncationIssue marks the hard document-level cutoff at the block cap.
func truncationIssue(maxBlocks int) types.ValidationIssue {
	return types.ValidationIssue{
		BlockIndex: maxBlocks,
		Reason:     types.ReasonUnsupportedNesting,
		Action:     types.ActionTruncated,
		Details:    fmt.Sprintf("document truncated at %d blocks", maxBlocks),
	}
}

// repairSpans applies the span-level policy for one block: split over-length
// spans, merge adjacent identically styled spans where merging stays within
// the length cap, then drop trailing spans still over the count cap.
func repairSpans(spans []types.StyledSpan, blockIndex int, limits types.Limits) ([]types.StyledSpan, []types.ValidationIssue) {
	var issues []types.ValidationIssue

	split := make([]types.StyledSpan, 0, len(spans))
	for _, span := range spans {
		if span.Text == "" {
			continue
		}
		pieces, pieceIssues := splitSpan(span, blockIndex, limits.MaxSpanTextLen)
		split = append(split, pieces...)
		issues = append(issues, pieceIssues...)
	}

	merged := mergeWithin(split, limits.MaxSpanTextLen)

	if len(merged) > limits.MaxSpansPerBlock {
		dropped := len(merged) - limits.MaxSpansPerBlock
		merged = merged[:limits.MaxSpansPerBlock]
		issues = append(issues, types.ValidationIssue{
			BlockIndex: blockIndex,
			Reason:     types.ReasonTooManySpans,
			Action:     types.ActionDropped,
			Details:    fmt.Sprintf("%d trailing spans dropped", dropped),
		})
	}

	return merged, issues
}

// splitSpan cuts a span into identically styled pieces no longer than
// maxLen runes, recording one SPLIT issue per cut. Cuts land after the last
// space inside the limit; an atomic token longer than the limit is cut
// mid-word and escalated so callers can choose to reject the document.
func splitSpan(span types.StyledSpan, blockIndex, maxLen int) ([]types.StyledSpan, []types.ValidationIssue) {
	runes := []rune(span.Text)
	if len(runes) <= maxLen {
		return []types.StyledSpan{span}, nil
	}

	cut, atWord := wordBoundaryCut(runes, maxLen)
	head := span
	head.Text = string(runes[:cut])
	tail := span
	tail.Text = string(runes[cut:])

	reason := types.ReasonTextTooLong
	if !atWord {
		reason = types.ReasonUnsupportedNesting
	}
	issue := types.ValidationIssue{
		BlockIndex: blockIndex,
		Reason:     reason,
		Action:     types.ActionSplit,
		Details:    fmt.Sprintf("span split after %d characters", cut),
	}

	rest, restIssues := splitSpan(tail, blockIndex, maxLen)
	return append([]types.StyledSpan{head}, rest...), append([]types.ValidationIssue{issue}, restIssues...)
}

// wordBoundaryCut picks the split point for an over-length rune sequence:
// after the last space within the first maxLen runes, or exactly maxLen when
// the window holds a single unbroken token.
func wordBoundaryCut(runes []rune, maxLen int) (cut int, atWord bool) {
	for i := maxLen; i > 0; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i, true
		}
	}
	return maxLen, false
}

// mergeWithin merges adjacent spans with identical styling, but only when
// the combined text stays within maxLen; merging must never undo a split.
func mergeWithin(spans []types.StyledSpan, maxLen int) []types.StyledSpan {
	merged := make([]types.StyledSpan, 0, len(spans))
	for _, span := range spans {
		if n := len(merged); n > 0 && merged[n-1].SameStyle(span) {
			combined := merged[n-1].Text + span.Text
			if len([]rune(combined)) <= maxLen {
				merged[n-1].Text = combined
				continue
			}
		}
		merged = append(merged, span)
	}
	return merged
}
