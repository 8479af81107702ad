package types

import "fmt"

// IssueReason categorizes why a repair was needed.
type IssueReason string

// Repair reasons reported by the validator.
const (
	// ReasonTextTooLong marks a span whose text exceeded the destination's
	// per-segment character cap and was split at a word boundary.
	ReasonTextTooLong IssueReason = "TEXT_TOO_LONG"
	// ReasonTooManySpans marks a block whose span count exceeded the
	// destination's cap after merging.
	ReasonTooManySpans IssueReason = "TOO_MANY_SPANS"
	// ReasonUnsupportedNesting marks repairs the destination structure cannot
	// represent faithfully: document-level truncation, or an atomic token
	// longer than the span cap that had to be cut mid-word. Callers may treat
	// these as grounds to reject the whole document.
	ReasonUnsupportedNesting IssueReason = "UNSUPPORTED_NESTING"
)

// IssueAction records what the repair pass did about a violation.
type IssueAction string

// Repair actions taken by the validator.
const (
	ActionSplit     IssueAction = "SPLIT"
	ActionTruncated IssueAction = "TRUNCATED"
	ActionDropped   IssueAction = "DROPPED"
)

// ValidationIssue describes one repair performed on a document. Issues are a
// report, not a failure signal: the repaired document is always returned
// alongside them.
type ValidationIssue struct {
	BlockIndex int         `json:"block_index"`
	Reason     IssueReason `json:"reason"`
	Action     IssueAction `json:"action_taken"`
	Details    string      `json:"details,omitempty"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("block %d: %s (%s)", i.BlockIndex, i.Reason, i.Action)
}
