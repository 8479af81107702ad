package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Limits holds the structural constraints of a publish destination. All
// values must be positive; Validate rejects anything else before the repair
// pass touches a single block.
type Limits struct {
	// MaxSpanTextLen is the destination's per-rich-text-segment character
	// cap, counted in runes.
	MaxSpanTextLen int `json:"max_span_text_len" validate:"required,gt=0"`
	// MaxSpansPerBlock caps the rich-text segments one block may carry.
	MaxSpansPerBlock int `json:"max_spans_per_block" validate:"required,gt=0"`
	// MaxBlocks caps the total block count of one document.
	MaxBlocks int `json:"max_blocks" validate:"required,gt=0"`
}

// DefaultLimits returns the workspace API's published constraints: 2000
// characters per rich-text segment, 100 segments per block, 1000 blocks per
// page.
func DefaultLimits() Limits {
	return Limits{
		MaxSpanTextLen:   2000,
		MaxSpansPerBlock: 100,
		MaxBlocks:        1000,
	}
}

// Validate checks the limit values using the validator.
func (l Limits) Validate() error {
	validate := validator.New()
	if err := validate.Struct(l); err != nil {
		return fmt.Errorf("invalid limits: %w", err)
	}
	return nil
}

// Destination is one of the two supported publish targets.
type Destination string

// Supported destinations.
const (
	// DestinationWorkspace publishes structured JSON blocks to the document
	// workspace API.
	DestinationWorkspace Destination = "workspace"
	// DestinationStaticPage publishes an HTML page to a static object store.
	DestinationStaticPage Destination = "static_page"
)

// ParseDestination converts a string into a Destination.
func ParseDestination(s string) (Destination, error) {
	switch Destination(s) {
	case DestinationWorkspace:
		return DestinationWorkspace, nil
	case DestinationStaticPage:
		return DestinationStaticPage, nil
	default:
		return "", fmt.Errorf("unknown destination %q (want %q or %q)", s, DestinationWorkspace, DestinationStaticPage)
	}
}
