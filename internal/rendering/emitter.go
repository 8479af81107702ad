// Package rendering converts validated rich-content documents into the wire
// format of a publish destination. Emitters are pure transforms; network
// I/O belongs to the publish layer.
package rendering

import (
	"fmt"

	"github.com/jonathan/class-reporter/internal/types"
)

// BlockEmitter renders a validated document into one destination's payload.
type BlockEmitter interface {
	// Emit converts the document into the destination wire format.
	Emit(doc types.Document) ([]byte, error)
	// ContentType returns the MIME type of the emitted payload.
	ContentType() string
	// Destination identifies the publish target this emitter serves.
	Destination() types.Destination
}

// ForDestination selects the emitter for a destination.
func ForDestination(dest types.Destination) (BlockEmitter, error) {
	switch dest {
	case types.DestinationWorkspace:
		return NewWorkspaceEmitter(), nil
	case types.DestinationStaticPage:
		return NewStaticPageEmitter(), nil
	default:
		return nil, fmt.Errorf("no emitter for destination %q", dest)
	}
}
