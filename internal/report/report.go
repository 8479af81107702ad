// Package report composes the rich-content pipeline: segment the Markdown,
// format inline styles, repair against destination limits, emit the
// destination payload. Every stage is a pure transform, so independent
// documents can run through the pipeline concurrently.
package report

import (
	"fmt"

	"github.com/jonathan/class-reporter/internal/markdown"
	"github.com/jonathan/class-reporter/internal/rendering"
	"github.com/jonathan/class-reporter/internal/types"
	"github.com/jonathan/class-reporter/internal/validation"
)

// Result is the outcome of rendering one Markdown document for a
// destination: the wire payload plus the repaired document and the repairs
// performed on the way there.
type Result struct {
	Payload     []byte
	ContentType string
	Document    types.Document
	Issues      []types.ValidationIssue
}

// Render runs the full pipeline for one destination. It fails only for an
// unknown destination or invalid limits; content problems surface as issues
// on the returned result.
func Render(doc string, dest types.Destination, limits types.Limits) (*Result, error) {
	emitter, err := rendering.ForDestination(dest)
	if err != nil {
		return nil, err
	}

	repaired, issues, err := ValidateOnly(doc, limits)
	if err != nil {
		return nil, err
	}

	payload, err := emitter.Emit(repaired)
	if err != nil {
		return nil, fmt.Errorf("failed to emit %s payload: %w", dest, err)
	}

	return &Result{
		Payload:     payload,
		ContentType: emitter.ContentType(),
		Document:    repaired,
		Issues:      issues,
	}, nil
}

// ValidateOnly parses and repairs a Markdown document without emitting,
// for preview tooling that wants to inspect the repairs.
func ValidateOnly(doc string, limits types.Limits) (types.Document, []types.ValidationIssue, error) {
	return validation.Repair(markdown.Parse(doc), limits)
}
