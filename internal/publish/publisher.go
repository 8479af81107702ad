// Package publish delivers rendered reports to their destination: a
// workspace page via the REST API, or a static HTML page in an object
// store.
package publish

import (
	"context"

	"github.com/jonathan/class-reporter/internal/types"
)

// Report is a fully rendered report ready for delivery.
type Report struct {
	Title      string
	ReportDate string
	Document   types.Document
	PhotoURLs  []string
}

// Result describes where a report landed.
type Result struct {
	URL          string
	PlatformData map[string]string
}

// Publisher delivers a report to one destination.
type Publisher interface {
	Publish(ctx context.Context, report Report) (*Result, error)
	Destination() types.Destination
}
