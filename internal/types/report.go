package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReportEnvelope is the structured write-up the generation model returns:
// a title, the class date, and the Markdown body split into sections.
type ReportEnvelope struct {
	Title      string   `json:"title"`
	ReportDate string   `json:"report_date"`
	Content    []string `json:"content"`
}

// Markdown joins the envelope's content sections into one Markdown document.
func (e *ReportEnvelope) Markdown() string {
	out := ""
	for i, section := range e.Content {
		if i > 0 {
			out += "\n\n"
		}
		out += section
	}
	return out
}

// CreateReportRequest is the API request to generate and optionally publish
// a report from raw class notes.
type CreateReportRequest struct {
	Notes       string   `json:"notes" validate:"required,min=1"`
	PhotoURLs   []string `json:"photo_urls,omitempty" validate:"omitempty,dive,url"`
	Destination string   `json:"destination" validate:"required,oneof=workspace static_page"`
	ReportDate  string   `json:"report_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Publish     bool     `json:"publish,omitempty"`
}

// Validate validates the CreateReportRequest using the validator.
func (r *CreateReportRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// PreviewRequest is the API request to inspect how a Markdown body would be
// segmented and repaired, without emitting or publishing anything.
type PreviewRequest struct {
	Markdown string  `json:"markdown" validate:"required,min=1"`
	Limits   *Limits `json:"limits,omitempty"`
}

// Validate validates the PreviewRequest using the validator.
func (r *PreviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ReportRecord is one archived publication for API responses (avoids an
// import cycle with the db package).
type ReportRecord struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	ReportDate  string    `json:"report_date,omitempty"`
	Destination string    `json:"destination"`
	URL         string    `json:"url"`
	IssueCount  int       `json:"issue_count"`
	CreatedAt   time.Time `json:"created_at"`
}
