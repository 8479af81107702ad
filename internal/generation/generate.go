// Package generation turns raw class notes into a structured report
// write-up using LLM generation.
package generation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jonathan/class-reporter/internal/llm"
	"github.com/jonathan/class-reporter/internal/prompts"
	"github.com/jonathan/class-reporter/internal/schemas"
	"github.com/jonathan/class-reporter/internal/types"
)

// GenerateRequest carries the inputs for a report write-up.
type GenerateRequest struct {
	Notes      string
	ReportDate string
	PhotoCount int
}

// GenerateReport produces a structured report envelope from raw class notes.
// The model is constrained to facts present in the notes and to the
// Markdown subset the renderers understand; its JSON output is validated
// against the envelope schema before being trusted.
func GenerateReport(ctx context.Context, client llm.Client, req GenerateRequest) (*types.ReportEnvelope, error) {
	if req.Notes == "" {
		return nil, &APICallError{Message: "notes are required"}
	}

	reportDate := req.ReportDate
	if reportDate == "" {
		reportDate = time.Now().Format("2006-01-02")
	}

	prompt := buildReportPrompt(req.Notes, reportDate, req.PhotoCount)

	responseText, err := client.GenerateJSON(ctx, prompt, llm.TierWriting)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate report content",
			Cause:   err,
		}
	}

	responseText = llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateReportEnvelope(responseText); err != nil {
		return nil, &ParseError{
			Message: "model response does not match report envelope schema",
			Cause:   err,
		}
	}

	var envelope types.ReportEnvelope
	if err := json.Unmarshal([]byte(responseText), &envelope); err != nil {
		return nil, &ParseError{
			Message: "failed to parse JSON response",
			Cause:   err,
		}
	}

	return &envelope, nil
}

// buildReportPrompt constructs the write-up prompt from the template
func buildReportPrompt(notes, reportDate string, photoCount int) string {
	template := prompts.MustGet("write-report")
	return prompts.Format(template, map[string]string{
		"Notes":      notes,
		"ReportDate": reportDate,
		"PhotoCount": strconv.Itoa(photoCount),
	})
}
