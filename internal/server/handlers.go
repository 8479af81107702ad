package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/class-reporter/internal/db"
	"github.com/jonathan/class-reporter/internal/generation"
	"github.com/jonathan/class-reporter/internal/publish"
	"github.com/jonathan/class-reporter/internal/report"
	"github.com/jonathan/class-reporter/internal/types"
)

// CreateReportResponse represents the response for POST /reports
type CreateReportResponse struct {
	ID          string                  `json:"id,omitempty"`
	Title       string                  `json:"title"`
	ReportDate  string                  `json:"report_date"`
	Destination string                  `json:"destination"`
	URL         string                  `json:"url,omitempty"`
	Markdown    string                  `json:"markdown"`
	Issues      []types.ValidationIssue `json:"issues"`
}

// PreviewResponse represents the response for POST /reports/preview
type PreviewResponse struct {
	Blocks []types.Block           `json:"blocks"`
	Issues []types.ValidationIssue `json:"issues"`
}

// handleCreateReport generates a report from class notes and optionally
// publishes it
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req types.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, &ErrValidation{Field: "request", Message: err.Error()})
		return
	}

	dest, err := types.ParseDestination(req.Destination)
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "destination", Message: err.Error()})
		return
	}

	envelope, err := generation.GenerateReport(r.Context(), s.llmClient, generation.GenerateRequest{
		Notes:      req.Notes,
		ReportDate: req.ReportDate,
		PhotoCount: len(req.PhotoURLs),
	})
	if err != nil {
		s.errorFor(w, &ErrUpstream{Service: "generation", Cause: err})
		return
	}

	md := envelope.Markdown()
	if s.precheck {
		md = generation.FormatPrecheck(r.Context(), s.llmClient, md)
	}

	rendered, err := report.Render(md, dest, s.limits)
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "limits", Message: err.Error()})
		return
	}

	resp := CreateReportResponse{
		Title:       envelope.Title,
		ReportDate:  envelope.ReportDate,
		Destination: string(dest),
		Markdown:    md,
		Issues:      rendered.Issues,
	}
	if resp.Issues == nil {
		resp.Issues = []types.ValidationIssue{}
	}

	if req.Publish {
		publisher, ok := s.publishers[dest]
		if !ok {
			s.errorFor(w, &ErrValidation{Field: "destination", Message: "destination is not configured on this server"})
			return
		}

		result, err := publisher.Publish(r.Context(), publish.Report{
			Title:      envelope.Title,
			ReportDate: envelope.ReportDate,
			Document:   rendered.Document,
			PhotoURLs:  req.PhotoURLs,
		})
		if err != nil {
			s.errorFor(w, &ErrUpstream{Service: string(dest), Cause: err})
			return
		}
		resp.URL = result.URL

		if s.archive != nil {
			id, err := s.archive.SaveReport(r.Context(), &db.SavedReport{
				Title:       envelope.Title,
				ReportDate:  envelope.ReportDate,
				Destination: string(dest),
				URL:         result.URL,
				Markdown:    md,
				Issues:      rendered.Issues,
			})
			if err != nil {
				s.errorFor(w, err)
				return
			}
			resp.ID = id.String()
		}
	}

	s.jsonResponse(w, http.StatusCreated, resp)
}

// handlePreview reports how a Markdown body segments and repairs, without
// generating or publishing anything
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req types.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, &ErrValidation{Field: "request", Message: err.Error()})
		return
	}

	limits := s.limits
	if req.Limits != nil {
		limits = *req.Limits
	}

	doc, issues, err := report.ValidateOnly(req.Markdown, limits)
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "limits", Message: err.Error()})
		return
	}
	if issues == nil {
		issues = []types.ValidationIssue{}
	}

	s.jsonResponse(w, http.StatusOK, PreviewResponse{Blocks: doc.Blocks, Issues: issues})
}

// handleListReports lists archived reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorFor(w, &ErrArchiveUnavailable{})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.errorFor(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = parsed
	}

	records, err := s.archive.ListReports(r.Context(), limit)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": records})
}

// handleGetReport returns one archived report by ID
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.errorFor(w, &ErrArchiveUnavailable{})
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	saved, err := s.archive.GetReport(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrReportNotFound) {
			s.errorFor(w, &ErrReportNotFound{ReportID: id})
			return
		}
		s.errorFor(w, err)
		return
	}

	issues := saved.Issues
	if issues == nil {
		issues = []types.ValidationIssue{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"report":   saved.Record(),
		"markdown": saved.Markdown,
		"issues":   issues,
	})
}
