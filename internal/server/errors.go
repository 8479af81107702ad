package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrReportNotFound indicates the requested report is not in the archive
type ErrReportNotFound struct {
	ReportID uuid.UUID
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ReportID)
}

// ErrUpstream indicates a dependency (model or publish target) failed
type ErrUpstream struct {
	Service string
	Cause   error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Cause)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Cause
}

// ErrArchiveUnavailable indicates the report archive is not configured
type ErrArchiveUnavailable struct{}

func (e *ErrArchiveUnavailable) Error() string {
	return "report archive is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrReportNotFound:
		return http.StatusNotFound
	case *ErrUpstream:
		return http.StatusBadGateway
	case *ErrArchiveUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
