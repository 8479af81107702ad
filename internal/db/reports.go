package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/class-reporter/internal/types"
)

// ErrReportNotFound is returned when no archived report matches the ID.
var ErrReportNotFound = errors.New("report not found")

// SavedReport is one archived publication.
type SavedReport struct {
	ID          uuid.UUID
	Title       string
	ReportDate  string
	Destination string
	URL         string
	Markdown    string
	Issues      []types.ValidationIssue
	CreatedAt   time.Time
}

// Record converts the archive row into its API response shape.
func (r *SavedReport) Record() types.ReportRecord {
	return types.ReportRecord{
		ID:          r.ID,
		Title:       r.Title,
		ReportDate:  r.ReportDate,
		Destination: r.Destination,
		URL:         r.URL,
		IssueCount:  len(r.Issues),
		CreatedAt:   r.CreatedAt,
	}
}

// SaveReport archives a published report and returns its ID
func (db *DB) SaveReport(ctx context.Context, report *SavedReport) (uuid.UUID, error) {
	issues := report.Issues
	if issues == nil {
		issues = []types.ValidationIssue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal issues: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO reports (title, report_date, destination, url, markdown, issues, issue_count)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		report.Title, report.ReportDate, report.Destination, report.URL,
		report.Markdown, issuesJSON, len(issues),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves one archived report by ID
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*SavedReport, error) {
	var (
		report     SavedReport
		issuesJSON []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, report_date, destination, url, markdown, issues, created_at
		 FROM reports WHERE id = $1`,
		id,
	).Scan(&report.ID, &report.Title, &report.ReportDate, &report.Destination,
		&report.URL, &report.Markdown, &issuesJSON, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(issuesJSON, &report.Issues); err != nil {
		return nil, fmt.Errorf("failed to unmarshal issues: %w", err)
	}
	return &report, nil
}

// ListReports returns archived reports, newest first
func (db *DB) ListReports(ctx context.Context, limit int) ([]types.ReportRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, title, report_date, destination, url, issue_count, created_at
		 FROM reports ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	records := make([]types.ReportRecord, 0)
	for rows.Next() {
		var rec types.ReportRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.ReportDate, &rec.Destination,
			&rec.URL, &rec.IssueCount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return records, nil
}
