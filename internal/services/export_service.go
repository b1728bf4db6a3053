package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"mediform-service/internal/models"
)

// ExportService renders the submissions table as CSV for download.
type ExportService struct {
	submissions *SubmissionService
}

// NewExportService creates a new ExportService.
func NewExportService(submissions *SubmissionService) *ExportService {
	return &ExportService{submissions: submissions}
}

var exportHeader = []string{"ID", "Form", "Patient", "Status", "Date", "By"}

// ExportCSV writes the submissions visible to the user as CSV, newest first,
// matching the on-screen list. encoding/csv handles quoting, so titles and
// names containing commas or quotes survive round-trips into spreadsheet
// tools.
func (s *ExportService) ExportCSV(ctx context.Context, user models.User) ([]byte, error) {
	submissions, err := s.submissions.ListSubmissions(ctx, user)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}
	for _, sub := range submissions {
		record := []string{
			sub.ID.String(),
			sub.TemplateTitle,
			sub.PatientName,
			sub.Status,
			sub.SubmittedAt.Format("2006-01-02 15:04"),
			sub.SubmittedBy.Name,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
