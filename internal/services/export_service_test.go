package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"mediform-service/internal/models"
)

func TestExportCSV_HeaderAndRows(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFormRepository)
	service := NewExportService(NewSubmissionService(mockRepo, nil))

	template := createTestTemplate()
	submission := createTestSubmission(template, testStaff(), models.StatusApproved)
	submission.SubmittedAt = time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

	mockRepo.On("ListSubmissions", ctx).Return([]models.FormSubmission{*submission}, nil)

	out, err := service.ExportCSV(ctx, testApprover())
	assert.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, []string{"ID", "Form", "Patient", "Status", "Date", "By"}, records[0])
	assert.Equal(t, []string{
		submission.ID.String(),
		"Patient Intake",
		"สมชาย ใจดี",
		"APPROVED",
		"2026-08-28 09:30",
		testStaff().Name,
	}, records[1])
}

func TestExportCSV_QuotesCommasAndQuotes(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFormRepository)
	service := NewExportService(NewSubmissionService(mockRepo, nil))

	template := createTestTemplate()
	submission := createTestSubmission(template, testStaff(), models.StatusSubmitted)
	submission.TemplateTitle = `Intake, "ER" Ward`
	submission.PatientName = "Doe, John"

	mockRepo.On("ListSubmissions", ctx).Return([]models.FormSubmission{*submission}, nil)

	out, err := service.ExportCSV(ctx, testApprover())
	assert.NoError(t, err)

	// The writer quoted what needed quoting: reading it back restores the
	// original values.
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	assert.NoError(t, err)
	assert.Equal(t, `Intake, "ER" Ward`, records[1][1])
	assert.Equal(t, "Doe, John", records[1][2])
}

func TestExportCSV_AppliesRoleFilter(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFormRepository)
	service := NewExportService(NewSubmissionService(mockRepo, nil))

	template := createTestTemplate()
	own := createTestSubmission(template, testStaff(), models.StatusSubmitted)
	foreign := createTestSubmission(template, testStaff2(), models.StatusSubmitted)

	mockRepo.On("ListSubmissions", ctx).
		Return([]models.FormSubmission{*own, *foreign}, nil)

	out, err := service.ExportCSV(ctx, testStaff())
	assert.NoError(t, err)

	records, _ := csv.NewReader(bytes.NewReader(out)).ReadAll()
	assert.Len(t, records, 2) // header + own row only
	assert.Equal(t, own.ID.String(), records[1][0])
}

func TestExportCSV_EmptyListStillHasHeader(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockFormRepository)
	service := NewExportService(NewSubmissionService(mockRepo, nil))

	mockRepo.On("ListSubmissions", ctx).Return([]models.FormSubmission{}, nil)

	out, err := service.ExportCSV(ctx, testApprover())
	assert.NoError(t, err)

	records, _ := csv.NewReader(bytes.NewReader(out)).ReadAll()
	assert.Len(t, records, 1)
	assert.Equal(t, "ID", records[0][0])
}
