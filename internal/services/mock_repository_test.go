package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/mock"

	"mediform-service/internal/models"
	"mediform-service/internal/repository"
)

// MockFormRepository is a mock implementation of FormRepositoryInterface
type MockFormRepository struct {
	mock.Mock
}

// Ensure MockFormRepository implements the interface
var _ repository.FormRepositoryInterface = (*MockFormRepository)(nil)

func (m *MockFormRepository) CreateTemplate(ctx context.Context, template *models.FormTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockFormRepository) UpdateTemplate(ctx context.Context, template *models.FormTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockFormRepository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.FormTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormTemplate), args.Error(1)
}

func (m *MockFormRepository) ListTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FormTemplate), args.Error(1)
}

func (m *MockFormRepository) CreateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockFormRepository) UpdateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockFormRepository) UpdateSubmissionStatus(ctx context.Context, submission *models.FormSubmission, newStatus string) error {
	args := m.Called(ctx, submission, newStatus)
	if args.Error(0) == nil {
		submission.Status = newStatus
	}
	return args.Error(0)
}

func (m *MockFormRepository) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockFormRepository) ListSubmissions(ctx context.Context) ([]models.FormSubmission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FormSubmission), args.Error(1)
}

func (m *MockFormRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockFormRepository) GetSubmissionHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, submissionID)
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

// Helper users, one per role

func testStaff() models.User {
	return models.User{ID: "staff1", Name: "พยาบาล สมศรี (Staff)", Role: models.RoleStaff, Department: "ER"}
}

func testStaff2() models.User {
	return models.User{ID: "staff2", Name: "พยาบาล วันดี (Staff)", Role: models.RoleStaff, Department: "OPD"}
}

func testApprover() models.User {
	return models.User{ID: "doc1", Name: "นพ. สมศักดิ์ (Director)", Role: models.RoleApprover, Department: "Management"}
}

// createTestTemplate builds an intake form with a conditional required field:
// the allergy detail is required only while "Drug Allergy" is answered "Yes".
func createTestTemplate() *models.FormTemplate {
	return &models.FormTemplate{
		ID:        uuid.New(),
		Title:     "Patient Intake",
		CreatedBy: "staff1",
		Fields: []models.FormField{
			{ID: "f_symptoms", Position: 0, Type: models.FieldTextarea, Label: "Symptoms", Required: true},
			{ID: "f_allergy", Position: 1, Type: models.FieldDropdown, Label: "Drug Allergy", Required: true, Options: pq.StringArray{"Yes", "No"}},
			{ID: "f_allergy_detail", Position: 2, Type: models.FieldText, Label: "Allergy Detail", Required: true, Condition: &models.FieldCondition{FieldID: "f_allergy", Value: "Yes"}},
		},
	}
}
