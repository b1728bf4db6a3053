package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
	"mediform-service/internal/services"
)

// MockTemplateService is a mock implementation of TemplateServiceInterface
type MockTemplateService struct {
	mock.Mock
}

var _ TemplateServiceInterface = (*MockTemplateService)(nil)

func (m *MockTemplateService) CreateTemplate(ctx context.Context, user models.User, input services.SaveTemplateInput) (*models.FormTemplate, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormTemplate), args.Error(1)
}

func (m *MockTemplateService) UpdateTemplate(ctx context.Context, user models.User, templateID uuid.UUID, input services.SaveTemplateInput) (*models.FormTemplate, error) {
	args := m.Called(ctx, user, templateID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormTemplate), args.Error(1)
}

func (m *MockTemplateService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.FormTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormTemplate), args.Error(1)
}

func (m *MockTemplateService) ListTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.FormTemplate), args.Error(1)
}

func (m *MockTemplateService) GenerateDraftFields(ctx context.Context, description string, current []models.FormField) []models.FormField {
	args := m.Called(ctx, description, current)
	return args.Get(0).([]models.FormField)
}

// MockSubmissionService is a mock implementation of SubmissionServiceInterface
type MockSubmissionService struct {
	mock.Mock
}

var _ SubmissionServiceInterface = (*MockSubmissionService)(nil)

func (m *MockSubmissionService) SaveSubmission(ctx context.Context, user models.User, input services.SaveSubmissionInput) (*models.FormSubmission, error) {
	args := m.Called(ctx, user, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockSubmissionService) UpdateSubmission(ctx context.Context, user models.User, submissionID uuid.UUID, input services.SaveSubmissionInput) (*models.FormSubmission, error) {
	args := m.Called(ctx, user, submissionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockSubmissionService) Approve(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error) {
	args := m.Called(ctx, user, submissionID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockSubmissionService) Reject(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error) {
	args := m.Called(ctx, user, submissionID, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FormSubmission), args.Error(1)
}

func (m *MockSubmissionService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*models.FormSubmission, *models.FormTemplate, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.FormSubmission), args.Get(1).(*models.FormTemplate), args.Error(2)
}

func (m *MockSubmissionService) ListSubmissions(ctx context.Context, user models.User) ([]models.FormSubmission, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]models.FormSubmission), args.Error(1)
}

func (m *MockSubmissionService) GetHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error) {
	args := m.Called(ctx, submissionID)
	return args.Get(0).([]models.AuditLogEntry), args.Error(1)
}

// MockExporter is a mock implementation of ExporterInterface
type MockExporter struct {
	mock.Mock
}

var _ ExporterInterface = (*MockExporter)(nil)

func (m *MockExporter) ExportCSV(ctx context.Context, user models.User) ([]byte, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Helper to setup test router
func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

var testSecret = []byte("test-secret")

func testApprover() models.User {
	return models.User{ID: "doc1", Name: "นพ. สมศักดิ์ (Director)", Role: models.RoleApprover, Department: "Management"}
}

// Helper to issue a session token and perform a request as the given user.
func performAs(router *gin.Engine, user models.User, req *http.Request) *httptest.ResponseRecorder {
	token, _ := middleware.IssueToken(testSecret, user)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
