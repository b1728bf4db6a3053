package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
	"mediform-service/internal/services"
)

// SubmissionServiceInterface is the slice of the submission service the
// handlers use.
type SubmissionServiceInterface interface {
	SaveSubmission(ctx context.Context, user models.User, input services.SaveSubmissionInput) (*models.FormSubmission, error)
	UpdateSubmission(ctx context.Context, user models.User, submissionID uuid.UUID, input services.SaveSubmissionInput) (*models.FormSubmission, error)
	Approve(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error)
	Reject(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error)
	GetSubmission(ctx context.Context, submissionID uuid.UUID) (*models.FormSubmission, *models.FormTemplate, error)
	ListSubmissions(ctx context.Context, user models.User) ([]models.FormSubmission, error)
	GetHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error)
}

// ExporterInterface renders the visible submissions as CSV.
type ExporterInterface interface {
	ExportCSV(ctx context.Context, user models.User) ([]byte, error)
}

// SubmissionHandler handles HTTP requests for form submissions
type SubmissionHandler struct {
	service  SubmissionServiceInterface
	exporter ExporterInterface
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(service SubmissionServiceInterface, exporter ExporterInterface) *SubmissionHandler {
	return &SubmissionHandler{service: service, exporter: exporter}
}

// submissionErrorResponse writes the status and body for a lifecycle error.
// Submit validation failures carry the missing labels so the client can
// highlight them.
func submissionErrorResponse(c *gin.Context, err error) {
	var missing *services.MissingFieldsError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":         missing.Error(),
			"missingFields": missing.Labels,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrTemplateNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrPatientNameRequired),
		errors.Is(err, services.ErrValueKindMismatch):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotApprover):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotAwaitingApproval),
		errors.Is(err, services.ErrSubmissionLocked):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// CreateSubmission saves a filled form as draft or submits it
// @Summary Create form submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param request body services.SaveSubmissionInput true "Submission content"
// @Success 201 {object} models.FormSubmission
// @Router /api/v1/submissions [post]
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	var input services.SaveSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	submission, err := h.service.SaveSubmission(c.Request.Context(), user, input)
	if err != nil {
		submissionErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// UpdateSubmission updates a draft submission, optionally submitting it
// @Summary Update form submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param request body services.SaveSubmissionInput true "Submission content"
// @Success 200 {object} models.FormSubmission
// @Router /api/v1/submissions/{id} [put]
func (h *SubmissionHandler) UpdateSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	var input services.SaveSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	submission, err := h.service.UpdateSubmission(c.Request.Context(), user, id, input)
	if err != nil {
		submissionErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions lists the submissions visible to the acting user
// @Summary List form submissions
// @Tags Submissions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/submissions [get]
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	submissions, err := h.service.ListSubmissions(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission retrieves a submission with its template
// @Summary Get form submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	submission, template, err := h.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		submissionErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submission": submission,
		"template":   template,
	})
}

type decisionRequest struct {
	Comment string `json:"comment"`
}

// ApproveSubmission approves a submitted form
// @Summary Approve submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param request body decisionRequest false "Optional comment"
// @Success 200 {object} models.FormSubmission
// @Router /api/v1/submissions/{id}/approve [post]
func (h *SubmissionHandler) ApproveSubmission(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

// RejectSubmission rejects a submitted form
// @Summary Reject submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param request body decisionRequest false "Optional comment"
// @Success 200 {object} models.FormSubmission
// @Router /api/v1/submissions/{id}/reject [post]
func (h *SubmissionHandler) RejectSubmission(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

func (h *SubmissionHandler) decide(c *gin.Context, fn func(context.Context, models.User, uuid.UUID, string) (*models.FormSubmission, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	// Body is optional; a decision without a comment is valid.
	var req decisionRequest
	_ = c.ShouldBindJSON(&req)

	user := middleware.CurrentUser(c)
	submission, err := fn(c.Request.Context(), user, id, req.Comment)
	if err != nil {
		submissionErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GetHistory retrieves a submission's audit trail
// @Summary Get submission history
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/submissions/{id}/history [get]
func (h *SubmissionHandler) GetHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	entries, err := h.service.GetHistory(c.Request.Context(), id)
	if err != nil {
		submissionErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": entries,
		"total":   len(entries),
	})
}

// ExportSubmissions downloads the visible submissions as CSV
// @Summary Export submissions as CSV
// @Tags Submissions
// @Produce text/csv
// @Success 200 {string} string "CSV content"
// @Router /api/v1/submissions/export [get]
func (h *SubmissionHandler) ExportSubmissions(c *gin.Context) {
	user := middleware.CurrentUser(c)
	csvBytes, err := h.exporter.ExportCSV(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	filename := fmt.Sprintf("submissions_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", csvBytes)
}
