package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mediform-service/internal/models"
	"mediform-service/internal/repository"
)

var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionLocked    = errors.New("submission content can only change while in draft")
	ErrPatientNameRequired = errors.New("patient name is required before submitting")
	ErrNotApprover         = errors.New("only approvers can approve or reject submissions")
	ErrNotAwaitingApproval = errors.New("submission is not awaiting approval")
	ErrValueKindMismatch   = errors.New("value kind does not match field type")
)

// MissingFieldsError reports which required, visible fields were left empty
// on a submit attempt, in template field order.
type MissingFieldsError struct {
	Labels []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Labels, ", ")
}

// Audit action labels.
const (
	AuditCreated   = "Created"
	AuditUpdated   = "Updated"
	AuditSubmitted = "Submitted"
)

// SubmissionService is the lifecycle controller: it validates submissions,
// gates status transitions by role, and appends audit entries. Allowed
// transitions are DRAFT -> SUBMITTED -> APPROVED or REJECTED; status never
// moves backwards.
type SubmissionService struct {
	repo repository.FormRepositoryInterface
	log  *logrus.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(repo repository.FormRepositoryInterface, log *logrus.Logger) *SubmissionService {
	if log == nil {
		log = logrus.New()
	}
	return &SubmissionService{repo: repo, log: log}
}

// SaveSubmissionInput carries the filled form content and the requested
// action. Submit=false saves a draft, Submit=true attempts the
// DRAFT -> SUBMITTED transition.
type SaveSubmissionInput struct {
	TemplateID  uuid.UUID             `json:"templateId"`
	PatientName string                `json:"patientName"`
	Data        models.SubmissionData `json:"data"`
	Submit      bool                  `json:"submit"`
}

// normalizeData checks each value's kind against its field's type. Values for
// field ids no longer in the template are kept untouched; an empty kind is
// filled in from the field type.
func normalizeData(template *models.FormTemplate, data models.SubmissionData) (models.SubmissionData, error) {
	normalized := make(models.SubmissionData, len(data))
	for id, value := range data {
		field := template.FieldByID(id)
		if field == nil {
			normalized[id] = value
			continue
		}
		expected := models.ExpectedValueKind(field.Type)
		if value.Kind == "" {
			value.Kind = expected
		} else if value.Kind != expected {
			return nil, fmt.Errorf("%w: field %q expects %s, got %s", ErrValueKindMismatch, id, expected, value.Kind)
		}
		normalized[id] = value
	}
	return normalized, nil
}

// validateSubmit enforces the submit guards: a non-empty patient name and a
// value in every required field that is currently visible. Required fields
// hidden by an unmet condition never block the transition.
func validateSubmit(template *models.FormTemplate, patientName string, data models.SubmissionData) error {
	if strings.TrimSpace(patientName) == "" {
		return ErrPatientNameRequired
	}
	if missing := MissingRequiredLabels(template.Fields, data); len(missing) > 0 {
		return &MissingFieldsError{Labels: missing}
	}
	return nil
}

// SaveSubmission creates a new submission from a filled template, either as a
// draft or directly submitted. Draft saves enforce no field validation.
func (s *SubmissionService) SaveSubmission(ctx context.Context, user models.User, input SaveSubmissionInput) (*models.FormSubmission, error) {
	template, err := s.repo.GetTemplateByID(ctx, input.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	data, err := normalizeData(template, input.Data)
	if err != nil {
		return nil, err
	}

	status := models.StatusDraft
	action := AuditCreated
	if input.Submit {
		if err := validateSubmit(template, input.PatientName, data); err != nil {
			return nil, err
		}
		status = models.StatusSubmitted
		action = AuditSubmitted
	}

	encoded, err := models.EncodeSubmissionData(data)
	if err != nil {
		return nil, err
	}

	submission := &models.FormSubmission{
		ID:            uuid.New(),
		TemplateID:    template.ID,
		TemplateTitle: template.Title,
		PatientName:   input.PatientName,
		Data:          encoded,
		Status:        status,
		SubmittedBy:   user,
		SubmittedAt:   time.Now(),
	}

	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.appendAudit(ctx, submission, action, user, "")
	return submission, nil
}

// UpdateSubmission replaces the content of an existing draft, optionally
// submitting it. Anyone may complete a draft; once a submission has left
// draft its content is locked.
func (s *SubmissionService) UpdateSubmission(ctx context.Context, user models.User, submissionID uuid.UUID, input SaveSubmissionInput) (*models.FormSubmission, error) {
	submission, err := s.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if !submission.Editable() {
		return nil, ErrSubmissionLocked
	}

	template, err := s.repo.GetTemplateByID(ctx, submission.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	data, err := normalizeData(template, input.Data)
	if err != nil {
		return nil, err
	}

	action := AuditUpdated
	if input.Submit {
		if err := validateSubmit(template, input.PatientName, data); err != nil {
			return nil, err
		}
		submission.Status = models.StatusSubmitted
		action = AuditSubmitted
	}

	encoded, err := models.EncodeSubmissionData(data)
	if err != nil {
		return nil, err
	}

	submission.PatientName = input.PatientName
	submission.Data = encoded
	submission.SubmittedBy = user
	submission.SubmittedAt = time.Now()

	if err := s.repo.UpdateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	s.appendAudit(ctx, submission, action, user, "")
	return submission, nil
}

// Approve moves a submitted form to APPROVED. Approver role only; terminal.
func (s *SubmissionService) Approve(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error) {
	return s.decide(ctx, user, submissionID, models.StatusApproved, comment)
}

// Reject moves a submitted form to REJECTED. Approver role only; terminal.
func (s *SubmissionService) Reject(ctx context.Context, user models.User, submissionID uuid.UUID, comment string) (*models.FormSubmission, error) {
	return s.decide(ctx, user, submissionID, models.StatusRejected, comment)
}

func (s *SubmissionService) decide(ctx context.Context, user models.User, submissionID uuid.UUID, newStatus string, comment string) (*models.FormSubmission, error) {
	if !user.CanApprove() {
		return nil, ErrNotApprover
	}

	submission, err := s.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	// Approve/Reject are only reachable from SUBMITTED; drafts and terminal
	// states are rejected alike.
	if submission.Status != models.StatusSubmitted {
		return nil, ErrNotAwaitingApproval
	}

	if err := s.repo.UpdateSubmissionStatus(ctx, submission, newStatus); err != nil {
		return nil, fmt.Errorf("failed to update submission status: %w", err)
	}

	s.appendAudit(ctx, submission, "Status changed to "+newStatus, user, comment)
	return submission, nil
}

// GetSubmission retrieves a submission together with its owning template.
// A submission whose template was deleted surfaces ErrTemplateNotFound
// instead of being silently skipped.
func (s *SubmissionService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*models.FormSubmission, *models.FormTemplate, error) {
	submission, err := s.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSubmissionNotFound
		}
		return nil, nil, err
	}

	template, err := s.repo.GetTemplateByID(ctx, submission.TemplateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTemplateNotFound
		}
		return nil, nil, err
	}
	return submission, template, nil
}

// ListSubmissions returns the submissions visible to the user. Staff see
// their own plus anything still in draft; approvers and admins see all.
// This is a display filter, not an authorization boundary.
func (s *SubmissionService) ListSubmissions(ctx context.Context, user models.User) ([]models.FormSubmission, error) {
	submissions, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	if user.SeesAllSubmissions() {
		return submissions, nil
	}

	visible := make([]models.FormSubmission, 0, len(submissions))
	for _, sub := range submissions {
		if sub.SubmittedBy.ID == user.ID || sub.Status == models.StatusDraft {
			visible = append(visible, sub)
		}
	}
	return visible, nil
}

// GetHistory retrieves a submission's audit trail, oldest entry first.
func (s *SubmissionService) GetHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error) {
	if _, err := s.repo.GetSubmissionByID(ctx, submissionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return s.repo.GetSubmissionHistory(ctx, submissionID)
}

// appendAudit records exactly one audit entry for a lifecycle action. Audit
// failures are logged but never fail the action itself.
func (s *SubmissionService) appendAudit(ctx context.Context, submission *models.FormSubmission, action string, user models.User, comment string) {
	entry := &models.AuditLogEntry{
		SubmissionID: submission.ID,
		Action:       action,
		ActorName:    user.Name,
		Comment:      comment,
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.log.Warnf("Failed to append audit entry for submission %s: %v", submission.ID, err)
	}
}
