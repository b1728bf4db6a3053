package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mediform-service/internal/models"
)

var ErrNotFound = errors.New("not found")

// FormRepositoryInterface is the persistence gateway for templates,
// submissions, and their audit trail.
type FormRepositoryInterface interface {
	CreateTemplate(ctx context.Context, template *models.FormTemplate) error
	UpdateTemplate(ctx context.Context, template *models.FormTemplate) error
	GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.FormTemplate, error)
	ListTemplates(ctx context.Context) ([]models.FormTemplate, error)

	CreateSubmission(ctx context.Context, submission *models.FormSubmission) error
	UpdateSubmission(ctx context.Context, submission *models.FormSubmission) error
	UpdateSubmissionStatus(ctx context.Context, submission *models.FormSubmission, newStatus string) error
	GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error)
	ListSubmissions(ctx context.Context) ([]models.FormSubmission, error)

	CreateAuditLog(ctx context.Context, entry *models.AuditLogEntry) error
	GetSubmissionHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error)
}

// FormRepository handles database operations for forms
type FormRepository struct {
	db *gorm.DB
}

var _ FormRepositoryInterface = (*FormRepository)(nil)

// NewFormRepository creates a new FormRepository
func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// --- Template Methods ---

// CreateTemplate creates a new template together with its field list.
func (r *FormRepository) CreateTemplate(ctx context.Context, template *models.FormTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// UpdateTemplate overwrites a template and replaces its field list wholesale.
// Field rows are deleted and reinserted so removals and reordering stick.
func (r *FormRepository) UpdateTemplate(ctx context.Context, template *models.FormTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.FormTemplate{}).
			Where("id = ?", template.ID).
			Updates(map[string]interface{}{
				"title":       template.Title,
				"description": template.Description,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("template_id = ?", template.ID).
			Delete(&models.FormField{}).Error; err != nil {
			return err
		}
		for i := range template.Fields {
			template.Fields[i].TemplateID = template.ID
			template.Fields[i].Position = i
		}
		if len(template.Fields) == 0 {
			return nil
		}
		return tx.Create(&template.Fields).Error
	})
}

// GetTemplateByID retrieves a template with its fields in authoring order.
func (r *FormRepository) GetTemplateByID(ctx context.Context, id uuid.UUID) (*models.FormTemplate, error) {
	var template models.FormTemplate
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_fields.position ASC")
		}).
		Where("id = ?", id).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// ListTemplates retrieves all templates, newest first.
func (r *FormRepository) ListTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	var templates []models.FormTemplate
	err := r.db.WithContext(ctx).
		Preload("Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_fields.position ASC")
		}).
		Order("created_at DESC").
		Find(&templates).Error
	return templates, err
}

// --- Submission Methods ---

// CreateSubmission creates a new submission
func (r *FormRepository) CreateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// UpdateSubmission persists content changes to an existing submission.
func (r *FormRepository) UpdateSubmission(ctx context.Context, submission *models.FormSubmission) error {
	result := r.db.WithContext(ctx).Model(submission).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"patient_name":            submission.PatientName,
			"data":                    submission.Data,
			"status":                  submission.Status,
			"submitted_by_id":         submission.SubmittedBy.ID,
			"submitted_by_name":       submission.SubmittedBy.Name,
			"submitted_by_role":       submission.SubmittedBy.Role,
			"submitted_by_department": submission.SubmittedBy.Department,
			"submitted_at":            submission.SubmittedAt,
			"updated_at":              time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateSubmissionStatus moves a submission to a new status.
func (r *FormRepository) UpdateSubmissionStatus(ctx context.Context, submission *models.FormSubmission, newStatus string) error {
	result := r.db.WithContext(ctx).Model(submission).
		Where("id = ?", submission.ID).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	submission.Status = newStatus
	return nil
}

// GetSubmissionByID retrieves a submission with its audit trail, oldest entry
// first.
func (r *FormRepository) GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.FormSubmission, error) {
	var submission models.FormSubmission
	err := r.db.WithContext(ctx).
		Preload("AuditLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_audit_logs.created_at ASC")
		}).
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// ListSubmissions retrieves all submissions, newest first. Role-based
// filtering happens in the service layer; it is a display rule, not a
// storage one.
func (r *FormRepository) ListSubmissions(ctx context.Context) ([]models.FormSubmission, error) {
	var submissions []models.FormSubmission
	err := r.db.WithContext(ctx).
		Preload("AuditLogs", func(db *gorm.DB) *gorm.DB {
			return db.Order("form_audit_logs.created_at ASC")
		}).
		Order("submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// --- Audit Methods ---

// CreateAuditLog appends an audit log entry. Entries are never updated or
// deleted.
func (r *FormRepository) CreateAuditLog(ctx context.Context, entry *models.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetSubmissionHistory retrieves the audit trail for a submission.
func (r *FormRepository) GetSubmissionHistory(ctx context.Context, submissionID uuid.UUID) ([]models.AuditLogEntry, error) {
	var entries []models.AuditLogEntry
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
