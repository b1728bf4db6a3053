package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SubmissionStatus constants. Wire values are uppercase.
const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	// StatusReviewed is declared in the workflow but no transition currently
	// produces it. Kept so stored data using it remains representable.
	StatusReviewed = "REVIEWED"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// ValueKind constants for the FieldValue tagged union.
const (
	ValueText      = "text"
	ValueNumber    = "number"
	ValueOption    = "option"
	ValueDate      = "date"
	ValueSignature = "signature"
	ValueFile      = "file"
)

// SignatureValue is a captured signature image.
type SignatureValue struct {
	DataURL string `json:"dataUrl"`
}

// FileValue is an uploaded attachment, inlined as a data URL.
type FileValue struct {
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
}

// FieldValue is the value stored for a single field, tagged by kind so each
// field type gets a defined shape instead of an open-ended interface{}.
type FieldValue struct {
	Kind      string          `json:"kind"`
	Text      string          `json:"text,omitempty"`
	Number    string          `json:"number,omitempty"`
	Option    string          `json:"option,omitempty"`
	Date      string          `json:"date,omitempty"`
	Signature *SignatureValue `json:"signature,omitempty"`
	File      *FileValue      `json:"file,omitempty"`
}

// ExpectedValueKind maps a field type to the value kind it stores.
func ExpectedValueKind(fieldType string) string {
	switch fieldType {
	case FieldText, FieldTextarea:
		return ValueText
	case FieldNumber:
		return ValueNumber
	case FieldDropdown, FieldCheckbox:
		return ValueOption
	case FieldDate:
		return ValueDate
	case FieldSignature:
		return ValueSignature
	case FieldFile:
		return ValueFile
	}
	return ""
}

// IsEmpty reports whether the value counts as unanswered for required-field
// validation.
func (v FieldValue) IsEmpty() bool {
	switch v.Kind {
	case ValueText:
		return v.Text == ""
	case ValueNumber:
		return v.Number == ""
	case ValueOption:
		return v.Option == ""
	case ValueDate:
		return v.Date == ""
	case ValueSignature:
		return v.Signature == nil || v.Signature.DataURL == ""
	case ValueFile:
		return v.File == nil || v.File.Name == ""
	}
	return true
}

// ConditionString returns the representation visibility conditions compare
// against. Signature and file payloads never satisfy a condition.
func (v FieldValue) ConditionString() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return v.Number
	case ValueOption:
		return v.Option
	case ValueDate:
		return v.Date
	}
	return ""
}

// SubmissionData maps field id to submitted value.
type SubmissionData map[string]FieldValue

// EncodeSubmissionData marshals data for storage in the jsonb column.
func EncodeSubmissionData(data SubmissionData) (datatypes.JSON, error) {
	if data == nil {
		data = SubmissionData{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission data: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// AuditLogEntry records one lifecycle action on a submission. Entries are
// append-only: never edited, reordered, or pruned.
type AuditLogEntry struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"-"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Action       string    `gorm:"type:varchar(100);not null" json:"action"`
	ActorName    string    `gorm:"type:varchar(255);not null" json:"by"`
	Comment      string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"at"`
}

// TableName returns the table name for AuditLogEntry
func (AuditLogEntry) TableName() string {
	return "form_audit_logs"
}

// FormSubmission is one filled instance of a template. The template title and
// submitting user are denormalized snapshots so the record stays readable even
// if the template is later edited.
type FormSubmission struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TemplateID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"templateId"`
	TemplateTitle string          `gorm:"type:varchar(255);not null" json:"templateTitle"`
	PatientName   string          `gorm:"type:varchar(255);index" json:"patientName"`
	Data          datatypes.JSON  `gorm:"type:jsonb;not null" json:"data"`
	Status        string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	SubmittedBy   User            `gorm:"embedded;embeddedPrefix:submitted_by_" json:"submittedBy"`
	SubmittedAt   time.Time       `gorm:"not null" json:"submittedAt"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
	AuditLogs     []AuditLogEntry `gorm:"foreignKey:SubmissionID" json:"auditLogs"`
}

// TableName returns the table name for FormSubmission
func (FormSubmission) TableName() string {
	return "form_submissions"
}

// DecodeData unmarshals the stored value mapping.
func (s *FormSubmission) DecodeData() (SubmissionData, error) {
	data := SubmissionData{}
	if len(s.Data) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(s.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode submission data: %w", err)
	}
	return data, nil
}

// IsTerminal returns true if the status is a terminal state
func (s *FormSubmission) IsTerminal() bool {
	return s.Status == StatusApproved || s.Status == StatusRejected
}

// Editable reports whether the submission's content may still change.
func (s *FormSubmission) Editable() bool {
	return s.Status == StatusDraft
}
