package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// FieldType constants. These are wire values and also the keys the draft
// generator is asked to produce, so they stay lowercase.
const (
	FieldText      = "text"
	FieldNumber    = "number"
	FieldTextarea  = "textarea"
	FieldDropdown  = "dropdown"
	FieldCheckbox  = "checkbox"
	FieldDate      = "date"
	FieldSignature = "signature"
	FieldFile      = "file"
)

// FieldTypes lists every supported field type.
var FieldTypes = []string{
	FieldText, FieldNumber, FieldTextarea, FieldDropdown,
	FieldCheckbox, FieldDate, FieldSignature, FieldFile,
}

// IsValidFieldType reports whether t names a supported field type.
func IsValidFieldType(t string) bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// RequiresOptions reports whether fields of this type must carry an option list.
func RequiresOptions(fieldType string) bool {
	return fieldType == FieldDropdown || fieldType == FieldCheckbox
}

// FieldCondition gates a field's visibility on another field's current value.
// The match is an exact string comparison.
type FieldCondition struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// FormField is a single entry in a template's ordered field list. The id is
// unique within its template only; Position preserves authoring order.
type FormField struct {
	TemplateID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	ID         string          `gorm:"type:varchar(64);primaryKey" json:"id"`
	Position   int             `gorm:"not null" json:"-"`
	Type       string          `gorm:"type:varchar(20);not null" json:"type"`
	Label      string          `gorm:"type:varchar(255);not null" json:"label"`
	Required   bool            `gorm:"default:false" json:"required"`
	Options    pq.StringArray  `gorm:"type:text[]" json:"options,omitempty"`
	Condition  *FieldCondition `gorm:"type:jsonb;serializer:json" json:"condition,omitempty"`
}

// TableName returns the table name for FormField
func (FormField) TableName() string {
	return "form_fields"
}

// NewField creates a field of the given type with a fresh unique id and
// type-appropriate defaults (option types get a two-item placeholder list).
func NewField(fieldType string) FormField {
	f := FormField{
		ID:    "field_" + uuid.NewString(),
		Type:  fieldType,
		Label: "New " + fieldType,
	}
	if RequiresOptions(fieldType) {
		f.Options = pq.StringArray{"Option 1", "Option 2"}
	}
	return f
}

// FormTemplate defines a form: metadata plus an ordered field list. Re-saving
// under the same id overwrites in place; there is no versioning scheme.
type FormTemplate struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	CreatedBy   string      `gorm:"type:varchar(64);not null" json:"createdBy"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
	Fields      []FormField `gorm:"foreignKey:TemplateID" json:"fields"`
}

// TableName returns the table name for FormTemplate
func (FormTemplate) TableName() string {
	return "form_templates"
}

// FieldByID returns the field with the given id, or nil.
func (t *FormTemplate) FieldByID(id string) *FormField {
	for i := range t.Fields {
		if t.Fields[i].ID == id {
			return &t.Fields[i]
		}
	}
	return nil
}

var (
	ErrEmptyTitle       = errors.New("template title must not be empty")
	ErrDuplicateFieldID = errors.New("duplicate field id in template")
	ErrMissingOptions   = errors.New("option field must carry a non-empty option list")
	ErrUnknownFieldType = errors.New("unknown field type")
)

// Validate checks the template invariants that block a save: non-empty title,
// known field types, unique field ids, and a non-empty option list on option
// fields. Conditions referencing removed fields are deliberately NOT rejected
// here; a dangling condition simply keeps its field hidden.
func (t *FormTemplate) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}
	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if !IsValidFieldType(f.Type) {
			return fmt.Errorf("%w: %q", ErrUnknownFieldType, f.Type)
		}
		if _, dup := seen[f.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateFieldID, f.ID)
		}
		seen[f.ID] = struct{}{}
		if RequiresOptions(f.Type) && len(f.Options) == 0 {
			return fmt.Errorf("%w: field %q", ErrMissingOptions, f.ID)
		}
	}
	return nil
}

// DanglingConditions returns the ids of fields whose visibility condition
// references a field id that no longer exists in the template.
func (t *FormTemplate) DanglingConditions() []string {
	var dangling []string
	for _, f := range t.Fields {
		if f.Condition == nil {
			continue
		}
		if t.FieldByID(f.Condition.FieldID) == nil {
			dangling = append(dangling, f.ID)
		}
	}
	return dangling
}
