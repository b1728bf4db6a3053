package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"mediform-service/internal/ai"
	"mediform-service/internal/models"
	"mediform-service/internal/repository"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateService handles template authoring.
type TemplateService struct {
	repo      repository.FormRepositoryInterface
	generator ai.DraftGenerator
	log       *logrus.Logger
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(repo repository.FormRepositoryInterface, generator ai.DraftGenerator, log *logrus.Logger) *TemplateService {
	if log == nil {
		log = logrus.New()
	}
	return &TemplateService{repo: repo, generator: generator, log: log}
}

// SaveTemplateInput represents the authored content of a template.
type SaveTemplateInput struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Fields      []models.FormField `json:"fields"`
}

// prepareFields fills in authoring defaults: a fresh unique id for fields
// added without one, and the placeholder option pair for option fields that
// arrive with no options.
func prepareFields(fields []models.FormField) []models.FormField {
	prepared := make([]models.FormField, len(fields))
	for i, f := range fields {
		if f.ID == "" {
			def := models.NewField(f.Type)
			f.ID = def.ID
			if len(f.Options) == 0 {
				f.Options = def.Options
			}
			if f.Label == "" {
				f.Label = def.Label
			}
		}
		f.Position = i
		prepared[i] = f
	}
	return prepared
}

// CreateTemplate validates and persists a new template. An empty title fails
// the save and persists nothing.
func (s *TemplateService) CreateTemplate(ctx context.Context, user models.User, input SaveTemplateInput) (*models.FormTemplate, error) {
	template := &models.FormTemplate{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CreatedBy:   user.ID,
		Fields:      prepareFields(input.Fields),
	}
	for i := range template.Fields {
		template.Fields[i].TemplateID = template.ID
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	s.warnDangling(template)

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// UpdateTemplate re-saves a template under the same id, overwriting the
// previous content. There is no version history.
func (s *TemplateService) UpdateTemplate(ctx context.Context, user models.User, templateID uuid.UUID, input SaveTemplateInput) (*models.FormTemplate, error) {
	existing, err := s.repo.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	template := &models.FormTemplate{
		ID:          existing.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CreatedBy:   existing.CreatedBy,
		CreatedAt:   existing.CreatedAt,
		Fields:      prepareFields(input.Fields),
	}
	for i := range template.Fields {
		template.Fields[i].TemplateID = template.ID
	}
	if err := template.Validate(); err != nil {
		return nil, err
	}
	s.warnDangling(template)

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

// GetTemplate retrieves a template by id.
func (s *TemplateService) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.FormTemplate, error) {
	template, err := s.repo.GetTemplateByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// ListTemplates retrieves all templates.
func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.FormTemplate, error) {
	return s.repo.ListTemplates(ctx)
}

// GenerateDraftFields asks the draft generator for fields matching the
// description and appends them to the current draft list. A failed or empty
// generation leaves the list unchanged; no error surfaces to the caller.
// Suggested ids colliding with existing ones are rewritten so the combined
// list stays unique.
func (s *TemplateService) GenerateDraftFields(ctx context.Context, description string, current []models.FormField) []models.FormField {
	if s.generator == nil {
		return current
	}
	suggested := s.generator.GenerateFields(ctx, description)
	if len(suggested) == 0 {
		return current
	}

	taken := make(map[string]struct{}, len(current))
	for _, f := range current {
		taken[f.ID] = struct{}{}
	}
	merged := append([]models.FormField{}, current...)
	for _, f := range suggested {
		if _, clash := taken[f.ID]; clash {
			f.ID = "field_" + uuid.NewString()
		}
		taken[f.ID] = struct{}{}
		merged = append(merged, f)
	}
	return merged
}

// warnDangling logs conditions that reference removed fields. Removal is
// unconditional, so these are allowed to persist; the affected fields just
// stay hidden.
func (s *TemplateService) warnDangling(template *models.FormTemplate) {
	for _, id := range template.DanglingConditions() {
		s.log.Warnf("Template %s: field %s has a condition referencing a missing field", template.ID, id)
	}
}
