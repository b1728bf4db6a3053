package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
	"mediform-service/internal/services"
)

// TemplateServiceInterface is the slice of the template service the handlers
// use.
type TemplateServiceInterface interface {
	CreateTemplate(ctx context.Context, user models.User, input services.SaveTemplateInput) (*models.FormTemplate, error)
	UpdateTemplate(ctx context.Context, user models.User, templateID uuid.UUID, input services.SaveTemplateInput) (*models.FormTemplate, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.FormTemplate, error)
	ListTemplates(ctx context.Context) ([]models.FormTemplate, error)
	GenerateDraftFields(ctx context.Context, description string, current []models.FormField) []models.FormField
}

// TemplateHandler handles HTTP requests for form templates
type TemplateHandler struct {
	service TemplateServiceInterface
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(service TemplateServiceInterface) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// templateErrorStatus maps template validation failures to 400, missing
// templates to 404, and everything unexpected to 500.
func templateErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrEmptyTitle),
		errors.Is(err, models.ErrDuplicateFieldID),
		errors.Is(err, models.ErrMissingOptions),
		errors.Is(err, models.ErrUnknownFieldType):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTemplateNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// CreateTemplate creates a new form template
// @Summary Create form template
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body services.SaveTemplateInput true "Template content"
// @Success 201 {object} models.FormTemplate
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var input services.SaveTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	template, err := h.service.CreateTemplate(c.Request.Context(), user, input)
	if err != nil {
		c.JSON(templateErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, template)
}

// UpdateTemplate overwrites an existing template
// @Summary Update form template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body services.SaveTemplateInput true "Template content"
// @Success 200 {object} models.FormTemplate
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	var input services.SaveTemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	template, err := h.service.UpdateTemplate(c.Request.Context(), user, id, input)
	if err != nil {
		c.JSON(templateErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, template)
}

// GetTemplate retrieves a template by ID
// @Summary Get form template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} models.FormTemplate
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template id"})
		return
	}

	template, err := h.service.GetTemplate(c.Request.Context(), id)
	if err != nil {
		c.JSON(templateErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, template)
}

// ListTemplates lists all templates
// @Summary List form templates
// @Tags Templates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

type generateFieldsRequest struct {
	Description string             `json:"description" binding:"required"`
	Fields      []models.FormField `json:"fields"`
}

// GenerateFields drafts fields from a description via the AI generator
// @Summary Generate draft fields
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body generateFieldsRequest true "Form description and current draft fields"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/templates/generate [post]
func (h *TemplateHandler) GenerateFields(c *gin.Context) {
	var req generateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Generation failures degrade to the unchanged field list, so this
	// endpoint always answers 200.
	fields := h.service.GenerateDraftFields(c.Request.Context(), req.Description, req.Fields)
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}
