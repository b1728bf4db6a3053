package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mediform-service/internal/middleware"
	"mediform-service/internal/models"
)

// DashboardHandler serves the landing-page counters.
type DashboardHandler struct {
	templates   TemplateServiceInterface
	submissions SubmissionServiceInterface
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(templates TemplateServiceInterface, submissions SubmissionServiceInterface) *DashboardHandler {
	return &DashboardHandler{templates: templates, submissions: submissions}
}

// GetStats returns counters over the templates and the submissions visible to
// the acting user, so staff dashboards reflect the same filtered list they see
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)

	templates, err := h.templates.ListTemplates(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}
	submissions, err := h.submissions.ListSubmissions(ctx, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred"})
		return
	}

	counts := map[string]int{}
	for _, sub := range submissions {
		counts[sub.Status]++
	}

	c.JSON(http.StatusOK, gin.H{
		"templates":       len(templates),
		"submissions":     len(submissions),
		"drafts":          counts[models.StatusDraft],
		"pendingApproval": counts[models.StatusSubmitted],
		"approved":        counts[models.StatusApproved],
		"rejected":        counts[models.StatusRejected],
	})
}
