package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mediform-service/internal/models"
)

func TestFieldVisible_NoCondition(t *testing.T) {
	field := models.FormField{ID: "f1", Type: models.FieldText, Label: "Name"}
	assert.True(t, FieldVisible(field, models.SubmissionData{}))
}

func TestFieldVisible_ConditionMet(t *testing.T) {
	template := createTestTemplate()
	detail := *template.FieldByID("f_allergy_detail")

	data := models.SubmissionData{
		"f_allergy": {Kind: models.ValueOption, Option: "Yes"},
	}
	assert.True(t, FieldVisible(detail, data))
}

func TestFieldVisible_ConditionNotMet(t *testing.T) {
	template := createTestTemplate()
	detail := *template.FieldByID("f_allergy_detail")

	data := models.SubmissionData{
		"f_allergy": {Kind: models.ValueOption, Option: "No"},
	}
	assert.False(t, FieldVisible(detail, data))
}

func TestFieldVisible_ControllingValueMissing(t *testing.T) {
	template := createTestTemplate()
	detail := *template.FieldByID("f_allergy_detail")

	// No stored value for the controlling field hides the dependent one.
	assert.False(t, FieldVisible(detail, models.SubmissionData{}))
}

func TestFieldVisible_ExactMatchOnly(t *testing.T) {
	template := createTestTemplate()
	detail := *template.FieldByID("f_allergy_detail")

	data := models.SubmissionData{
		"f_allergy": {Kind: models.ValueOption, Option: "yes"}, // case differs
	}
	assert.False(t, FieldVisible(detail, data))
}

func TestMissingRequiredLabels_HiddenRequiredFieldIgnored(t *testing.T) {
	template := createTestTemplate()

	// Allergy answered "No": the detail field is hidden, so only its own
	// emptiness never blocks.
	data := models.SubmissionData{
		"f_symptoms": {Kind: models.ValueText, Text: "Fever"},
		"f_allergy":  {Kind: models.ValueOption, Option: "No"},
	}
	assert.Empty(t, MissingRequiredLabels(template.Fields, data))
}

func TestMissingRequiredLabels_VisibleRequiredFieldBlocks(t *testing.T) {
	template := createTestTemplate()

	// Allergy answered "Yes": the detail field becomes visible and required.
	data := models.SubmissionData{
		"f_symptoms": {Kind: models.ValueText, Text: "Fever"},
		"f_allergy":  {Kind: models.ValueOption, Option: "Yes"},
	}
	assert.Equal(t, []string{"Allergy Detail"}, MissingRequiredLabels(template.Fields, data))
}

func TestMissingRequiredLabels_TemplateOrder(t *testing.T) {
	template := createTestTemplate()

	// Everything empty while the detail field is visible: labels come back in
	// template field order, not map iteration order.
	data := models.SubmissionData{
		"f_allergy": {Kind: models.ValueOption, Option: "Yes"},
	}
	missing := MissingRequiredLabels(template.Fields, data)
	assert.Equal(t, []string{"Symptoms", "Allergy Detail"}, missing)
}
