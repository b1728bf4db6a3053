package services

import "mediform-service/internal/models"

// FieldVisible evaluates a field's visibility condition against the current
// value mapping. A field without a condition is always visible; a field whose
// condition references a field with no stored value is hidden. The comparison
// is an exact string match, re-evaluated on every call — no caching.
func FieldVisible(field models.FormField, data models.SubmissionData) bool {
	if field.Condition == nil {
		return true
	}
	value, ok := data[field.Condition.FieldID]
	if !ok {
		return false
	}
	return value.ConditionString() == field.Condition.Value
}

// MissingRequiredLabels returns the labels of required, currently-visible
// fields that hold no value, in template field order. Required fields hidden
// by an unmet condition never appear here.
func MissingRequiredLabels(fields []models.FormField, data models.SubmissionData) []string {
	var missing []string
	for _, f := range fields {
		if !f.Required || !FieldVisible(f, data) {
			continue
		}
		if data[f.ID].IsEmpty() {
			missing = append(missing, f.Label)
		}
	}
	return missing
}
