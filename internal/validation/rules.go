// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/helpmatch/internal/errors"
)

// DefaultUrgency is stored for missing or unknown urgency labels.
const DefaultUrgency = "low"

var urgencyLabels = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
	"urgent": {},
}

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NormalizeUrgency lowercases and trims an urgency label. Unknown or empty labels
// become DefaultUrgency.
func NormalizeUrgency(urgency string) string {
	label := strings.ToLower(strings.TrimSpace(urgency))
	if _, ok := urgencyLabels[label]; !ok {
		return DefaultUrgency
	}
	return label
}

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
