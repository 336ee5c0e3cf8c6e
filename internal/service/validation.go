package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/workforce-portal/grievance-service/pkg/util/errorutil"
)

// validationError converts validator failures into a VALIDATION_FAILED error whose
// details map each offending field to the rule it broke.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	details := make(map[string]any, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		details[field] = fe.Tag()
		fields = append(fields, field)
	}
	return apperrors.NewValidationError("invalid fields: "+strings.Join(fields, ", "), details)
}
