package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	message := apperror.MessageOf(err)
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "VALIDATION_ERROR",
				Message: message,
			},
		})
	case apperror.KindConflict:
		Conflict(w, message)
	case apperror.KindState:
		StateError(w, message)
	case apperror.KindNotFound:
		NotFound(w, message)
	case apperror.KindForbidden:
		Forbidden(w, message)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
