package httpserver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scribehq/scribe/internal/apperr"
)

// BindError translates a Gin binding failure into an INVALID_INPUT AppError.
// Validator field errors are collected into the details map; any other
// failure (malformed JSON, wrong types) becomes a plain validation error.
func BindError(err error) *apperr.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]any, len(verrs))
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := strings.ToLower(fe.Field())
			fields[field] = fieldMessage(fe)
			msgs = append(msgs, fmt.Sprintf("%s %s", field, fieldMessage(fe)))
		}
		appErr := apperr.Validation(strings.Join(msgs, "; "))
		appErr.Details = map[string]any{"fields": fields}
		return appErr
	}
	return apperr.Validation("invalid request body").WithCause(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}
