package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType classifies a rejected request field
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidFormat    ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength    ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue     ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange     ValidationErrorType = "invalid_range"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
)

// secretFields never keep the rejected value on a FieldError.
var secretFields = map[string]bool{
	"pin":      true,
	"password": true,
	"token":    true,
}

// FieldError describes one rejected field of a timesheet or auth request.
// Value is nil for secret fields such as the PIN.
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", fe.Field, fe.Message)
}

// ValidationError collects every problem found in a single request so the
// caller can report them together.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "invalid request"
	case 1:
		return "invalid request: " + ve.Errors[0].Error()
	}

	parts := make([]string, 0, len(ve.Errors))
	for i := range ve.Errors {
		parts = append(parts, ve.Errors[i].Error())
	}
	return fmt.Sprintf("invalid request (%d problems): %s", len(ve.Errors), strings.Join(parts, "; "))
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasErrors reports whether any field was rejected
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// AddError records a rejected field. The value is dropped for secret fields.
func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	if secretFields[field] {
		value = nil
	}
	ve.Errors = append(ve.Errors, FieldError{
		Field:   field,
		Type:    errorType,
		Message: message,
		Value:   value,
	})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, label(field)+" is required", nil)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expectedFormat string) {
	ve.AddError(field, ErrorTypeInvalidFormat, fmt.Sprintf("%s must be in the form %s", label(field), expectedFormat), value)
}

// AddInvalidLengthError records a length violation. A zero bound is treated
// as absent.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	name := label(field)
	var message string
	switch {
	case min > 0 && max > 0:
		message = fmt.Sprintf("%s must be %d to %d characters", name, min, max)
	case min > 0:
		message = fmt.Sprintf("%s must be at least %d characters", name, min)
	case max > 0:
		message = fmt.Sprintf("%s must be at most %d characters", name, max)
	default:
		message = name + " has an invalid length"
	}
	ve.AddError(field, ErrorTypeInvalidLength, message, value)
}

func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, label(field)+" "+reason, value)
}

func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidRange, label(field)+" is out of range: "+reason, value)
}

func (ve *ValidationError) AddInvalidCharacterError(field string, value interface{}) {
	ve.AddError(field, ErrorTypeInvalidCharacter, label(field)+" may only contain letters, spaces, hyphens and apostrophes", value)
}

// GetFieldErrors returns the errors recorded against field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage returns the text shown to an employee or manager.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "The request could not be processed"
	case 1:
		return ve.Errors[0].Message
	}

	var b strings.Builder
	b.WriteString("Please correct the following:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}

// label turns a wire field name such as "start_time" into "Start time".
func label(field string) string {
	if field == "" {
		return "Value"
	}
	s := strings.ReplaceAll(field, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
