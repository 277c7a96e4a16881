package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// NewPermissionError creates a new permission error
func NewPermissionError(operation string, resource string) *AppError {
	return &AppError{
		Type:    ErrorTypePermission,
		Message: fmt.Sprintf("permission denied for %s on %s", operation, resource),
		Code:    "PERMISSION_DENIED",
		Context: map[string]interface{}{
			"operation": operation,
			"resource":  resource,
		},
	}
}

// NewNotInitializedError reports a worksheet or tab that must exist before a read.
func NewNotInitializedError(resource string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeNotInitialized,
		Message: fmt.Sprintf("'%s' tab not found in the spreadsheet", resource),
		Code:    "NOT_INITIALIZED",
		Cause:   cause,
		Context: map[string]interface{}{
			"resource": resource,
		},
	}
}

// NewDuplicateEntryError reports a timesheet cell that already holds a value.
func NewDuplicateEntryError(sheet string, cell string, existing string) *AppError {
	return &AppError{
		Type:    ErrorTypeDuplicateEntry,
		Message: fmt.Sprintf("cell %s in %s already contains data: %s. Cannot overwrite", cell, sheet, existing),
		Code:    "DUPLICATE_ENTRY",
		Context: map[string]interface{}{
			"sheet":    sheet,
			"cell":     cell,
			"existing": existing,
		},
	}
}

// NewCapacityExceededError reports that a fixed sheet bound was reached.
func NewCapacityExceededError(resource string, bound int) *AppError {
	return &AppError{
		Type:    ErrorTypeCapacityExceeded,
		Message: fmt.Sprintf("%s capacity exceeded: limit is %d", resource, bound),
		Code:    "CAPACITY_EXCEEDED",
		Context: map[string]interface{}{
			"resource": resource,
			"bound":    bound,
		},
	}
}

// NewPeriodClosedError reports a submission for a month past its cutoff.
func NewPeriodClosedError(period string, cutoff string) *AppError {
	return &AppError{
		Type:    ErrorTypePeriodClosed,
		Message: fmt.Sprintf("%s is closed for submissions. Cutoff date %s has passed", period, cutoff),
		Code:    "PERIOD_CLOSED",
		Context: map[string]interface{}{
			"period": period,
			"cutoff": cutoff,
		},
	}
}

// NewRemoteStoreError wraps a transport or auth failure from a store adapter.
// The operation and range are kept so the failing coordinates show up in logs.
func NewRemoteStoreError(operation string, rng string, cause error) *AppError {
	message := fmt.Sprintf("spreadsheet operation failed: %s", operation)
	if rng != "" {
		message = fmt.Sprintf("spreadsheet operation failed: %s %s", operation, rng)
	}
	return &AppError{
		Type:    ErrorTypeRemoteStore,
		Message: message,
		Code:    "REMOTE_STORE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
			"range":     rng,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypePermission,
			ErrorTypeDuplicateEntry, ErrorTypeCapacityExceeded, ErrorTypePeriodClosed:
			return appErr.Message
		case ErrorTypeNotInitialized:
			return "The timesheet spreadsheet is not set up yet. " + appErr.Message
		case ErrorTypeDatabase:
			return "A database error occurred. Please try again."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		case ErrorTypeRemoteStore:
			return "The spreadsheet service is unavailable. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
			ErrorTypeDuplicateEntry, ErrorTypePeriodClosed:
			return false // caller mistakes, not system faults
		default:
			return true
		}
	}
	return true
}
