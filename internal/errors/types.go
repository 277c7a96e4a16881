package errors

import (
	"fmt"
)

// ErrorType classifies a failure of the timesheet engine; transports map it to a status code.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypePermission
	ErrorTypeNotInitialized
	ErrorTypeDuplicateEntry
	ErrorTypeCapacityExceeded
	ErrorTypePeriodClosed
	ErrorTypeRemoteStore
)

// String returns the snake_case name used in logs.
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeDatabase:
		return "database"
	case ErrorTypeInvalidInput:
		return "invalid_input"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypePermission:
		return "permission"
	case ErrorTypeNotInitialized:
		return "not_initialized"
	case ErrorTypeDuplicateEntry:
		return "duplicate_entry"
	case ErrorTypeCapacityExceeded:
		return "capacity_exceeded"
	case ErrorTypePeriodClosed:
		return "period_closed"
	case ErrorTypeRemoteStore:
		return "remote_store"
	default:
		return "unknown"
	}
}

// AppError is the error returned by services, stores and the ledger.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

// Unwrap exposes the store or parse error underneath.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so errors.Is works against sentinel AppErrors.
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type && e.Code == appErr.Code
	}
	return false
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext attaches a detail such as the sheet or cell for logging.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *AppError) GetContext(key string) (interface{}, bool) {
	if e.Context == nil {
		return nil, false
	}
	value, exists := e.Context[key]
	return value, exists
}
