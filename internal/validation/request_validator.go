package validation

import (
	"github.com/shopspring/decimal"
)

// RequestValidator validates the inputs of timesheet and authentication requests.
type RequestValidator struct {
	validator *Validator
}

// NewRequestValidator creates a new request validator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{
		validator: NewValidator(),
	}
}

// ValidateEmployeeName validates a name as typed by an employee
func (rv *RequestValidator) ValidateEmployeeName(field, name string) error {
	validationError := NewValidationError()
	rv.checkEmployeeName(validationError, field, name)
	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateCredentials validates an employee name and PIN pair
func (rv *RequestValidator) ValidateCredentials(name, pin string) error {
	validationError := NewValidationError()

	rv.checkEmployeeName(validationError, "name", name)

	if pin == "" {
		validationError.AddRequiredError("pin")
	} else if !rv.validator.IsValidPIN(pin) {
		validationError.AddInvalidFormatError("pin", nil, "4 digits")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateManagerPassword checks that a password was supplied
func (rv *RequestValidator) ValidateManagerPassword(password string) error {
	if password == "" {
		validationError := NewValidationError()
		validationError.AddRequiredError("password")
		return validationError
	}
	return nil
}

// ValidateShift validates a shift submission
func (rv *RequestValidator) ValidateShift(employee, date, start, end string) error {
	validationError := NewValidationError()

	rv.checkEmployeeName(validationError, "employee_name", employee)
	rv.checkDate(validationError, date)

	for _, clock := range []struct{ field, value string }{
		{"start_time", start},
		{"end_time", end},
	} {
		if !rv.validator.IsNonEmptyString(clock.value) {
			validationError.AddRequiredError(clock.field)
		} else if !rv.validator.IsValidClock(clock.value) {
			validationError.AddInvalidFormatError(clock.field, clock.value, "HH:MM (24-hour)")
		}
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTips validates a daily tip submission
func (rv *RequestValidator) ValidateTips(date string, total decimal.Decimal) error {
	validationError := NewValidationError()

	rv.checkDate(validationError, date)

	if !rv.validator.IsPositiveAmount(total) {
		validationError.AddInvalidValueError("total_tips", total.String(), "must be greater than zero")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

func (rv *RequestValidator) checkEmployeeName(ve *ValidationError, field, name string) {
	trimmed := rv.validator.TrimAndValidateString(name)
	if !rv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(field)
		return
	}
	if !rv.validator.IsValidEmployeeNameLength(trimmed) {
		ve.AddInvalidLengthError(field, trimmed, 1, rv.validator.maxNameLength)
	}
	if !rv.validator.IsValidEmployeeName(trimmed) {
		ve.AddInvalidCharacterError(field, trimmed)
	}
}

func (rv *RequestValidator) checkDate(ve *ValidationError, date string) {
	if !rv.validator.IsNonEmptyString(date) {
		ve.AddRequiredError("date")
	} else if !rv.validator.IsValidDate(date) {
		ve.AddInvalidFormatError("date", date, "YYYY-MM-DD")
	}
}
