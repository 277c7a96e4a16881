package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Accepted request formats.
const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

// Validator provides common validation utilities
type Validator struct {
	pinRegex      *regexp.Regexp
	maxNameLength int
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		pinRegex:      regexp.MustCompile(`^\d{4}$`),
		maxNameLength: 100,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a string length is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := len([]rune(strings.TrimSpace(s)))
	return length >= min && length <= max
}

// IsValidEmployeeNameLength checks the trimmed name against the length limit
func (v *Validator) IsValidEmployeeNameLength(name string) bool {
	return v.IsValidStringLength(name, 1, v.maxNameLength)
}

// IsValidEmployeeName rejects control characters and a leading '=', which a
// spreadsheet would read as a formula.
func (v *Validator) IsValidEmployeeName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if strings.HasPrefix(trimmed, "=") {
		return false
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// IsValidPIN checks for exactly four digits
func (v *Validator) IsValidPIN(pin string) bool {
	return v.pinRegex.MatchString(pin)
}

// IsValidDate checks for a calendar date in YYYY-MM-DD form
func (v *Validator) IsValidDate(s string) bool {
	_, err := time.Parse(DateFormat, strings.TrimSpace(s))
	return err == nil
}

// IsValidClock checks for a 24-hour HH:MM time of day
func (v *Validator) IsValidClock(s string) bool {
	_, err := time.Parse(ClockFormat, strings.TrimSpace(s))
	return err == nil
}

// IsPositiveAmount checks that an amount is strictly greater than zero
func (v *Validator) IsPositiveAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}

// IsReasonableDate checks if a date is within reasonable bounds of now
func (v *Validator) IsReasonableDate(t, now time.Time) bool {
	// Allow dates from 10 years ago to 1 year in the future
	tenYearsAgo := now.AddDate(-10, 0, 0)
	oneYearFromNow := now.AddDate(1, 0, 0)

	return t.After(tenYearsAgo) && t.Before(oneYearFromNow)
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}
