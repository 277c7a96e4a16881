package domain

import "strings"

// PINLength is the number of digits in an employee PIN.
const PINLength = 4

// RosterEntry is one employee row of the roster tab.
// This is a pure domain model without spreadsheet-specific concerns.
type RosterEntry struct {
	Name string
	PIN  string
}

// NewRosterEntry creates a RosterEntry with a normalized name and PIN.
func NewRosterEntry(name, pin string) RosterEntry {
	return RosterEntry{
		Name: NormalizeName(name),
		PIN:  NormalizePIN(pin),
	}
}

// IsValid checks if the entry has both a name and a PIN.
func (e RosterEntry) IsValid() bool {
	return e.Name != "" && e.PIN != ""
}

// Matches reports whether name refers to this employee.
func (e RosterEntry) Matches(name string) bool {
	return SameEmployee(e.Name, name)
}

// String returns the employee name for display purposes.
func (e RosterEntry) String() string {
	return e.Name
}

// NormalizeName trims surrounding whitespace and collapses inner runs of
// whitespace to a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// SameEmployee compares two names the way the timesheet does: trimmed and
// case-insensitive.
func SameEmployee(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}

// NormalizePIN trims the PIN and restores leading zeros that a spreadsheet
// drops when it stores the PIN as a number ("123" becomes "0123").
func NormalizePIN(pin string) string {
	pin = strings.TrimSpace(pin)
	if pin == "" || len(pin) >= PINLength || !isDigits(pin) {
		return pin
	}
	return strings.Repeat("0", PINLength-len(pin)) + pin
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
