// Package period maps work dates to monthly period sheets and decides whether a
// period still accepts submissions.
package period

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of work dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// sheetNameLayout renders "January 2026".
const sheetNameLayout = "January 2006"

// Key identifies one calendar month.
type Key struct {
	Year  int
	Month time.Month
}

// KeyFor returns the period containing date. Dates in the same month and year
// always map to the same key.
func KeyFor(date time.Time) Key {
	return Key{Year: date.Year(), Month: date.Month()}
}

// SheetName is the worksheet title of the period.
func (k Key) SheetName() string {
	return k.Start().Format(sheetNameLayout)
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return k.SheetName()
}

// Start is the first day of the month, midnight UTC.
func (k Key) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last day of the month, midnight UTC.
func (k Key) End() time.Time {
	return k.Start().AddDate(0, 1, -1)
}

// Contains reports whether date falls inside the month.
func (k Key) Contains(date time.Time) bool {
	return KeyFor(date) == k
}

// Next returns the following month.
func (k Key) Next() Key {
	return KeyFor(k.Start().AddDate(0, 1, 0))
}

// ParseSheetName is the inverse of Key.SheetName.
func ParseSheetName(name string) (Key, error) {
	t, err := time.Parse(sheetNameLayout, name)
	if err != nil {
		return Key{}, fmt.Errorf("not a period sheet name %q: %w", name, err)
	}
	return KeyFor(t), nil
}

// Cutoff is the last calendar day on which the period of date accepts
// submissions: the second day of the following month.
func Cutoff(date time.Time) time.Time {
	return KeyFor(date).Next().Start().AddDate(0, 0, 1)
}

// IsOpen reports whether date's period still accepts submissions at now. The
// comparison is by calendar day in now's location; the cutoff day itself is open.
func IsOpen(date time.Time, now time.Time) bool {
	cutoff := Cutoff(date)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !today.After(cutoff)
}

// ParseDate parses a YYYY-MM-DD work date as a calendar day.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
