// Package shift computes worked hours from a start and end clock time.
package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	clockLayout   = "15:04"
	minutesPerDay = 24 * 60
)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" value. A single-digit hour is accepted.
func ParseClock(value string) (Clock, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(value))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) minutes() int {
	return c.Hour*60 + c.Minute
}

// Duration returns the worked hours between start and end, rounded to two
// decimals half away from zero. An end at or before start crosses midnight, so
// equal clocks mean a full 24 hours.
func Duration(start, end Clock) decimal.Decimal {
	diff := end.minutes() - start.minutes()
	if diff <= 0 {
		diff += minutesPerDay
	}
	return decimal.NewFromInt(int64(diff)).Div(decimal.NewFromInt(60)).Round(2)
}

// HoursBetween is Duration as a float64, the form written to the sheet.
func HoursBetween(start, end Clock) float64 {
	return Duration(start, end).InexactFloat64()
}
