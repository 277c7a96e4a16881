package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  Clock
		expectErr bool
	}{
		{name: "should parse a morning time", input: "09:00", expected: Clock{9, 0}},
		{name: "should parse a single digit hour", input: "9:05", expected: Clock{9, 5}},
		{name: "should parse the last minute of the day", input: "23:59", expected: Clock{23, 59}},
		{name: "should trim whitespace", input: " 17:30 ", expected: Clock{17, 30}},
		{name: "should reject hour 24", input: "24:00", expectErr: true},
		{name: "should reject minute 60", input: "10:60", expectErr: true},
		{name: "should reject twelve hour format", input: "9:00 PM", expectErr: true},
		{name: "should reject empty input", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseClock(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestHoursBetween(t *testing.T) {
	tests := []struct {
		name     string
		start    Clock
		end      Clock
		expected float64
	}{
		{"should compute a day shift", Clock{9, 0}, Clock{17, 0}, 8.00},
		{"should wrap an overnight shift", Clock{23, 0}, Clock{2, 0}, 3.00},
		{"should round one minute to two decimals", Clock{9, 0}, Clock{9, 1}, 0.02},
		{"should treat equal clocks as a full day", Clock{12, 0}, Clock{12, 0}, 24.00},
		{"should round a third of an hour", Clock{8, 0}, Clock{8, 20}, 0.33},
		{"should round two thirds of an hour up", Clock{8, 0}, Clock{8, 40}, 0.67},
		{"should keep quarter hours exact", Clock{10, 15}, Clock{18, 30}, 8.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HoursBetween(tt.start, tt.end))
		})
	}
}

func TestHoursBetween_ShouldStayWithinOneDay(t *testing.T) {
	for sh := 0; sh < 24; sh += 5 {
		for sm := 0; sm < 60; sm += 13 {
			for eh := 0; eh < 24; eh += 3 {
				for em := 0; em < 60; em += 7 {
					hours := HoursBetween(Clock{sh, sm}, Clock{eh, em})
					require.Greater(t, hours, 0.0)
					require.LessOrEqual(t, hours, 24.0)
				}
			}
		}
	}
}

func TestDuration_ShouldHaveTwoDecimals(t *testing.T) {
	d := Duration(Clock{9, 0}, Clock{9, 7})

	assert.Equal(t, "0.12", d.StringFixed(2))
	assert.LessOrEqual(t, -d.Exponent(), int32(2))
}

func TestClock_String(t *testing.T) {
	assert.Equal(t, "07:05", Clock{7, 5}.String())
}
