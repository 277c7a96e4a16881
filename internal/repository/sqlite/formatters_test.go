package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "should format UTC time",
			input:    time.Date(2026, 1, 28, 17, 4, 5, 0, time.UTC),
			expected: "2026-01-28T17:04:05Z",
		},
		{
			name:     "should normalize zoned time to UTC",
			input:    time.Date(2026, 1, 28, 12, 4, 5, 0, time.FixedZone("EST", -5*3600)),
			expected: "2026-01-28T17:04:05Z",
		},
		{
			name:     "should drop sub-second precision",
			input:    time.Date(2026, 1, 28, 17, 4, 5, 999, time.UTC),
			expected: "2026-01-28T17:04:05Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTimeForDB(tt.input))
		})
	}
}

func TestParseTimeFromDB(t *testing.T) {
	parsed, err := ParseTimeFromDB("2026-01-28T17:04:05Z")
	require.NoError(t, err)
	assert.True(t, parsed.Equal(time.Date(2026, 1, 28, 17, 4, 5, 0, time.UTC)))

	_, err = ParseTimeFromDB("2026-01-28 17:04:05")
	assert.Error(t, err)
}

func TestNowOr(t *testing.T) {
	fixed := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, fixed, nowOr(fixed))
	assert.WithinDuration(t, time.Now(), nowOr(time.Time{}), time.Second)
}
