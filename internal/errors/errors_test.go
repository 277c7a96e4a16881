package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDuplicateEntryError(t *testing.T) {
	err := NewDuplicateEntryError("January 2026", "C6", "8")

	assert.Equal(t, ErrorTypeDuplicateEntry, err.Type)
	assert.Equal(t, "DUPLICATE_ENTRY", err.Code)
	assert.Contains(t, err.Message, "C6")
	assert.Contains(t, err.Message, "Cannot overwrite")

	cell, ok := err.GetContext("cell")
	require.True(t, ok)
	assert.Equal(t, "C6", cell)
}

func TestNewCapacityExceededError(t *testing.T) {
	err := NewCapacityExceededError("employee rows", 70)

	assert.Equal(t, ErrorTypeCapacityExceeded, err.Type)
	assert.Contains(t, err.Message, "70")

	bound, ok := err.GetContext("bound")
	require.True(t, ok)
	assert.Equal(t, 70, bound)
}

func TestNewRemoteStoreError(t *testing.T) {
	cause := errors.New("googleapi: Error 403")

	t.Run("should include range when given", func(t *testing.T) {
		err := NewRemoteStoreError("read range", "'January 2026'!C5:BL5", cause)

		assert.Equal(t, ErrorTypeRemoteStore, err.Type)
		assert.Contains(t, err.Message, "read range 'January 2026'!C5:BL5")
		assert.ErrorIs(t, err, cause)
	})

	t.Run("should omit range when empty", func(t *testing.T) {
		err := NewRemoteStoreError("list worksheets", "", cause)

		assert.Equal(t, "spreadsheet operation failed: list worksheets", err.Message)
	})
}

func TestNewNotInitializedError(t *testing.T) {
	err := NewNotInitializedError("Settings", nil)

	assert.Equal(t, ErrorTypeNotInitialized, err.Type)
	assert.Equal(t, "'Settings' tab not found in the spreadsheet", err.Message)
}

func TestNewPeriodClosedError(t *testing.T) {
	err := NewPeriodClosedError("January 2026", "2026-02-02")

	assert.Equal(t, ErrorTypePeriodClosed, err.Type)
	assert.Contains(t, err.Message, "January 2026")
	assert.Contains(t, err.Message, "2026-02-02")
}

func TestIsErrorType(t *testing.T) {
	dup := NewDuplicateEntryError("January 2026", "C6", "8")
	wrapped := fmt.Errorf("submit hours: %w", dup)

	assert.True(t, IsErrorType(wrapped, ErrorTypeDuplicateEntry))
	assert.False(t, IsErrorType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeDuplicateEntry))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "should pass duplicate entry message through verbatim",
			err:      NewDuplicateEntryError("January 2026", "C6", "8"),
			expected: "cell C6 in January 2026 already contains data: 8. Cannot overwrite",
		},
		{
			name:     "should hide remote store details",
			err:      NewRemoteStoreError("write cell", "C6", errors.New("oauth2: token expired")),
			expected: "The spreadsheet service is unavailable. Please try again.",
		},
		{
			name:     "should hide database details",
			err:      NewDatabaseError("insert claim", errors.New("disk full")),
			expected: "A database error occurred. Please try again.",
		},
		{
			name:     "should return plain error text for non app errors",
			err:      errors.New("boom"),
			expected: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "PERIOD_CLOSED", GetErrorCode(NewPeriodClosedError("May 2026", "2026-06-02")))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("x")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewDuplicateEntryError("s", "C6", "8")))
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.True(t, ShouldLogError(NewRemoteStoreError("read range", "A1", nil)))
	assert.True(t, ShouldLogError(NewCapacityExceededError("employee rows", 70)))
	assert.True(t, ShouldLogError(errors.New("unknown")))
}
