package sqlite

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanner implements the Scanner interface for testing
type TestScanner struct {
	data []interface{}
	err  error
}

func (ts *TestScanner) Scan(dest ...interface{}) error {
	if ts.err != nil {
		return ts.err
	}
	return assign(dest, ts.data)
}

// TestRows implements the Rows interface for testing
type TestRows struct {
	rows       [][]interface{}
	currentRow int
	err        error
}

func (tr *TestRows) Next() bool {
	if tr.err != nil || tr.currentRow >= len(tr.rows) {
		return false
	}
	tr.currentRow++
	return true
}

func (tr *TestRows) Scan(dest ...interface{}) error {
	if tr.currentRow == 0 {
		return errors.New("no current row")
	}
	return assign(dest, tr.rows[tr.currentRow-1])
}

func (tr *TestRows) Err() error {
	return tr.err
}

func assign(dest []interface{}, data []interface{}) error {
	if len(dest) != len(data) {
		return errors.New("mismatch in number of destinations")
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int64:
			*v = data[i].(int64)
		case *string:
			*v = data[i].(string)
		}
	}
	return nil
}

func submissionRow(id int64, kind string, createdAt string) []interface{} {
	return []interface{}{id, "req-1", kind, "January 2026", "C6", "John Doe", "2026-01-28", "8", createdAt}
}

func TestScanClaim(t *testing.T) {
	tests := []struct {
		name        string
		scanner     *TestScanner
		expected    *Claim
		expectError bool
	}{
		{
			name:    "should scan a claim",
			scanner: &TestScanner{data: []interface{}{int64(1), "January 2026", "C6", "2026-01-28T17:00:00Z"}},
			expected: &Claim{
				ID:        1,
				Sheet:     "January 2026",
				Cell:      "C6",
				ClaimedAt: time.Date(2026, 1, 28, 17, 0, 0, 0, time.UTC),
			},
		},
		{
			name:        "should fail on a malformed timestamp",
			scanner:     &TestScanner{data: []interface{}{int64(1), "January 2026", "C6", "yesterday"}},
			expectError: true,
		},
		{
			name:        "should propagate no rows",
			scanner:     &TestScanner{err: sql.ErrNoRows},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanClaim(tt.scanner)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.ID, result.ID)
			assert.Equal(t, tt.expected.Sheet, result.Sheet)
			assert.Equal(t, tt.expected.Cell, result.Cell)
			assert.True(t, tt.expected.ClaimedAt.Equal(result.ClaimedAt))
		})
	}
}

func TestScanSubmissions(t *testing.T) {
	tests := []struct {
		name        string
		rows        *TestRows
		expectedIDs []int64
		expectError bool
	}{
		{
			name: "should scan every row",
			rows: &TestRows{rows: [][]interface{}{
				submissionRow(1, KindHours, "2026-01-28T17:00:00Z"),
				submissionRow(2, KindTips, "2026-01-28T18:00:00Z"),
			}},
			expectedIDs: []int64{1, 2},
		},
		{
			name:        "should return nothing for an empty result set",
			rows:        &TestRows{},
			expectedIDs: nil,
		},
		{
			name:        "should surface a row error",
			rows:        &TestRows{rows: [][]interface{}{submissionRow(1, KindHours, "2026-01-28T17:00:00Z")}, err: sql.ErrConnDone},
			expectError: true,
		},
		{
			name:        "should fail on a malformed timestamp",
			rows:        &TestRows{rows: [][]interface{}{submissionRow(1, KindHours, "bad")}},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanSubmissions(tt.rows)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.Len(t, result, len(tt.expectedIDs))
			for i, id := range tt.expectedIDs {
				assert.Equal(t, id, result[i].ID)
				assert.Equal(t, "John Doe", result[i].Employee)
			}
		})
	}
}
