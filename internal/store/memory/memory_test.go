package memory

import (
	"context"
	"fmt"
	"testing"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSheet(t *testing.T) (*Store, store.Worksheet) {
	t.Helper()
	s := New("Timesheet")
	ws, err := s.CreateWorksheet(context.Background(), "January 2026", 10, 6)
	require.NoError(t, err)
	return s, ws
}

func TestStore_Worksheets(t *testing.T) {
	ctx := context.Background()
	s := New("Timesheet")

	_, err := s.GetWorksheet(ctx, "January 2026")
	assert.ErrorIs(t, err, store.ErrWorksheetNotFound)

	created, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)
	_, err = s.CreateWorksheet(ctx, "Settings", 10, 2)
	require.NoError(t, err)

	got, err := s.GetWorksheet(ctx, "January 2026")
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 75, got.Rows)

	list, err := s.ListWorksheets(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "January 2026", list[0].Title)
	assert.Equal(t, "Settings", list[1].Title)

	_, err = s.CreateWorksheet(ctx, "Settings", 10, 2)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
}

func TestStore_ReadRangeShouldBeRagged(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s, ws := newSheet(t)
	require.NoError(t, s.WriteCell(ctx, ws, 2, 2, "John Doe"))
	require.NoError(t, s.WriteCell(ctx, ws, 4, 2, "Jane Roe"))
	require.NoError(t, s.WriteCell(ctx, ws, 4, 3, 8.5))

	// Act
	grid, err := s.ReadRange(ctx, ws, "B1:C10", store.ReadOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, [][]string{{}, {"John Doe"}, {}, {"Jane Roe", "8.5"}}, grid)
}

func TestStore_WriteRange(t *testing.T) {
	ctx := context.Background()
	s, ws := newSheet(t)

	err := s.WriteRange(ctx, ws, "C3:C4", [][]string{{"=SUM(C6:C10)"}, {"=IF(C3=0,0,C2/C3)"}}, store.WriteOptions{TreatAsFormula: true})
	require.NoError(t, err)

	assert.Equal(t, "=SUM(C6:C10)", s.Value("January 2026", "C3"))
	formulas, err := s.ReadRange(ctx, ws, "C3:C4", store.ReadOptions{Formulas: true})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"=SUM(C6:C10)"}, {"=IF(C3=0,0,C2/C3)"}}, formulas)

	err = s.WriteRange(ctx, ws, "C3", [][]string{{"a"}, {"b"}}, store.WriteOptions{})
	assert.Error(t, err, "more rows than the range")
}

func TestStore_ShouldRejectWritesOutsideTheGrid(t *testing.T) {
	ctx := context.Background()
	s, ws := newSheet(t)

	err := s.WriteCell(ctx, ws, 11, 1, "x")

	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
	assert.Contains(t, err.Error(), "A11")
}

func TestStore_CallsAndFailures(t *testing.T) {
	ctx := context.Background()
	s, ws := newSheet(t)

	_, _ = s.ReadRange(ctx, ws, "A1", store.ReadOptions{})
	_, _ = s.ReadRange(ctx, ws, "A2", store.ReadOptions{})
	assert.Equal(t, 2, s.Calls(OpReadRange))
	assert.Equal(t, 1, s.Calls(OpCreateWorksheet))

	s.FailOn(OpWriteCell, fmt.Errorf("quota exceeded"))
	err := s.WriteCell(ctx, ws, 1, 1, "x")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
	assert.Equal(t, "", s.Value("January 2026", "A1"))

	s.FailOn(OpWriteCell, nil)
	require.NoError(t, s.WriteCell(ctx, ws, 1, 1, "x"))
	assert.Equal(t, 2, s.Calls(OpWriteCell))

	s.ResetCalls()
	assert.Equal(t, 0, s.Calls(OpWriteCell))
}

func TestStore_Cosmetics(t *testing.T) {
	ctx := context.Background()
	s, ws := newSheet(t)

	require.NoError(t, s.ApplyFormatting(ctx, ws, "A5:F5", store.Style{Bold: true, Background: "E6E6E6"}))
	require.NoError(t, s.FreezePanes(ctx, ws, 5, 2))

	st, ok := s.StyleAt("January 2026", "D5")
	require.True(t, ok)
	assert.True(t, st.Bold)
	_, ok = s.StyleAt("January 2026", "D6")
	assert.False(t, ok)

	rows, cols := s.Frozen("January 2026")
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, cols)
}
