package schema

import (
	"context"
	"fmt"
	"testing"
	"time"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/period"
	"vila-timesheet/internal/store"
	"vila-timesheet/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const january = "January 2026"

var jan28 = time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC)

func setupLocator(t *testing.T, mutate ...func(l *layout.Layout)) (*Locator, *memory.Store) {
	t.Helper()
	lay := layout.Default()
	for _, m := range mutate {
		m(&lay)
	}
	mem := memory.New("Timesheet")
	return NewLocator(mem, lay, nil), mem
}

func resolveJanuary(t *testing.T, loc *Locator) Sheet {
	t.Helper()
	sheet, err := loc.ResolveOrCreatePeriodSheet(context.Background(), period.KeyFor(jan28))
	require.NoError(t, err)
	return sheet
}

func TestLocator_ResolveOrCreatePeriodSheet(t *testing.T) {
	t.Run("should create and initialize a new sheet", func(t *testing.T) {
		// Arrange
		loc, mem := setupLocator(t)

		// Act
		sheet := resolveJanuary(t, loc)

		// Assert
		assert.True(t, sheet.Created)
		assert.Equal(t, january, sheet.Name())
		assert.Equal(t, 75, sheet.Worksheet.Rows)
		assert.Equal(t, 64, sheet.Worksheet.Cols)
		assert.Equal(t, "VILA ACADIA TIMESHEET", mem.Value(january, "A1"))
		assert.Equal(t, january, mem.Value(january, "B1"))
		assert.Equal(t, "Total Tips (T)", mem.Value(january, "B2"))
		assert.Equal(t, "Total Hours (H)", mem.Value(january, "B3"))
		assert.Equal(t, "Tip Rate (R)", mem.Value(january, "B4"))
		assert.Equal(t, "#", mem.Value(january, "A5"))
		assert.Equal(t, "Employee", mem.Value(january, "B5"))

		style, ok := mem.StyleAt(january, "BL5")
		require.True(t, ok)
		assert.Equal(t, HeaderStyle, style)
		rows, cols := mem.Frozen(january)
		assert.Equal(t, 5, rows)
		assert.Equal(t, 2, cols)
	})

	t.Run("should reuse an initialized sheet without writing", func(t *testing.T) {
		loc, mem := setupLocator(t)
		resolveJanuary(t, loc)
		mem.ResetCalls()

		sheet := resolveJanuary(t, loc)

		assert.False(t, sheet.Created)
		assert.Equal(t, 0, mem.Calls(memory.OpCreateWorksheet))
		assert.Equal(t, 0, mem.Calls(memory.OpWriteCell))
		assert.Equal(t, 1, mem.Calls(memory.OpReadRange))
	})

	t.Run("should finish an interrupted initialization", func(t *testing.T) {
		loc, mem := setupLocator(t)
		_, err := mem.CreateWorksheet(context.Background(), january, 75, 64)
		require.NoError(t, err)

		sheet := resolveJanuary(t, loc)

		assert.False(t, sheet.Created)
		assert.Equal(t, "VILA ACADIA TIMESHEET", mem.Value(january, "A1"))
		assert.Equal(t, "Employee", mem.Value(january, "B5"))
	})

	t.Run("should ignore cosmetic failures", func(t *testing.T) {
		loc, mem := setupLocator(t)
		mem.FailOn(memory.OpApplyFormatting, fmt.Errorf("formatting quota"))
		mem.FailOn(memory.OpFreezePanes, fmt.Errorf("freeze quota"))

		resolveJanuary(t, loc)

		assert.Equal(t, "VILA ACADIA TIMESHEET", mem.Value(january, "A1"))
	})

	t.Run("should surface store failures", func(t *testing.T) {
		loc, mem := setupLocator(t)
		mem.FailOn(memory.OpCreateWorksheet, fmt.Errorf("unavailable"))

		_, err := loc.ResolveOrCreatePeriodSheet(context.Background(), period.KeyFor(jan28))

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
	})

	t.Run("should leave the sentinel unwritten when initialization fails", func(t *testing.T) {
		loc, mem := setupLocator(t)
		mem.FailOn(memory.OpWriteCell, fmt.Errorf("unavailable"))

		_, err := loc.ResolveOrCreatePeriodSheet(context.Background(), period.KeyFor(jan28))

		require.Error(t, err)
		assert.Equal(t, "", mem.Value(january, "A1"))
	})
}

func TestLocator_FindPeriodSheet(t *testing.T) {
	ctx := context.Background()
	loc, mem := setupLocator(t)

	_, err := loc.FindPeriodSheet(ctx, period.KeyFor(jan28))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotInitialized))

	_, err = mem.CreateWorksheet(ctx, january, 75, 64)
	require.NoError(t, err)
	_, err = loc.FindPeriodSheet(ctx, period.KeyFor(jan28))
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeNotInitialized))

	resolveJanuary(t, loc)
	sheet, err := loc.FindPeriodSheet(ctx, period.KeyFor(jan28))
	require.NoError(t, err)
	assert.Equal(t, january, sheet.Name())
}

func TestLocator_ResolveOrCreateEmployeeRow(t *testing.T) {
	ctx := context.Background()

	t.Run("should append rows with a running index", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)

		first, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "John Doe")
		require.NoError(t, err)
		second, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "Jane Roe")
		require.NoError(t, err)

		assert.Equal(t, 6, first)
		assert.Equal(t, 7, second)
		assert.Equal(t, "1", mem.Value(january, "A6"))
		assert.Equal(t, "John Doe", mem.Value(january, "B6"))
		assert.Equal(t, "2", mem.Value(january, "A7"))
		assert.Equal(t, "Jane Roe", mem.Value(january, "B7"))
	})

	t.Run("should match names case-insensitively without writing", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		_, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "John Doe")
		require.NoError(t, err)
		mem.ResetCalls()

		row, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "  john DOE ")

		require.NoError(t, err)
		assert.Equal(t, 6, row)
		assert.Equal(t, 0, mem.Calls(memory.OpWriteCell))
		assert.Equal(t, 1, mem.Calls(memory.OpReadRange))
	})

	t.Run("should append after the last used row, skipping gaps", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		require.NoError(t, mem.WriteCell(ctx, sheet.Worksheet, 8, 2, "Manual Entry"))

		row, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "John Doe")

		require.NoError(t, err)
		assert.Equal(t, 9, row)
		assert.Equal(t, "4", mem.Value(january, "A9"))
	})

	t.Run("should report capacity with the bound", func(t *testing.T) {
		loc, _ := setupLocator(t, func(l *layout.Layout) { l.MaxEmployees = 2 })
		sheet := resolveJanuary(t, loc)
		for _, n := range []string{"A", "B"} {
			_, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, n)
			require.NoError(t, err)
		}

		_, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "C")

		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCapacityExceeded))
		assert.Contains(t, err.Error(), "limit is 2")
	})

	t.Run("should reject a blank name", func(t *testing.T) {
		loc, _ := setupLocator(t)
		sheet := resolveJanuary(t, loc)

		_, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, "   ")

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidInput))
	})
}

func TestLocator_ResolveOrCreateDateColumnPair(t *testing.T) {
	ctx := context.Background()

	t.Run("should allocate the first block with formulas and header", func(t *testing.T) {
		// Arrange
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)

		// Act
		pair, created, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)

		// Assert
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, layout.ColumnPair{Hours: 3, Payout: 4}, pair)
		assert.Equal(t, "01/28/2026", mem.Value(january, "C5"))
		assert.Equal(t, "Payout", mem.Value(january, "D5"))
		assert.Equal(t, "=SUM(C6:C75)", mem.Value(january, "C3"))
		assert.Equal(t, "=IF(C3=0,0,C2/C3)", mem.Value(january, "C4"))
		assert.Equal(t, "=C6*$C$4", mem.Value(january, "D6"))
		assert.Equal(t, "=C75*$C$4", mem.Value(january, "D75"))
		assert.Equal(t, "", mem.Value(january, "C2"))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		first, _, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)
		require.NoError(t, err)
		mem.ResetCalls()

		second, created, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first, second)
		assert.Equal(t, 0, mem.Calls(memory.OpWriteRange))
		assert.Equal(t, 0, mem.Calls(memory.OpWriteCell))
		assert.Equal(t, 1, mem.Calls(memory.OpReadRange))
	})

	t.Run("should append later dates after the last block", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		_, _, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)
		require.NoError(t, err)

		pair, created, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28.AddDate(0, 0, -20))

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, layout.ColumnPair{Hours: 5, Payout: 6}, pair)
		assert.Equal(t, "01/08/2026", mem.Value(january, "E5"))
		assert.Equal(t, "=E6*$E$4", mem.Value(january, "F6"))
	})

	t.Run("should find a block that is not the first", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		require.NoError(t, mem.WriteCell(ctx, sheet.Worksheet, 5, 3, "01/28/2026"))
		require.NoError(t, mem.WriteCell(ctx, sheet.Worksheet, 5, 5, "01/09/2026"))

		pair, created, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC))

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 5, pair.Hours)
	})

	t.Run("should redo an allocation interrupted before the header", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		require.NoError(t, mem.WriteRange(ctx, sheet.Worksheet, "C3", [][]string{{"=SUM(C6:C75)"}}, store.WriteOptions{TreatAsFormula: true}))

		pair, created, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, 3, pair.Hours)
	})

	t.Run("should report column capacity", func(t *testing.T) {
		loc, _ := setupLocator(t, func(l *layout.Layout) { l.MaxDates = 1 })
		sheet := resolveJanuary(t, loc)
		_, _, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)
		require.NoError(t, err)

		_, _, err = loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28.AddDate(0, 0, 1))

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCapacityExceeded))
		assert.Contains(t, err.Error(), "limit is 1")
	})

	t.Run("should not write the header when formulas fail", func(t *testing.T) {
		loc, mem := setupLocator(t)
		sheet := resolveJanuary(t, loc)
		mem.FailOn(memory.OpWriteRange, fmt.Errorf("unavailable"))

		_, _, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
		assert.Equal(t, "", mem.Value(january, "C5"))
	})
}

func TestLocator_Listings(t *testing.T) {
	ctx := context.Background()
	loc, mem := setupLocator(t)
	sheet := resolveJanuary(t, loc)
	for _, n := range []string{"John Doe", "Jane Roe"} {
		_, err := loc.ResolveOrCreateEmployeeRow(ctx, sheet, n)
		require.NoError(t, err)
	}
	pair, _, err := loc.ResolveOrCreateDateColumnPair(ctx, sheet, jan28)
	require.NoError(t, err)
	require.NoError(t, mem.WriteCell(ctx, sheet.Worksheet, 2, pair.Hours, 500.0))

	employees, err := loc.Employees(ctx, sheet)
	require.NoError(t, err)
	dates, err := loc.Dates(ctx, sheet)
	require.NoError(t, err)
	dash, err := loc.ReadDashboard(ctx, sheet, pair)
	require.NoError(t, err)

	assert.Equal(t, []Employee{{Name: "John Doe", Row: 6}, {Name: "Jane Roe", Row: 7}}, employees)
	require.Len(t, dates, 1)
	assert.Equal(t, "01/28/2026", dates[0].Header)
	assert.Equal(t, "500", dash.Amount)
	assert.Equal(t, "=SUM(C6:C75)", dash.HoursSum)
	assert.Equal(t, "=IF(C3=0,0,C2/C3)", dash.Rate)
}
