package guard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/schema"
	"vila-timesheet/internal/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const january = "January 2026"

var jan28 = time.Date(2026, time.January, 28, 0, 0, 0, 0, time.UTC)

func setupGuard(t *testing.T) (*Guard, *memory.Store) {
	t.Helper()
	mem := memory.New("Timesheet")
	loc := schema.NewLocator(mem, layout.Default(), nil)
	return New(mem, loc, nil, nil), mem
}

func TestGuard_SubmitHours(t *testing.T) {
	ctx := context.Background()

	t.Run("should write hours into a new date column", func(t *testing.T) {
		// Arrange
		g, mem := setupGuard(t)

		// Act
		result, err := g.SubmitHours(ctx, "John Doe", jan28, 8)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, HoursResult{
			Sheet:         january,
			Row:           6,
			Column:        3,
			Cell:          "C6",
			Hours:         8,
			ColumnCreated: true,
		}, result)
		assert.Equal(t, "8", mem.Value(january, "C6"))
		assert.Equal(t, "=SUM(C6:C75)", mem.Value(january, "C3"))
	})

	t.Run("should reuse the column for a second employee", func(t *testing.T) {
		g, mem := setupGuard(t)
		_, err := g.SubmitHours(ctx, "John Doe", jan28, 8)
		require.NoError(t, err)

		result, err := g.SubmitHours(ctx, "Jane Roe", jan28, 6.5)

		require.NoError(t, err)
		assert.False(t, result.ColumnCreated)
		assert.Equal(t, "C7", result.Cell)
		assert.Equal(t, "6.5", mem.Value(january, "C7"))
	})

	t.Run("should leave no date column behind when the sheet is full", func(t *testing.T) {
		// Arrange
		mem := memory.New("Timesheet")
		l := layout.Default()
		l.MaxEmployees = 1
		g := New(mem, schema.NewLocator(mem, l, nil), nil, nil)
		_, err := g.SubmitHours(ctx, "John Doe", jan28, 8)
		require.NoError(t, err)
		mem.ResetCalls()

		// Act
		_, err = g.SubmitHours(ctx, "Jane Roe", jan28.AddDate(0, 0, 1), 6)

		// Assert
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeCapacityExceeded))
		assert.Equal(t, "", mem.Value(january, "E5"))
		assert.Equal(t, 0, mem.Calls(memory.OpWriteCell))
		assert.Equal(t, 0, mem.Calls(memory.OpWriteRange))
	})

	t.Run("should refuse to overwrite and keep the first value", func(t *testing.T) {
		g, mem := setupGuard(t)
		_, err := g.SubmitHours(ctx, "John Doe", jan28, 8)
		require.NoError(t, err)

		_, err = g.SubmitHours(ctx, "john doe", jan28, 5)

		require.Error(t, err)
		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeDuplicateEntry))
		assert.Contains(t, err.Error(), "C6")
		assert.Contains(t, err.Error(), "Cannot overwrite")
		assert.Equal(t, "8", mem.Value(january, "C6"))
	})

	t.Run("should surface store failures", func(t *testing.T) {
		g, mem := setupGuard(t)
		mem.FailOn(memory.OpGetWorksheet, fmt.Errorf("network down"))

		_, err := g.SubmitHours(ctx, "John Doe", jan28, 8)

		assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeRemoteStore))
	})
}

func TestGuard_SubmitAggregateAmount(t *testing.T) {
	ctx := context.Background()

	t.Run("should write the amount and leave formulas alone", func(t *testing.T) {
		g, mem := setupGuard(t)
		_, err := g.SubmitHours(ctx, "John Doe", jan28, 8)
		require.NoError(t, err)

		result, err := g.SubmitAggregateAmount(ctx, jan28, decimal.RequireFromString("500"))

		require.NoError(t, err)
		assert.False(t, result.ColumnCreated)
		assert.Equal(t, "C2", result.Cell)
		assert.Equal(t, 1, result.EmployeeCount)
		assert.Equal(t, "500", mem.Value(january, "C2"))
		assert.Equal(t, "=SUM(C6:C75)", mem.Value(january, "C3"))
		assert.Equal(t, "=IF(C3=0,0,C2/C3)", mem.Value(january, "C4"))
	})

	t.Run("should overwrite a previous amount", func(t *testing.T) {
		g, mem := setupGuard(t)
		_, err := g.SubmitAggregateAmount(ctx, jan28, decimal.RequireFromString("500"))
		require.NoError(t, err)

		_, err = g.SubmitAggregateAmount(ctx, jan28, decimal.RequireFromString("612.25"))

		require.NoError(t, err)
		assert.Equal(t, "612.25", mem.Value(january, "C2"))
	})

	t.Run("should allocate the column for a day without shifts", func(t *testing.T) {
		g, mem := setupGuard(t)

		result, err := g.SubmitAggregateAmount(ctx, jan28, decimal.RequireFromString("120"))

		require.NoError(t, err)
		assert.True(t, result.ColumnCreated)
		assert.Equal(t, 0, result.EmployeeCount)
		assert.Equal(t, "01/28/2026", mem.Value(january, "C5"))
	})
}
