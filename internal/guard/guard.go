// Package guard performs the write-once submission of hours and the
// unconditional write of a day's aggregate amount.
package guard

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/period"
	"vila-timesheet/internal/schema"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

// HoursResult describes where a shift landed.
type HoursResult struct {
	Sheet         string
	Row           int
	Column        int
	Cell          string
	Hours         float64
	ColumnCreated bool
}

// AmountResult describes a written aggregate amount.
type AmountResult struct {
	Sheet         string
	Column        int
	Cell          string
	Amount        decimal.Decimal
	ColumnCreated bool
	EmployeeCount int
}

// Guard coordinates the locator and a claimer for each submission.
type Guard struct {
	store   store.Store
	locator *schema.Locator
	claimer Claimer
	logger  *slog.Logger
}

// New creates a Guard. A nil claimer means ReadBeforeWrite.
func New(s store.Store, locator *schema.Locator, claimer Claimer, logger *slog.Logger) *Guard {
	if claimer == nil {
		claimer = NewReadBeforeWrite(s)
	}
	return &Guard{store: s, locator: locator, claimer: claimer, logger: logging.OrDiscard(logger)}
}

// SubmitHours records hours for employee on date. The target cell must be
// empty; an occupied cell fails with a duplicate entry error and is left as is.
func (g *Guard) SubmitHours(ctx context.Context, employee string, date time.Time, hours float64) (HoursResult, error) {
	sheet, err := g.locator.ResolveOrCreatePeriodSheet(ctx, period.KeyFor(date))
	if err != nil {
		return HoursResult{}, err
	}

	// The row comes first so a full sheet does not gain an empty date block.
	row, err := g.locator.ResolveOrCreateEmployeeRow(ctx, sheet, employee)
	if err != nil {
		return HoursResult{}, err
	}

	pair, created, err := g.locator.ResolveOrCreateDateColumnPair(ctx, sheet, date)
	if err != nil {
		return HoursResult{}, err
	}

	cell := sheetref.At(pair.Hours, row)
	if err := g.claimer.ClaimCell(ctx, sheet, cell, hours); err != nil {
		return HoursResult{}, err
	}

	g.logger.Info("recorded hours", "sheet", sheet.Name(), "cell", cell.String(), "employee", employee, "hours", hours)
	return HoursResult{
		Sheet:         sheet.Name(),
		Row:           row,
		Column:        pair.Hours,
		Cell:          cell.String(),
		Hours:         hours,
		ColumnCreated: created,
	}, nil
}

// SubmitAggregateAmount writes the day's amount cell, replacing any previous
// value. The block's formulas are not touched.
func (g *Guard) SubmitAggregateAmount(ctx context.Context, date time.Time, amount decimal.Decimal) (AmountResult, error) {
	sheet, err := g.locator.ResolveOrCreatePeriodSheet(ctx, period.KeyFor(date))
	if err != nil {
		return AmountResult{}, err
	}

	pair, created, err := g.locator.ResolveOrCreateDateColumnPair(ctx, sheet, date)
	if err != nil {
		return AmountResult{}, err
	}

	cell := g.locator.Layout().AmountCell(pair)
	if err := g.store.WriteCell(ctx, sheet.Worksheet, cell.Row, cell.Col, amount.InexactFloat64()); err != nil {
		return AmountResult{}, err
	}

	employees, err := g.locator.Employees(ctx, sheet)
	if err != nil {
		return AmountResult{}, err
	}

	g.logger.Info("recorded aggregate amount", "sheet", sheet.Name(), "cell", cell.String(), "amount", amount.StringFixed(2))
	return AmountResult{
		Sheet:         sheet.Name(),
		Column:        pair.Hours,
		Cell:          cell.String(),
		Amount:        amount,
		ColumnCreated: created,
		EmployeeCount: len(employees),
	}, nil
}
