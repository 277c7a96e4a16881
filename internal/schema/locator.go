// Package schema imposes the timesheet layout on a store: it finds or
// allocates the period sheet, employee rows and date column pairs.
//
// Allocation is append-only. A row or block is only ever claimed past the last
// used one, and its identifying cell (employee name, date header) is written
// last so an interrupted allocation is simply redone at the same position.
// Concurrent allocations of the same row or block are not serialized.
package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/formula"
	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/period"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

// HeaderStyle is applied to the header row and the aggregate labels.
var HeaderStyle = store.Style{Bold: true, Background: "E6E6E6"}

// Sheet is a resolved, initialized period sheet.
type Sheet struct {
	Period    period.Key
	Worksheet store.Worksheet
	// Created is true when this call created the worksheet.
	Created bool
}

// Name is the worksheet title.
func (s Sheet) Name() string {
	return s.Worksheet.Title
}

// Employee is a row of the employee region.
type Employee struct {
	Name string
	Row  int
}

// DateColumn is an allocated date block.
type DateColumn struct {
	Header string
	Pair   layout.ColumnPair
}

// Dashboard holds the aggregate cells of one date block as displayed.
type Dashboard struct {
	Amount   string
	HoursSum string
	Rate     string
}

// Locator resolves logical coordinates to grid coordinates.
type Locator struct {
	store  store.Store
	layout layout.Layout
	logger *slog.Logger
}

// NewLocator creates a Locator over s using layout l.
func NewLocator(s store.Store, l layout.Layout, logger *slog.Logger) *Locator {
	return &Locator{store: s, layout: l, logger: logging.OrDiscard(logger)}
}

// Layout returns the layout the locator was built with.
func (l *Locator) Layout() layout.Layout {
	return l.layout
}

// FindPeriodSheet returns the sheet of key without creating it. A missing or
// uninitialized sheet is reported as not initialized.
func (l *Locator) FindPeriodSheet(ctx context.Context, key period.Key) (Sheet, error) {
	name := key.SheetName()
	ws, err := l.store.GetWorksheet(ctx, name)
	if errors.Is(err, store.ErrWorksheetNotFound) {
		return Sheet{}, apperrors.NewNotInitializedError(name, err)
	}
	if err != nil {
		return Sheet{}, err
	}
	ok, err := l.initialized(ctx, ws)
	if err != nil {
		return Sheet{}, err
	}
	if !ok {
		return Sheet{}, apperrors.NewNotInitializedError(name, nil)
	}
	return Sheet{Period: key, Worksheet: ws}, nil
}

// ResolveOrCreatePeriodSheet returns the sheet of key, creating and
// initializing it on first use. A sheet whose initialization was interrupted
// is initialized again.
func (l *Locator) ResolveOrCreatePeriodSheet(ctx context.Context, key period.Key) (Sheet, error) {
	name := key.SheetName()
	sheet := Sheet{Period: key}

	ws, err := l.store.GetWorksheet(ctx, name)
	switch {
	case errors.Is(err, store.ErrWorksheetNotFound):
		ws, err = l.store.CreateWorksheet(ctx, name, l.layout.GridRows(), l.layout.GridCols())
		if err != nil {
			return Sheet{}, err
		}
		sheet.Created = true
		l.logger.Info("created period sheet", "sheet", name)
	case err != nil:
		return Sheet{}, err
	}
	sheet.Worksheet = ws

	ok, err := l.initialized(ctx, ws)
	if err != nil {
		return Sheet{}, err
	}
	if !ok {
		if err := l.initialize(ctx, ws, name); err != nil {
			return Sheet{}, err
		}
	}
	return sheet, nil
}

func (l *Locator) initialized(ctx context.Context, ws store.Worksheet) (bool, error) {
	grid, err := l.store.ReadRange(ctx, ws, l.layout.SentinelCell, store.ReadOptions{})
	if err != nil {
		return false, err
	}
	return sheetref.ValueAt(grid, 0, 0) == l.layout.SentinelValue, nil
}

type cellText struct {
	cell  sheetref.Cell
	value string
}

// initialize writes the fixed dashboard text. The sentinel goes last.
func (l *Locator) initialize(ctx context.Context, ws store.Worksheet, name string) error {
	lay := l.layout
	writes := []cellText{
		{sheetref.At(lay.LabelColumn, lay.AmountRow), lay.AmountLabel},
		{sheetref.At(lay.LabelColumn, lay.HoursSumRow), lay.HoursSumLabel},
		{sheetref.At(lay.LabelColumn, lay.RateRow), lay.RateLabel},
		{sheetref.At(lay.IndexColumn, lay.HeaderRow), lay.IndexHeader},
		{sheetref.At(lay.NameColumn, lay.HeaderRow), lay.NameHeader},
	}
	if c, err := sheetref.ParseCell(lay.PeriodNameCell); err == nil {
		writes = append(writes, cellText{c, name})
	}

	for _, w := range writes {
		if err := l.store.WriteCell(ctx, ws, w.cell.Row, w.cell.Col, w.value); err != nil {
			return err
		}
	}

	l.decorate(ctx, ws)

	sentinel, err := sheetref.ParseCell(lay.SentinelCell)
	if err != nil {
		return apperrors.NewInvalidInputError("sentinel_cell", lay.SentinelCell, err.Error())
	}
	if err := l.store.WriteCell(ctx, ws, sentinel.Row, sentinel.Col, lay.SentinelValue); err != nil {
		return err
	}
	l.logger.Info("initialized period sheet", "sheet", name)
	return nil
}

// decorate applies header styling and freezes the header region. Failures
// are logged and otherwise ignored.
func (l *Locator) decorate(ctx context.Context, ws store.Worksheet) {
	lay := l.layout
	header := sheetref.Span(sheetref.At(1, lay.HeaderRow), sheetref.At(lay.LastDateColumn(), lay.HeaderRow))
	if err := l.store.ApplyFormatting(ctx, ws, header.String(), HeaderStyle); err != nil {
		l.logger.Warn("failed to format header row", "sheet", ws.Title, "range", header.String(), "error", err)
	}

	first := min(lay.AmountRow, lay.HoursSumRow, lay.RateRow)
	last := max(lay.AmountRow, lay.HoursSumRow, lay.RateRow)
	labels := sheetref.Span(sheetref.At(lay.LabelColumn, first), sheetref.At(lay.LabelColumn, last))
	if err := l.store.ApplyFormatting(ctx, ws, labels.String(), store.Style{Bold: true}); err != nil {
		l.logger.Warn("failed to format dashboard labels", "sheet", ws.Title, "range", labels.String(), "error", err)
	}

	if err := l.store.FreezePanes(ctx, ws, lay.HeaderRow, max(lay.IndexColumn, lay.NameColumn)); err != nil {
		l.logger.Warn("failed to freeze header", "sheet", ws.Title, "error", err)
	}
}

// ResolveOrCreateEmployeeRow returns the row of name, matched case-insensitively
// after trimming. An unknown name is appended after the last used row together
// with a running index.
func (l *Locator) ResolveOrCreateEmployeeRow(ctx context.Context, sheet Sheet, name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, apperrors.NewInvalidInputError("employee_name", name, "must not be empty")
	}

	employees, lastUsed, err := l.readEmployees(ctx, sheet)
	if err != nil {
		return 0, err
	}
	for _, e := range employees {
		if strings.EqualFold(e.Name, name) {
			return e.Row, nil
		}
	}

	next := lastUsed + 1
	if next >= l.layout.MaxEmployees {
		return 0, apperrors.NewCapacityExceededError("employee rows in "+sheet.Name(), l.layout.MaxEmployees)
	}
	row := l.layout.FirstDataRow + next

	if err := l.store.WriteCell(ctx, sheet.Worksheet, row, l.layout.IndexColumn, next+1); err != nil {
		return 0, err
	}
	if err := l.store.WriteCell(ctx, sheet.Worksheet, row, l.layout.NameColumn, name); err != nil {
		return 0, err
	}
	l.logger.Info("added employee row", "sheet", sheet.Name(), "employee", name, "row", row)
	return row, nil
}

// Employees lists the employee rows in sheet order.
func (l *Locator) Employees(ctx context.Context, sheet Sheet) ([]Employee, error) {
	employees, _, err := l.readEmployees(ctx, sheet)
	return employees, err
}

func (l *Locator) readEmployees(ctx context.Context, sheet Sheet) ([]Employee, int, error) {
	grid, err := l.store.ReadRange(ctx, sheet.Worksheet, l.layout.NameRange().String(), store.ReadOptions{})
	if err != nil {
		return nil, 0, err
	}
	var employees []Employee
	lastUsed := -1
	for i := 0; i < l.layout.MaxEmployees && i < len(grid); i++ {
		v := sheetref.ValueAt(grid, i, 0)
		if v == "" {
			continue
		}
		employees = append(employees, Employee{Name: v, Row: l.layout.FirstDataRow + i})
		lastUsed = i
	}
	return employees, lastUsed, nil
}

// ResolveOrCreateDateColumnPair returns the block whose header matches date.
// A new block is allocated after the last allocated one: its formulas are
// written first and the date header last. The bool reports an allocation.
func (l *Locator) ResolveOrCreateDateColumnPair(ctx context.Context, sheet Sheet, date time.Time) (layout.ColumnPair, bool, error) {
	header := l.layout.FormatDate(date)

	columns, lastUsed, err := l.readDates(ctx, sheet)
	if err != nil {
		return layout.ColumnPair{}, false, err
	}
	for _, c := range columns {
		if c.Header == header {
			return c.Pair, false, nil
		}
	}

	next := lastUsed + 1
	if next >= l.layout.MaxDates {
		return layout.ColumnPair{}, false, apperrors.NewCapacityExceededError("date columns in "+sheet.Name(), l.layout.MaxDates)
	}
	pair := l.layout.PairAt(next)

	for _, w := range formula.Block(l.layout, pair) {
		if err := l.store.WriteRange(ctx, sheet.Worksheet, w.Range.String(), w.Values, store.WriteOptions{TreatAsFormula: true}); err != nil {
			return layout.ColumnPair{}, false, err
		}
	}

	headers := sheetref.Span(l.layout.HeaderCell(pair), sheetref.At(pair.Payout, l.layout.HeaderRow))
	values := [][]string{{header, l.layout.PayoutHeader}}
	if err := l.store.WriteRange(ctx, sheet.Worksheet, headers.String(), values, store.WriteOptions{}); err != nil {
		return layout.ColumnPair{}, false, err
	}

	l.logger.Info("allocated date column", "sheet", sheet.Name(), "date", header, "column", l.layout.HeaderCell(pair).String())
	return pair, true, nil
}

// Dates lists the allocated date blocks left to right.
func (l *Locator) Dates(ctx context.Context, sheet Sheet) ([]DateColumn, error) {
	columns, _, err := l.readDates(ctx, sheet)
	return columns, err
}

func (l *Locator) readDates(ctx context.Context, sheet Sheet) ([]DateColumn, int, error) {
	grid, err := l.store.ReadRange(ctx, sheet.Worksheet, l.layout.HeaderRange().String(), store.ReadOptions{})
	if err != nil {
		return nil, 0, err
	}
	var columns []DateColumn
	lastUsed := -1
	for b := 0; b < l.layout.MaxDates; b++ {
		v := sheetref.ValueAt(grid, 0, b*layout.ColumnsPerDate)
		if v == "" {
			continue
		}
		columns = append(columns, DateColumn{Header: v, Pair: l.layout.PairAt(b)})
		lastUsed = b
	}
	return columns, lastUsed, nil
}

// ReadDashboard returns the displayed aggregate values of a block.
func (l *Locator) ReadDashboard(ctx context.Context, sheet Sheet, pair layout.ColumnPair) (Dashboard, error) {
	lay := l.layout
	first := min(lay.AmountRow, lay.HoursSumRow, lay.RateRow)
	last := max(lay.AmountRow, lay.HoursSumRow, lay.RateRow)
	rng := sheetref.Span(sheetref.At(pair.Hours, first), sheetref.At(pair.Hours, last))

	grid, err := l.store.ReadRange(ctx, sheet.Worksheet, rng.String(), store.ReadOptions{})
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Amount:   sheetref.ValueAt(grid, lay.AmountRow-first, 0),
		HoursSum: sheetref.ValueAt(grid, lay.HoursSumRow-first, 0),
		Rate:     sheetref.ValueAt(grid, lay.RateRow-first, 0),
	}, nil
}

// String implements fmt.Stringer for log output.
func (d DateColumn) String() string {
	return fmt.Sprintf("%s@%d", d.Header, d.Pair.Hours)
}
