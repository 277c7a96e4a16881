// Package layout describes where the timesheet schema lives inside a period sheet.
package layout

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vila-timesheet/internal/errors"
	"vila-timesheet/internal/sheetref"
)

// Layout holds every fixed coordinate of a period sheet. Rows and columns are 1-based.
type Layout struct {
	SentinelCell   string `yaml:"sentinel_cell"`
	SentinelValue  string `yaml:"sentinel_value"`
	PeriodNameCell string `yaml:"period_name_cell"`

	AmountRow   int `yaml:"amount_row"`
	HoursSumRow int `yaml:"hours_sum_row"`
	RateRow     int `yaml:"rate_row"`
	LabelColumn int `yaml:"label_column"`

	AmountLabel   string `yaml:"amount_label"`
	HoursSumLabel string `yaml:"hours_sum_label"`
	RateLabel     string `yaml:"rate_label"`

	HeaderRow       int    `yaml:"header_row"`
	IndexColumn     int    `yaml:"index_column"`
	NameColumn      int    `yaml:"name_column"`
	IndexHeader     string `yaml:"index_header"`
	NameHeader      string `yaml:"name_header"`
	PayoutHeader    string `yaml:"payout_header"`
	FirstDataRow    int    `yaml:"first_data_row"`
	MaxEmployees    int    `yaml:"max_employees"`
	FirstDateColumn int    `yaml:"first_date_column"`
	MaxDates        int    `yaml:"max_dates"`

	DateHeaderFormat string `yaml:"date_header_format"`
	RosterSheet      string `yaml:"roster_sheet"`
}

// ColumnsPerDate is the width of a date block: hours then payout.
const ColumnsPerDate = 2

// Default returns the layout used by the live timesheet workbook.
func Default() Layout {
	return Layout{
		SentinelCell:     "A1",
		SentinelValue:    "VILA ACADIA TIMESHEET",
		PeriodNameCell:   "B1",
		AmountRow:        2,
		HoursSumRow:      3,
		RateRow:          4,
		LabelColumn:      2,
		AmountLabel:      "Total Tips (T)",
		HoursSumLabel:    "Total Hours (H)",
		RateLabel:        "Tip Rate (R)",
		HeaderRow:        5,
		IndexColumn:      1,
		NameColumn:       2,
		IndexHeader:      "#",
		NameHeader:       "Employee",
		PayoutHeader:     "Payout",
		FirstDataRow:     6,
		MaxEmployees:     70,
		FirstDateColumn:  3,
		MaxDates:         31,
		DateHeaderFormat: "01/02/2006",
		RosterSheet:      "Settings",
	}
}

// LastDataRow is the last row an employee may occupy.
func (l Layout) LastDataRow() int {
	return l.FirstDataRow + l.MaxEmployees - 1
}

// LastDateColumn is the payout column of the last possible date block.
func (l Layout) LastDateColumn() int {
	return l.FirstDateColumn + l.MaxDates*ColumnsPerDate - 1
}

// GridRows is the row count a new period sheet is created with.
func (l Layout) GridRows() int {
	return l.LastDataRow()
}

// GridCols is the column count a new period sheet is created with.
func (l Layout) GridCols() int {
	return l.LastDateColumn()
}

// NameRange covers the employee name column across all data rows.
func (l Layout) NameRange() sheetref.Range {
	return sheetref.Span(
		sheetref.At(l.NameColumn, l.FirstDataRow),
		sheetref.At(l.NameColumn, l.LastDataRow()),
	)
}

// HeaderRange covers every date header cell of the header row.
func (l Layout) HeaderRange() sheetref.Range {
	return sheetref.Span(
		sheetref.At(l.FirstDateColumn, l.HeaderRow),
		sheetref.At(l.LastDateColumn(), l.HeaderRow),
	)
}

// FormatDate renders a date the way it appears in a date header.
func (l Layout) FormatDate(date time.Time) string {
	return date.Format(l.DateHeaderFormat)
}

// Validate checks that the regions do not overlap and fit in A1 notation.
func (l Layout) Validate() error {
	if l.SentinelValue == "" {
		return errors.NewInvalidInputError("sentinel_value", l.SentinelValue, "must not be empty")
	}
	if _, err := sheetref.ParseCell(l.SentinelCell); err != nil {
		return errors.NewInvalidInputError("sentinel_cell", l.SentinelCell, err.Error())
	}
	if _, err := sheetref.ParseCell(l.PeriodNameCell); err != nil {
		return errors.NewInvalidInputError("period_name_cell", l.PeriodNameCell, err.Error())
	}
	for field, v := range map[string]int{
		"amount_row":        l.AmountRow,
		"hours_sum_row":     l.HoursSumRow,
		"rate_row":          l.RateRow,
		"label_column":      l.LabelColumn,
		"header_row":        l.HeaderRow,
		"index_column":      l.IndexColumn,
		"name_column":       l.NameColumn,
		"first_data_row":    l.FirstDataRow,
		"max_employees":     l.MaxEmployees,
		"first_date_column": l.FirstDateColumn,
		"max_dates":         l.MaxDates,
	} {
		if v < 1 {
			return errors.NewInvalidInputError(field, v, "must be at least 1")
		}
	}
	if l.FirstDataRow <= l.HeaderRow {
		return errors.NewInvalidInputError("first_data_row", l.FirstDataRow, "must come after the header row")
	}
	for field, row := range map[string]int{
		"amount_row":    l.AmountRow,
		"hours_sum_row": l.HoursSumRow,
		"rate_row":      l.RateRow,
	} {
		if row >= l.HeaderRow {
			return errors.NewInvalidInputError(field, row, "must come before the header row")
		}
	}
	if l.AmountRow == l.HoursSumRow || l.AmountRow == l.RateRow || l.HoursSumRow == l.RateRow {
		return errors.NewInvalidInputError("amount_row", l.AmountRow, "aggregate rows must be distinct")
	}
	if l.FirstDateColumn <= l.NameColumn || l.FirstDateColumn <= l.IndexColumn {
		return errors.NewInvalidInputError("first_date_column", l.FirstDateColumn, "must come after the name and index columns")
	}
	if l.IndexColumn == l.NameColumn {
		return errors.NewInvalidInputError("index_column", l.IndexColumn, "must differ from the name column")
	}
	if !sheetref.At(l.LastDateColumn(), l.LastDataRow()).Valid() {
		return errors.NewInvalidInputError("max_dates", l.MaxDates, "grid does not fit in A1 notation")
	}
	if l.DateHeaderFormat == "" {
		return errors.NewInvalidInputError("date_header_format", l.DateHeaderFormat, "must not be empty")
	}
	if l.RosterSheet == "" {
		return errors.NewInvalidInputError("roster_sheet", l.RosterSheet, "must not be empty")
	}
	return nil
}

// LoadFile overlays a YAML file on top of the defaults. Keys absent from the
// file keep their default values.
func LoadFile(path string) (Layout, error) {
	l := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return l, errors.WrapError(err, errors.ErrorTypeInvalidInput, fmt.Sprintf("cannot read layout file %s", path))
	}
	if err := yaml.Unmarshal(data, &l); err != nil {
		return l, errors.WrapError(err, errors.ErrorTypeInvalidInput, fmt.Sprintf("cannot parse layout file %s", path))
	}
	if err := l.Validate(); err != nil {
		return l, err
	}
	return l, nil
}

// ColumnPair is one date block: the hours column and the payout column next to it.
type ColumnPair struct {
	Hours  int
	Payout int
}

// PairAt returns the block at a 0-based index.
func (l Layout) PairAt(index int) ColumnPair {
	hours := l.FirstDateColumn + index*ColumnsPerDate
	return ColumnPair{Hours: hours, Payout: hours + 1}
}

// HeaderCell is the cell that holds the block's date.
func (l Layout) HeaderCell(p ColumnPair) sheetref.Cell {
	return sheetref.At(p.Hours, l.HeaderRow)
}

// AmountCell is the aggregate amount cell of the block.
func (l Layout) AmountCell(p ColumnPair) sheetref.Cell {
	return sheetref.At(p.Hours, l.AmountRow)
}

// HoursSumCell is the aggregate hours cell of the block.
func (l Layout) HoursSumCell(p ColumnPair) sheetref.Cell {
	return sheetref.At(p.Hours, l.HoursSumRow)
}

// RateCell is the aggregate rate cell of the block.
func (l Layout) RateCell(p ColumnPair) sheetref.Cell {
	return sheetref.At(p.Hours, l.RateRow)
}
