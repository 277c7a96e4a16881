// Package formula builds the dashboard formulas written into a date block when
// it is first allocated. Everything here is pure string construction.
package formula

import (
	"fmt"

	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/sheetref"
)

// Write is one contiguous range of formula cells.
type Write struct {
	Range  sheetref.Range
	Values [][]string
}

// HoursSum totals the hours column over every data row: =SUM(C6:C75).
func HoursSum(l layout.Layout, p layout.ColumnPair) string {
	col := sheetref.Span(sheetref.At(p.Hours, l.FirstDataRow), sheetref.At(p.Hours, l.LastDataRow()))
	return fmt.Sprintf("=SUM(%s)", col)
}

// Rate divides the amount by the hours total, yielding 0 when no hours are
// recorded: =IF(C3=0,0,C2/C3).
func Rate(l layout.Layout, p layout.ColumnPair) string {
	hours := l.HoursSumCell(p)
	return fmt.Sprintf("=IF(%s=0,0,%s/%s)", hours, l.AmountCell(p), hours)
}

// Payout multiplies an employee's hours by the block rate: =C6*$C$4.
func Payout(l layout.Layout, p layout.ColumnPair, row int) string {
	return fmt.Sprintf("=%s*%s", sheetref.At(p.Hours, row), l.RateCell(p).Absolute())
}

// Block returns every formula write for a freshly allocated block: the hours
// sum, the rate, and one payout formula per data row.
func Block(l layout.Layout, p layout.ColumnPair) []Write {
	payouts := make([][]string, 0, l.MaxEmployees)
	for row := l.FirstDataRow; row <= l.LastDataRow(); row++ {
		payouts = append(payouts, []string{Payout(l, p, row)})
	}

	return []Write{
		{Range: sheetref.Single(l.HoursSumCell(p)), Values: [][]string{{HoursSum(l, p)}}},
		{Range: sheetref.Single(l.RateCell(p)), Values: [][]string{{Rate(l, p)}}},
		{
			Range:  sheetref.Span(sheetref.At(p.Payout, l.FirstDataRow), sheetref.At(p.Payout, l.LastDataRow())),
			Values: payouts,
		},
	}
}
