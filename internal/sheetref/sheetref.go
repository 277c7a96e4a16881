// Package sheetref converts between 1-based grid coordinates and A1 notation.
package sheetref

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is a 1-based (column, row) coordinate.
type Cell struct {
	Col int
	Row int
}

// At builds a Cell from a column and row.
func At(col, row int) Cell {
	return Cell{Col: col, Row: row}
}

// String returns the A1 name ("C6"), or "" when the coordinate is out of range.
func (c Cell) String() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row)
	if err != nil {
		return ""
	}
	return name
}

// Absolute returns the "$C$4" form.
func (c Cell) Absolute() string {
	name, err := excelize.CoordinatesToCellName(c.Col, c.Row, true)
	if err != nil {
		return ""
	}
	return name
}

// Valid reports whether the coordinate can be expressed in A1 notation.
func (c Cell) Valid() bool {
	return c.String() != ""
}

// ParseCell parses an A1 name such as "BL75".
func ParseCell(name string) (Cell, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(name, "$", ""))
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell %q: %w", name, err)
	}
	return Cell{Col: col, Row: row}, nil
}

// ColumnLetter maps 1 -> A, 26 -> Z, 27 -> AA, 703 -> AAA.
func ColumnLetter(col int) (string, error) {
	return excelize.ColumnNumberToName(col)
}

// ColumnIndex is the inverse of ColumnLetter.
func ColumnIndex(letters string) (int, error) {
	return excelize.ColumnNameToNumber(letters)
}

// Range is an inclusive rectangle of cells.
type Range struct {
	From Cell
	To   Cell
}

// Span builds a range between two cells.
func Span(from, to Cell) Range {
	return Range{From: from, To: to}
}

// Single is a one-cell range.
func Single(c Cell) Range {
	return Range{From: c, To: c}
}

// String returns "C5:BL5", or just "C5" for a single cell.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + ":" + r.To.String()
}

// Rows returns the number of rows covered.
func (r Range) Rows() int {
	return r.To.Row - r.From.Row + 1
}

// Cols returns the number of columns covered.
func (r Range) Cols() int {
	return r.To.Col - r.From.Col + 1
}

// ParseRange parses "C5:BL5" or a single cell name.
func ParseRange(a1 string) (Range, error) {
	from, to, found := strings.Cut(a1, ":")
	start, err := ParseCell(from)
	if err != nil {
		return Range{}, err
	}
	if !found {
		return Single(start), nil
	}
	end, err := ParseCell(to)
	if err != nil {
		return Range{}, err
	}
	if end.Col < start.Col || end.Row < start.Row {
		return Range{}, fmt.Errorf("invalid range %q: end precedes start", a1)
	}
	return Span(start, end), nil
}

// Qualified prefixes an A1 range with a quoted sheet title: 'January 2026'!C5:BL5.
func Qualified(sheet string, a1 string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + a1
}

// ValueAt returns the trimmed value at a 0-based offset of a ragged grid, or ""
// when the grid does not reach that far. Remote stores drop trailing empties.
func ValueAt(grid [][]string, row, col int) string {
	if row < 0 || row >= len(grid) {
		return ""
	}
	if col < 0 || col >= len(grid[row]) {
		return ""
	}
	return strings.TrimSpace(grid[row][col])
}
