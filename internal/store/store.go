// Package store defines the grid storage contract the timesheet engine is
// built on. Adapters live in the subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	apperrors "vila-timesheet/internal/errors"
)

// ErrWorksheetNotFound is returned by GetWorksheet for an unknown title.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Info describes the backing spreadsheet.
type Info struct {
	ID      string
	Title   string
	Backend string
}

// Worksheet is a handle to one tab.
type Worksheet struct {
	ID    int64
	Title string
	Rows  int
	Cols  int
}

// ReadOptions controls how cells are rendered on read.
type ReadOptions struct {
	// Formulas returns formula text ("=SUM(...)") instead of computed values.
	Formulas bool
}

// WriteOptions controls how written strings are interpreted.
type WriteOptions struct {
	// TreatAsFormula lets the backend parse values starting with "=" as formulas.
	// Otherwise values are stored verbatim.
	TreatAsFormula bool
}

// Style is the cosmetic formatting the engine applies to header regions.
type Style struct {
	Bold bool
	// Background is an RRGGBB hex color, empty for none.
	Background string
}

// Store is a spreadsheet with named worksheets addressed in A1 notation.
//
// ReadRange returns a ragged grid: trailing empty cells and rows are omitted,
// so callers must treat missing entries as empty.
type Store interface {
	Info(ctx context.Context) (Info, error)
	ListWorksheets(ctx context.Context) ([]Worksheet, error)
	GetWorksheet(ctx context.Context, title string) (Worksheet, error)
	CreateWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
	ReadRange(ctx context.Context, ws Worksheet, a1 string, opts ReadOptions) ([][]string, error)
	WriteCell(ctx context.Context, ws Worksheet, row, col int, value interface{}) error
	WriteRange(ctx context.Context, ws Worksheet, a1 string, values [][]string, opts WriteOptions) error
	ApplyFormatting(ctx context.Context, ws Worksheet, a1 string, style Style) error
	FreezePanes(ctx context.Context, ws Worksheet, rows, cols int) error
}

// Fail wraps a backend failure as a remote store error carrying the operation
// and the coordinates involved.
func Fail(operation string, rng string, cause error) error {
	return apperrors.NewRemoteStoreError(operation, rng, cause)
}

// FormatValue renders a written value the way a spreadsheet displays it in the
// default number format.
func FormatValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Trim drops trailing empty cells of each row and trailing empty rows.
func Trim(grid [][]string) [][]string {
	out := make([][]string, len(grid))
	last := -1
	for i, row := range grid {
		end := len(row)
		for end > 0 && row[end-1] == "" {
			end--
		}
		out[i] = row[:end]
		if end > 0 {
			last = i
		}
	}
	return out[:last+1]
}
