// Package xlsx stores the timesheet in a local workbook file. Each mutation is
// saved immediately and the workbook is decoded again from the saved bytes, so
// the file on disk and the evaluated view always agree.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

const (
	maxRows = 1048576
	maxCols = 16384
)

// Store is a workbook-backed store.Store.
type Store struct {
	mu     sync.Mutex
	path   string
	file   *excelize.File
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open loads the workbook at path, creating an empty one if it does not exist.
func Open(path string, logger *slog.Logger) (*Store, error) {
	logger = logging.OrDiscard(logger)

	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		blank := excelize.NewFile()
		err := blank.SaveAs(path)
		_ = blank.Close()
		if err != nil {
			return nil, store.Fail("create workbook", path, err)
		}
		logger.Info("created workbook", "path", path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, store.Fail("open workbook", path, err)
	}

	return &Store{path: path, file: f, logger: logger}, nil
}

// Close releases the workbook.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// save writes the workbook and swaps in a freshly decoded copy. excelize
// compacts the rows of sheets created in this session when it saves them,
// and range formulas over a compacted sheet evaluate as empty until the sheet
// is read back from XML.
func (s *Store) save(op string, rng string) error {
	if err := s.file.SaveAs(s.path); err != nil {
		return store.Fail(op, rng, err)
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return store.Fail(op, rng, err)
	}
	old := s.file
	s.file = f
	if err := old.Close(); err != nil {
		s.logger.Warn("failed to release previous workbook handle", "path", s.path, "error", err)
	}
	return nil
}

func (s *Store) exists(title string) bool {
	idx, err := s.file.GetSheetIndex(title)
	return err == nil && idx >= 0
}

func (s *Store) Info(ctx context.Context) (store.Info, error) {
	return store.Info{
		ID:      s.path,
		Title:   strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path)),
		Backend: "xlsx",
	}, nil
}

func (s *Store) ListWorksheets(ctx context.Context) ([]store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.file.GetSheetList()
	out := make([]store.Worksheet, 0, len(names))
	for i, name := range names {
		out = append(out, store.Worksheet{ID: int64(i), Title: name, Rows: maxRows, Cols: maxCols})
	}
	return out, nil
}

func (s *Store) GetWorksheet(ctx context.Context, title string) (store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.file.GetSheetIndex(title)
	if err != nil {
		return store.Worksheet{}, store.Fail("get worksheet", title, err)
	}
	if idx < 0 {
		return store.Worksheet{}, store.ErrWorksheetNotFound
	}
	return store.Worksheet{ID: int64(idx), Title: title, Rows: maxRows, Cols: maxCols}, nil
}

// CreateWorksheet adds a sheet. Workbooks have no fixed grid, so rows and cols
// only appear in the returned handle.
func (s *Store) CreateWorksheet(ctx context.Context, title string, rows, cols int) (store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.exists(title) {
		return store.Worksheet{}, store.Fail("create worksheet", title, fmt.Errorf("a sheet named %q already exists", title))
	}
	idx, err := s.file.NewSheet(title)
	if err != nil {
		return store.Worksheet{}, store.Fail("create worksheet", title, err)
	}
	if err := s.save("create worksheet", title); err != nil {
		return store.Worksheet{}, err
	}
	s.logger.Debug("created worksheet", "sheet", title)
	return store.Worksheet{ID: int64(idx), Title: title, Rows: rows, Cols: cols}, nil
}

// ReadRange reads cell by cell. Formula cells are evaluated unless
// opts.Formulas is set; an evaluation failure falls back to the cached value.
func (s *Store) ReadRange(ctx context.Context, ws store.Worksheet, a1 string, opts store.ReadOptions) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return nil, store.Fail("read", a1, err)
	}
	if !s.exists(ws.Title) {
		return nil, store.Fail("read", sheetref.Qualified(ws.Title, a1), store.ErrWorksheetNotFound)
	}

	grid := make([][]string, 0, rng.Rows())
	for r := rng.From.Row; r <= rng.To.Row; r++ {
		row := make([]string, 0, rng.Cols())
		for c := rng.From.Col; c <= rng.To.Col; c++ {
			v, err := s.cellText(ws.Title, sheetref.At(c, r).String(), opts)
			if err != nil {
				return nil, store.Fail("read", sheetref.Qualified(ws.Title, a1), err)
			}
			row = append(row, v)
		}
		grid = append(grid, row)
	}
	return store.Trim(grid), nil
}

func (s *Store) cellText(sheet, cell string, opts store.ReadOptions) (string, error) {
	formula, err := s.file.GetCellFormula(sheet, cell)
	if err != nil {
		return "", err
	}
	if formula != "" {
		if opts.Formulas {
			return "=" + formula, nil
		}
		if v, err := s.file.CalcCellValue(sheet, cell); err == nil {
			return v, nil
		}
	}
	v, err := s.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func (s *Store) WriteCell(ctx context.Context, ws store.Worksheet, row, col int, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return store.Fail("write", ws.Title, err)
	}
	if err := s.file.SetCellValue(ws.Title, cell, value); err != nil {
		return store.Fail("write", sheetref.Qualified(ws.Title, cell), err)
	}
	return s.save("write", sheetref.Qualified(ws.Title, cell))
}

func (s *Store) WriteRange(ctx context.Context, ws store.Worksheet, a1 string, values [][]string, opts store.WriteOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return store.Fail("write", a1, err)
	}
	target := sheetref.Qualified(ws.Title, a1)
	for i, row := range values {
		for j, v := range row {
			cell := sheetref.At(rng.From.Col+j, rng.From.Row+i).String()
			if opts.TreatAsFormula && strings.HasPrefix(v, "=") {
				err = s.file.SetCellFormula(ws.Title, cell, strings.TrimPrefix(v, "="))
			} else {
				err = s.file.SetCellStr(ws.Title, cell, v)
			}
			if err != nil {
				return store.Fail("write", target, err)
			}
		}
	}
	return s.save("write", target)
}

func (s *Store) ApplyFormatting(ctx context.Context, ws store.Worksheet, a1 string, style store.Style) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return store.Fail("format", a1, err)
	}
	xs := &excelize.Style{Font: &excelize.Font{Bold: style.Bold}}
	if style.Background != "" {
		xs.Fill = excelize.Fill{Type: "pattern", Color: []string{style.Background}, Pattern: 1}
	}
	id, err := s.file.NewStyle(xs)
	if err != nil {
		return store.Fail("format", a1, err)
	}
	if err := s.file.SetCellStyle(ws.Title, rng.From.String(), rng.To.String(), id); err != nil {
		return store.Fail("format", sheetref.Qualified(ws.Title, a1), err)
	}
	return s.save("format", sheetref.Qualified(ws.Title, a1))
}

func (s *Store) FreezePanes(ctx context.Context, ws store.Worksheet, rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pane := "bottomRight"
	switch {
	case cols == 0:
		pane = "bottomLeft"
	case rows == 0:
		pane = "topRight"
	}
	err := s.file.SetPanes(ws.Title, &excelize.Panes{
		Freeze:      true,
		XSplit:      cols,
		YSplit:      rows,
		TopLeftCell: sheetref.At(cols+1, rows+1).String(),
		ActivePane:  pane,
	})
	if err != nil {
		return store.Fail("freeze", ws.Title, err)
	}
	return s.save("freeze", ws.Title)
}
