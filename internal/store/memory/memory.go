// Package memory is an in-process Store. It does not evaluate formulas: both
// read modes return the stored text. Every operation is counted so tests can
// assert how many round trips the engine made.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

// Operation names used by Calls and FailOn.
const (
	OpInfo            = "Info"
	OpListWorksheets  = "ListWorksheets"
	OpGetWorksheet    = "GetWorksheet"
	OpCreateWorksheet = "CreateWorksheet"
	OpReadRange       = "ReadRange"
	OpWriteCell       = "WriteCell"
	OpWriteRange      = "WriteRange"
	OpApplyFormatting = "ApplyFormatting"
	OpFreezePanes     = "FreezePanes"
)

type worksheet struct {
	meta   store.Worksheet
	cells  map[sheetref.Cell]string
	styles map[sheetref.Cell]store.Style
	frozen [2]int
}

// Store keeps worksheets in maps guarded by a mutex.
type Store struct {
	mu       sync.Mutex
	title    string
	nextID   int64
	sheets   map[string]*worksheet
	calls    map[string]int
	failures map[string]error
}

var _ store.Store = (*Store)(nil)

// New creates an empty spreadsheet.
func New(title string) *Store {
	return &Store{
		title:    title,
		nextID:   1,
		sheets:   make(map[string]*worksheet),
		calls:    make(map[string]int),
		failures: make(map[string]error),
	}
}

// Calls returns how many times op was invoked, failed calls included.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// ResetCalls zeroes every counter.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = make(map[string]int)
}

// FailOn makes every later call of op return err, wrapped as a remote store
// failure. A nil err clears the injection.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Value returns the stored text at an A1 cell, or "" when the sheet or cell is absent.
func (s *Store) Value(title string, a1 string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[title]
	if !ok {
		return ""
	}
	c, err := sheetref.ParseCell(a1)
	if err != nil {
		return ""
	}
	return ws.cells[c]
}

// StyleAt returns the style applied at a cell.
func (s *Store) StyleAt(title string, a1 string) (store.Style, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[title]
	if !ok {
		return store.Style{}, false
	}
	c, err := sheetref.ParseCell(a1)
	if err != nil {
		return store.Style{}, false
	}
	st, ok := ws.styles[c]
	return st, ok
}

// Frozen returns the frozen (rows, cols) of a sheet.
func (s *Store) Frozen(title string) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.sheets[title]
	if !ok {
		return 0, 0
	}
	return ws.frozen[0], ws.frozen[1]
}

// begin counts the call and reports an injected failure. Callers hold mu.
func (s *Store) begin(op string, rng string) error {
	s.calls[op]++
	if err, ok := s.failures[op]; ok {
		return store.Fail(op, rng, err)
	}
	return nil
}

func (s *Store) lookup(op string, ws store.Worksheet) (*worksheet, error) {
	sheet, ok := s.sheets[ws.Title]
	if !ok {
		return nil, store.Fail(op, ws.Title, store.ErrWorksheetNotFound)
	}
	return sheet, nil
}

func (s *Store) Info(ctx context.Context) (store.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpInfo, ""); err != nil {
		return store.Info{}, err
	}
	return store.Info{ID: "memory", Title: s.title, Backend: "memory"}, nil
}

func (s *Store) ListWorksheets(ctx context.Context) ([]store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpListWorksheets, ""); err != nil {
		return nil, err
	}
	out := make([]store.Worksheet, 0, len(s.sheets))
	for _, ws := range s.sheets {
		out = append(out, ws.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetWorksheet(ctx context.Context, title string) (store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpGetWorksheet, title); err != nil {
		return store.Worksheet{}, err
	}
	ws, ok := s.sheets[title]
	if !ok {
		return store.Worksheet{}, store.ErrWorksheetNotFound
	}
	return ws.meta, nil
}

func (s *Store) CreateWorksheet(ctx context.Context, title string, rows, cols int) (store.Worksheet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpCreateWorksheet, title); err != nil {
		return store.Worksheet{}, err
	}
	if _, exists := s.sheets[title]; exists {
		return store.Worksheet{}, store.Fail(OpCreateWorksheet, title, fmt.Errorf("a sheet named %q already exists", title))
	}
	meta := store.Worksheet{ID: s.nextID, Title: title, Rows: rows, Cols: cols}
	s.nextID++
	s.sheets[title] = &worksheet{
		meta:   meta,
		cells:  make(map[sheetref.Cell]string),
		styles: make(map[sheetref.Cell]store.Style),
	}
	return meta, nil
}

func (s *Store) ReadRange(ctx context.Context, ws store.Worksheet, a1 string, opts store.ReadOptions) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpReadRange, a1); err != nil {
		return nil, err
	}
	sheet, err := s.lookup(OpReadRange, ws)
	if err != nil {
		return nil, err
	}
	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return nil, store.Fail(OpReadRange, a1, err)
	}

	grid := make([][]string, 0, rng.Rows())
	for r := rng.From.Row; r <= rng.To.Row; r++ {
		row := make([]string, 0, rng.Cols())
		for c := rng.From.Col; c <= rng.To.Col; c++ {
			row = append(row, sheet.cells[sheetref.At(c, r)])
		}
		grid = append(grid, row)
	}
	return store.Trim(grid), nil
}

func (s *Store) WriteCell(ctx context.Context, ws store.Worksheet, row, col int, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cell := sheetref.At(col, row)
	if err := s.begin(OpWriteCell, cell.String()); err != nil {
		return err
	}
	sheet, err := s.lookup(OpWriteCell, ws)
	if err != nil {
		return err
	}
	if err := sheet.inBounds(cell); err != nil {
		return store.Fail(OpWriteCell, cell.String(), err)
	}
	sheet.set(cell, store.FormatValue(value))
	return nil
}

func (s *Store) WriteRange(ctx context.Context, ws store.Worksheet, a1 string, values [][]string, opts store.WriteOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpWriteRange, a1); err != nil {
		return err
	}
	sheet, err := s.lookup(OpWriteRange, ws)
	if err != nil {
		return err
	}
	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return store.Fail(OpWriteRange, a1, err)
	}
	if len(values) > rng.Rows() {
		return store.Fail(OpWriteRange, a1, fmt.Errorf("%d rows do not fit in range", len(values)))
	}
	for i, row := range values {
		if len(row) > rng.Cols() {
			return store.Fail(OpWriteRange, a1, fmt.Errorf("%d columns do not fit in range", len(row)))
		}
		for j, v := range row {
			cell := sheetref.At(rng.From.Col+j, rng.From.Row+i)
			if err := sheet.inBounds(cell); err != nil {
				return store.Fail(OpWriteRange, a1, err)
			}
			sheet.set(cell, v)
		}
	}
	return nil
}

func (s *Store) ApplyFormatting(ctx context.Context, ws store.Worksheet, a1 string, style store.Style) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpApplyFormatting, a1); err != nil {
		return err
	}
	sheet, err := s.lookup(OpApplyFormatting, ws)
	if err != nil {
		return err
	}
	rng, err := sheetref.ParseRange(a1)
	if err != nil {
		return store.Fail(OpApplyFormatting, a1, err)
	}
	for r := rng.From.Row; r <= rng.To.Row; r++ {
		for c := rng.From.Col; c <= rng.To.Col; c++ {
			sheet.styles[sheetref.At(c, r)] = style
		}
	}
	return nil
}

func (s *Store) FreezePanes(ctx context.Context, ws store.Worksheet, rows, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(OpFreezePanes, ws.Title); err != nil {
		return err
	}
	sheet, err := s.lookup(OpFreezePanes, ws)
	if err != nil {
		return err
	}
	sheet.frozen = [2]int{rows, cols}
	return nil
}

func (w *worksheet) inBounds(c sheetref.Cell) error {
	if c.Row < 1 || c.Col < 1 || c.Row > w.meta.Rows || c.Col > w.meta.Cols {
		return fmt.Errorf("cell %s is outside the %dx%d grid of %s", c, w.meta.Rows, w.meta.Cols, w.meta.Title)
	}
	return nil
}

func (w *worksheet) set(c sheetref.Cell, value string) {
	if value == "" {
		delete(w.cells, c)
		return
	}
	w.cells[c] = value
}
