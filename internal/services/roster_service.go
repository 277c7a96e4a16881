package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"vila-timesheet/internal/domain"
	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
	"vila-timesheet/internal/validation"
)

const (
	// MaxRosterEntries bounds how many roster rows are read.
	MaxRosterEntries = 500
	rosterMaxCols    = 26

	rosterNameHeader = "name"
	rosterPINHeader  = "pin"
)

// rosterServiceImpl implements the RosterService interface
type rosterServiceImpl struct {
	store     store.Store
	sheet     string
	validator *validation.RequestValidator
	logger    *slog.Logger
}

// NewRosterService creates a RosterService reading the tab named sheet
func NewRosterService(s store.Store, sheet string, logger *slog.Logger) RosterService {
	return &rosterServiceImpl{
		store:     s,
		sheet:     sheet,
		validator: validation.NewRequestValidator(),
		logger:    logging.OrDiscard(logger),
	}
}

// Employees returns every complete roster row. The first row holds the
// headers; rows missing a name or a PIN are skipped.
func (r *rosterServiceImpl) Employees(ctx context.Context) ([]domain.RosterEntry, error) {
	ws, err := r.store.GetWorksheet(ctx, r.sheet)
	if errors.Is(err, store.ErrWorksheetNotFound) {
		return nil, apperrors.NewNotInitializedError("roster tab "+r.sheet, err)
	}
	if err != nil {
		return nil, err
	}

	rng := sheetref.Span(sheetref.At(1, 1), sheetref.At(min(ws.Cols, rosterMaxCols), min(ws.Rows, MaxRosterEntries+1)))
	grid, err := r.store.ReadRange(ctx, ws, rng.String(), store.ReadOptions{})
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return []domain.RosterEntry{}, nil
	}

	nameCol, pinCol := -1, -1
	for i, h := range grid[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case rosterNameHeader:
			if nameCol < 0 {
				nameCol = i
			}
		case rosterPINHeader:
			if pinCol < 0 {
				pinCol = i
			}
		}
	}
	if nameCol < 0 || pinCol < 0 {
		return nil, apperrors.NewNotInitializedError("roster tab "+r.sheet+" (Name and PIN headers)", nil)
	}

	entries := make([]domain.RosterEntry, 0, len(grid)-1)
	for i := 1; i < len(grid); i++ {
		entry := domain.NewRosterEntry(sheetref.ValueAt(grid, i, nameCol), sheetref.ValueAt(grid, i, pinCol))
		if !entry.IsValid() {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Find returns the roster entry for name, compared case-insensitively.
func (r *rosterServiceImpl) Find(ctx context.Context, name string) (*domain.RosterEntry, error) {
	entries, err := r.Employees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if entries[i].Matches(name) {
			return &entries[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("employee", domain.NormalizeName(name))
}

// Verify checks name and pin against the roster.
func (r *rosterServiceImpl) Verify(ctx context.Context, name, pin string) (*domain.RosterEntry, bool) {
	entries, err := r.Employees(ctx)
	if err != nil {
		r.logger.Error("roster unavailable, denying access", "error", err)
		return nil, false
	}

	var match *domain.RosterEntry
	for i := range entries {
		if !entries[i].Matches(name) {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(entries[i].PIN), []byte(pin)) == 1 && match == nil {
			match = &entries[i]
		}
	}
	return match, match != nil
}

// Import replaces the roster tab with entries, creating the tab if needed.
// It returns the number of entries written.
func (r *rosterServiceImpl) Import(ctx context.Context, entries []domain.RosterEntry) (int, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if err := r.validator.ValidateCredentials(e.Name, e.PIN); err != nil {
			return 0, err
		}
		key := strings.ToLower(e.Name)
		if seen[key] {
			return 0, apperrors.NewInvalidInputError("name", e.Name, "appears more than once in the roster")
		}
		seen[key] = true
	}
	if len(entries) > MaxRosterEntries {
		return 0, apperrors.NewCapacityExceededError("roster entries", MaxRosterEntries)
	}

	ws, err := r.store.GetWorksheet(ctx, r.sheet)
	if errors.Is(err, store.ErrWorksheetNotFound) {
		ws, err = r.store.CreateWorksheet(ctx, r.sheet, MaxRosterEntries+1, 2)
	}
	if err != nil {
		return 0, err
	}

	used, err := r.store.ReadRange(ctx, ws, sheetref.Span(sheetref.At(1, 1), sheetref.At(2, min(ws.Rows, MaxRosterEntries+1))).String(), store.ReadOptions{})
	if err != nil {
		return 0, err
	}

	// Rows left over from a longer previous roster are blanked.
	rows := max(len(entries)+1, len(used))
	values := make([][]string, 0, rows)
	values = append(values, []string{"Name", "PIN"})
	for _, e := range entries {
		values = append(values, []string{e.Name, e.PIN})
	}
	for len(values) < rows {
		values = append(values, []string{"", ""})
	}

	rng := sheetref.Span(sheetref.At(1, 1), sheetref.At(2, rows))
	if err := r.store.WriteRange(ctx, ws, rng.String(), values, store.WriteOptions{}); err != nil {
		return 0, err
	}

	r.logger.Info("imported roster", "sheet", r.sheet, "entries", len(entries))
	return len(entries), nil
}
