package services

import (
	"context"
	"strings"

	"vila-timesheet/internal/domain"
	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/sheetref"
)

// DefaultHistoryLimit caps Recent when no limit is given
const DefaultHistoryLimit = 50

// historyServiceImpl implements the HistoryService interface
type historyServiceImpl struct {
	ledger sqlite.Repository
	mapper *domain.Mapper
}

// NewHistoryService creates a HistoryService. ledger may be nil when the
// ledger is disabled.
func NewHistoryService(ledger sqlite.Repository) HistoryService {
	return &historyServiceImpl{
		ledger: ledger,
		mapper: domain.NewMapper(),
	}
}

// Enabled reports whether a ledger is configured
func (h *historyServiceImpl) Enabled() bool {
	return h.ledger != nil
}

func (h *historyServiceImpl) requireLedger() error {
	if h.ledger == nil {
		return apperrors.NewNotInitializedError("submission ledger (set VILA_LEDGER=true)", nil)
	}
	return nil
}

// Recent returns ledger submissions, newest first
func (h *historyServiceImpl) Recent(ctx context.Context, opts domain.SearchOptions) ([]domain.Submission, error) {
	if err := h.requireLedger(); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}

	rows, err := h.ledger.ListSubmissions(ctx, h.mapper.SearchOptions.ToDatabase(opts))
	if err != nil {
		return nil, err
	}
	return h.mapper.Submission.FromDatabaseSlice(rows), nil
}

// Claim returns the ledger claim on sheet!cell, or a not found error when the
// cell is free.
func (h *historyServiceImpl) Claim(ctx context.Context, sheet, cell string) (*domain.Claim, error) {
	if err := h.requireLedger(); err != nil {
		return nil, err
	}
	sheet, cell, err := claimTarget(sheet, cell)
	if err != nil {
		return nil, err
	}

	row, err := h.ledger.GetClaim(ctx, sheet, cell)
	if err != nil {
		return nil, err
	}
	claim := h.mapper.Claim.FromDatabase(*row)
	return &claim, nil
}

// ReleaseClaim frees sheet!cell in the ledger. The sheet itself is not
// touched, so a filled cell still refuses a second submission.
func (h *historyServiceImpl) ReleaseClaim(ctx context.Context, sheet, cell string) error {
	if err := h.requireLedger(); err != nil {
		return err
	}
	sheet, cell, err := claimTarget(sheet, cell)
	if err != nil {
		return err
	}
	return h.ledger.ReleaseClaim(ctx, sheet, cell)
}

// RollbackMigration reverts the newest ledger schema migration.
func (h *historyServiceImpl) RollbackMigration(ctx context.Context) (int, error) {
	if err := h.requireLedger(); err != nil {
		return 0, err
	}
	return h.ledger.RollbackMigration(ctx)
}

// claimTarget normalizes a user-typed sheet name and A1 cell to the form the
// ledger stores.
func claimTarget(sheet, cell string) (string, string, error) {
	sheet = strings.TrimSpace(sheet)
	if sheet == "" {
		return "", "", apperrors.NewInvalidInputError("sheet", sheet, "must not be empty")
	}
	parsed, err := sheetref.ParseCell(strings.TrimSpace(cell))
	if err != nil {
		return "", "", apperrors.NewInvalidInputError("cell", cell, "expected an A1 cell such as C6")
	}
	return sheet, parsed.String(), nil
}
