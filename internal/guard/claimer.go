package guard

import (
	"context"
	"log/slog"
	"time"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/schema"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
)

// Claimer writes value into cell only if the cell is still empty.
type Claimer interface {
	ClaimCell(ctx context.Context, sheet schema.Sheet, cell sheetref.Cell, value interface{}) error
}

// ReadBeforeWrite reads the cell and writes when it is empty. Two writers
// racing between the read and the write can both succeed; the last one wins.
type ReadBeforeWrite struct {
	store store.Store
}

// NewReadBeforeWrite creates the default claimer.
func NewReadBeforeWrite(s store.Store) *ReadBeforeWrite {
	return &ReadBeforeWrite{store: s}
}

func (c *ReadBeforeWrite) ClaimCell(ctx context.Context, sheet schema.Sheet, cell sheetref.Cell, value interface{}) error {
	grid, err := c.store.ReadRange(ctx, sheet.Worksheet, cell.String(), store.ReadOptions{})
	if err != nil {
		return err
	}
	if existing := sheetref.ValueAt(grid, 0, 0); existing != "" {
		return apperrors.NewDuplicateEntryError(sheet.Name(), cell.String(), existing)
	}
	return c.store.WriteCell(ctx, sheet.Worksheet, cell.Row, cell.Col, value)
}

// releaseTimeout bounds the release of a claim after a failed write. The
// release runs detached from the request context, which may be the reason
// the write failed.
const releaseTimeout = 5 * time.Second

// ClaimLedger is the subset of the ledger repository a LedgerClaimer needs.
type ClaimLedger interface {
	CreateClaim(ctx context.Context, claim *sqlite.Claim) error
	ReleaseClaim(ctx context.Context, sheet string, cell string) error
}

// LedgerClaimer serializes claims through a unique ledger row before
// delegating, so processes sharing one ledger file cannot both claim a cell.
type LedgerClaimer struct {
	ledger ClaimLedger
	next   Claimer
	logger *slog.Logger
}

// NewLedgerClaimer wraps next with ledger claims.
func NewLedgerClaimer(ledger ClaimLedger, next Claimer, logger *slog.Logger) *LedgerClaimer {
	return &LedgerClaimer{ledger: ledger, next: next, logger: logging.OrDiscard(logger)}
}

func (c *LedgerClaimer) ClaimCell(ctx context.Context, sheet schema.Sheet, cell sheetref.Cell, value interface{}) error {
	if err := c.ledger.CreateClaim(ctx, &sqlite.Claim{Sheet: sheet.Name(), Cell: cell.String()}); err != nil {
		return err
	}

	err := c.next.ClaimCell(ctx, sheet, cell, value)
	if err == nil || apperrors.IsErrorType(err, apperrors.ErrorTypeDuplicateEntry) {
		// an occupied cell stays claimed
		return err
	}

	relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if relErr := c.ledger.ReleaseClaim(relCtx, sheet.Name(), cell.String()); relErr != nil {
		c.logger.Error("failed to release claim", "sheet", sheet.Name(), "cell", cell.String(), "error", relErr)
	}
	return err
}
