package cli

import (
	"context"
	"fmt"
	"io"

	"vila-timesheet/internal/services"
)

// LedgerClaimCommand handles the ledger claim command
type LedgerClaimCommand struct {
	history services.HistoryService
	out     io.Writer
	errors  *ErrorHandler
}

// NewLedgerClaimCommand creates a new ledger claim command handler
func NewLedgerClaimCommand(app *App) *LedgerClaimCommand {
	return &LedgerClaimCommand{history: app.services.History, out: app.out, errors: NewErrorHandler()}
}

// Execute shows who holds SHEET CELL. A free cell is not an error.
func (c *LedgerClaimCommand) Execute(ctx context.Context, args []string) error {
	claim, err := c.history.Claim(ctx, args[0], args[1])
	if c.errors.IsNotFoundError(err) {
		fmt.Fprintf(c.out, "%s!%s is not claimed\n", args[0], args[1])
		return nil
	}
	if err != nil {
		return c.errors.Handle("read claim", err)
	}
	fmt.Fprintf(c.out, "%s claimed at %s\n", claim.Target(), claim.ClaimedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// LedgerReleaseCommand handles the ledger release command
type LedgerReleaseCommand struct {
	history services.HistoryService
	out     io.Writer
	errors  *ErrorHandler
}

// NewLedgerReleaseCommand creates a new ledger release command handler
func NewLedgerReleaseCommand(app *App) *LedgerReleaseCommand {
	return &LedgerReleaseCommand{history: app.services.History, out: app.out, errors: NewErrorHandler()}
}

// Execute frees a claim left behind by a write that never reached the sheet
func (c *LedgerReleaseCommand) Execute(ctx context.Context, args []string) error {
	if err := c.history.ReleaseClaim(ctx, args[0], args[1]); err != nil {
		return c.errors.Handle("release claim", err)
	}
	fmt.Fprintf(c.out, "Released %s!%s\n", args[0], args[1])
	return nil
}

// LedgerRollbackCommand handles the ledger rollback command
type LedgerRollbackCommand struct {
	history services.HistoryService
	out     io.Writer
	errors  *ErrorHandler
}

// NewLedgerRollbackCommand creates a new ledger rollback command handler
func NewLedgerRollbackCommand(app *App) *LedgerRollbackCommand {
	return &LedgerRollbackCommand{history: app.services.History, out: app.out, errors: NewErrorHandler()}
}

// Execute reverts the newest ledger migration. The next start applies it again.
func (c *LedgerRollbackCommand) Execute(ctx context.Context, args []string) error {
	version, err := c.history.RollbackMigration(ctx)
	if err != nil {
		return c.errors.Handle("roll back ledger", err)
	}
	if version == 0 {
		fmt.Fprintln(c.out, "No migrations to roll back")
		return nil
	}
	fmt.Fprintf(c.out, "Rolled back migration %d\n", version)
	return nil
}
