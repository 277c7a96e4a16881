package cli

import (
	"context"
	"fmt"
	"io"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/services"
)

// RosterListCommand handles the roster list command
type RosterListCommand struct {
	roster services.RosterService
	out    io.Writer
	errors *ErrorHandler
}

// NewRosterListCommand creates a new roster list command handler
func NewRosterListCommand(app *App) *RosterListCommand {
	return &RosterListCommand{roster: app.services.Roster, out: app.out, errors: NewErrorHandler()}
}

// Execute prints the employees on the roster. PINs are never printed.
func (c *RosterListCommand) Execute(ctx context.Context, args []string) error {
	entries, err := c.roster.Employees(ctx)
	if err != nil {
		return c.errors.Handle("list roster", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No employees found")
		return nil
	}
	for i, entry := range entries {
		fmt.Fprintf(c.out, "%3d  %s\n", i+1, entry.Name)
	}
	fmt.Fprintf(c.out, "%d employees\n", len(entries))
	return nil
}

// RosterImportCommand handles the roster import command
type RosterImportCommand struct {
	roster services.RosterService
	out    io.Writer
	errors *ErrorHandler
}

// NewRosterImportCommand creates a new roster import command handler
func NewRosterImportCommand(app *App) *RosterImportCommand {
	return &RosterImportCommand{roster: app.services.Roster, out: app.out, errors: NewErrorHandler()}
}

// Execute replaces the roster with the employees in FILE
func (c *RosterImportCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return apperrors.NewInvalidInputError("command", "roster import", "usage: vila roster import FILE")
	}

	entries, err := ReadRosterFile(args[0])
	if err != nil {
		return c.errors.Handle("import roster", err)
	}

	count, err := c.roster.Import(ctx, entries)
	if err != nil {
		return c.errors.Handle("import roster", err)
	}
	fmt.Fprintf(c.out, "Imported %d employees\n", count)
	return nil
}
