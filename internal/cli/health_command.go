package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"vila-timesheet/internal/services"
)

// HealthCommand handles the health command
type HealthCommand struct {
	timesheet services.TimesheetService
	out       io.Writer
}

// NewHealthCommand creates a new health command handler
func NewHealthCommand(app *App) *HealthCommand {
	return &HealthCommand{timesheet: app.services.Timesheet, out: app.out}
}

// Execute reports whether the spreadsheet is reachable
func (c *HealthCommand) Execute(ctx context.Context, args []string) error {
	status := c.timesheet.Health(ctx)
	if status.Status != services.HealthConnected {
		return errors.New(status.Message)
	}
	fmt.Fprintf(c.out, "%s\n", status.Message)
	fmt.Fprintf(c.out, "Spreadsheet: %s (%s)\n", status.SpreadsheetTitle, status.SpreadsheetID)
	return nil
}
