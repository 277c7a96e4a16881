package cli

import (
	"context"
	"fmt"
	"io"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/services"
)

// PeriodCommand handles the period command
type PeriodCommand struct {
	timesheet services.TimesheetService
	reporting services.ReportingService
	out       io.Writer
	errors    *ErrorHandler
}

// NewPeriodCommand creates a new period command handler
func NewPeriodCommand(app *App) *PeriodCommand {
	return &PeriodCommand{
		timesheet: app.services.Timesheet,
		reporting: app.services.Reporting,
		out:       app.out,
		errors:    NewErrorHandler(),
	}
}

// Execute prints whether DATE's period is open and what its sheet holds
func (c *PeriodCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return apperrors.NewInvalidInputError("command", "period", "usage: vila period YYYY-MM-DD")
	}

	status, err := c.timesheet.PeriodStatus(args[0])
	if err != nil {
		return c.errors.Handle("read period", err)
	}

	state := "closed"
	if status.Open {
		state = "open"
	}
	fmt.Fprintf(c.out, "Period: %s\n", status.Sheet)
	fmt.Fprintf(c.out, "Cutoff: %s\n", status.Cutoff)
	fmt.Fprintf(c.out, "Status: %s\n", state)

	summary, err := c.reporting.PeriodSummary(ctx, args[0])
	if c.errors.IsNotInitializedError(err) {
		fmt.Fprintln(c.out, "No sheet has been created for this period yet")
		return nil
	}
	if err != nil {
		return c.errors.Handle("read period", err)
	}
	c.printSummary(summary)
	return nil
}

func (c *PeriodCommand) printSummary(summary *services.PeriodSummary) {
	fmt.Fprintf(c.out, "Employees: %d\n", len(summary.Employees))
	for _, name := range summary.Employees {
		fmt.Fprintf(c.out, "  %s\n", name)
	}

	if len(summary.Days) == 0 {
		fmt.Fprintln(c.out, "No dates recorded")
		return
	}
	fmt.Fprintf(c.out, "%-12s %-6s %12s %12s %12s\n", "Date", "Column", "Tips", "Hours", "Rate")
	for _, day := range summary.Days {
		fmt.Fprintf(c.out, "%-12s %-6s %12s %12s %12s\n", day.Date, day.Column, day.Amount, day.HoursSum, day.Rate)
	}
}
