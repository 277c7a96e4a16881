package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/services"
)

// SubmitHoursCommand handles the submit-hours command
type SubmitHoursCommand struct {
	timesheet services.TimesheetService
	out       io.Writer
	errors    *ErrorHandler
}

// NewSubmitHoursCommand creates a new submit-hours command handler
func NewSubmitHoursCommand(app *App) *SubmitHoursCommand {
	return &SubmitHoursCommand{
		timesheet: app.services.Timesheet,
		out:       app.out,
		errors:    NewErrorHandler(),
	}
}

// Execute runs the submit-hours command: NAME DATE START END
func (c *SubmitHoursCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return apperrors.NewInvalidInputError("command", "submit-hours", "usage: vila submit-hours NAME YYYY-MM-DD HH:MM HH:MM")
	}

	result, err := c.timesheet.SubmitShift(ctx, services.ShiftRequest{
		EmployeeName: args[0],
		Date:         args[1],
		StartTime:    args[2],
		EndTime:      args[3],
	})
	if err != nil {
		return c.errors.Handle("submit hours", err)
	}

	fmt.Fprintf(c.out, "Recorded %.2f hours for %s on %s (%s!%s)\n",
		result.Hours, result.Employee, result.Date, result.Sheet, result.Cell)
	if result.ColumnCreated {
		fmt.Fprintf(c.out, "Opened a new date column in %s\n", result.Sheet)
	}
	return nil
}

// SubmitTipsCommand handles the submit-tips command
type SubmitTipsCommand struct {
	timesheet services.TimesheetService
	out       io.Writer
	errors    *ErrorHandler
}

// NewSubmitTipsCommand creates a new submit-tips command handler
func NewSubmitTipsCommand(app *App) *SubmitTipsCommand {
	return &SubmitTipsCommand{
		timesheet: app.services.Timesheet,
		out:       app.out,
		errors:    NewErrorHandler(),
	}
}

// Execute runs the submit-tips command: DATE AMOUNT
func (c *SubmitTipsCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return apperrors.NewInvalidInputError("command", "submit-tips", "usage: vila submit-tips YYYY-MM-DD AMOUNT")
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(args[1]))
	if err != nil {
		return c.errors.Handle("submit tips", apperrors.NewInvalidInputError("total_tips", args[1], "not a number"))
	}

	result, err := c.timesheet.SubmitDailyTips(ctx, services.TipRequest{Date: args[0], TotalTips: amount})
	if err != nil {
		return c.errors.Handle("submit tips", err)
	}

	fmt.Fprintf(c.out, "Recorded tips of %s for %s (%s!%s)\n",
		result.TotalTips.StringFixed(2), result.Date, result.Sheet, result.Cell)
	fmt.Fprintf(c.out, "Formulas calculated for %d employees\n", result.EmployeeCount)
	return nil
}
