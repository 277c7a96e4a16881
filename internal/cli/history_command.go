package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"vila-timesheet/internal/domain"
	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/services"
)

// HistoryOptions are the flags of the history command
type HistoryOptions struct {
	Employee string
	Kind     string
	Sheet    string
	Limit    int
	Format   string // table or csv
}

// HistoryCommand handles the history command
type HistoryCommand struct {
	history services.HistoryService
	opts    HistoryOptions
	out     io.Writer
	errors  *ErrorHandler
}

// NewHistoryCommand creates a new history command handler
func NewHistoryCommand(app *App, opts HistoryOptions) *HistoryCommand {
	return &HistoryCommand{history: app.services.History, opts: opts, out: app.out, errors: NewErrorHandler()}
}

// Execute lists recent ledger submissions, newest first
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	search, err := c.searchOptions()
	if err != nil {
		return err
	}

	submissions, err := c.history.Recent(ctx, search)
	if err != nil {
		return c.errors.Handle("read history", err)
	}

	switch c.opts.Format {
	case "", "table":
		c.printTable(submissions)
		return nil
	case "csv":
		return c.printCSV(submissions)
	default:
		return apperrors.NewInvalidInputError("format", c.opts.Format, "unsupported format")
	}
}

func (c *HistoryCommand) searchOptions() (domain.SearchOptions, error) {
	search := domain.SearchOptions{Limit: c.opts.Limit}
	if c.opts.Employee != "" {
		employee := c.opts.Employee
		search.Employee = &employee
	}
	if c.opts.Sheet != "" {
		sheet := c.opts.Sheet
		search.Sheet = &sheet
	}
	if c.opts.Kind != "" {
		kind := domain.SubmissionKind(c.opts.Kind)
		if kind != domain.KindHours && kind != domain.KindTips {
			return search, apperrors.NewInvalidInputError("kind", c.opts.Kind, "expected hours or tips")
		}
		search.Kind = &kind
	}
	return search, nil
}

func (c *HistoryCommand) printTable(submissions []domain.Submission) {
	if len(submissions) == 0 {
		fmt.Fprintln(c.out, "No submissions found")
		return
	}
	for _, s := range submissions {
		who := s.Employee
		if s.Kind == domain.KindTips {
			who = "(daily tips)"
		}
		fmt.Fprintf(c.out, "%s  %-5s  %-10s  %s!%-5s  %8s  %s\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			s.Kind,
			s.WorkDate.Format(domain.WorkDateLayout),
			s.Sheet, s.Cell,
			s.Value.StringFixed(2),
			who,
		)
	}
}

func (c *HistoryCommand) printCSV(submissions []domain.Submission) error {
	writer := csv.NewWriter(c.out)
	defer writer.Flush()

	header := []string{"ID", "Request ID", "Kind", "Sheet", "Cell", "Employee", "Work Date", "Value", "Created At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range submissions {
		row := []string{
			strconv.FormatInt(s.ID, 10),
			s.RequestID,
			string(s.Kind),
			s.Sheet,
			s.Cell,
			s.Employee,
			s.WorkDate.Format(domain.WorkDateLayout),
			s.Value.StringFixed(2),
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	return nil
}
