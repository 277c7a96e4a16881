package services

import (
	"context"

	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/period"
	"vila-timesheet/internal/schema"
	"vila-timesheet/internal/sheetref"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	locator *schema.Locator
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(locator *schema.Locator) ReportingService {
	return &reportingServiceImpl{locator: locator}
}

// PeriodSummary lists the employees and per-day dashboards of the sheet
// holding date. The sheet is never created; a missing one is not initialized.
func (r *reportingServiceImpl) PeriodSummary(ctx context.Context, date string) (*PeriodSummary, error) {
	day, err := period.ParseDate(date)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("date", date, "expected YYYY-MM-DD")
	}

	sheet, err := r.locator.FindPeriodSheet(ctx, period.KeyFor(day))
	if err != nil {
		return nil, err
	}

	employees, err := r.locator.Employees(ctx, sheet)
	if err != nil {
		return nil, err
	}
	dates, err := r.locator.Dates(ctx, sheet)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		Sheet:     sheet.Name(),
		Employees: make([]string, 0, len(employees)),
		Days:      make([]DaySummary, 0, len(dates)),
	}
	for _, e := range employees {
		summary.Employees = append(summary.Employees, e.Name)
	}
	for _, d := range dates {
		dash, err := r.locator.ReadDashboard(ctx, sheet, d.Pair)
		if err != nil {
			return nil, err
		}
		column, _ := sheetref.ColumnLetter(d.Pair.Hours)
		summary.Days = append(summary.Days, DaySummary{
			Date:     d.Header,
			Column:   column,
			Amount:   dash.Amount,
			HoursSum: dash.HoursSum,
			Rate:     dash.Rate,
		})
	}
	return summary, nil
}
