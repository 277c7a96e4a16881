package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"vila-timesheet/internal/domain"
	apperrors "vila-timesheet/internal/errors"
	"vila-timesheet/internal/guard"
	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/period"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/shift"
	"vila-timesheet/internal/store"
	"vila-timesheet/internal/validation"
)

// TimesheetOptions holds the collaborators of a TimesheetService.
type TimesheetOptions struct {
	Store  store.Store
	Guard  *guard.Guard
	Roster RosterService
	// Ledger is optional; when set, accepted submissions are recorded in it.
	Ledger sqlite.Repository
	// Now defaults to time.Now.
	Now func() time.Time
	// Location is the business time zone used to decide whether a period is
	// open. Defaults to UTC.
	Location *time.Location
	Logger   *slog.Logger
}

// timesheetServiceImpl implements the TimesheetService interface
type timesheetServiceImpl struct {
	store     store.Store
	guard     *guard.Guard
	roster    RosterService
	ledger    sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.RequestValidator
	now       func() time.Time
	location  *time.Location
	logger    *slog.Logger
}

// NewTimesheetService creates a new TimesheetService instance
func NewTimesheetService(opts TimesheetOptions) TimesheetService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &timesheetServiceImpl{
		store:     opts.Store,
		guard:     opts.Guard,
		roster:    opts.Roster,
		ledger:    opts.Ledger,
		mapper:    domain.NewMapper(),
		validator: validation.NewRequestValidator(),
		now:       now,
		location:  loc,
		logger:    logging.OrDiscard(opts.Logger),
	}
}

// SubmitShift records the hours of one shift in the employee's timesheet cell
func (t *timesheetServiceImpl) SubmitShift(ctx context.Context, req ShiftRequest) (*ShiftResult, error) {
	if err := t.validator.ValidateShift(req.EmployeeName, req.Date, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	date, err := t.openDate(req.Date)
	if err != nil {
		return nil, err
	}

	employee, err := t.roster.Find(ctx, req.EmployeeName)
	if err != nil {
		return nil, err
	}

	start, err := shift.ParseClock(req.StartTime)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("start_time", req.StartTime, err.Error())
	}
	end, err := shift.ParseClock(req.EndTime)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("end_time", req.EndTime, err.Error())
	}
	hours := shift.Duration(start, end)

	res, err := t.guard.SubmitHours(ctx, employee.Name, date, hours.InexactFloat64())
	if err != nil {
		return nil, err
	}

	t.record(ctx, domain.NewHoursSubmission(uuid.NewString(), employee.Name, date, hours).Located(res.Sheet, res.Cell))

	return &ShiftResult{
		Employee:      employee.Name,
		Date:          date.Format(period.DateLayout),
		Sheet:         res.Sheet,
		Cell:          res.Cell,
		Hours:         res.Hours,
		ColumnCreated: res.ColumnCreated,
	}, nil
}

// SubmitDailyTips writes the day's tip total, replacing any earlier total
func (t *timesheetServiceImpl) SubmitDailyTips(ctx context.Context, req TipRequest) (*TipResult, error) {
	if err := t.validator.ValidateTips(req.Date, req.TotalTips); err != nil {
		return nil, err
	}

	date, err := t.openDate(req.Date)
	if err != nil {
		return nil, err
	}

	amount := req.TotalTips.Round(2)
	res, err := t.guard.SubmitAggregateAmount(ctx, date, amount)
	if err != nil {
		return nil, err
	}

	t.record(ctx, domain.NewTipsSubmission(uuid.NewString(), date, amount).Located(res.Sheet, res.Cell))

	return &TipResult{
		Date:          date.Format(period.DateLayout),
		Sheet:         res.Sheet,
		Cell:          res.Cell,
		TotalTips:     amount,
		ColumnCreated: res.ColumnCreated,
		EmployeeCount: res.EmployeeCount,
	}, nil
}

// Health reports whether the spreadsheet can be reached
func (t *timesheetServiceImpl) Health(ctx context.Context) *HealthStatus {
	info, err := t.store.Info(ctx)
	if err != nil {
		t.logger.Error("health check failed", "error", err)
		return &HealthStatus{
			Status:  HealthError,
			Message: apperrors.GetUserMessage(err),
		}
	}
	return &HealthStatus{
		Status:           HealthConnected,
		SpreadsheetID:    info.ID,
		SpreadsheetTitle: info.Title,
		Backend:          info.Backend,
		Message:          "Successfully connected to " + info.Backend,
	}
}

// PeriodStatus reports the sheet and cutoff of a work date
func (t *timesheetServiceImpl) PeriodStatus(value string) (*PeriodStatus, error) {
	date, err := period.ParseDate(value)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("date", value, "expected YYYY-MM-DD")
	}
	return &PeriodStatus{
		Date:   date.Format(period.DateLayout),
		Sheet:  period.KeyFor(date).SheetName(),
		Cutoff: period.Cutoff(date).Format(period.DateLayout),
		Open:   period.IsOpen(date, t.now().In(t.location)),
	}, nil
}

// openDate parses a work date and rejects it when its period has closed.
func (t *timesheetServiceImpl) openDate(value string) (time.Time, error) {
	date, err := period.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("date", value, "expected YYYY-MM-DD")
	}
	if !period.IsOpen(date, t.now().In(t.location)) {
		return time.Time{}, apperrors.NewPeriodClosedError(period.KeyFor(date).SheetName(), period.Cutoff(date).Format(period.DateLayout))
	}
	return date, nil
}

// record appends an accepted submission to the ledger. The sheet already
// holds the value, so a ledger failure is logged and not returned.
func (t *timesheetServiceImpl) record(ctx context.Context, s domain.Submission) {
	if t.ledger == nil {
		return
	}
	row := t.mapper.Submission.ToDatabase(s)
	if err := t.ledger.RecordSubmission(ctx, &row); err != nil {
		t.logger.Warn("could not record submission in ledger", "request_id", s.RequestID, "sheet", s.Sheet, "cell", s.Cell, "error", err)
	}
}
