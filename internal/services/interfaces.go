package services

import (
	"context"

	"github.com/shopspring/decimal"
	"vila-timesheet/internal/domain"
)

// ShiftRequest is an employee's shift as submitted.
type ShiftRequest struct {
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`       // YYYY-MM-DD
	StartTime    string `json:"start_time"` // HH:MM, 24-hour
	EndTime      string `json:"end_time"`   // HH:MM, 24-hour
}

// ShiftResult describes where a shift was recorded.
type ShiftResult struct {
	Employee      string  `json:"employee"`
	Date          string  `json:"date"`
	Sheet         string  `json:"sheet"`
	Cell          string  `json:"cell"`
	Hours         float64 `json:"hours_worked"`
	ColumnCreated bool    `json:"column_created"`
}

// TipRequest is a manager's daily tip total.
type TipRequest struct {
	Date      string          `json:"date"`
	TotalTips decimal.Decimal `json:"total_tips"`
}

// TipResult describes a recorded tip total.
type TipResult struct {
	Date          string          `json:"date"`
	Sheet         string          `json:"sheet"`
	Cell          string          `json:"cell"`
	TotalTips     decimal.Decimal `json:"total_tips"`
	ColumnCreated bool            `json:"column_created"`
	EmployeeCount int             `json:"employee_count"`
}

// Health states reported by TimesheetService.Health.
const (
	HealthConnected = "connected"
	HealthError     = "error"
)

// HealthStatus reports whether the backing spreadsheet is reachable.
type HealthStatus struct {
	Status           string `json:"status"`
	SpreadsheetID    string `json:"spreadsheet_id"`
	SpreadsheetTitle string `json:"spreadsheet_title"`
	Backend          string `json:"backend"`
	Message          string `json:"message"`
}

// PeriodStatus tells whether a work date can still be submitted.
type PeriodStatus struct {
	Date   string `json:"date"`
	Sheet  string `json:"sheet"`
	Cutoff string `json:"cutoff"`
	Open   bool   `json:"open"`
}

// DaySummary is the dashboard of one allocated date block.
type DaySummary struct {
	Date     string `json:"date"`
	Column   string `json:"column"`
	Amount   string `json:"amount"`
	HoursSum string `json:"hours_sum"`
	Rate     string `json:"rate"`
}

// PeriodSummary is the content of one period sheet.
type PeriodSummary struct {
	Sheet     string       `json:"sheet"`
	Employees []string     `json:"employees"`
	Days      []DaySummary `json:"days"`
}

// RosterService reads and maintains the employee roster tab
type RosterService interface {
	Employees(ctx context.Context) ([]domain.RosterEntry, error)
	Find(ctx context.Context, name string) (*domain.RosterEntry, error)
	// Verify fails closed: any error reading the roster is a failed verification.
	Verify(ctx context.Context, name, pin string) (*domain.RosterEntry, bool)
	Import(ctx context.Context, entries []domain.RosterEntry) (int, error)
}

// TimesheetService accepts submissions and reports on the timesheet
type TimesheetService interface {
	SubmitShift(ctx context.Context, req ShiftRequest) (*ShiftResult, error)
	SubmitDailyTips(ctx context.Context, req TipRequest) (*TipResult, error)
	Health(ctx context.Context) *HealthStatus
	PeriodStatus(date string) (*PeriodStatus, error)
}

// ReportingService reads back period sheets
type ReportingService interface {
	PeriodSummary(ctx context.Context, date string) (*PeriodSummary, error)
}

// HistoryService queries and maintains the local submission ledger
type HistoryService interface {
	Enabled() bool
	Recent(ctx context.Context, opts domain.SearchOptions) ([]domain.Submission, error)
	Claim(ctx context.Context, sheet, cell string) (*domain.Claim, error)
	ReleaseClaim(ctx context.Context, sheet, cell string) error
	RollbackMigration(ctx context.Context) (int, error)
}

// ManagerService authenticates the manager
type ManagerService interface {
	VerifyPassword(password string) bool
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Roster    RosterService
	Timesheet TimesheetService
	Reporting ReportingService
	History   HistoryService
	Manager   ManagerService
}
