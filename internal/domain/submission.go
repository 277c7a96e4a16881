package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmissionKind distinguishes employee shifts from manager tip totals.
type SubmissionKind string

const (
	KindHours SubmissionKind = "hours"
	KindTips  SubmissionKind = "tips"
)

// Submission represents an accepted timesheet write in the domain model.
type Submission struct {
	ID        int64
	RequestID string
	Kind      SubmissionKind
	Sheet     string
	Cell      string
	Employee  string
	WorkDate  time.Time
	Value     decimal.Decimal
	CreatedAt time.Time
}

// NewHoursSubmission creates a Submission for an employee shift.
func NewHoursSubmission(requestID, employee string, workDate time.Time, hours decimal.Decimal) Submission {
	return Submission{
		RequestID: requestID,
		Kind:      KindHours,
		Employee:  NormalizeName(employee),
		WorkDate:  workDate,
		Value:     hours,
	}
}

// NewTipsSubmission creates a Submission for a daily tip total.
func NewTipsSubmission(requestID string, workDate time.Time, amount decimal.Decimal) Submission {
	return Submission{
		RequestID: requestID,
		Kind:      KindTips,
		WorkDate:  workDate,
		Value:     amount,
	}
}

// Located returns a copy of s pointing at the cell it was written to.
func (s Submission) Located(sheet, cell string) Submission {
	s.Sheet = sheet
	s.Cell = cell
	return s
}

// IsValid checks if the submission has valid data.
func (s Submission) IsValid() bool {
	if s.RequestID == "" || s.WorkDate.IsZero() {
		return false
	}
	switch s.Kind {
	case KindHours:
		return s.Employee != "" && s.Value.IsPositive()
	case KindTips:
		return s.Employee == "" && s.Value.IsPositive()
	default:
		return false
	}
}
