package sqlite

import "time"

// Submission kinds recorded in the ledger.
const (
	KindHours = "hours"
	KindTips  = "tips"
)

// Claim marks a timesheet cell as taken by this deployment.
type Claim struct {
	ID        int64
	Sheet     string
	Cell      string
	ClaimedAt time.Time
}

// Submission is an accepted write, kept as an audit trail next to the sheet.
type Submission struct {
	ID        int64
	RequestID string
	Kind      string
	Sheet     string
	Cell      string
	Employee  string // empty for tip submissions
	WorkDate  string // YYYY-MM-DD
	Value     string
	CreatedAt time.Time
}
