package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"vila-timesheet/internal/repository/sqlite"
)

// WorkDateLayout is the storage format of a submission's work date.
const WorkDateLayout = "2006-01-02"

// SubmissionMapper handles conversion between domain and database Submission models.
type SubmissionMapper struct{}

// NewSubmissionMapper creates a new SubmissionMapper instance.
func NewSubmissionMapper() *SubmissionMapper {
	return &SubmissionMapper{}
}

// ToDatabase converts a domain Submission to a database Submission.
func (m *SubmissionMapper) ToDatabase(s Submission) sqlite.Submission {
	var workDate string
	if !s.WorkDate.IsZero() {
		workDate = s.WorkDate.Format(WorkDateLayout)
	}
	return sqlite.Submission{
		ID:        s.ID,
		RequestID: s.RequestID,
		Kind:      string(s.Kind),
		Sheet:     s.Sheet,
		Cell:      s.Cell,
		Employee:  s.Employee,
		WorkDate:  workDate,
		Value:     s.Value.StringFixed(2),
		CreatedAt: s.CreatedAt,
	}
}

// FromDatabase converts a database Submission to a domain Submission.
// Unparseable dates and values map to their zero values.
func (m *SubmissionMapper) FromDatabase(s sqlite.Submission) Submission {
	workDate, _ := time.Parse(WorkDateLayout, s.WorkDate)
	value, err := decimal.NewFromString(s.Value)
	if err != nil {
		value = decimal.Zero
	}
	return Submission{
		ID:        s.ID,
		RequestID: s.RequestID,
		Kind:      SubmissionKind(s.Kind),
		Sheet:     s.Sheet,
		Cell:      s.Cell,
		Employee:  s.Employee,
		WorkDate:  workDate,
		Value:     value,
		CreatedAt: s.CreatedAt,
	}
}

// FromDatabaseSlice converts a slice of database Submissions to domain Submissions.
func (m *SubmissionMapper) FromDatabaseSlice(rows []*sqlite.Submission) []Submission {
	out := make([]Submission, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, m.FromDatabase(*row))
	}
	return out
}

// ClaimMapper converts ledger claims to domain claims.
type ClaimMapper struct{}

// NewClaimMapper creates a new ClaimMapper instance.
func NewClaimMapper() *ClaimMapper {
	return &ClaimMapper{}
}

// FromDatabase converts a database Claim to a domain Claim.
func (m *ClaimMapper) FromDatabase(c sqlite.Claim) Claim {
	return Claim{Sheet: c.Sheet, Cell: c.Cell, ClaimedAt: c.ClaimedAt}
}

// SearchOptionsMapper handles conversion between domain and database SearchOptions.
type SearchOptionsMapper struct{}

// NewSearchOptionsMapper creates a new SearchOptionsMapper instance.
func NewSearchOptionsMapper() *SearchOptionsMapper {
	return &SearchOptionsMapper{}
}

// ToDatabase converts domain SearchOptions to database SearchOptions.
func (m *SearchOptionsMapper) ToDatabase(opts SearchOptions) sqlite.SearchOptions {
	db := sqlite.SearchOptions{Limit: opts.Limit}
	if opts.Employee != nil {
		db.Employee = NormalizeName(*opts.Employee)
	}
	if opts.Kind != nil {
		db.Kind = string(*opts.Kind)
	}
	if opts.Sheet != nil {
		db.Sheet = *opts.Sheet
	}
	return db
}

// FromDatabase converts database SearchOptions to domain SearchOptions.
func (m *SearchOptionsMapper) FromDatabase(db sqlite.SearchOptions) SearchOptions {
	opts := SearchOptions{Limit: db.Limit}
	if db.Employee != "" {
		employee := db.Employee
		opts.Employee = &employee
	}
	if db.Kind != "" {
		kind := SubmissionKind(db.Kind)
		opts.Kind = &kind
	}
	if db.Sheet != "" {
		sheet := db.Sheet
		opts.Sheet = &sheet
	}
	return opts
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Submission    *SubmissionMapper
	Claim         *ClaimMapper
	SearchOptions *SearchOptionsMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Submission:    NewSubmissionMapper(),
		Claim:         NewClaimMapper(),
		SearchOptions: NewSearchOptionsMapper(),
	}
}
