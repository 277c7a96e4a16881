package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vila-timesheet/internal/errors"
	"vila-timesheet/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory ledger.
const MemoryPath = ":memory:"

// SearchOptions filters ListSubmissions. Zero values match everything.
type SearchOptions struct {
	Employee string
	Kind     string
	Sheet    string
	Limit    int
}

// Repository defines the interface for ledger operations
type Repository interface {
	// Claims
	CreateClaim(ctx context.Context, claim *Claim) error
	GetClaim(ctx context.Context, sheet string, cell string) (*Claim, error)
	ReleaseClaim(ctx context.Context, sheet string, cell string) error

	// Submissions
	RecordSubmission(ctx context.Context, s *Submission) error
	ListSubmissions(ctx context.Context, opts SearchOptions) ([]*Submission, error)

	// Utility
	RollbackMigration(ctx context.Context) (int, error)
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// New opens the ledger at dbPath and applies pending migrations.
func New(ctx context.Context, dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// An in-memory database exists per connection, so the pool is pinned to one.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("configure database", err)
	}

	if err := migrations.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// RollbackMigration reverts the newest applied schema migration and returns
// its version, or 0 when the ledger has none.
func (r *SQLiteRepository) RollbackMigration(ctx context.Context) (int, error) {
	version, err := migrations.RollbackLast(ctx, r.db)
	if err != nil {
		return 0, errors.NewDatabaseError("rollback migration", err)
	}
	return version, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateClaim records that a cell is taken. A second claim of the same cell
// fails with a duplicate entry error.
func (r *SQLiteRepository) CreateClaim(ctx context.Context, claim *Claim) error {
	claim.ClaimedAt = nowOr(claim.ClaimedAt)
	query := `INSERT INTO claims (sheet, cell, claimed_at) VALUES (?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query, claim.Sheet, claim.Cell, FormatTimeForDB(claim.ClaimedAt))
	if IsUniqueViolation(err) {
		return errors.NewDuplicateEntryError(claim.Sheet, claim.Cell, "claimed")
	}
	if err != nil {
		return err
	}

	claim.ID = id
	return nil
}

// GetClaim retrieves the claim of a cell
func (r *SQLiteRepository) GetClaim(ctx context.Context, sheet string, cell string) (*Claim, error) {
	query := `
	SELECT id, sheet, cell, claimed_at
	FROM claims
	WHERE sheet = ? AND cell = ?`

	return QuerySingle(ctx, r.db, query, ScanClaim, "claim", sheet+"!"+cell, sheet, cell)
}

// ReleaseClaim deletes the claim of a cell
func (r *SQLiteRepository) ReleaseClaim(ctx context.Context, sheet string, cell string) error {
	query := `DELETE FROM claims WHERE sheet = ? AND cell = ?`
	return ExecuteWithRowsAffected(ctx, r.db, query, "claim", sheet+"!"+cell, sheet, cell)
}

// RecordSubmission appends an accepted submission
func (r *SQLiteRepository) RecordSubmission(ctx context.Context, s *Submission) error {
	s.CreatedAt = nowOr(s.CreatedAt)
	query := `
	INSERT INTO submissions (request_id, kind, sheet, cell, employee, work_date, value, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		s.RequestID, s.Kind, s.Sheet, s.Cell, s.Employee, s.WorkDate, s.Value, FormatTimeForDB(s.CreatedAt))
	if err != nil {
		if IsUniqueViolation(err) {
			return errors.NewDuplicateEntryError("submissions", s.RequestID, "request already recorded")
		}
		return err
	}

	s.ID = id
	return nil
}

// ListSubmissions returns submissions newest first
func (r *SQLiteRepository) ListSubmissions(ctx context.Context, opts SearchOptions) ([]*Submission, error) {
	var conditions []string
	var args []interface{}

	if opts.Employee != "" {
		conditions = append(conditions, "employee = ? COLLATE NOCASE")
		args = append(args, strings.TrimSpace(opts.Employee))
	}
	if opts.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, opts.Kind)
	}
	if opts.Sheet != "" {
		conditions = append(conditions, "sheet = ?")
		args = append(args, opts.Sheet)
	}

	query := `
	SELECT id, request_id, kind, sheet, cell, employee, work_date, value, created_at
	FROM submissions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	return QueryMultiple(ctx, r.db, query, ScanSubmissions, "submissions", args...)
}
