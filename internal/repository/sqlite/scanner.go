package sqlite

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanClaim scans a single claim from a database row
func ScanClaim(scanner Scanner) (*Claim, error) {
	claim := &Claim{}
	var claimedAt string

	if err := scanner.Scan(&claim.ID, &claim.Sheet, &claim.Cell, &claimedAt); err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(claimedAt)
	if err != nil {
		return nil, err
	}
	claim.ClaimedAt = t
	return claim, nil
}

// ScanSubmission scans a single submission from a database row
func ScanSubmission(scanner Scanner) (*Submission, error) {
	s := &Submission{}
	var createdAt string

	err := scanner.Scan(
		&s.ID,
		&s.RequestID,
		&s.Kind,
		&s.Sheet,
		&s.Cell,
		&s.Employee,
		&s.WorkDate,
		&s.Value,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t, err := ParseTimeFromDB(createdAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = t
	return s, nil
}

// ScanSubmissions scans multiple submissions from database rows
func ScanSubmissions(rows Rows) ([]*Submission, error) {
	var submissions []*Submission
	for rows.Next() {
		s, err := ScanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return submissions, nil
}
