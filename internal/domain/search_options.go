package domain

// SearchOptions represents search criteria for ledger submissions.
// This is a domain model that mirrors the database search options
// but belongs to the domain layer for proper separation of concerns.
type SearchOptions struct {
	Employee *string
	Kind     *SubmissionKind
	Sheet    *string
	Limit    int
}
