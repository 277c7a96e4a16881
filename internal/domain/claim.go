package domain

import "time"

// Claim is a ledger reservation of one timesheet cell. A claim outlives the
// write it guarded; releasing it only lets the cell be claimed again.
type Claim struct {
	Sheet     string
	Cell      string
	ClaimedAt time.Time
}

// Target is the cell in Sheet!Cell form.
func (c Claim) Target() string {
	return c.Sheet + "!" + c.Cell
}
