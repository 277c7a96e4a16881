package services

import (
	"log/slog"
	"time"

	"vila-timesheet/internal/guard"
	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/schema"
	"vila-timesheet/internal/store"
)

// Dependencies are the collaborators shared by all services.
type Dependencies struct {
	Store           store.Store
	Layout          layout.Layout
	Ledger          sqlite.Repository // nil when disabled
	ManagerPassword string
	Now             func() time.Time
	Location        *time.Location
	Logger          *slog.Logger
}

// NewServiceContainer wires the engine and all services over deps.
// With a ledger, cell claims go through the ledger as well as the sheet.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	locator := schema.NewLocator(deps.Store, deps.Layout, deps.Logger)

	var claimer guard.Claimer
	if deps.Ledger != nil {
		claimer = guard.NewLedgerClaimer(deps.Ledger, guard.NewReadBeforeWrite(deps.Store), deps.Logger)
	}
	g := guard.New(deps.Store, locator, claimer, deps.Logger)

	roster := NewRosterService(deps.Store, deps.Layout.RosterSheet, deps.Logger)
	return &ServiceContainer{
		Roster: roster,
		Timesheet: NewTimesheetService(TimesheetOptions{
			Store:    deps.Store,
			Guard:    g,
			Roster:   roster,
			Ledger:   deps.Ledger,
			Now:      deps.Now,
			Location: deps.Location,
			Logger:   deps.Logger,
		}),
		Reporting: NewReportingService(locator),
		History:   NewHistoryService(deps.Ledger),
		Manager:   NewManagerService(deps.ManagerPassword),
	}
}
