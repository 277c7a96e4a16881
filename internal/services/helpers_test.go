package services

import (
	"context"
	"testing"
	"time"

	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/sheetref"
	"vila-timesheet/internal/store"
	"vila-timesheet/internal/store/memory"

	"github.com/stretchr/testify/require"
)

const january = "January 2026"

// jan29 is a moment inside the open window of January 2026.
var jan29 = time.Date(2026, time.January, 29, 10, 0, 0, 0, time.UTC)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// seedRoster writes a Settings tab with the given rows below a header.
func seedRoster(t *testing.T, mem *memory.Store, header []string, rows ...[]string) {
	t.Helper()
	ctx := context.Background()
	ws, err := mem.CreateWorksheet(ctx, "Settings", 20, 4)
	require.NoError(t, err)
	values := append([][]string{header}, rows...)
	a1 := sheetref.Span(sheetref.At(1, 1), sheetref.At(len(header), len(values))).String()
	require.NoError(t, mem.WriteRange(ctx, ws, a1, values, store.WriteOptions{}))
}

func setupContainer(t *testing.T, now time.Time, ledger sqlite.Repository) (*ServiceContainer, *memory.Store) {
	t.Helper()
	mem := memory.New("Vila Acadia")
	seedRoster(t, mem, []string{"Name", "PIN"}, []string{"John Doe", "1234"}, []string{"Ana Silva", "0042"})
	c := NewServiceContainer(Dependencies{
		Store:           mem,
		Layout:          layout.Default(),
		Ledger:          ledger,
		ManagerPassword: "manager-secret",
		Now:             fixedNow(now),
	})
	return c, mem
}

func setupLedger(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
