package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"vila-timesheet/internal/config"
	"vila-timesheet/internal/domain"
	"vila-timesheet/internal/layout"
	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/services"
	"vila-timesheet/internal/store/memory"

	"github.com/stretchr/testify/require"
)

const january = "January 2026"

// jan29 is a moment inside the open window of January 2026.
var jan29 = time.Date(2026, time.January, 29, 10, 0, 0, 0, time.UTC)

// freezeTime pins timeNow for the duration of the test.
func freezeTime(t *testing.T, now time.Time) {
	t.Helper()
	original := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = original })
}

// newRosteredStore returns a memory store whose Settings tab holds John Doe
// and Ana Silva.
func newRosteredStore(t *testing.T) *memory.Store {
	t.Helper()
	mem := memory.New("Vila Acadia")
	container := services.NewServiceContainer(services.Dependencies{Store: mem, Layout: layout.Default()})
	_, err := container.Roster.Import(context.Background(), []domain.RosterEntry{
		domain.NewRosterEntry("John Doe", "1234"),
		domain.NewRosterEntry("Ana Silva", "0042"),
	})
	require.NoError(t, err)
	return mem
}

// memoryBuilder builds Apps over mem and ledger, which may be nil.
func memoryBuilder(mem *memory.Store, ledger sqlite.Repository) AppBuilder {
	return func(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (*App, error) {
		container := services.NewServiceContainer(services.Dependencies{
			Store:           mem,
			Layout:          cfg.Layout,
			Ledger:          ledger,
			ManagerPassword: cfg.Auth.ManagerPassword,
			Now:             timeNow,
			Logger:          logger,
		})
		return NewApp(container, cfg, out, logger), nil
	}
}

// runCLI executes args against a fresh root command and returns stdout.
func runCLI(t *testing.T, build AppBuilder, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(config.NewLoader().WithEnvFile(""), build)
	root.cmd.SetOut(&out)
	root.cmd.SetErr(&errOut)
	root.cmd.SetArgs(append([]string{"--store", "memory"}, args...))
	err := root.Execute()
	return out.String(), err
}

func setupLedger(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}
