package config

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"vila-timesheet/internal/repository/sqlite"
	"vila-timesheet/internal/store"
	"vila-timesheet/internal/store/gsheets"
	"vila-timesheet/internal/store/memory"
	"vila-timesheet/internal/store/xlsx"
)

// CreateStore opens the configured spreadsheet backend. The returned close
// function releases it and is never nil.
func CreateStore(ctx context.Context, config *Config, logger *slog.Logger) (store.Store, func() error, error) {
	noop := func() error { return nil }

	if err := config.ValidateStore(); err != nil {
		return nil, noop, err
	}

	switch config.Store.Backend {
	case BackendSheets:
		creds, err := config.GetCredentials()
		if err != nil {
			return nil, noop, err
		}
		s, err := gsheets.New(ctx, gsheets.Config{
			SpreadsheetID:   config.Sheets.SpreadsheetID,
			CredentialsJSON: creds,
		}, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case BackendXLSX:
		s, err := xlsx.Open(config.Store.WorkbookPath, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open workbook: %w", err)
		}
		return s, s.Close, nil

	case BackendMemory:
		return memory.New("Vila Acadia Timesheet"), noop, nil
	}

	return nil, noop, &ConfigError{Field: "store.backend", Message: fmt.Sprintf("unknown store %q", config.Store.Backend)}
}

// CreateLedger opens the submission ledger, or returns nil when it is disabled
func CreateLedger(ctx context.Context, config *Config) (sqlite.Repository, error) {
	if !config.Ledger.Enabled {
		return nil, nil
	}

	dbPath := config.Ledger.Path
	if dbPath != sqlite.MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), fs.FileMode(config.Ledger.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	repo, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}

	return repo, nil
}
