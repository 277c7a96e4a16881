package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestLoad(t *testing.T) {
	migrations, err := Load()

	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "000001_create_claims", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "UNIQUE (sheet, cell)")
	assert.Equal(t, 2, migrations[1].Version)
	assert.Contains(t, migrations[1].Down, "DROP TABLE IF EXISTS submissions")
}

func TestRunMigrations(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run should be a no-op")

	assert.True(t, tableExists(t, db, "claims"))
	assert.True(t, tableExists(t, db, "submissions"))
	applied, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true}, applied)
}

func TestRollbackLast(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, RunMigrations(ctx, db))

	version, err := RollbackLast(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.False(t, tableExists(t, db, "submissions"))
	assert.True(t, tableExists(t, db, "claims"))

	version, err = RollbackLast(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	version, err = RollbackLast(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 0, version)

	require.NoError(t, RunMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "submissions"))
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 12, extractVersion("000012_add_index.up.sql"))
	assert.Equal(t, 0, extractVersion("README.md"))
}
