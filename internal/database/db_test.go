package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndMigrate(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "nested", "journal.db"))
	require.NoError(t, err, "missing parent directories are created")
	defer db.Close()

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate(), "migrations are idempotent")

	// All module tables exist
	for _, table := range []string{"trades", "fee_schedules", "capital_snapshots"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}
