package database_test

import (
	"path/filepath"
	"testing"

	"github.com/penya-app/penya-backend/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	require.NoError(t, db.Ping())

	for _, table := range []string{"matches", "player_stats", "season_players"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestInitDBMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, teardown, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	teardown()
	_ = db

	db2, teardown2, err := database.InitDB(dbPath, "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown2()
	require.NoError(t, db2.Ping())
}
