// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"os"
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	require.NoError(t, err)
}

func TestOpen_DefaultDSN(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() {
		_ = os.Chdir(oldWd)
	}()

	db, err := database.Open("")

	require.NoError(t, err)
	require.NotNil(t, db)
	defer func() {
		_ = db.Close()
	}()

	_, err = os.Stat(database.DefaultDSN)
	assert.NoError(t, err)
}

func TestOpen_MigrationsApplied(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	for _, table := range []string{"accounts", "redirects"} {
		t.Run(table, func(t *testing.T) {
			var count int64
			err := db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestOpen_ForeignKeysEnabled(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var enabled int
	err = db.Get(&enabled, "PRAGMA foreign_keys")
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)

	// Redirects must reference an existing account
	_, err = db.Exec(`INSERT INTO redirects (shortcode, target_url, owner_id) VALUES ('go', 'http://example.com', 42)`)
	assert.Error(t, err)
}

func TestOpen_ShortcodeUnique(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	_, err = db.Exec(`INSERT INTO accounts (email, password_hash) VALUES ('a@x.com', 'hash')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO redirects (shortcode, target_url, owner_id) VALUES ('go', 'http://a.example', 1)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO redirects (shortcode, target_url, owner_id) VALUES ('go', 'http://b.example', 1)`)
	assert.Error(t, err)
}

func TestOpen_WithExistingParams(t *testing.T) {
	db, err := database.Open(":memory:?_txlock=deferred")

	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		_ = db.Close()
	}()
}

func TestOpen_FileDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/subdir/test.db"

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='redirects'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMigrationVersion(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	version, err := database.MigrationVersion(db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMigrateDown(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(t, database.MigrateDown(db.DB))

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='redirects'")
	require.NoError(t, err)
	assert.Zero(t, count)

	version, err := database.MigrationVersion(db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestConnect_LeavesSchemaUntouched(t *testing.T) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	var count int64
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='redirects'")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, database.RunMigrations(db.DB))
	err = db.Get(&count, "SELECT count(*) FROM sqlite_master WHERE type='table' AND name='redirects'")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMigrateReset(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer func() {
		_ = db.Close()
	}()

	require.NoError(t, database.MigrateReset(db.DB))

	version, err := database.MigrationVersion(db.DB)
	require.NoError(t, err)
	assert.Zero(t, version)
}
