package iocache

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSnapshotsNoneBackend(t *testing.T) {
	err := MigrateSnapshots(schema.NoneBackend, "", -1)
	assert.Error(t, err)
}

func TestMigrateSnapshotsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")

	version, _, err := SnapshotSchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Zero(t, version)

	// Migrate to latest
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))
	version, dirty, err := SnapshotSchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	// Running again is a no-op
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, -1))

	// Step back to the first version
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 1))
	version, _, err = SnapshotSchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	// The store works on a migrated database
	store, err := NewSnapshotStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	run, cards := sampleBoard()
	_, err = store.RecordSnapshot(run, cards)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Roll back everything
	require.NoError(t, MigrateSnapshots(schema.SQLiteBackend, dbPath, 0))
	version, _, err = SnapshotSchemaVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Zero(t, version)
}
