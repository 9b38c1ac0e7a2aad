package kv

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// setupDB instantiates and returns a Store instance.
func setupDB(t testing.TB) *Store {
	db, err := NewKVStore(context.Background(), t.TempDir())
	require.NoError(t, err, "Failed to instantiate DB")
	t.Cleanup(func() {
		require.NoError(t, db.Close(), "Failed to close database")
	})
	return db
}

func TestStore_DatabasePath(t *testing.T) {
	dir := t.TempDir()
	db, err := NewKVStore(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, dir, db.DatabasePath())
	require.FileExists(t, KVStoreDatafilePath(dir))
	require.NoError(t, db.Close())
}

func TestStore_RegistersBoltCollector(t *testing.T) {
	db := setupDB(t)
	var already prometheus.AlreadyRegisteredError
	require.ErrorAs(t, prometheus.Register(createBoltCollector(db.db)), &already)
}

func TestStore_ClearDB(t *testing.T) {
	dir := t.TempDir()
	db, err := NewKVStore(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.NoError(t, db.ClearDB())
	require.NoFileExists(t, KVStoreDatafilePath(dir))
}

func TestStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := NewKVStore(ctx, dir)
	require.NoError(t, err)
	u := db.HotUpdater()
	u.SetGenesisTime(1606824023)
	require.NoError(t, u.Commit(ctx))
	require.NoError(t, db.Close())

	db, err = NewKVStore(ctx, dir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()
	genesis, ok, err := db.GenesisTime(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1606824023), genesis)
}
