package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/testing/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Backup(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	require.ErrorIs(t, db.Backup(ctx, "", false), errNoFinalizedCheckpoint)

	blk := util.GenerateROBlock(t, 3)
	u := db.HotUpdater()
	u.AddHotBlock(blk)
	u.SetFinalizedCheckpoint(&blocks.Checkpoint{Epoch: 12, Root: blk.Root()})
	require.NoError(t, u.Commit(ctx))

	require.NoError(t, db.Backup(ctx, "", false))
	backupPath := filepath.Join(db.databasePath, backupsDirectoryName, "prysm_beacondb_at_epoch_0000012.backup")
	require.FileExists(t, backupPath)

	backup, err := NewKVStore(ctx, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, backup.Close())
	require.NoError(t, os.Rename(backupPath, KVStoreDatafilePath(backup.databasePath)))
	restored, err := NewKVStore(ctx, backup.databasePath)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, restored.Close())
	}()
	got, err := restored.HotBlock(ctx, blk.Root())
	require.NoError(t, err)
	require.NotNil(t, got)
	root, err := got.Block.HashTreeRoot()
	require.NoError(t, err)
	assert.Equal(t, blk.Root(), root)
}

func TestStore_Backup_Permissions(t *testing.T) {
	ctx := context.Background()
	db := setupDB(t)
	u := db.HotUpdater()
	u.SetFinalizedCheckpoint(&blocks.Checkpoint{Epoch: 1})
	require.NoError(t, u.Commit(ctx))

	outputDir := filepath.Join(t.TempDir(), "open")
	require.NoError(t, os.Mkdir(outputDir, 0755))
	require.NoError(t, os.Chmod(outputDir, 0755))
	err := db.Backup(ctx, outputDir, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has permissions 755")

	require.NoError(t, db.Backup(ctx, outputDir, true))
	assert.FileExists(t, filepath.Join(outputDir, "prysm_beacondb_at_epoch_0000001.backup"))
}
