package kv

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

const (
	backupsDirectoryName = "backups"
	backupsDirPermission = 0700
)

var errNoFinalizedCheckpoint = errors.New("no finalized checkpoint")

// Backup the database to the datadir backup directory, or to outputDir when set.
// Example for a backup at finalized epoch 345: $DATADIR/backups/prysm_beacondb_at_epoch_0000345.backup
// An existing backups directory with permissions other than 0700 is refused unless
// permissionOverride is set.
func (s *Store) Backup(ctx context.Context, outputDir string, permissionOverride bool) error {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Backup")
	defer span.End()

	backupsDir := path.Join(s.databasePath, backupsDirectoryName)
	if outputDir != "" {
		backupsDir = outputDir
	}
	cp, err := s.FinalizedCheckpoint(ctx)
	if err != nil {
		return err
	}
	if cp == nil {
		return errNoFinalizedCheckpoint
	}
	info, err := os.Stat(backupsDir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(backupsDir, backupsDirPermission); err != nil {
			return errors.Wrap(err, "could not create backups directory")
		}
	case err != nil:
		return err
	case info.Mode().Perm() != backupsDirPermission && !permissionOverride:
		return errors.Errorf("backups directory %s has permissions %o, expected %o", backupsDir, info.Mode().Perm(), backupsDirPermission)
	}
	backupPath := path.Join(backupsDir, fmt.Sprintf("prysm_beacondb_at_epoch_%07d.backup", cp.Epoch))
	return s.db.View(func(tx *bolt.Tx) error {
		logrus.WithField("prefix", "db").WithFields(logrus.Fields{
			"backup": backupPath,
			"size":   humanize.Bytes(uint64(tx.Size())),
		}).Info("Writing backup database")
		return tx.CopyFile(backupPath, 0600)
	})
}
