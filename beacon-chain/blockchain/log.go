package blockchain

import (
	"encoding/hex"
	"time"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "blockchain")

// logBlockSyncStatus logs the imported block along with the finalized checkpoint.
func logBlockSyncStatus(b blocks.ROBlock, finalized *blocks.Checkpoint, receivedTime time.Time) {
	root := b.Root()
	parent := b.ParentRoot()
	fields := logrus.Fields{
		"slot":                      b.Slot(),
		"proposerIndex":             b.ProposerIndex(),
		"blockRoot":                 hex.EncodeToString(bytesutil.Trunc(root[:])),
		"parentRoot":                hex.EncodeToString(bytesutil.Trunc(parent[:])),
		"blobKzgCommitments":        len(b.Block.Body.BlobKzgCommitments),
		"sinceReceivedMilliseconds": time.Since(receivedTime).Milliseconds(),
	}
	if finalized != nil {
		fields["finalizedEpoch"] = finalized.Epoch
		fields["finalizedRoot"] = hex.EncodeToString(bytesutil.Trunc(finalized.Root[:]))
	}
	log.WithFields(fields).Info("Synced new block")
}
