package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

var errUpdaterClosed = errors.New("updater was already committed or cancelled")

// txOp is a single write applied inside the commit transaction.
type txOp func(tx *bolt.Tx) error

type updater struct {
	store    *Store
	ops      []txOp
	evicted  [][32]byte
	closed   bool
	spanName string
}

func (u *updater) add(op txOp) {
	if u.closed {
		return
	}
	u.ops = append(u.ops, op)
}

func (u *updater) put(bucket, key []byte, v interface{}) {
	u.add(func(tx *bolt.Tx) error {
		enc, err := encode(v)
		if err != nil {
			return err
		}
		return tx.Bucket(bucket).Put(key, enc)
	})
}

// Commit writes every queued change in a single bolt transaction. Either all
// of them are persisted or none is.
func (u *updater) Commit(ctx context.Context) error {
	_, span := trace.StartSpan(ctx, u.spanName)
	defer span.End()
	if u.closed {
		return errUpdaterClosed
	}
	u.closed = true
	if err := ctx.Err(); err != nil {
		return err
	}
	ops := u.ops
	u.ops = nil
	if err := u.store.db.Update(func(tx *bolt.Tx) error {
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return errors.Wrap(err, "could not commit database update")
	}
	for _, root := range u.evicted {
		u.store.blockCache.Del(string(root[:]))
	}
	return nil
}

// Cancel discards the queued changes.
func (u *updater) Cancel() {
	u.closed = true
	u.ops = nil
	u.evicted = nil
}

type hotUpdater struct {
	updater
}

// HotUpdater returns a batch writer for the chain metadata and the hot blocks.
func (s *Store) HotUpdater() iface.HotUpdater {
	return &hotUpdater{updater{store: s, spanName: "BeaconDB.HotUpdater.Commit"}}
}

func (u *hotUpdater) SetGenesisTime(t uint64) {
	u.put(chainMetadataBucket, genesisTimeKey, t)
}

func (u *hotUpdater) SetAnchor(cp *blocks.Checkpoint) {
	u.put(chainMetadataBucket, anchorKey, cp)
}

func (u *hotUpdater) SetJustifiedCheckpoint(cp *blocks.Checkpoint) {
	u.put(chainMetadataBucket, justifiedCheckpointKey, cp)
}

func (u *hotUpdater) SetBestJustifiedCheckpoint(cp *blocks.Checkpoint) {
	u.put(chainMetadataBucket, bestJustifiedCheckpointKey, cp)
}

func (u *hotUpdater) SetFinalizedCheckpoint(cp *blocks.Checkpoint) {
	u.put(chainMetadataBucket, finalizedCheckpointKey, cp)
}

func (u *hotUpdater) AddHotBlock(b blocks.ROBlock) {
	root := b.Root()
	u.put(hotBlocksBucket, root[:], b.SignedBeaconBlock)
}

func (u *hotUpdater) DeleteHotBlock(root [32]byte) {
	u.add(func(tx *bolt.Tx) error {
		return tx.Bucket(hotBlocksBucket).Delete(root[:])
	})
	u.evicted = append(u.evicted, root)
}

type finalizedUpdater struct {
	updater
}

// FinalizedUpdater returns a batch writer for the finalized blocks.
func (s *Store) FinalizedUpdater() iface.FinalizedUpdater {
	return &finalizedUpdater{updater{store: s, spanName: "BeaconDB.FinalizedUpdater.Commit"}}
}

func (u *finalizedUpdater) AddFinalizedBlock(b blocks.ROBlock) {
	root := b.Root()
	slotKey := slotToKey(b.Slot())
	u.put(finalizedBlocksBucket, slotKey, b.SignedBeaconBlock)
	u.add(func(tx *bolt.Tx) error {
		return tx.Bucket(finalizedBlockRootsIndexBucket).Put(root[:], slotKey)
	})
}

func (u *finalizedUpdater) AddNonCanonicalBlock(b blocks.ROBlock) {
	root := b.Root()
	u.put(nonCanonicalBlocksBucket, root[:], b.SignedBeaconBlock)
	u.add(func(tx *bolt.Tx) error {
		key := append(slotToKey(b.Slot()), root[:]...)
		return tx.Bucket(nonCanonicalBlockSlotIndexBucket).Put(key, []byte{})
	})
}

func (u *finalizedUpdater) SetOptimisticTransitionBlockSlot(slot primitives.Slot) {
	u.add(func(tx *bolt.Tx) error {
		return tx.Bucket(chainMetadataBucket).Put(optimisticTransitionBlockSlotKey, slotToKey(slot))
	})
}
