package kv

import (
	"context"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// GenesisTime returns the genesis time in unix seconds, if it was saved.
func (s *Store) GenesisTime(ctx context.Context) (uint64, bool, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.GenesisTime")
	defer span.End()
	var t uint64
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(genesisTimeKey)
		if enc == nil {
			return nil
		}
		ok = true
		return decode(enc, &t)
	})
	return t, ok, err
}

// Anchor returns the checkpoint the node started syncing from.
func (s *Store) Anchor(ctx context.Context) (*blocks.Checkpoint, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.Anchor")
	defer span.End()
	return s.checkpoint(anchorKey)
}

// JustifiedCheckpoint returns the latest justified checkpoint in beacon chain.
func (s *Store) JustifiedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.JustifiedCheckpoint")
	defer span.End()
	return s.checkpoint(justifiedCheckpointKey)
}

// BestJustifiedCheckpoint returns the best justified checkpoint seen so far.
func (s *Store) BestJustifiedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.BestJustifiedCheckpoint")
	defer span.End()
	return s.checkpoint(bestJustifiedCheckpointKey)
}

// FinalizedCheckpoint returns the latest finalized checkpoint in beacon chain.
func (s *Store) FinalizedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.FinalizedCheckpoint")
	defer span.End()
	return s.checkpoint(finalizedCheckpointKey)
}

// OptimisticTransitionBlockSlot returns the slot of the optimistic transition block, if any.
func (s *Store) OptimisticTransitionBlockSlot(ctx context.Context) (primitives.Slot, bool, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.OptimisticTransitionBlockSlot")
	defer span.End()
	var slot primitives.Slot
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(optimisticTransitionBlockSlotKey)
		if enc == nil {
			return nil
		}
		ok = true
		slot = keyToSlot(enc)
		return nil
	})
	return slot, ok, err
}

func (s *Store) checkpoint(key []byte) (*blocks.Checkpoint, error) {
	var cp *blocks.Checkpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(chainMetadataBucket).Get(key)
		if enc == nil {
			return nil
		}
		cp = &blocks.Checkpoint{}
		return decode(enc, cp)
	})
	return cp, err
}
