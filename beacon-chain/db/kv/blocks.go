package kv

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
	bolt "go.etcd.io/bbolt"
	"go.opencensus.io/trace"
)

// HotBlock retrieves a block that is not yet finalized by its root.
func (s *Store) HotBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.HotBlock")
	defer span.End()
	if v, ok := s.blockCache.Get(string(root[:])); v != nil && ok {
		return v.(*blocks.SignedBeaconBlock).Copy(), nil
	}
	var blk *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		blk, err = blockAt(tx.Bucket(hotBlocksBucket), root[:])
		return err
	})
	if err != nil || blk == nil {
		return nil, err
	}
	s.blockCache.Set(string(root[:]), blk.Copy(), int64(len(root)))
	return blk, nil
}

// HasHotBlock checks if a hot block by root exists in the db.
func (s *Store) HasHotBlock(ctx context.Context, root [32]byte) bool {
	_, span := trace.StartSpan(ctx, "BeaconDB.HasHotBlock")
	defer span.End()
	if v, ok := s.blockCache.Get(string(root[:])); v != nil && ok {
		return true
	}
	exists := false
	if err := s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(hotBlocksBucket).Get(root[:]) != nil
		return nil
	}); err != nil { // This view never returns an error, but we'll handle anyway for sanity.
		panic(err)
	}
	return exists
}

// HotBlockRoots returns the roots of every hot block.
func (s *Store) HotBlockRoots(ctx context.Context) ([][32]byte, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.HotBlockRoots")
	defer span.End()
	roots := make([][32]byte, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(hotBlocksBucket).ForEach(func(k, _ []byte) error {
			roots = append(roots, bytesutil.ToBytes32(k))
			return nil
		})
	})
	return roots, err
}

// FinalizedBlock retrieves a canonical finalized block by its root.
func (s *Store) FinalizedBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.FinalizedBlock")
	defer span.End()
	slot, ok, err := s.SlotForFinalizedBlockRoot(ctx, root)
	if err != nil || !ok {
		return nil, err
	}
	return s.FinalizedBlockAtSlot(ctx, slot)
}

// FinalizedBlockAtSlot retrieves the canonical finalized block at exactly the slot.
func (s *Store) FinalizedBlockAtSlot(ctx context.Context, slot primitives.Slot) (*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.FinalizedBlockAtSlot")
	defer span.End()
	var blk *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		blk, err = blockAt(tx.Bucket(finalizedBlocksBucket), slotToKey(slot))
		return err
	})
	return blk, err
}

// LatestFinalizedBlockAtSlot retrieves the latest canonical finalized block at or before the slot.
func (s *Store) LatestFinalizedBlockAtSlot(ctx context.Context, slot primitives.Slot) (*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.LatestFinalizedBlockAtSlot")
	defer span.End()
	var blk *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(finalizedBlocksBucket).Cursor()
		target := slotToKey(slot)
		k, v := c.Seek(target)
		switch {
		case k == nil:
			// Every stored slot is before the target.
			k, v = c.Last()
		case !bytes.Equal(k, target):
			k, v = c.Prev()
		}
		if k == nil {
			return nil
		}
		blk = &blocks.SignedBeaconBlock{}
		return decode(v, blk)
	})
	return blk, err
}

// EarliestFinalizedBlockSlot returns the slot of the earliest stored finalized block.
func (s *Store) EarliestFinalizedBlockSlot(ctx context.Context) (primitives.Slot, bool, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.EarliestFinalizedBlockSlot")
	defer span.End()
	var slot primitives.Slot
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		k, _ := tx.Bucket(finalizedBlocksBucket).Cursor().First()
		if k == nil {
			return nil
		}
		ok = true
		slot = keyToSlot(k)
		return nil
	})
	return slot, ok, err
}

// EarliestFinalizedBlock returns the earliest stored finalized block.
func (s *Store) EarliestFinalizedBlock(ctx context.Context) (*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.EarliestFinalizedBlock")
	defer span.End()
	var blk *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(finalizedBlocksBucket).Cursor().First()
		if k == nil {
			return nil
		}
		blk = &blocks.SignedBeaconBlock{}
		return decode(v, blk)
	})
	return blk, err
}

// SlotForFinalizedBlockRoot returns the slot of a canonical finalized block root.
func (s *Store) SlotForFinalizedBlockRoot(ctx context.Context, root [32]byte) (primitives.Slot, bool, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.SlotForFinalizedBlockRoot")
	defer span.End()
	var slot primitives.Slot
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		enc := tx.Bucket(finalizedBlockRootsIndexBucket).Get(root[:])
		if enc == nil {
			return nil
		}
		ok = true
		slot = keyToSlot(enc)
		return nil
	})
	return slot, ok, err
}

// NonCanonicalBlocksAtSlot returns the finalized-era blocks at the slot that are not part of the canonical chain.
func (s *Store) NonCanonicalBlocksAtSlot(ctx context.Context, slot primitives.Slot) ([]*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.NonCanonicalBlocksAtSlot")
	defer span.End()
	blks := make([]*blocks.SignedBeaconBlock, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		prefix := slotToKey(slot)
		c := tx.Bucket(nonCanonicalBlockSlotIndexBucket).Cursor()
		bkt := tx.Bucket(nonCanonicalBlocksBucket)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			blk, err := blockAt(bkt, k[len(prefix):])
			if err != nil {
				return err
			}
			if blk == nil {
				return errors.Errorf("non-canonical block %#x is indexed but missing", k[len(prefix):])
			}
			blks = append(blks, blk)
		}
		return nil
	})
	return blks, err
}

// NonCanonicalBlock retrieves a non-canonical block by its root.
func (s *Store) NonCanonicalBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error) {
	_, span := trace.StartSpan(ctx, "BeaconDB.NonCanonicalBlock")
	defer span.End()
	var blk *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		blk, err = blockAt(tx.Bucket(nonCanonicalBlocksBucket), root[:])
		return err
	})
	return blk, err
}

// Block retrieves a block by its root, looking at the hot blocks before the finalized ones.
func (s *Store) Block(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error) {
	ctx, span := trace.StartSpan(ctx, "BeaconDB.Block")
	defer span.End()
	blk, err := s.HotBlock(ctx, root)
	if err != nil || blk != nil {
		return blk, err
	}
	return s.FinalizedBlock(ctx, root)
}

func blockAt(bkt *bolt.Bucket, key []byte) (*blocks.SignedBeaconBlock, error) {
	enc := bkt.Get(key)
	if enc == nil {
		return nil, nil
	}
	blk := &blocks.SignedBeaconBlock{}
	if err := decode(enc, blk); err != nil {
		return nil, errors.Wrapf(err, "could not decode block %#x", key)
	}
	return blk, nil
}
