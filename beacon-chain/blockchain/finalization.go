package blockchain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/time/slots"
	"go.opencensus.io/trace"
)

// defaultFinalityDepth is how many epochs the head runs ahead of the epoch it finalizes.
const defaultFinalityDepth = primitives.Epoch(2)

// Finalize records cp as the new finalized checkpoint. The canonical chain up to
// the checkpoint block moves to the finalized store, and the hot blocks at or
// before the checkpoint slot that are not part of it move to the non-canonical
// blocks.
func (s *Service) Finalize(ctx context.Context, cp *blocks.Checkpoint) error {
	ctx, span := trace.StartSpan(ctx, "blockChain.Finalize")
	defer span.End()
	if cp == nil {
		return errNilFinalizedCheckpoint
	}

	s.finalizationLock.Lock()
	defer s.finalizationLock.Unlock()

	previous, _ := s.finalizedInfo()
	if previous.Root == cp.Root {
		return nil
	}
	if cp.Epoch <= previous.Epoch {
		return errors.Wrapf(errStaleFinalizedCheckpoint, "epoch %d, finalized epoch %d", cp.Epoch, previous.Epoch)
	}
	db := s.cfg.BeaconDB
	signed, err := db.HotBlock(ctx, cp.Root)
	if err != nil {
		return errors.Wrap(err, "could not look up finalized block")
	}
	if signed == nil {
		return errors.Wrapf(errUnknownFinalizedBlock, "root %#x", cp.Root)
	}
	head, err := blocks.NewROBlockWithRoot(signed, cp.Root)
	if err != nil {
		return err
	}

	canonical := []blocks.ROBlock{head}
	isCanonical := map[[32]byte]bool{head.Root(): true}
	for parentRoot := head.ParentRoot(); parentRoot != previous.Root; {
		parent, err := db.HotBlock(ctx, parentRoot)
		if err != nil {
			return errors.Wrap(err, "could not look up ancestor block")
		}
		if parent == nil {
			return errors.Wrapf(errFinalizedNotDescendant, "root %#x", cp.Root)
		}
		ro, err := blocks.NewROBlockWithRoot(parent, parentRoot)
		if err != nil {
			return err
		}
		canonical = append(canonical, ro)
		isCanonical[parentRoot] = true
		parentRoot = ro.ParentRoot()
	}

	hotRoots, err := db.HotBlockRoots(ctx)
	if err != nil {
		return errors.Wrap(err, "could not list hot blocks")
	}
	var nonCanonical []blocks.ROBlock
	for _, root := range hotRoots {
		if isCanonical[root] {
			continue
		}
		b, err := db.HotBlock(ctx, root)
		if err != nil {
			return errors.Wrap(err, "could not look up hot block")
		}
		if b == nil || b.Block.Slot > head.Slot() {
			continue
		}
		ro, err := blocks.NewROBlockWithRoot(b, root)
		if err != nil {
			return err
		}
		nonCanonical = append(nonCanonical, ro)
	}

	fu := db.FinalizedUpdater()
	for _, b := range canonical {
		fu.AddFinalizedBlock(b)
	}
	for _, b := range nonCanonical {
		fu.AddNonCanonicalBlock(b)
	}
	if err := fu.Commit(ctx); err != nil {
		return errors.Wrap(err, "could not save finalized blocks")
	}

	hu := db.HotUpdater()
	for _, b := range canonical {
		hu.DeleteHotBlock(b.Root())
	}
	for _, b := range nonCanonical {
		hu.DeleteHotBlock(b.Root())
	}
	hu.SetFinalizedCheckpoint(cp)
	if err := hu.Commit(ctx); err != nil {
		return errors.Wrap(err, "could not prune hot blocks")
	}

	s.chainInfoLock.Lock()
	s.finalizedCheckpt = &blocks.Checkpoint{Epoch: cp.Epoch, Root: cp.Root}
	s.finalizedBlockSlot = head.Slot()
	s.chainInfoLock.Unlock()
	finalizedEpoch.Set(float64(cp.Epoch))

	log.WithField("epoch", cp.Epoch).WithField("finalizedBlocks", len(canonical)).
		WithField("nonCanonicalBlocks", len(nonCanonical)).Info("Finalized new checkpoint")
	return nil
}

// advanceFinality finalizes the epoch FinalityDepth epochs before the imported
// block. The checkpoint root is the latest ancestor of the block at or before
// the start slot of that epoch.
func (s *Service) advanceFinality(ctx context.Context, block blocks.ROBlock) error {
	epoch := slots.ToEpoch(block.Slot())
	if epoch < s.cfg.FinalityDepth {
		return nil
	}
	target := epoch - s.cfg.FinalityDepth
	if target <= s.FinalizedCheckpoint().Epoch {
		return nil
	}
	root, ok, err := s.ancestorAtSlot(ctx, block, slots.EpochStart(target))
	if err != nil || !ok {
		return err
	}
	err = s.Finalize(ctx, &blocks.Checkpoint{Epoch: target, Root: root})
	if errors.Is(err, errStaleFinalizedCheckpoint) {
		// Another import finalized a later epoch first.
		return nil
	}
	return err
}

// ancestorAtSlot walks the hot ancestors of the block to the latest one at or
// before slot. It reports false when the walk leaves the hot store first.
func (s *Service) ancestorAtSlot(ctx context.Context, block blocks.ROBlock, slot primitives.Slot) ([32]byte, bool, error) {
	root := block.ParentRoot()
	for {
		blk, err := s.cfg.BeaconDB.HotBlock(ctx, root)
		if err != nil {
			return [32]byte{}, false, errors.Wrap(err, "could not look up ancestor block")
		}
		if blk == nil || blk.Block == nil {
			return [32]byte{}, false, nil
		}
		if blk.Block.Slot <= slot {
			return root, true, nil
		}
		root = blk.Block.ParentRoot
	}
}
