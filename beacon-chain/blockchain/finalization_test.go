package blockchain

import (
	"context"
	"testing"

	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/testing/util"
	"github.com/stretchr/testify/require"
)

// buildFork imports genesis <- a(1) <- b(2) <- c(3) and a fork genesis <- f(1).
func buildFork(t *testing.T, tc *testChain) (a, b, c, f blocks.ROBlock) {
	a = util.GenerateROBlock(t, 1, util.WithParent(tc.genesis.Root()), util.WithGraffiti("a"))
	b = util.GenerateROBlock(t, 2, util.WithParent(a.Root()))
	c = util.GenerateROBlock(t, 3, util.WithParent(b.Root()))
	f = util.GenerateROBlock(t, 1, util.WithParent(tc.genesis.Root()), util.WithGraffiti("f"))
	for _, blk := range []blocks.ROBlock{a, b, c, f} {
		require.True(t, importBlock(t, tc.s, blk, nil).IsSuccessful())
	}
	return
}

func TestFinalize_MovesBlocks(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	a, b, c, f := buildFork(t, tc)

	cp := &blocks.Checkpoint{Epoch: 1, Root: b.Root()}
	require.NoError(t, tc.s.Finalize(ctx, cp))
	require.Equal(t, cp, tc.s.FinalizedCheckpoint())

	stored, err := tc.db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	require.Equal(t, cp, stored)

	for _, blk := range []blocks.ROBlock{a, b} {
		require.False(t, tc.db.HasHotBlock(ctx, blk.Root()))
		slot, ok, err := tc.db.SlotForFinalizedBlockRoot(ctx, blk.Root())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, blk.Slot(), slot)
	}
	require.True(t, tc.db.HasHotBlock(ctx, c.Root()))

	require.False(t, tc.db.HasHotBlock(ctx, f.Root()))
	nonCanonical, err := tc.db.NonCanonicalBlocksAtSlot(ctx, 1)
	require.NoError(t, err)
	require.Len(t, nonCanonical, 1)
	root, err := nonCanonical[0].HashTreeRoot()
	require.NoError(t, err)
	require.Equal(t, f.Root(), root)

	// Finalizing the same checkpoint again is a no-op.
	require.NoError(t, tc.s.Finalize(ctx, cp))
}

func TestFinalize_RejectsConflictingImports(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	a, b, c, _ := buildFork(t, tc)
	require.NoError(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 1, Root: b.Root()}))

	conflicting := util.GenerateROBlock(t, 4, util.WithParent(a.Root()))
	res := importBlock(t, tc.s, conflicting, nil)
	require.Equal(t, transition.DoesNotDescendFromFinalized, res.FailureReason())

	onFinalized := util.GenerateROBlock(t, 4, util.WithParent(b.Root()), util.WithGraffiti("b child"))
	require.True(t, importBlock(t, tc.s, onFinalized, nil).IsSuccessful())
	onHot := util.GenerateROBlock(t, 4, util.WithParent(c.Root()))
	require.True(t, importBlock(t, tc.s, onHot, nil).IsSuccessful())

	// Blocks moved to the finalized store are still known.
	require.True(t, importBlock(t, tc.s, a, nil).IsKnownBlock())
}

func TestFinalize_Errors(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	_, b, _, f := buildFork(t, tc)

	require.ErrorIs(t, tc.s.Finalize(ctx, nil), errNilFinalizedCheckpoint)
	require.ErrorIs(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 1, Root: [32]byte{'x'}}), errUnknownFinalizedBlock)

	require.NoError(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 1, Root: b.Root()}))
	// f moved out of the hot store once b was finalized.
	require.ErrorIs(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 2, Root: f.Root()}), errUnknownFinalizedBlock)
	require.Equal(t, primitives.Epoch(1), tc.s.FinalizedCheckpoint().Epoch)
}

func TestFinalize_RejectsNonDescendant(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	_, b, _, f := buildFork(t, tc)
	require.NoError(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 1, Root: f.Root()}))
	// b is at a later slot than f, so it is still hot, but it no longer descends from f.
	require.ErrorIs(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 2, Root: b.Root()}), errFinalizedNotDescendant)
}

func TestReceiveBlock_AdvancesFinality(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	params.OverrideBeaconConfig(params.MinimalSpecConfig())
	slotsPerEpoch := params.BeaconConfig().SlotsPerEpoch

	fork := util.GenerateROBlock(t, 3, util.WithParent(tc.genesis.Root()), util.WithGraffiti("fork"))
	require.True(t, importBlock(t, tc.s, fork, nil).IsSuccessful())

	chain := make([]blocks.ROBlock, 0, 4*slotsPerEpoch)
	parent := tc.genesis.Root()
	for slot := primitives.Slot(1); slot <= 4*slotsPerEpoch; slot++ {
		b := util.GenerateROBlock(t, slot, util.WithParent(parent))
		require.True(t, importBlock(t, tc.s, b, nil).IsSuccessful())
		chain = append(chain, b)
		parent = b.Root()
	}

	// The head is in epoch 4, so epoch 2 is finalized on its start slot block.
	want := &blocks.Checkpoint{Epoch: 2, Root: chain[2*slotsPerEpoch-1].Root()}
	require.Equal(t, want, tc.s.FinalizedCheckpoint())
	stored, err := tc.db.FinalizedCheckpoint(ctx)
	require.NoError(t, err)
	require.Equal(t, want, stored)

	hot, err := tc.db.HotBlockRoots(ctx)
	require.NoError(t, err)
	require.Len(t, hot, int(2*slotsPerEpoch))
	for _, b := range chain[:2*slotsPerEpoch] {
		slot, ok, err := tc.db.SlotForFinalizedBlockRoot(ctx, b.Root())
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, b.Slot(), slot)
	}
	nonCanonical, err := tc.db.NonCanonicalBlocksAtSlot(ctx, 3)
	require.NoError(t, err)
	require.Len(t, nonCanonical, 1)
	require.False(t, tc.db.HasHotBlock(ctx, fork.Root()))

	// Children of the finalized chain keep importing.
	next := util.GenerateROBlock(t, 4*slotsPerEpoch+1, util.WithParent(parent))
	require.True(t, importBlock(t, tc.s, next, nil).IsSuccessful())
}

func TestFinalize_RejectsStaleCheckpoint(t *testing.T) {
	ctx := context.Background()
	tc := setupChain(t, nil)
	_, b, c, _ := buildFork(t, tc)
	require.NoError(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 2, Root: b.Root()}))
	require.ErrorIs(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 2, Root: c.Root()}), errStaleFinalizedCheckpoint)
	require.ErrorIs(t, tc.s.Finalize(ctx, &blocks.Checkpoint{Epoch: 1, Root: c.Root()}), errStaleFinalizedCheckpoint)
	require.Equal(t, b.Root(), tc.s.FinalizedCheckpoint().Root)
}
