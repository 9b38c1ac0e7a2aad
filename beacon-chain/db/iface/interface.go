// Package iface defines the actual database interface used
// by the beacon node, also containing useful, scoped interfaces such as
// a ReadOnlyDatabase.
package iface

import (
	"context"
	"io"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

// ReadOnlyDatabase defines a struct which only has read access to database methods.
// Reads of missing values return a nil value and a nil error, or ok=false for scalars.
type ReadOnlyDatabase interface {
	// Chain metadata.
	GenesisTime(ctx context.Context) (uint64, bool, error)
	Anchor(ctx context.Context) (*blocks.Checkpoint, error)
	JustifiedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error)
	BestJustifiedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error)
	FinalizedCheckpoint(ctx context.Context) (*blocks.Checkpoint, error)
	OptimisticTransitionBlockSlot(ctx context.Context) (primitives.Slot, bool, error)
	// Hot blocks, not yet finalized.
	HotBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error)
	HasHotBlock(ctx context.Context, root [32]byte) bool
	HotBlockRoots(ctx context.Context) ([][32]byte, error)
	// Finalized blocks, canonical and not.
	FinalizedBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error)
	FinalizedBlockAtSlot(ctx context.Context, slot primitives.Slot) (*blocks.SignedBeaconBlock, error)
	LatestFinalizedBlockAtSlot(ctx context.Context, slot primitives.Slot) (*blocks.SignedBeaconBlock, error)
	EarliestFinalizedBlockSlot(ctx context.Context) (primitives.Slot, bool, error)
	EarliestFinalizedBlock(ctx context.Context) (*blocks.SignedBeaconBlock, error)
	SlotForFinalizedBlockRoot(ctx context.Context, root [32]byte) (primitives.Slot, bool, error)
	NonCanonicalBlocksAtSlot(ctx context.Context, slot primitives.Slot) ([]*blocks.SignedBeaconBlock, error)
	NonCanonicalBlock(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error)
	// Block looks up a hot block first and falls back to the finalized blocks.
	Block(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error)
}

// HotUpdater batches writes to the chain metadata and the hot blocks. Nothing
// is written until Commit.
type HotUpdater interface {
	SetGenesisTime(t uint64)
	SetAnchor(cp *blocks.Checkpoint)
	SetJustifiedCheckpoint(cp *blocks.Checkpoint)
	SetBestJustifiedCheckpoint(cp *blocks.Checkpoint)
	SetFinalizedCheckpoint(cp *blocks.Checkpoint)
	AddHotBlock(b blocks.ROBlock)
	DeleteHotBlock(root [32]byte)
	Commit(ctx context.Context) error
	Cancel()
}

// FinalizedUpdater batches writes to the finalized blocks. Nothing is written
// until Commit.
type FinalizedUpdater interface {
	AddFinalizedBlock(b blocks.ROBlock)
	AddNonCanonicalBlock(b blocks.ROBlock)
	SetOptimisticTransitionBlockSlot(slot primitives.Slot)
	Commit(ctx context.Context) error
	Cancel()
}

// Database interface with full access.
type Database interface {
	io.Closer
	ReadOnlyDatabase

	HotUpdater() HotUpdater
	FinalizedUpdater() FinalizedUpdater
	DatabasePath() string
	ClearDB() error
	Backup(ctx context.Context, outputDir string, permissionOverride bool) error
}
