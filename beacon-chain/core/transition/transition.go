// Package transition implements the checks applied when a block is imported on
// top of its parent, and describes the outcome of an import.
package transition

import (
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain/kzg"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"go.opencensus.io/trace"
)

var (
	// ErrSlotNotIncreasing is returned when a block is not strictly later than its parent.
	ErrSlotNotIncreasing = errors.New("block slot is not later than parent slot")
	// ErrParentRootMismatch is returned when the given parent is not the block parent.
	ErrParentRootMismatch = errors.New("block parent root does not match parent")
	// ErrProposerOutOfRange is returned when the proposer index is not a known validator.
	ErrProposerOutOfRange = errors.New("proposer index out of range")
	// ErrTooManyBlobs is returned when the block commits to more blobs than allowed.
	ErrTooManyBlobs = errors.New("too many blob kzg commitments")
	// ErrCommitmentMismatch is returned when the commitments disagree with the blob transactions.
	ErrCommitmentMismatch = errors.New("kzg commitments do not match blob transactions")
)

// StateTransition applies a block on top of its parent.
type StateTransition interface {
	ExecuteStateTransition(ctx context.Context, parent, block blocks.ROBlock) error
}

// StructuralTransition verifies the parts of the state transition that do not
// require a beacon state: slot progression, proposer bounds and blob commitments.
type StructuralTransition struct {
	ValidatorCount uint64
}

var _ StateTransition = (*StructuralTransition)(nil)

// ExecuteStateTransition checks that block can be applied on top of parent.
func (s *StructuralTransition) ExecuteStateTransition(ctx context.Context, parent, block blocks.ROBlock) error {
	ctx, span := trace.StartSpan(ctx, "core.state.ExecuteStateTransition")
	defer span.End()
	if err := ctx.Err(); err != nil {
		return err
	}

	if block.ParentRoot() != parent.Root() {
		return errors.Wrapf(ErrParentRootMismatch, "parent %#x, expected %#x", parent.Root(), block.ParentRoot())
	}
	if block.Slot() <= parent.Slot() {
		return errors.Wrapf(ErrSlotNotIncreasing, "block slot %d, parent slot %d", block.Slot(), parent.Slot())
	}
	if uint64(block.ProposerIndex()) >= s.ValidatorCount {
		return errors.Wrapf(ErrProposerOutOfRange, "index %d, validator count %d", block.ProposerIndex(), s.ValidatorCount)
	}
	body := block.Block.Body
	maxBlobs := params.BeaconConfig().MaxBlobsPerBlock
	if uint64(len(body.BlobKzgCommitments)) > maxBlobs {
		return errors.Wrapf(ErrTooManyBlobs, "%d commitments, max %d", len(body.BlobKzgCommitments), maxBlobs)
	}
	ok, err := kzg.VerifyKZGCommitmentsAgainstTransactions(body.Transactions, body.BlobKzgCommitments)
	if err != nil {
		return errors.Wrap(err, "could not verify kzg commitments against transactions")
	}
	if !ok {
		return ErrCommitmentMismatch
	}
	return nil
}
