package blockchain

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain/kzg"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"go.opencensus.io/trace"
)

// ConsensusValidationListener is notified once a block passed every consensus
// check of the import and before it is persisted.
type ConsensusValidationListener interface {
	OnConsensusValidationSucceeded()
}

// BlockReceiver interface defines the methods of chain service for receiving and processing new blocks.
type BlockReceiver interface {
	ReceiveBlock(ctx context.Context, block blocks.ROBlock, listener ConsensusValidationListener) *async.Future[*transition.BlockImportResult]
	ReceiveBlobsSidecar(sidecar *blocks.BlobsSidecar)
}

var _ BlockReceiver = (*Service)(nil)

// ReceiveBlock queues the block for import and returns a future of the outcome.
// The operations consist of:
//  1. Reporting blocks that are already stored as known
//  2. Looking up the parent, hot first then finalized
//  3. Checking the block descends from the finalized checkpoint
//  4. Applying the state transition and checking data availability
//  5. Notifying the listener and persisting the block as a hot block
//  6. Finalizing the epoch FinalityDepth epochs behind the block
//
// Rejected imports complete the future with a failed result. The future fails
// when the context is cancelled, the service stopped, or the database errored.
func (s *Service) ReceiveBlock(ctx context.Context, block blocks.ROBlock, listener ConsensusValidationListener) *async.Future[*transition.BlockImportResult] {
	f := async.NewFuture[*transition.BlockImportResult]()
	receivedTime := time.Now()
	if !s.submit(func() {
		res, err := s.importBlock(ctx, block, listener)
		blockImportLatency.Observe(float64(time.Since(receivedTime).Milliseconds()))
		if err != nil {
			blockImportCount.WithLabelValues("error").Inc()
			log.WithError(err).WithField("slot", block.Slot()).Debug("Could not import block")
			f.Fail(err)
			return
		}
		blockImportCount.WithLabelValues(res.String()).Inc()
		if res.IsSuccessful() && !res.IsKnownBlock() {
			if err := s.advanceFinality(s.ctx, block); err != nil {
				log.WithError(err).WithField("slot", block.Slot()).Error("Could not advance finality")
			}
			fin := s.FinalizedCheckpoint()
			logBlockSyncStatus(block, fin, receivedTime)
		}
		f.Complete(res)
	}) {
		f.Fail(ErrServiceStopped)
	}
	return f
}

// ReceiveBlobsSidecar keeps the sidecar until the block it belongs to is imported.
func (s *Service) ReceiveBlobsSidecar(sidecar *blocks.BlobsSidecar) {
	if sidecar == nil {
		return
	}
	s.sidecars.Add(sidecar.BeaconBlockRoot, sidecar)
}

func (s *Service) blobsSidecar(root [32]byte) *blocks.BlobsSidecar {
	v, ok := s.sidecars.Get(root)
	if !ok {
		return nil
	}
	sc, ok := v.(*blocks.BlobsSidecar)
	if !ok {
		return nil
	}
	return sc
}

func (s *Service) importBlock(ctx context.Context, block blocks.ROBlock, listener ConsensusValidationListener) (*transition.BlockImportResult, error) {
	ctx, span := trace.StartSpan(ctx, "blockChain.ReceiveBlock")
	defer span.End()
	span.AddAttributes(trace.Int64Attribute("slot", int64(block.Slot()))) // lint:ignore uintcast -- This conversion is OK for tracing.

	if block.SignedBeaconBlock == nil || blocks.BeaconBlockIsNil(block.SignedBeaconBlock) != nil {
		return nil, blocks.ErrNilSignedBeaconBlock
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.finalizationLock.RLock()
	defer s.finalizationLock.RUnlock()

	db := s.cfg.BeaconDB
	root := block.Root()
	if db.HasHotBlock(ctx, root) {
		return transition.KnownBlock(), nil
	}
	if _, ok, err := db.SlotForFinalizedBlockRoot(ctx, root); err != nil {
		return nil, errors.Wrap(err, "could not look up finalized block")
	} else if ok {
		return transition.KnownBlock(), nil
	}

	parentSigned, err := db.Block(ctx, block.ParentRoot())
	if err != nil {
		return nil, errors.Wrap(err, "could not look up parent block")
	}
	if parentSigned == nil {
		return transition.FailedUnknownParent(), nil
	}
	parent, err := blocks.NewROBlockWithRoot(parentSigned, block.ParentRoot())
	if err != nil {
		return nil, err
	}

	descends, err := s.descendsFromFinalized(ctx, parent)
	if err != nil {
		return nil, err
	}
	if !descends {
		return transition.FailedDescendant(), nil
	}

	if err := s.cfg.StateTransition.ExecuteStateTransition(ctx, parent, block); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return transition.FailedStateTransitionResult(err), nil
	}

	if commitments := block.Block.Body.BlobKzgCommitments; len(commitments) > 0 {
		if err := kzg.IsDataAvailable(block.Slot(), root, commitments, s.blobsSidecar(root), s.cfg.ProofVerifier); err != nil {
			return transition.FailedDataAvailability(err), nil
		}
	}

	if listener != nil {
		listener.OnConsensusValidationSucceeded()
	}

	u := db.HotUpdater()
	u.AddHotBlock(block)
	if err := u.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "could not save block")
	}
	s.sidecars.Remove(root)
	return transition.Successful(), nil
}

// descendsFromFinalized walks the hot ancestors of the parent until it reaches
// the finalized checkpoint block.
func (s *Service) descendsFromFinalized(ctx context.Context, parent blocks.ROBlock) (bool, error) {
	finalized, finalizedSlot := s.finalizedInfo()
	root, slot, parentRoot := parent.Root(), parent.Slot(), parent.ParentRoot()
	for {
		if root == finalized.Root {
			return true, nil
		}
		if slot <= finalizedSlot {
			return false, nil
		}
		blk, err := s.cfg.BeaconDB.HotBlock(ctx, parentRoot)
		if err != nil {
			return false, errors.Wrap(err, "could not look up ancestor block")
		}
		if blk == nil {
			// The ancestry leaves the hot store without meeting the finalized block.
			return parentRoot == finalized.Root, nil
		}
		root, slot, parentRoot = parentRoot, blk.Block.Slot, blk.Block.ParentRoot
	}
}
