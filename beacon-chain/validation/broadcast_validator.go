// Package validation decides whether a block proposed through the beacon API has
// passed the requested level of checking before it is broadcast to the network.
package validation

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/sirupsen/logrus"
)

// ErrNilGossipResult is the failure recorded when the gossip validator returns no result.
var ErrNilGossipResult = errors.New("gossip validator returned no result")

// BlockBroadcastValidator combines gossip validation and block import into a single
// broadcast decision for one block. The decision is taken at most once; signals
// arriving after it are ignored.
type BlockBroadcastValidator struct {
	ctx                context.Context
	block              blocks.ROBlock
	gossip             BlockGossipValidator
	level              BroadcastValidationLevel
	gossipResult       *async.Future[GossipResult]
	consensusValidated *async.Future[bool]
	result             *async.Future[BroadcastValidationResult]
}

// NewBlockBroadcastValidator creates the validator and, unless level is NotRequired,
// starts gossip validation of the block right away.
func NewBlockBroadcastValidator(
	ctx context.Context,
	block blocks.ROBlock,
	gossip BlockGossipValidator,
	level BroadcastValidationLevel,
	locallyProduced bool,
) *BlockBroadcastValidator {
	v := &BlockBroadcastValidator{
		ctx:                ctx,
		block:              block,
		gossip:             gossip,
		level:              level,
		consensusValidated: async.NewFuture[bool](),
		result:             async.NewFuture[BroadcastValidationResult](),
	}
	v.start(locallyProduced)
	return v
}

// Level --
func (v *BlockBroadcastValidator) Level() BroadcastValidationLevel {
	return v.level
}

// Result returns the broadcast decision. The future fails, rather than holding a
// result, when block import faults before any decision was taken.
func (v *BlockBroadcastValidator) Result() *async.Future[BroadcastValidationResult] {
	return v.result
}

// GossipValidated returns the gossip verdict of the block, or nil when the level
// skips gossip validation.
func (v *BlockBroadcastValidator) GossipValidated() *async.Future[GossipResult] {
	return v.gossipResult
}

// OnConsensusValidationSucceeded signals that the state transition of the block
// passed, possibly before the import itself has completed.
func (v *BlockBroadcastValidator) OnConsensusValidationSucceeded() {
	v.consensusValidated.Complete(true)
}

// AttachToBlockImport observes the outcome of importing the block. It may be
// called before or after gossip validation completes.
func (v *BlockBroadcastValidator) AttachToBlockImport(importResult *async.Future[*transition.BlockImportResult]) {
	importResult.OnComplete(func(res *transition.BlockImportResult, err error) {
		switch {
		case err != nil:
			v.consensusValidated.Fail(err)
		case !res.IsSuccessful():
			v.consensusValidated.Complete(false)
		default:
			v.consensusValidated.Complete(true)
		}
	})
}

func (v *BlockBroadcastValidator) start(locallyProduced bool) {
	if v.level == NotRequired {
		v.commit(Success)
		return
	}
	gossipResult := v.gossip.Validate(v.ctx, v.block, locallyProduced)
	if gossipResult == nil {
		v.fail(ErrNilGossipResult)
		return
	}
	v.gossipResult = gossipResult
	gossipResult.OnComplete(v.onGossipValidated)
}

func (v *BlockBroadcastValidator) onGossipValidated(r GossipResult, err error) {
	if err != nil {
		v.fail(errors.Wrap(err, "gossip validation failed"))
		return
	}
	if !r.IsAccept() {
		v.commit(GossipFailure)
		return
	}
	if v.level == Gossip {
		v.commit(Success)
		return
	}
	v.consensusValidated.OnComplete(v.onConsensusValidated)
}

func (v *BlockBroadcastValidator) onConsensusValidated(valid bool, err error) {
	if err != nil {
		v.fail(err)
		return
	}
	if !valid {
		v.commit(ConsensusFailure)
		return
	}
	if v.level == Consensus {
		v.commit(Success)
		return
	}
	// The equivocation check runs last so that any block seen while the state
	// transition was running is taken into account.
	if v.gossip.BlockIsFirstBlockWithValidSignatureForSlot(v.block) {
		v.commit(Success)
	} else {
		v.commit(FinalEquivocationFailure)
	}
}

func (v *BlockBroadcastValidator) commit(r BroadcastValidationResult) {
	if !v.result.Complete(r) {
		return
	}
	broadcastValidationResultCount.WithLabelValues(v.level.String(), r.String()).Inc()
	v.logger().WithField("result", r.String()).Debug("Broadcast validation decided")
}

func (v *BlockBroadcastValidator) fail(err error) {
	if !v.result.Fail(err) {
		return
	}
	broadcastValidationResultCount.WithLabelValues(v.level.String(), "error").Inc()
	v.logger().WithError(err).Debug("Broadcast validation failed")
}

func (v *BlockBroadcastValidator) logger() *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"slot":      v.block.Slot(),
		"blockRoot": fmt.Sprintf("%#x", v.block.Root()),
		"level":     v.level.String(),
	})
}
