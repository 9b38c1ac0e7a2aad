package sync

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
	"github.com/prysmaticlabs/prysm-broadcast/time/slots"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
)

// Validate runs the gossip checks of a beacon block. The returned future is
// already settled; it only fails when the block database cannot be read.
func (s *Service) Validate(ctx context.Context, blk blocks.ROBlock, locallyProduced bool) *async.Future[validation.GossipResult] {
	ctx, span := trace.StartSpan(ctx, "sync.Validate")
	defer span.End()

	s.validateBlockLock.Lock()
	defer s.validateBlockLock.Unlock()

	res, err := s.validateBlock(ctx, blk, locallyProduced)
	if err != nil {
		gossipBlockValidationCount.WithLabelValues("error").Inc()
		span.SetStatus(trace.Status{Code: trace.StatusCodeInternal, Message: err.Error()})
		return async.Failed[validation.GossipResult](err)
	}
	gossipBlockValidationCount.WithLabelValues(res.String()).Inc()
	span.AddAttributes(trace.StringAttribute("result", res.String()))
	return async.Completed(res)
}

func (s *Service) validateBlock(ctx context.Context, blk blocks.ROBlock, locallyProduced bool) (validation.GossipResult, error) {
	if blk.SignedBeaconBlock == nil || blocks.BeaconBlockIsNil(blk.SignedBeaconBlock) != nil {
		return validation.Reject, nil
	}
	root := blk.Root()
	fields := logrus.Fields{
		"slot":          blk.Slot(),
		"proposerIndex": blk.ProposerIndex(),
		"blockRoot":     bytesutil.Trunc(root[:]),
	}
	if s.seenBlockRoots.Contains(root) {
		return validation.Ignore, nil
	}

	genesis := uint64(s.cfg.Chain.GenesisTime().Unix())
	if err := slots.VerifyTime(genesis, blk.Slot(), params.BeaconConfig().MaximumGossipClockDisparityDuration()); err != nil {
		log.WithFields(fields).WithError(err).Debug("Deferring block from a future slot")
		return validation.SaveForFuture, nil
	}
	if blk.Slot() <= s.finalizedSlot() {
		log.WithFields(fields).Debug("Ignoring block at or before the finalized slot")
		return validation.Ignore, nil
	}
	// Proposals before the horizon are forgotten, so equivocations there cannot be detected.
	if blk.Slot() < s.proposalsHorizon() {
		log.WithFields(fields).Debug("Ignoring block older than the remembered proposals")
		return validation.Ignore, nil
	}
	if !locallyProduced && s.proposals.conflicts(blk.Slot(), blk.ProposerIndex(), root) {
		log.WithFields(fields).Debug("Ignoring block from a proposer that already proposed for this slot")
		return validation.Ignore, nil
	}

	parent, err := s.cfg.BlockDB.Block(ctx, blk.ParentRoot())
	if err != nil {
		return validation.Ignore, errors.Wrap(err, "could not look up parent block")
	}
	if parent == nil || parent.Block == nil {
		log.WithFields(fields).Debug("Deferring block with an unknown parent")
		return validation.SaveForFuture, nil
	}
	if parent.Block.Slot >= blk.Slot() {
		log.WithFields(fields).WithField("parentSlot", parent.Block.Slot).Debug("Rejecting block not newer than its parent")
		return validation.Reject, nil
	}

	if err := s.cfg.Signature.VerifyBlockSignature(blk); err != nil {
		log.WithFields(fields).WithError(err).Debug("Rejecting block with an invalid signature")
		return validation.Reject, nil
	}

	s.seenBlockRoots.Add(root, true)
	s.proposals.record(blk.Slot(), blk.ProposerIndex(), root)
	return validation.Accept, nil
}

// BlockIsFirstBlockWithValidSignatureForSlot reports whether the block is the
// first one with a valid signature seen for its slot and proposer.
func (s *Service) BlockIsFirstBlockWithValidSignatureForSlot(blk blocks.ROBlock) bool {
	if blk.SignedBeaconBlock == nil || blk.Block == nil {
		return false
	}
	return !s.proposals.conflicts(blk.Slot(), blk.ProposerIndex(), blk.Root())
}

// ValidateBeaconBlockPubSub is the topic validator for gossiped beacon blocks.
// Decoded blocks are handed to the subscriber through the message validator data.
func (s *Service) ValidateBeaconBlockPubSub(ctx context.Context, pid peer.ID, msg *pubsub.Message) pubsub.ValidationResult {
	// Our own publications were validated before they were broadcast.
	if s.cfg.P2P != nil && pid == s.cfg.P2P.PeerID() {
		return pubsub.ValidationAccept
	}
	if msg == nil || msg.Message == nil || msg.Topic == nil {
		return pubsub.ValidationReject
	}
	ctx, span := trace.StartSpan(ctx, "sync.ValidateBeaconBlockPubSub")
	defer span.End()

	signed := &blocks.SignedBeaconBlock{}
	if err := s.cfg.P2P.Encoding().DecodeGossip(msg.Data, signed); err != nil {
		messageFailedDecodeCounter.Inc()
		log.WithError(err).WithField("peer", pid.String()).Debug("Could not decode gossip block")
		return pubsub.ValidationReject
	}
	blk, err := blocks.NewROBlock(signed)
	if err != nil {
		return pubsub.ValidationReject
	}
	res, err := s.Validate(ctx, blk, false).Get(ctx)
	if err != nil {
		log.WithError(err).Error("Could not validate gossip block")
		return pubsub.ValidationIgnore
	}
	if res.IsAccept() {
		msg.ValidatorData = blk
	}
	return res.ToPubsub()
}

func (s *Service) finalizedSlot() primitives.Slot {
	cp := s.cfg.Chain.FinalizedCheckpoint()
	if cp == nil {
		return 0
	}
	return slots.EpochStart(cp.Epoch)
}
