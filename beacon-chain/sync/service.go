// Package sync validates beacon blocks received over gossip and hands the
// accepted ones to the import pipeline.
package sync

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/validation"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
	"github.com/prysmaticlabs/prysm-broadcast/time/slots"
)

// seenProposalsWindow is the number of epochs behind the current slot for which
// proposals are remembered, even when finality does not advance.
const seenProposalsWindow = primitives.Epoch(2)

var _ runtime.Service = (*Service)(nil)
var _ validation.BlockGossipValidator = (*Service)(nil)

// ChainInfoFetcher provides the chain information gossip validation depends on.
type ChainInfoFetcher interface {
	GenesisTime() time.Time
	FinalizedCheckpoint() *blocks.Checkpoint
}

// BlockFetcher looks up stored blocks, hot or finalized.
type BlockFetcher interface {
	Block(ctx context.Context, root [32]byte) (*blocks.SignedBeaconBlock, error)
}

// BlockReceiver imports blocks accepted from gossip.
type BlockReceiver interface {
	ReceiveBlock(ctx context.Context, b blocks.ROBlock, listener blockchain.ConsensusValidationListener) *async.Future[*transition.BlockImportResult]
}

// Config to set up the block gossip service.
type Config struct {
	Chain     ChainInfoFetcher
	BlockDB   BlockFetcher
	Receiver  BlockReceiver
	P2P       p2p.P2P
	Signature SignatureVerifier
	// ForkDigest selects the block gossip topic.
	ForkDigest [4]byte
}

// Service validates beacon blocks for gossip and keeps track of the blocks seen
// per slot and proposer to detect equivocations.
type Service struct {
	cfg               *Config
	ctx               context.Context
	cancel            context.CancelFunc
	seenBlockRoots    *lru.Cache
	proposals         *seenProposals
	validateBlockLock sync.Mutex
	started           bool
}

// NewService initializes a new block gossip service.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg.Chain == nil || cfg.BlockDB == nil {
		return nil, errors.New("chain info fetcher and block db are required")
	}
	if cfg.Signature == nil {
		cfg.Signature = NonZeroSignatureVerifier{}
	}
	seen, err := lru.New(params.BeaconConfig().SeenBlockRootCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create seen block roots cache")
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		cfg:            cfg,
		ctx:            ctx,
		cancel:         cancel,
		seenBlockRoots: seen,
		proposals:      newSeenProposals(),
	}, nil
}

// Start prunes the seen proposals every slot and, when networking is
// configured, registers the block topic validator and subscriber.
func (s *Service) Start() {
	s.started = true
	async.RunEvery(s.ctx, params.BeaconConfig().SlotDuration(), s.pruneSeenProposals)
	if s.cfg.P2P == nil {
		return
	}
	if err := s.subscribeBlocks(); err != nil {
		log.WithError(err).Error("Could not subscribe to block gossip")
	}
}

// Stop the gossip service.
func (s *Service) Stop() error {
	s.cancel()
	s.started = false
	return nil
}

// Status of the gossip service.
func (s *Service) Status() error {
	if !s.started {
		return errors.New("not running")
	}
	return nil
}

func (s *Service) pruneSeenProposals() {
	horizon := s.proposalsHorizon()
	if n := s.proposals.prune(horizon); n > 0 {
		log.WithField("horizon", horizon).WithField("pruned", n).Debug("Pruned seen block proposals")
	}
}

// proposalsHorizon is the oldest slot whose proposals are remembered: the later
// of the finalized slot and the start of the window behind the current slot.
func (s *Service) proposalsHorizon() primitives.Slot {
	horizon := s.finalizedSlot()
	current := slots.SinceGenesis(s.cfg.Chain.GenesisTime())
	if windowStart := current.SubSlot(slots.EpochStart(seenProposalsWindow)); windowStart > horizon {
		horizon = windowStart
	}
	return horizon
}
