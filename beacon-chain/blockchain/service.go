// Package blockchain defines the life-cycle of the blockchain at the core of
// the beacon node: blocks accepted over gossip or published locally are
// checked against their parent and persisted by an asynchronous import pipeline.
package blockchain

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain/kzg"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/db/iface"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	prysmruntime "github.com/prysmaticlabs/prysm-broadcast/runtime"
)

var _ prysmruntime.Service = (*Service)(nil)

const (
	// blobsSidecarCacheSize bounds the sidecars kept while their blocks are pending import.
	blobsSidecarCacheSize = 256
	// defaultValidatorCount is the mainnet minimum genesis active validator count.
	defaultValidatorCount = 16384
)

// Config options for the service.
type Config struct {
	BeaconDB        iface.Database
	StateTransition transition.StateTransition
	ProofVerifier   kzg.ProofVerifier
	// ValidatorCount bounds proposer indices when no StateTransition is given.
	ValidatorCount uint64
	// ImportWorkers defaults to the number of CPUs.
	ImportWorkers int
	// GenesisTime is only used to initialize an empty database.
	GenesisTime time.Time
	// FinalityDepth is the number of epochs an imported block must be ahead of
	// an epoch to finalize it. Defaults to 2.
	FinalityDepth primitives.Epoch
}

// Service represents a service that handles the internal
// logic of managing the full PoS beacon chain.
type Service struct {
	cfg      *Config
	ctx      context.Context
	cancel   context.CancelFunc
	pool     *workerpool.WorkerPool
	sidecars *lru.Cache

	// stopLock guards stopped against concurrent submissions.
	stopLock sync.RWMutex
	stopped  bool

	// finalizationLock is held for writing while blocks move to the finalized store.
	finalizationLock sync.RWMutex

	chainInfoLock      sync.RWMutex
	genesisTime        time.Time
	finalizedCheckpt   *blocks.Checkpoint
	finalizedBlockSlot primitives.Slot
}

// NewService instantiates a new block service instance that will
// be registered into a running beacon node. An empty database is initialized
// with a genesis block anchored at the configured genesis time.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	if cfg.BeaconDB == nil {
		return nil, errors.New("beacon db is required")
	}
	if cfg.ValidatorCount == 0 {
		cfg.ValidatorCount = defaultValidatorCount
	}
	if cfg.StateTransition == nil {
		cfg.StateTransition = &transition.StructuralTransition{ValidatorCount: cfg.ValidatorCount}
	}
	if cfg.ProofVerifier == nil {
		cfg.ProofVerifier = kzg.NoopProofVerifier{}
	}
	if cfg.FinalityDepth == 0 {
		cfg.FinalityDepth = defaultFinalityDepth
	}
	if cfg.ImportWorkers <= 0 {
		cfg.ImportWorkers = runtime.NumCPU()
	}
	sidecars, err := lru.New(blobsSidecarCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create blobs sidecar cache")
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		sidecars: sidecars,
	}
	if err := s.initializeChainInfo(ctx); err != nil {
		cancel()
		return nil, errors.Wrap(err, "could not initialize chain info")
	}
	s.pool = workerpool.New(cfg.ImportWorkers)
	return s, nil
}

// Start the blockchain service.
func (s *Service) Start() {
	fin := s.FinalizedCheckpoint()
	log.WithField("genesisTime", s.GenesisTime()).WithField("finalizedEpoch", fin.Epoch).
		WithField("importWorkers", s.cfg.ImportWorkers).Info("Blockchain service started")
}

// Stop the blockchain service. Queued imports are drained before returning.
func (s *Service) Stop() error {
	s.stopLock.Lock()
	if s.stopped {
		s.stopLock.Unlock()
		return nil
	}
	s.stopped = true
	s.stopLock.Unlock()
	s.cancel()
	s.pool.StopWait()
	return nil
}

// Status always returns nil unless the service was stopped.
func (s *Service) Status() error {
	s.stopLock.RLock()
	defer s.stopLock.RUnlock()
	if s.stopped {
		return ErrServiceStopped
	}
	return nil
}

// submit runs task on the import pool. It reports false once the service stopped.
func (s *Service) submit(task func()) bool {
	s.stopLock.RLock()
	defer s.stopLock.RUnlock()
	if s.stopped {
		return false
	}
	s.pool.Submit(task)
	return true
}

func (s *Service) initializeChainInfo(ctx context.Context) error {
	db := s.cfg.BeaconDB
	anchor, err := db.Anchor(ctx)
	if err != nil {
		return errors.Wrap(err, "could not read anchor")
	}
	if anchor == nil {
		if err := s.saveGenesisData(ctx); err != nil {
			return err
		}
	}
	genesis, ok, err := db.GenesisTime(ctx)
	if err != nil {
		return errors.Wrap(err, "could not read genesis time")
	}
	if !ok {
		return errNilGenesisTime
	}
	finalized, err := db.FinalizedCheckpoint(ctx)
	if err != nil {
		return errors.Wrap(err, "could not read finalized checkpoint")
	}
	if finalized == nil {
		return errNilFinalizedCheckpoint
	}
	slot, ok, err := db.SlotForFinalizedBlockRoot(ctx, finalized.Root)
	if err != nil {
		return errors.Wrap(err, "could not read finalized block slot")
	}
	if !ok {
		return errors.Errorf("finalized block %#x is missing from the database", finalized.Root)
	}

	s.chainInfoLock.Lock()
	defer s.chainInfoLock.Unlock()
	s.genesisTime = time.Unix(int64(genesis), 0) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
	s.finalizedCheckpt = finalized
	s.finalizedBlockSlot = slot
	finalizedEpoch.Set(float64(finalized.Epoch))
	return nil
}

// saveGenesisData stores the genesis block as the anchor, justified and
// finalized checkpoint of an empty database.
func (s *Service) saveGenesisData(ctx context.Context) error {
	if s.cfg.GenesisTime.IsZero() {
		return errNilGenesisTime
	}
	genesis, err := blocks.NewROBlock(GenesisBlock())
	if err != nil {
		return err
	}
	fu := s.cfg.BeaconDB.FinalizedUpdater()
	fu.AddFinalizedBlock(genesis)
	if err := fu.Commit(ctx); err != nil {
		return errors.Wrap(err, "could not save genesis block")
	}
	cp := &blocks.Checkpoint{Epoch: 0, Root: genesis.Root()}
	hu := s.cfg.BeaconDB.HotUpdater()
	hu.SetGenesisTime(uint64(s.cfg.GenesisTime.Unix()))
	hu.SetAnchor(cp)
	hu.SetJustifiedCheckpoint(cp)
	hu.SetBestJustifiedCheckpoint(cp)
	hu.SetFinalizedCheckpoint(cp)
	if err := hu.Commit(ctx); err != nil {
		return errors.Wrap(err, "could not save genesis checkpoints")
	}
	log.WithField("genesisTime", s.cfg.GenesisTime).WithField("genesisRoot", cp.Root).Info("Initialized empty database with genesis block")
	return nil
}

// GenesisBlock returns the empty block at slot 0 every chain starts from.
func GenesisBlock() *blocks.SignedBeaconBlock {
	return &blocks.SignedBeaconBlock{
		Block: &blocks.BeaconBlock{
			Body: &blocks.BeaconBlockBody{
				Transactions:       [][]byte{},
				BlobKzgCommitments: [][48]byte{},
			},
		},
	}
}
