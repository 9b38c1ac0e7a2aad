// Package testing includes useful mocks for writing unit
// tests which depend on logic from the blockchain package.
package testing

import (
	"context"
	"sync"
	"time"

	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/blockchain"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/time/slots"
)

var _ blockchain.BlockReceiver = (*ChainService)(nil)
var _ blockchain.ChainInfoFetcher = (*ChainService)(nil)

// ChainService defines the mock interface for testing.
type ChainService struct {
	Genesis   time.Time
	Finalized *blocks.Checkpoint
	// ImportResult completes every received block when set; otherwise the
	// returned futures stay pending until the test settles Pending.
	ImportResult *transition.BlockImportResult
	ImportErr    error
	// ConsensusValidated decides whether listeners are notified on a
	// successful import result.
	ConsensusValidated bool

	lock     sync.Mutex
	Received []blocks.ROBlock
	Sidecars []*blocks.BlobsSidecar
	Pending  []*async.Future[*transition.BlockImportResult]
}

// ReceiveBlock mocks ReceiveBlock method in chain service.
func (s *ChainService) ReceiveBlock(_ context.Context, block blocks.ROBlock, listener blockchain.ConsensusValidationListener) *async.Future[*transition.BlockImportResult] {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Received = append(s.Received, block)
	if s.ImportErr != nil {
		return async.Failed[*transition.BlockImportResult](s.ImportErr)
	}
	if s.ImportResult == nil {
		f := async.NewFuture[*transition.BlockImportResult]()
		s.Pending = append(s.Pending, f)
		return f
	}
	if s.ConsensusValidated && s.ImportResult.IsSuccessful() && listener != nil {
		listener.OnConsensusValidationSucceeded()
	}
	return async.Completed(s.ImportResult)
}

// ReceiveBlobsSidecar mocks ReceiveBlobsSidecar method in chain service.
func (s *ChainService) ReceiveBlobsSidecar(sidecar *blocks.BlobsSidecar) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sidecars = append(s.Sidecars, sidecar)
}

// ReceivedCount returns the number of blocks received so far.
func (s *ChainService) ReceivedCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Received)
}

// GenesisTime mocks the same method in the chain service.
func (s *ChainService) GenesisTime() time.Time {
	return s.Genesis
}

// FinalizedCheckpoint mocks the same method in the chain service.
func (s *ChainService) FinalizedCheckpoint() *blocks.Checkpoint {
	if s.Finalized == nil {
		return &blocks.Checkpoint{}
	}
	return s.Finalized
}

// CurrentSlot mocks the same method in the chain service.
func (s *ChainService) CurrentSlot() primitives.Slot {
	return slots.SinceGenesis(s.Genesis)
}
