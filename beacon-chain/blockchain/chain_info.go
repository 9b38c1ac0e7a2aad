package blockchain

import (
	"time"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
	"github.com/prysmaticlabs/prysm-broadcast/time/slots"
)

// ChainInfoFetcher defines a common interface for methods in blockchain service which
// directly retrieve chain info related data.
type ChainInfoFetcher interface {
	GenesisTime() time.Time
	FinalizedCheckpoint() *blocks.Checkpoint
	CurrentSlot() primitives.Slot
}

var _ ChainInfoFetcher = (*Service)(nil)

// GenesisTime returns the genesis time of beacon chain.
func (s *Service) GenesisTime() time.Time {
	s.chainInfoLock.RLock()
	defer s.chainInfoLock.RUnlock()
	return s.genesisTime
}

// FinalizedCheckpoint returns a copy of the latest finalized checkpoint.
func (s *Service) FinalizedCheckpoint() *blocks.Checkpoint {
	s.chainInfoLock.RLock()
	defer s.chainInfoLock.RUnlock()
	if s.finalizedCheckpt == nil {
		return &blocks.Checkpoint{}
	}
	cp := *s.finalizedCheckpt
	return &cp
}

// CurrentSlot returns the current slot based on time.
func (s *Service) CurrentSlot() primitives.Slot {
	return slots.SinceGenesis(s.GenesisTime())
}

func (s *Service) finalizedInfo() (*blocks.Checkpoint, primitives.Slot) {
	s.chainInfoLock.RLock()
	defer s.chainInfoLock.RUnlock()
	cp := *s.finalizedCheckpt
	return &cp, s.finalizedBlockSlot
}
