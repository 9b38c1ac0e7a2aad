// Package testing provides test doubles for the p2p service.
package testing

import (
	"context"
	"sync"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
)

// MockBroadcaster implements p2p.Broadcaster for testing.
type MockBroadcaster struct {
	BroadcastCalled bool
	BroadcastBlocks []*blocks.SignedBeaconBlock
	Err             error
	lock            sync.Mutex
}

// BroadcastBlock records a broadcast occurred.
func (m *MockBroadcaster) BroadcastBlock(_ context.Context, b *blocks.SignedBeaconBlock) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.BroadcastCalled = true
	m.BroadcastBlocks = append(m.BroadcastBlocks, b)
	return nil
}

// Count returns the number of blocks broadcast so far.
func (m *MockBroadcaster) Count() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.BroadcastBlocks)
}
