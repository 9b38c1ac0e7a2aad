package sync

import (
	"sync"

	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

type slotProposer struct {
	slot     primitives.Slot
	proposer primitives.ValidatorIndex
}

// seenProposals records the root of the first block with a valid signature per
// slot and proposer.
type seenProposals struct {
	lock  sync.RWMutex
	roots map[slotProposer][32]byte
}

func newSeenProposals() *seenProposals {
	return &seenProposals{roots: make(map[slotProposer][32]byte)}
}

// record stores root for the slot and proposer unless a root is already known.
// It returns the root that is kept.
func (p *seenProposals) record(slot primitives.Slot, proposer primitives.ValidatorIndex, root [32]byte) [32]byte {
	p.lock.Lock()
	defer p.lock.Unlock()
	key := slotProposer{slot: slot, proposer: proposer}
	if existing, ok := p.roots[key]; ok {
		return existing
	}
	p.roots[key] = root
	return root
}

// conflicts reports whether a root other than root is recorded for the slot and proposer.
func (p *seenProposals) conflicts(slot primitives.Slot, proposer primitives.ValidatorIndex, root [32]byte) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	existing, ok := p.roots[slotProposer{slot: slot, proposer: proposer}]
	return ok && existing != root
}

// prune drops every proposal older than slot and returns how many were removed.
func (p *seenProposals) prune(slot primitives.Slot) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	n := 0
	for k := range p.roots {
		if k.slot < slot {
			delete(p.roots, k)
			n++
		}
	}
	return n
}

func (p *seenProposals) len() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.roots)
}
