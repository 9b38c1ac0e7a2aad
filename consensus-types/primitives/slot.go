// Package primitives defines the integer types used across the beacon chain.
package primitives

import "fmt"

// Slot represents a single slot.
type Slot uint64

// Add increases the slot by x. It saturates at the maximum slot.
func (s Slot) Add(x uint64) Slot {
	if uint64(s) > ^uint64(0)-x {
		return Slot(^uint64(0))
	}
	return s + Slot(x)
}

// SubSlot returns s - x, or zero if x is larger than s.
func (s Slot) SubSlot(x Slot) Slot {
	if x > s {
		return 0
	}
	return s - x
}

// String returns the decimal representation of the slot.
func (s Slot) String() string {
	return fmt.Sprintf("%d", uint64(s))
}
