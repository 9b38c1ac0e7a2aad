// Package slots includes ticker and timer-related functions for Ethereum consensus.
package slots

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

// now is overridden in tests.
var now = time.Now

// ErrFutureSlot is returned when a slot has not started yet, clock disparity included.
var ErrFutureSlot = errors.New("slot is in the future")

// StartTime returns the start time in terms of its unix epoch
// value.
func StartTime(genesis uint64, slot primitives.Slot) time.Time {
	duration := time.Second * time.Duration(uint64(slot)*params.BeaconConfig().SecondsPerSlot)
	return time.Unix(int64(genesis), 0).Add(duration) // lint:ignore uintcast -- Genesis timestamp will not exceed int64 in your lifetime.
}

// SinceGenesis returns the number of slots since
// the provided genesis time.
func SinceGenesis(genesis time.Time) primitives.Slot {
	if genesis.After(now()) { // Genesis has not occurred yet.
		return 0
	}
	return primitives.Slot(uint64(now().Unix()-genesis.Unix()) / params.BeaconConfig().SecondsPerSlot)
}

// CurrentSlot returns the current slot as determined by the local clock and
// provided genesis time.
func CurrentSlot(genesisTimeSec uint64) primitives.Slot {
	return SinceGenesis(time.Unix(int64(genesisTimeSec), 0)) // lint:ignore uintcast
}

// ToEpoch returns the epoch number of the input slot.
//
// Spec pseudocode definition:
//
//	def compute_epoch_at_slot(slot: Slot) -> Epoch:
//	  """
//	  Return the epoch number at ``slot``.
//	  """
//	  return Epoch(slot // SLOTS_PER_EPOCH)
func ToEpoch(slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(slot / params.BeaconConfig().SlotsPerEpoch)
}

// EpochStart returns the first slot number of the
// current epoch.
//
// Spec pseudocode definition:
//
//	def compute_start_slot_at_epoch(epoch: Epoch) -> Slot:
//	  """
//	  Return the start slot of ``epoch``.
//	  """
//	  return Slot(epoch * SLOTS_PER_EPOCH)
func EpochStart(epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(uint64(epoch) * uint64(params.BeaconConfig().SlotsPerEpoch))
}

// VerifyTime validates that the slot has started once the maximum gossip clock
// disparity is accounted for.
func VerifyTime(genesisTime uint64, slot primitives.Slot, timeTolerance time.Duration) error {
	slotTime := StartTime(genesisTime, slot)
	currentTime := now()
	if slotTime.After(currentTime.Add(timeTolerance)) {
		return errors.Wrapf(ErrFutureSlot, "could not process slot from the future, slot time %s > current time %s",
			slotTime, currentTime)
	}
	return nil
}
