// Package params defines important constants that are essential to Prysm services.
package params

import (
	"time"

	types "github.com/prysmaticlabs/prysm-broadcast/consensus-types/primitives"
)

// BeaconChainConfig contains constant configs for node to participate in beacon chain.
type BeaconChainConfig struct {
	PresetBase                  string      `yaml:"PRESET_BASE" spec:"true"`
	ConfigName                  string      `yaml:"CONFIG_NAME" spec:"true"`
	MinGenesisTime              uint64      `yaml:"MIN_GENESIS_TIME" spec:"true"`
	SecondsPerSlot              uint64      `yaml:"SECONDS_PER_SLOT" spec:"true"`
	SlotsPerEpoch               types.Slot  `yaml:"SLOTS_PER_EPOCH" spec:"true"`
	GenesisSlot                 types.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch                types.Epoch `yaml:"GENESIS_EPOCH"`
	MaximumGossipClockDisparity uint64      `yaml:"MAXIMUM_GOSSIP_CLOCK_DISPARITY" spec:"true"` // MaximumGossipClockDisparity in milliseconds.
	MaxBlobsPerBlock            uint64      `yaml:"MAX_BLOBS_PER_BLOCK" spec:"true"`
	FieldElementsPerBlob        uint64      `yaml:"FIELD_ELEMENTS_PER_BLOB" spec:"true"`
	VersionedHashVersionKzg     byte        `yaml:"VERSIONED_HASH_VERSION_KZG" spec:"true"`
	BlobTxType                  byte        `yaml:"BLOB_TX_TYPE" spec:"true"`

	// Node-local values that are not part of the chain configuration.
	EmptySignature         [96]byte
	ZeroHash               [32]byte
	SeenBlockRootCacheSize int
}

// MaximumGossipClockDisparityDuration returns the clock disparity allowance as a duration.
func (b *BeaconChainConfig) MaximumGossipClockDisparityDuration() time.Duration {
	return time.Duration(b.MaximumGossipClockDisparity) * time.Millisecond
}

// SlotDuration returns the length of a slot as a duration.
func (b *BeaconChainConfig) SlotDuration() time.Duration {
	return time.Duration(b.SecondsPerSlot) * time.Second
}
