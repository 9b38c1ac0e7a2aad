package params

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig.Copy()
}

var mainnetBeaconConfig = &BeaconChainConfig{
	PresetBase:                  "mainnet",
	ConfigName:                  "mainnet",
	MinGenesisTime:              1606824000, // Dec 1, 2020, 12pm UTC.
	SecondsPerSlot:              12,
	SlotsPerEpoch:               32,
	GenesisSlot:                 0,
	GenesisEpoch:                0,
	MaximumGossipClockDisparity: 500,
	MaxBlobsPerBlock:            6,
	FieldElementsPerBlob:        4096,
	VersionedHashVersionKzg:     0x01,
	BlobTxType:                  0x05,
	SeenBlockRootCacheSize:      1 << 16,
}
