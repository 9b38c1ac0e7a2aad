package params

// MinimalSpecConfig retrieves the minimal config used in spec tests.
func MinimalSpecConfig() *BeaconChainConfig {
	minimalConfig := mainnetBeaconConfig.Copy()
	minimalConfig.PresetBase = "minimal"
	minimalConfig.ConfigName = "minimal"
	minimalConfig.SecondsPerSlot = 6
	minimalConfig.SlotsPerEpoch = 8
	minimalConfig.FieldElementsPerBlob = 4
	minimalConfig.SeenBlockRootCacheSize = 1 << 10
	return minimalConfig
}

// SetupTestConfigCleanup preserves configurations allowing to modify them within tests without any
// restrictions, everything is restored after the test.
func SetupTestConfigCleanup(t testingT) {
	prevConfig := BeaconConfig().Copy()
	t.Cleanup(func() {
		OverrideBeaconConfig(prevConfig)
	})
}

type testingT interface {
	Cleanup(func())
}
