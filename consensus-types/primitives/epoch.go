package primitives

// Epoch represents a single epoch.
type Epoch uint64

// ValidatorIndex in the registry.
type ValidatorIndex uint64
