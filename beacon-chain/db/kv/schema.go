package kv

// The schema will define how to store and retrieve data from the db.
// Finalized blocks are keyed by big-endian slot so that cursor scans walk them
// in slot order. Non-canonical blocks are indexed by slot + root for the same reason.
var (
	chainMetadataBucket              = []byte("chain-metadata")
	hotBlocksBucket                  = []byte("hot-blocks")
	finalizedBlocksBucket            = []byte("finalized-blocks")
	finalizedBlockRootsIndexBucket   = []byte("finalized-block-roots-index")
	nonCanonicalBlocksBucket         = []byte("non-canonical-blocks")
	nonCanonicalBlockSlotIndexBucket = []byte("non-canonical-block-slot-index")

	// Chain metadata keys.
	genesisTimeKey                   = []byte("genesis-time")
	anchorKey                        = []byte("anchor")
	justifiedCheckpointKey           = []byte("justified-checkpoint")
	bestJustifiedCheckpointKey       = []byte("best-justified-checkpoint")
	finalizedCheckpointKey           = []byte("finalized-checkpoint")
	optimisticTransitionBlockSlotKey = []byte("optimistic-transition-block-slot")
)
