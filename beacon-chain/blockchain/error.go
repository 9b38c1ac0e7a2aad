package blockchain

import "github.com/pkg/errors"

var (
	// ErrServiceStopped is returned for imports submitted after the service stopped.
	ErrServiceStopped = errors.New("blockchain service is stopped")
	// errNilFinalizedCheckpoint is returned when finalizing on a nil checkpoint.
	errNilFinalizedCheckpoint = errors.New("nil finalized checkpoint")
	// errUnknownFinalizedBlock is returned when the finalized checkpoint root is not a hot block.
	errUnknownFinalizedBlock = errors.New("finalized checkpoint block is not in the hot store")
	// errFinalizedNotDescendant is returned when a new finalized checkpoint conflicts with the previous one.
	errFinalizedNotDescendant = errors.New("finalized checkpoint does not descend from the previous finalized checkpoint")
	// errStaleFinalizedCheckpoint is returned when finalizing on an epoch that is not newer than the finalized one.
	errStaleFinalizedCheckpoint = errors.New("checkpoint is not newer than the finalized checkpoint")
	// errNilGenesisTime is returned when the database has no anchor and no genesis time is configured.
	errNilGenesisTime = errors.New("no genesis time configured for an empty database")
)
