package validation

import (
	"context"
	"fmt"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/prysmaticlabs/prysm-broadcast/async"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
)

// GossipResult is the verdict of gossip validation for a block.
type GossipResult int

const (
	// Accept means the block may be relayed.
	Accept GossipResult = iota
	// Ignore means the block is not relayed but the sender is not penalized.
	Ignore
	// SaveForFuture means the block cannot be judged yet, for instance because its parent is unknown.
	SaveForFuture
	// Reject means the block is invalid and the sender should be penalized.
	Reject
)

// IsAccept --
func (r GossipResult) IsAccept() bool {
	return r == Accept
}

// String --
func (r GossipResult) String() string {
	switch r {
	case Accept:
		return "accept"
	case Ignore:
		return "ignore"
	case SaveForFuture:
		return "save_for_future"
	case Reject:
		return "reject"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// ToPubsub maps the verdict onto libp2p pubsub validation results. Blocks saved
// for later are ignored by the router and revalidated when they are processed.
func (r GossipResult) ToPubsub() pubsub.ValidationResult {
	switch r {
	case Accept:
		return pubsub.ValidationAccept
	case Reject:
		return pubsub.ValidationReject
	default:
		return pubsub.ValidationIgnore
	}
}

// BlockGossipValidator runs the gossip checks of a block.
type BlockGossipValidator interface {
	// Validate asynchronously checks whether the block may be relayed. Locally
	// produced blocks skip the duplicate proposal check, which is enforced later
	// by BlockIsFirstBlockWithValidSignatureForSlot.
	Validate(ctx context.Context, block blocks.ROBlock, locallyProduced bool) *async.Future[GossipResult]
	// BlockIsFirstBlockWithValidSignatureForSlot reports whether no other block
	// with a valid signature was received for the same slot and proposer.
	BlockIsFirstBlockWithValidSignatureForSlot(block blocks.ROBlock) bool
}
