package validation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownBroadcastValidation is returned for a broadcast_validation value that is not recognized.
var ErrUnknownBroadcastValidation = errors.New("unknown broadcast validation level")

// BroadcastValidationLevel is the strictness a block must pass before it is released to the network.
// Levels are ordered from the most permissive to the strictest.
type BroadcastValidationLevel int

const (
	// NotRequired releases the block without any check.
	NotRequired BroadcastValidationLevel = iota
	// Gossip requires the block to pass gossip validation.
	Gossip
	// Consensus requires the block to pass gossip validation and the state transition.
	Consensus
	// ConsensusAndEquivocation additionally requires the block to be the only block
	// seen from its proposer for its slot once the state transition passed.
	ConsensusAndEquivocation
)

var levelNames = map[BroadcastValidationLevel]string{
	NotRequired:              "not_required",
	Gossip:                   "gossip",
	Consensus:                "consensus",
	ConsensusAndEquivocation: "consensus_and_equivocation",
}

// String returns the beacon API spelling of the level.
func (l BroadcastValidationLevel) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return fmt.Sprintf("unknown(%d)", int(l))
}

// ParseBroadcastValidationLevel parses the broadcast_validation query value of the beacon API.
func ParseBroadcastValidationLevel(s string) (BroadcastValidationLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == s {
			return l, nil
		}
	}
	return NotRequired, errors.Wrapf(ErrUnknownBroadcastValidation, "%q", s)
}

// BroadcastValidationResult is the decision taken for a block before broadcast.
type BroadcastValidationResult int

const (
	// Success means the block passed the requested level and may be broadcast.
	Success BroadcastValidationResult = iota
	// GossipFailure means the block did not pass gossip validation.
	GossipFailure
	// ConsensusFailure means the block did not pass the state transition.
	ConsensusFailure
	// FinalEquivocationFailure means another block from the same proposer for the same slot was seen.
	FinalEquivocationFailure
)

// String --
func (r BroadcastValidationResult) String() string {
	switch r {
	case Success:
		return "success"
	case GossipFailure:
		return "gossip_failure"
	case ConsensusFailure:
		return "consensus_failure"
	case FinalEquivocationFailure:
		return "final_equivocation_failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// IsSuccess reports whether the block may be broadcast.
func (r BroadcastValidationResult) IsSuccess() bool {
	return r == Success
}
