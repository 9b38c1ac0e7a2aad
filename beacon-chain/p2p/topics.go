package p2p

import (
	"fmt"
)

// BlockTopicFormat is the gossip topic of signed beacon blocks, keyed by fork digest.
const BlockTopicFormat = "/eth2/%x/beacon_block"

// BlockTopic returns the full block topic, encoding suffix included, for the given fork digest.
func BlockTopic(digest [4]byte, suffix string) string {
	return fmt.Sprintf(BlockTopicFormat, digest) + suffix
}
