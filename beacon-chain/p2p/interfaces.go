package p2p

import (
	"context"

	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p/encoder"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
)

// P2P represents the full p2p interface composed of all of the sub-interfaces.
type P2P interface {
	Broadcaster
	EncodingProvider
	PubSubProvider
	TopicValidatorRegistrar
	TopicSubscriber
	PeerID() peer.ID
}

// Broadcaster broadcasts messages to peers over the p2p pubsub protocol.
type Broadcaster interface {
	BroadcastBlock(ctx context.Context, b *blocks.SignedBeaconBlock) error
}

// EncodingProvider provides p2p network encoding.
type EncodingProvider interface {
	Encoding() encoder.NetworkEncoding
}

// PubSubProvider provides the p2p pubsub protocol.
type PubSubProvider interface {
	PubSub() *pubsub.PubSub
}

// TopicValidatorRegistrar registers gossip validators for topics.
type TopicValidatorRegistrar interface {
	RegisterTopicValidator(topic string, val func(context.Context, peer.ID, *pubsub.Message) pubsub.ValidationResult) error
}

// TopicSubscriber subscribes to pubsub topics.
type TopicSubscriber interface {
	SubscribeToTopic(topic string, opts ...pubsub.SubOpt) (*pubsub.Subscription, error)
}
