package sync

import (
	"context"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/core/transition"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"github.com/prysmaticlabs/prysm-broadcast/encoding/bytesutil"
	"go.opencensus.io/trace"
)

var errNilReceiver = errors.New("no block receiver configured")

func (s *Service) subscribeBlocks() error {
	topic := p2p.BlockTopic(s.cfg.ForkDigest, s.cfg.P2P.Encoding().ProtocolSuffix())
	if err := s.cfg.P2P.RegisterTopicValidator(topic, s.ValidateBeaconBlockPubSub); err != nil {
		return errors.Wrapf(err, "could not register validator for topic %s", topic)
	}
	sub, err := s.cfg.P2P.SubscribeToTopic(topic)
	if err != nil {
		return errors.Wrapf(err, "could not subscribe to topic %s", topic)
	}
	log.WithField("topic", topic).Info("Subscribed to block gossip")
	go s.blockSubscriberLoop(sub)
	return nil
}

func (s *Service) blockSubscriberLoop(sub *pubsub.Subscription) {
	defer sub.Cancel()
	for {
		msg, err := sub.Next(s.ctx)
		if err != nil {
			if s.ctx.Err() == nil {
				log.WithError(err).Error("Block subscription ended")
			}
			return
		}
		if msg.ReceivedFrom == s.cfg.P2P.PeerID() {
			continue
		}
		blk, ok := msg.ValidatorData.(blocks.ROBlock)
		if !ok {
			log.WithField("type", msg.ValidatorData).Error("Unexpected gossip validator data")
			continue
		}
		if err := s.beaconBlockSubscriber(s.ctx, blk); err != nil {
			log.WithError(err).Error("Could not process gossip block")
		}
	}
}

// beaconBlockSubscriber hands a block that passed gossip validation to the
// import pipeline. The import outcome is only logged.
func (s *Service) beaconBlockSubscriber(ctx context.Context, blk blocks.ROBlock) error {
	ctx, span := trace.StartSpan(ctx, "sync.beaconBlockSubscriber")
	defer span.End()

	if s.cfg.Receiver == nil {
		return errNilReceiver
	}
	root := blk.Root()
	s.cfg.Receiver.ReceiveBlock(ctx, blk, nil).OnComplete(func(res *transition.BlockImportResult, err error) {
		if err != nil {
			log.WithError(err).WithField("blockRoot", bytesutil.Trunc(root[:])).Warn("Could not import gossip block")
			return
		}
		log.WithField("blockRoot", bytesutil.Trunc(root[:])).WithField("result", res.String()).Debug("Imported gossip block")
	})
	return nil
}
