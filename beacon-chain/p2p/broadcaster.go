package p2p

import (
	"bytes"
	"context"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/consensus-types/blocks"
	"go.opencensus.io/trace"
)

// ErrNilBlock is returned on an attempt to broadcast a nil block.
var ErrNilBlock = errors.New("cannot broadcast a nil block")

// BroadcastBlock publishes a signed block on the block gossip topic.
func (s *Service) BroadcastBlock(ctx context.Context, b *blocks.SignedBeaconBlock) error {
	ctx, span := trace.StartSpan(ctx, "p2p.BroadcastBlock")
	defer span.End()

	if err := blocks.BeaconBlockIsNil(b); err != nil {
		return errors.Wrap(ErrNilBlock, err.Error())
	}
	topic := BlockTopic(s.cfg.ForkDigest, s.Encoding().ProtocolSuffix())
	span.AddAttributes(trace.StringAttribute("topic", topic))

	buf := new(bytes.Buffer)
	if _, err := s.Encoding().EncodeGossip(buf, b); err != nil {
		err := errors.Wrap(err, "could not encode message")
		span.SetStatus(trace.Status{Code: trace.StatusCodeInternal, Message: err.Error()})
		return err
	}

	if span.IsRecordingEvents() {
		messageLen := int64(buf.Len())
		span.AddMessageSendEvent(int64(b.Block.Slot), messageLen /*uncompressed*/, messageLen /*compressed*/)
	}

	if err := s.PublishToTopic(ctx, topic, buf.Bytes()); err != nil {
		failedBroadcastCount.WithLabelValues(topic).Inc()
		err := errors.Wrap(err, "could not publish message")
		span.SetStatus(trace.Status{Code: trace.StatusCodeInternal, Message: err.Error()})
		return err
	}
	savedBroadcastCount.WithLabelValues(topic).Inc()
	return nil
}
