package p2p

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	pubsub_pb "github.com/libp2p/go-libp2p-pubsub/pb"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/config/params"
	"github.com/prysmaticlabs/prysm-broadcast/crypto/hash"
)

// joinedTopic is a topic handle together with the subscriptions opened on it
// through the service.
type joinedTopic struct {
	handle *pubsub.Topic
	subs   []*pubsub.Subscription
}

// JoinTopic returns the handle of the topic, joining it on first use.
func (s *Service) JoinTopic(topic string, opts ...pubsub.TopicOpt) (*pubsub.Topic, error) {
	s.joinedTopicsLock.Lock()
	defer s.joinedTopicsLock.Unlock()
	jt, err := s.joinLocked(topic, opts...)
	if err != nil {
		return nil, err
	}
	return jt.handle, nil
}

func (s *Service) joinLocked(topic string, opts ...pubsub.TopicOpt) (*joinedTopic, error) {
	if jt, ok := s.joinedTopics[topic]; ok {
		return jt, nil
	}
	handle, err := s.pubsub.Join(topic, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not join topic %s", topic)
	}
	if scoring := topicScoreParams(topic); scoring != nil {
		if err := handle.SetScoreParams(scoring); err != nil {
			return nil, errors.Wrapf(err, "could not set score params of topic %s", topic)
		}
	}
	jt := &joinedTopic{handle: handle}
	s.joinedTopics[topic] = jt
	return jt, nil
}

// LeaveTopic cancels the subscriptions opened on the topic and closes it.
func (s *Service) LeaveTopic(topic string) error {
	s.joinedTopicsLock.Lock()
	defer s.joinedTopicsLock.Unlock()
	return s.leaveLocked(topic)
}

func (s *Service) leaveLocked(topic string) error {
	jt, ok := s.joinedTopics[topic]
	if !ok {
		return nil
	}
	for _, sub := range jt.subs {
		sub.Cancel()
	}
	jt.subs = nil
	if err := jt.handle.Close(); err != nil {
		return errors.Wrapf(err, "could not close topic %s", topic)
	}
	delete(s.joinedTopics, topic)
	return nil
}

// leaveAllTopics leaves every joined topic, logging the ones that could not be closed.
func (s *Service) leaveAllTopics() {
	s.joinedTopicsLock.Lock()
	defer s.joinedTopicsLock.Unlock()
	for topic := range s.joinedTopics {
		if err := s.leaveLocked(topic); err != nil {
			log.WithError(err).WithField("topic", topic).Debug("Could not leave topic")
		}
	}
}

// PublishToTopic publishes data on the topic, joining it first if needed.
func (s *Service) PublishToTopic(ctx context.Context, topic string, data []byte, opts ...pubsub.PubOpt) error {
	handle, err := s.JoinTopic(topic)
	if err != nil {
		return err
	}
	return handle.Publish(ctx, data, opts...)
}

// SubscribeToTopic subscribes to the topic, joining it first if needed. The
// subscription is cancelled when the topic is left or the service stops.
func (s *Service) SubscribeToTopic(topic string, opts ...pubsub.SubOpt) (*pubsub.Subscription, error) {
	s.joinedTopicsLock.Lock()
	defer s.joinedTopicsLock.Unlock()
	jt, err := s.joinLocked(topic)
	if err != nil {
		return nil, err
	}
	sub, err := jt.handle.Subscribe(opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not subscribe to topic %s", topic)
	}
	jt.subs = append(jt.subs, sub)
	return sub, nil
}

// msgIDFunction derives the message id from content alone: the URL-safe,
// unpadded base64 of the SHA256 of the message data.
func msgIDFunction(pmsg *pubsub_pb.Message) string {
	h := hash.Hash(pmsg.Data)
	return base64.RawURLEncoding.EncodeToString(h[:])
}

func setPubSubParameters() {
	pubsub.GossipSubDlo = 5
	pubsub.GossipSubHeartbeatInterval = 700 * time.Millisecond
	pubsub.GossipSubHistoryLength = 6
	pubsub.GossipSubHistoryGossip = 3
}

func logPeerScores(peerMap map[peer.ID]*pubsub.PeerScoreSnapshot) {
	for id, snap := range peerMap {
		for topic, ts := range snap.Topics {
			log.WithField("peer", id.String()).WithField("topic", topic).
				WithField("score", snap.Score).
				WithField("behaviourPenalty", snap.BehaviourPenalty).
				WithField("firstDeliveries", ts.FirstMessageDeliveries).
				WithField("invalidDeliveries", ts.InvalidMessageDeliveries).
				WithField("meshDeliveries", ts.MeshMessageDeliveries).
				WithField("timeInMesh", ts.TimeInMesh).
				Debug("Peer topic score")
		}
	}
}

func peerScoringParams() (*pubsub.PeerScoreParams, *pubsub.PeerScoreThresholds) {
	slot := params.BeaconConfig().SlotDuration()
	epoch := time.Duration(params.BeaconConfig().SlotsPerEpoch) * slot
	return &pubsub.PeerScoreParams{
			Topics:                      make(map[string]*pubsub.TopicScoreParams),
			TopicScoreCap:               32.72,
			AppSpecificScore:            func(peer.ID) float64 { return 0 },
			AppSpecificWeight:           1,
			IPColocationFactorWeight:    -35.11,
			IPColocationFactorThreshold: 10,
			BehaviourPenaltyWeight:      -15.92,
			BehaviourPenaltyThreshold:   6,
			BehaviourPenaltyDecay:       0.9857,
			DecayInterval:               slot,
			DecayToZero:                 0.1,
			RetainScore:                 100 * epoch,
		}, &pubsub.PeerScoreThresholds{
			GossipThreshold:             -4000,
			PublishThreshold:            -8000,
			GraylistThreshold:           -16000,
			AcceptPXThreshold:           100,
			OpportunisticGraftThreshold: 5,
		}
}

// topicScoreParams returns the scoring of the topic, or nil when it is scored
// by the peer-level parameters only.
func topicScoreParams(topic string) *pubsub.TopicScoreParams {
	if !strings.Contains(topic, "/beacon_block/") {
		return nil
	}
	slot := params.BeaconConfig().SlotDuration()
	epoch := time.Duration(params.BeaconConfig().SlotsPerEpoch) * slot
	return &pubsub.TopicScoreParams{
		TopicWeight:                     0.5,
		TimeInMeshWeight:                0.0324,
		TimeInMeshQuantum:               slot,
		TimeInMeshCap:                   300,
		FirstMessageDeliveriesWeight:    1,
		FirstMessageDeliveriesDecay:     0.9928,
		FirstMessageDeliveriesCap:       23,
		MeshMessageDeliveriesWeight:     -0.717,
		MeshMessageDeliveriesDecay:      0.9928,
		MeshMessageDeliveriesCap:        139,
		MeshMessageDeliveriesThreshold:  14,
		MeshMessageDeliveriesWindow:     2 * time.Second,
		MeshMessageDeliveriesActivation: 4 * epoch,
		MeshFailurePenaltyWeight:        -0.717,
		MeshFailurePenaltyDecay:         0.9928,
		InvalidMessageDeliveriesWeight:  -140.4475,
		InvalidMessageDeliveriesDecay:   0.9971,
	}
}
