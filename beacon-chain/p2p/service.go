// Package p2p defines the network protocol implementation used to
// publish and receive beacon blocks over libp2p gossipsub.
package p2p

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	pubsub "github.com/libp2p/go-libp2p-pubsub"
	ma "github.com/multiformats/go-multiaddr"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/prysm-broadcast/beacon-chain/p2p/encoder"
	"github.com/prysmaticlabs/prysm-broadcast/runtime"
)

var _ runtime.Service = (*Service)(nil)
var _ P2P = (*Service)(nil)

// In the event that we are at our peer limit, we
// stop looking for new peers and instead poll
// for the current peer limit status for the time period
// defined below.
var pollingPeriod = 6 * time.Second

// Service for managing peer to peer (p2p) networking.
type Service struct {
	ctx              context.Context
	cancel           context.CancelFunc
	cfg              *Config
	host             host.Host
	pubsub           *pubsub.PubSub
	joinedTopics     map[string]*joinedTopic
	joinedTopicsLock sync.Mutex
	startupErr       error
	started          bool
}

// NewService initializes a new p2p service compatible with shared.Service interface. No
// connections are made until the Start function is called during the service registry startup.
func NewService(ctx context.Context, cfg *Config) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:          ctx,
		cancel:       cancel,
		cfg:          cfg,
		joinedTopics: make(map[string]*joinedTopic),
	}

	listen, err := ma.NewMultiaddr(fmt.Sprintf("/ip4/%s/tcp/%d", cfg.HostAddress, cfg.TCPPort))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "invalid listen address")
	}
	h, err := libp2p.New(libp2p.ListenAddrs(listen), libp2p.UserAgent("prysm-broadcast"))
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to create p2p host")
	}
	s.host = h

	setPubSubParameters()
	scoreParams, thresholds := peerScoringParams()
	psOpts := []pubsub.Option{
		pubsub.WithMessageSignaturePolicy(pubsub.StrictNoSign),
		pubsub.WithNoAuthor(),
		pubsub.WithMessageIdFn(msgIDFunction),
		pubsub.WithPeerScore(scoreParams, thresholds),
		pubsub.WithPeerScoreInspect(logPeerScores, time.Minute),
		pubsub.WithMaxMessageSize(int(encoder.MaxGossipSize)),
	}
	gs, err := pubsub.NewGossipSub(ctx, h, psOpts...)
	if err != nil {
		cancel()
		if closeErr := h.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Could not close p2p host")
		}
		return nil, errors.Wrap(err, "failed to start pubsub")
	}
	s.pubsub = gs
	return s, nil
}

// Start the p2p service.
func (s *Service) Start() {
	if s.started {
		log.Error("Attempted to start p2p service when it was already started")
		return
	}
	s.started = true

	addrs := make([]string, 0, len(s.host.Addrs()))
	for _, a := range s.host.Addrs() {
		addrs = append(addrs, a.String())
	}
	logListenAddrs(s.host.ID(), addrs)

	for _, info := range peersFromStringAddrs(s.cfg.StaticPeers) {
		go s.connectWithPeer(info)
	}
	go s.logPeerCount()
}

// Stop the p2p service, leaving the joined topics and terminating all peer connections.
func (s *Service) Stop() error {
	defer s.cancel()
	s.started = false
	s.leaveAllTopics()
	return s.host.Close()
}

// Status of the p2p service. Will return an error if the service is considered unhealthy to
// indicate that this node should not serve traffic until the issue has been resolved.
func (s *Service) Status() error {
	if !s.started {
		return errors.New("not running")
	}
	if s.startupErr != nil {
		return s.startupErr
	}
	return nil
}

// Encoding returns the configured networking encoding.
func (s *Service) Encoding() encoder.NetworkEncoding {
	return &encoder.CborSnappyEncoder{}
}

// PubSub returns the p2p pubsub framework.
func (s *Service) PubSub() *pubsub.PubSub {
	return s.pubsub
}

// PeerID returns the Peer ID of the local peer.
func (s *Service) PeerID() peer.ID {
	return s.host.ID()
}

// Host returns the currently running libp2p
// host of the service.
func (s *Service) Host() host.Host {
	return s.host
}

// RegisterTopicValidator installs a gossip validator for the topic.
func (s *Service) RegisterTopicValidator(topic string, val func(context.Context, peer.ID, *pubsub.Message) pubsub.ValidationResult) error {
	return s.pubsub.RegisterTopicValidator(topic, val)
}

// peersFromStringAddrs parses multiaddresses carrying a /p2p/ peer id, merging
// addresses of the same peer. Unparseable entries are logged and skipped.
func peersFromStringAddrs(addrs []string) []peer.AddrInfo {
	multiAddrs := make([]ma.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		addr, err := ma.NewMultiaddr(a)
		if err != nil {
			log.WithError(err).WithField("peer", a).Error("Could not parse static peer address")
			continue
		}
		multiAddrs = append(multiAddrs, addr)
	}
	infos, err := peer.AddrInfosFromP2pAddrs(multiAddrs...)
	if err != nil {
		log.WithError(err).Error("Could not get peer info from static peer addresses")
		return nil
	}
	return infos
}

func (s *Service) connectWithPeer(info peer.AddrInfo) {
	if info.ID == s.host.ID() {
		return
	}
	if s.cfg.MaxPeers > 0 && uint(len(s.host.Network().Peers())) >= s.cfg.MaxPeers {
		log.WithField("peer", info.ID).Debug("Peer limit reached, not connecting")
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := s.host.Connect(ctx, info); err != nil {
		log.WithError(err).WithField("peer", info.ID).Debug("Could not connect with peer")
	}
}

func (s *Service) logPeerCount() {
	ticker := time.NewTicker(pollingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			peerCount.Set(float64(len(s.host.Network().Peers())))
		case <-s.ctx.Done():
			return
		}
	}
}
