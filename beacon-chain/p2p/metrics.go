package p2p

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	savedBroadcastCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2p_broadcast_total",
		Help: "Count of messages broadcast to the network, by topic.",
	}, []string{"topic"})
	failedBroadcastCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "p2p_broadcast_failed_total",
		Help: "Count of messages that could not be broadcast, by topic.",
	}, []string{"topic"})
)

var peerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "p2p_peer_count",
	Help: "The number of connected libp2p peers.",
})
