package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gossipBlockValidationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gossip_block_validation_total",
			Help: "Count of gossip block validation verdicts.",
		},
		[]string{"result"},
	)
	messageFailedDecodeCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "p2p_message_failed_decode_total",
			Help: "Count of gossip block messages that could not be decoded.",
		},
	)
)
