package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blockImportCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_block_import_total",
			Help: "Count of block imports by result.",
		},
		[]string{"result"},
	)
	blockImportLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beacon_block_import_latency_milliseconds",
			Help:    "Captures latency for block import in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000, 4000},
		},
	)
	finalizedEpoch = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_finalized_epoch",
		Help: "Last finalized epoch of the processed state",
	})
)
