package validation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var broadcastValidationResultCount = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "broadcast_validation_result_total",
		Help: "Count of broadcast validation decisions, by requested level and result.",
	},
	[]string{"level", "result"},
)
