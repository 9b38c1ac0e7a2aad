package validation

import "github.com/prometheus/client_golang/prometheus"

// BroadcastCounter exposes the decision counter of a level and result to tests.
func BroadcastCounter(level BroadcastValidationLevel, result BroadcastValidationResult) prometheus.Counter {
	return broadcastValidationResultCount.WithLabelValues(level.String(), result.String())
}
