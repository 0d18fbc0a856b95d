package counters

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "requests_total",
	Help:      "Total number of handled requests by route and status.",
}, []string{"method", "route", "transport_status", "status_code"})

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ocpi",
	Name:      "request_duration_seconds",
	Help:      "Request handling time.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

var commandCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "commands_total",
	Help:      "Total number of dispatched commands by result.",
}, []string{"kind", "result", "fallback"})

var resultCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpi",
	Name:      "command_results_total",
	Help:      "Command results relayed to partners.",
}, []string{"party_id", "delivered"})

// ObserveRequest counts one request; unmatched paths are grouped under "unknown"
func ObserveRequest(method, route string, transportStatus, statusCode int, elapsed time.Duration) {
	if len(method) == 0 {
		return
	}
	if len(route) == 0 {
		route = "unknown"
	}
	requestCounter.With(prometheus.Labels{
		"method":           method,
		"route":            route,
		"transport_status": strconv.Itoa(transportStatus),
		"status_code":      strconv.Itoa(statusCode),
	}).Inc()
	requestDuration.With(prometheus.Labels{
		"method": method,
		"route":  route,
	}).Observe(elapsed.Seconds())
}

func CountCommand(kind, result string, fallback bool) {
	if len(kind) == 0 {
		return
	}
	commandCounter.With(prometheus.Labels{
		"kind":     kind,
		"result":   result,
		"fallback": strconv.FormatBool(fallback),
	}).Inc()
}

func CountResult(partyId string, delivered bool) {
	if len(partyId) == 0 {
		return
	}
	resultCounter.With(prometheus.Labels{
		"party_id":  partyId,
		"delivered": strconv.FormatBool(delivered),
	}).Inc()
}
