// Package metrics exposes prometheus instruments for the sync protocol.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the counters and gauges maintained by the sender agent
// and the receiver protocol.
type Metrics struct {
	SyncPasses         prometheus.Counter
	TransfersStarted   prometheus.Counter
	Confirmations      prometheus.Counter
	ChecksumMismatches prometheus.Counter
	SyncFailures       prometheus.Counter
	Tombstones         prometheus.Counter
	PendingRecordings  prometheus.Gauge
}

// New registers the recsync instruments on reg and returns them. Pass
// prometheus.NewRegistry() in tests to keep registrations isolated.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SyncPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "sync_passes_total",
			Help:      "Synchronization passes executed by the sender agent.",
		}),
		TransfersStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "transfers_started_total",
			Help:      "File transfers handed to the transport.",
		}),
		Confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "confirmations_total",
			Help:      "Matching sync confirmations consumed.",
		}),
		ChecksumMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "checksum_mismatches_total",
			Help:      "Confirmations rejected because the checksum differed.",
		}),
		SyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "sync_failures_total",
			Help:      "syncFailure control messages processed.",
		}),
		Tombstones: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recsync",
			Name:      "tombstones_total",
			Help:      "Recordings dropped because their source file went missing.",
		}),
		PendingRecordings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "recsync",
			Name:      "pending_recordings",
			Help:      "Recordings currently awaiting synchronization.",
		}),
	}

	reg.MustRegister(
		m.SyncPasses,
		m.TransfersStarted,
		m.Confirmations,
		m.ChecksumMismatches,
		m.SyncFailures,
		m.Tombstones,
		m.PendingRecordings,
	)

	return m
}
