// Package metrics holds the Prometheus collectors for the server. They are
// registered on the default registry and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts records written by local mutators, by table and op.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proof_mutations_total",
		Help: "Records written by local mutations.",
	}, []string{"table", "op"})

	// Rejections counts mutations refused with a precondition error.
	Rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proof_mutation_rejections_total",
		Help: "Mutations rejected because a precondition failed.",
	}, []string{"reason"})

	// RemoteWrites counts outbox flush attempts per record, by result (ok, error).
	RemoteWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proof_remote_writes_total",
		Help: "Remote mirror writes, by result.",
	}, []string{"result"})

	// RealtimeEvents counts inbound change notifications, by table and result
	// (applied, stale, ignored, error).
	RealtimeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proof_realtime_events_total",
		Help: "Inbound realtime change events, by table and result.",
	}, []string{"table", "result"})

	OutboxPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proof_outbox_pending",
		Help: "Records waiting to be written to the remote.",
	})

	StreamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proof_stream_clients",
		Help: "Connected live-update clients.",
	})

	// Online is 1 while the remote mirror is in use.
	Online = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proof_online",
		Help: "1 when the remote mirror is active, 0 when running offline.",
	})
)

// SetOnline records the sync mode.
func SetOnline(online bool) {
	if online {
		Online.Set(1)
		return
	}
	Online.Set(0)
}
