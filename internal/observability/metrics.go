package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the monitoring
// coordinator and its feed adapters.
type Metrics struct {
	SessionsActive  prometheus.Gauge
	SessionsCreated prometheus.Counter

	SnapshotsApplied    prometheus.Counter
	SnapshotsSuperseded prometheus.Counter

	AlertsDismissed  prometheus.Counter
	AlertNavigations *prometheus.CounterVec // labels: outcome={selected,inactive,stale,unbound}
	Selections       prometheus.Counter

	FeedRequests *prometheus.CounterVec // labels: feed={wildfires,alerts}, outcome={success,error}
	FeedCache    *prometheus.CounterVec // labels: feed={wildfires,alerts}, result={hit,miss}

	CommandsQueued *prometheus.CounterVec // labels: kind
}

// NewMetrics creates and registers all coordinator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.SessionsActive,
		m.SessionsCreated,
		m.SnapshotsApplied,
		m.SnapshotsSuperseded,
		m.AlertsDismissed,
		m.AlertNavigations,
		m.Selections,
		m.FeedRequests,
		m.FeedCache,
		m.CommandsQueued,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "wildfires",
			Name:      "sessions_active",
			Help:      "Number of live dashboard sessions.",
		}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "sessions_created_total",
			Help:      "Total dashboard sessions created.",
		}),
		SnapshotsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "snapshots_applied_total",
			Help:      "Feed snapshots committed to session state.",
		}),
		SnapshotsSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "snapshots_superseded_total",
			Help:      "Feed snapshots discarded because a newer scope token was already applied.",
		}),
		AlertsDismissed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "alerts_dismissed_total",
			Help:      "Alert notices dismissed by users.",
		}),
		AlertNavigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "alert_navigations_total",
			Help:      "Alert click resolutions by outcome.",
		}, []string{"outcome"}),
		Selections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "selections_total",
			Help:      "Incident selections, from markers or alerts.",
		}),
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "feed_requests_total",
			Help:      "Upstream feed requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "feed_cache_total",
			Help:      "Feed snapshot cache lookups by feed and result.",
		}, []string{"feed", "result"}),
		CommandsQueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wildfires",
			Name:      "commands_queued_total",
			Help:      "Commands queued for client collaborators by kind.",
		}, []string{"kind"}),
	}
}
