// Package metrics exposes Prometheus collectors for the reconciliation loop.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

const namespace = "quote_sync"

// Cycle results used as the result label.
const (
	ResultOK      = "ok"
	ResultOffline = "offline"
	ResultError   = "error"
)

// SyncMetrics records the outcome of every sync cycle.
type SyncMetrics struct {
	cycles      *prometheus.CounterVec
	pushed      prometheus.Counter
	added       prometheus.Counter
	conflicts   prometheus.Counter
	pending     prometheus.Gauge
	duration    prometheus.Histogram
	lastSuccess prometheus.Gauge
}

var _ ports.SyncObserver = (*SyncMetrics)(nil)

// NewSyncMetrics creates the collectors and registers them with reg.
// A nil reg means prometheus.DefaultRegisterer.
func NewSyncMetrics(reg prometheus.Registerer) (*SyncMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &SyncMetrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Sync cycles by result.",
		}, []string{"result"}),
		pushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushed_total",
			Help:      "Local records submitted to the remote.",
		}),
		added: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "added_total",
			Help:      "Remote records appended to the local collection.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conflicts_total",
			Help:      "Conflicts detected during merges.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_conflicts",
			Help:      "Conflicts awaiting manual review.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "duration_seconds",
			Help:      "Wall time of a sync cycle.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last cycle that merged remote data.",
		}),
	}

	collectors := []prometheus.Collector{
		m.cycles, m.pushed, m.added, m.conflicts, m.pending, m.duration, m.lastSuccess,
	}

	var errs []error
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	// Pre-create the label values so they are exported as zero.
	for _, r := range []string{ResultOK, ResultOffline, ResultError} {
		m.cycles.WithLabelValues(r)
	}

	return m, nil
}

// ObserveSync implements ports.SyncObserver.
func (m *SyncMetrics) ObserveSync(report domain.SyncReport, elapsed time.Duration, err error) {
	m.duration.Observe(elapsed.Seconds())
	m.pushed.Add(float64(report.Pushed))

	switch {
	case err != nil:
		m.cycles.WithLabelValues(ResultError).Inc()
	case report.Offline:
		m.cycles.WithLabelValues(ResultOffline).Inc()
		m.pending.Set(float64(report.Pending))
	default:
		m.cycles.WithLabelValues(ResultOK).Inc()
		m.added.Add(float64(report.Added))
		m.conflicts.Add(float64(report.Conflicts))
		m.pending.Set(float64(report.Pending))
		m.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}
}
