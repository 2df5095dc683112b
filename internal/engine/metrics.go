package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics are created per store so several stores can coexist in one
// process; they are only exported when a Registerer is supplied.
type metrics struct {
	actions        *prometheus.CounterVec
	dropped        *prometheus.CounterVec
	effects        *prometheus.CounterVec
	effectDuration *prometheus.HistogramVec
	inflight       prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniflow",
			Name:      "actions_total",
			Help:      "Committed actions by name",
		}, []string{"action"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniflow",
			Name:      "actions_dropped_total",
			Help:      "Actions dropped before reduction",
		}, []string{"reason"}),
		effects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uniflow",
			Name:      "effects_total",
			Help:      "Finished effects by name and outcome",
		}, []string{"effect", "outcome"}),
		effectDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "uniflow",
			Name:      "effect_duration_seconds",
			Help:      "Effect handler latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"effect"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "uniflow",
			Name:      "effects_inflight",
			Help:      "Effects handed off and not yet finished",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.actions, m.dropped, m.effects, m.effectDuration, m.inflight)
	}
	return m
}

func (m *metrics) effectDone(effect string, d time.Duration, err error) {
	outcome := "ok"
	switch {
	case IsEffectTimeout(err):
		outcome = "timeout"
	case IsEffectPanic(err):
		outcome = "panic"
	case err != nil:
		outcome = "error"
	}
	m.effects.WithLabelValues(effect, outcome).Inc()
	m.effectDuration.WithLabelValues(effect).Observe(d.Seconds())
}
