package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	posts         *prometheus.CounterVec
	jobs          *prometheus.CounterVec
	queueDepth    prometheus.Gauge
	autoproxy     prometheus.Gauge
	cycleSeconds  prometheus.Histogram
	cycleFailures prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		posts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jakebot_posts_total",
			Help: "Posts looked at, by outcome",
		}, []string{"outcome"}),
		jobs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jakebot_jobs_total",
			Help: "Board jobs finished, by kind and result",
		}, []string{"kind", "result"}),
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "jakebot_queue_depth",
			Help: "Jobs waiting in the action queue",
		}),
		autoproxy: f.NewGauge(prometheus.GaugeOpts{
			Name: "jakebot_autoproxy_enabled",
			Help: "1 when marked posts are being proxied",
		}),
		cycleSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "jakebot_cycle_seconds",
			Help:    "Duration of one polling cycle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		cycleFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "jakebot_cycle_failures_total",
			Help: "Polling cycles that ended in an error",
		}),
	}
}

func (m *metrics) setAutoproxy(on bool) {
	if on {
		m.autoproxy.Set(1)
		return
	}
	m.autoproxy.Set(0)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
