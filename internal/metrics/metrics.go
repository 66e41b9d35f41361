// Package metrics provides Prometheus metrics for the blog server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "suspect"

var (
	// ReloadTotal counts reload attempts by outcome.
	ReloadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reload_total",
			Help:      "Total number of content reloads",
		},
		[]string{"status"},
	)

	// ReloadDuration measures how long building a replacement snapshot takes.
	ReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reload_duration_seconds",
			Help:      "Duration of content reloads in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// Posts reports the number of posts in the live snapshot.
	Posts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "posts",
			Help:      "Number of posts in the live snapshot",
		},
	)

	// Tags reports the number of distinct tags in the live snapshot.
	Tags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tags",
			Help:      "Number of distinct tags in the live snapshot",
		},
	)

	// RequestDuration measures page rendering by route pattern and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// RecordReload records a reload attempt.
func RecordReload(ok bool, seconds float64) {
	status := "success"
	if !ok {
		status = "failure"
	}
	ReloadTotal.WithLabelValues(status).Inc()
	ReloadDuration.Observe(seconds)
}

// SetSnapshot records the size of a newly published snapshot.
func SetSnapshot(posts, tags int) {
	Posts.Set(float64(posts))
	Tags.Set(float64(tags))
}
