// Package metrics provides Prometheus metrics for the content pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpane_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpane_cache_evictions_total",
			Help: "Snapshots evicted from the cache to make room",
		},
	)

	filesystemReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpane_filesystem_reads_total",
			Help: "Directory listings and file previews read from disk",
		},
		[]string{"kind"},
	)

	loadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rpane_load_errors_total",
			Help: "Loads that produced an error snapshot",
		},
		[]string{"kind"},
	)

	requestsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpane_requests_coalesced_total",
			Help: "Load requests attached to an already running load",
		},
	)

	notificationsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rpane_notifications_published_total",
			Help: "Completion notifications sent to the panel manager",
		},
	)

	loadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rpane_load_duration_seconds",
			Help:    "Time spent stat-ing and reading one load request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// RecordCacheHit records a cache lookup that found a snapshot.
func RecordCacheHit() {
	cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a cache lookup that found nothing.
func RecordCacheMiss() {
	cacheLookups.WithLabelValues("miss").Inc()
}

// RecordCacheEviction records one LRU eviction.
func RecordCacheEviction() {
	cacheEvictions.Inc()
}

// RecordFilesystemRead records a real read of kind ("directory", "preview").
func RecordFilesystemRead(kind string) {
	filesystemReads.WithLabelValues(kind).Inc()
}

// RecordLoadError records an error snapshot of kind.
func RecordLoadError(kind string) {
	loadErrors.WithLabelValues(kind).Inc()
}

// RecordCoalesced records a request that joined an in-flight load.
func RecordCoalesced() {
	requestsCoalesced.Inc()
}

// RecordNotification records a published notification.
func RecordNotification() {
	notificationsPublished.Inc()
}

// ObserveLoad records how long a load of kind took.
func ObserveLoad(kind string, d time.Duration) {
	loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
