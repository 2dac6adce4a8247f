// Package metrics exposes build-run counters over Prometheus. The server
// is optional: batch runs on a workstation usually skip it, scheduled
// dataset rebuilds scrape it.
package metrics

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylet_files_processed_total",
		Help: "Recordings that yielded usable samples",
	})
	FilesSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stylet_files_skipped_total",
		Help: "Recordings skipped, by reason",
	}, []string{"reason"})
	SamplesEmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stylet_samples_emitted_total",
		Help: "Window samples written to outputs",
	})
	BuildDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stylet_file_build_duration_seconds",
		Help:    "Per-file build duration",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(FilesProcessed, FilesSkipped, SamplesEmitted, BuildDuration)
}

// StartServer serves /metrics on addr in the background. No-op when addr
// is empty.
func StartServer(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
}
