package csvtail

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the tailer's Prometheus collectors on a private registry so
// multiple tailers in one process do not collide.
type Metrics struct {
	RecordsProcessed prometheus.Counter
	RecordsSkipped   prometheus.Counter
	PollErrors       prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates and registers the tailer collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qwire_csvtail_records_processed_total",
			Help: "Total number of CSV records converted and appended to the output",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qwire_csvtail_records_skipped_total",
			Help: "Total number of CSV records dropped as malformed",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qwire_csvtail_poll_errors_total",
			Help: "Total number of poll cycles that failed and will be retried",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.RecordsProcessed, m.RecordsSkipped, m.PollErrors)
	return m
}

// Handler returns the HTTP handler exposing the collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes the metrics endpoint on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
