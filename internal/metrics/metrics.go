// Package metrics exposes Prometheus instrumentation for the solver service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analyses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_solver_analyses_total",
		Help: "Analyses run, by outcome (solved, ambiguous, empty, error).",
	}, []string{"outcome"})

	survivors = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordle_solver_survivors",
		Help:    "Candidates left after validation.",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	analyzeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wordle_solver_analyze_seconds",
		Help:    "Time spent folding, filtering and ranking.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_solver_http_requests_total",
		Help: "HTTP requests by route pattern and status code.",
	}, []string{"route", "code"})
)

// Outcome labels.
const (
	OutcomeSolved    = "solved"
	OutcomeAmbiguous = "ambiguous"
	OutcomeEmpty     = "empty"
	OutcomeError     = "error"
)

// ObserveAnalysis records one finished analysis.
func ObserveAnalysis(n int, elapsed time.Duration, err error) {
	analyzeSeconds.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		analyses.WithLabelValues(OutcomeError).Inc()
		return
	case n == 0:
		analyses.WithLabelValues(OutcomeEmpty).Inc()
	case n == 1:
		analyses.WithLabelValues(OutcomeSolved).Inc()
	default:
		analyses.WithLabelValues(OutcomeAmbiguous).Inc()
	}
	survivors.Observe(float64(n))
}

// ObserveRequest counts one HTTP response.
func ObserveRequest(route string, code int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
