// Package metrics holds the Prometheus collectors exposed on /metrics.
//
// Collectors live in a private registry so tests and repeated server construction never hit
// duplicate registration panics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bwf_poster"

var (
	registry = prometheus.NewRegistry()

	fetchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_attempts_total",
		Help:      "Calendar source attempts by source and outcome",
	}, []string{"source", "outcome"})

	deliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Chat deliveries by payload kind and outcome",
	}, []string{"kind", "outcome"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests by route and status code",
	}, []string{"route", "code"})

	pipelineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Time spent in each pipeline stage",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})

	posterEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "poster_events",
		Help:      "Number of events drawn on the last rendered poster",
	})

	lastSuccess = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last successful operation",
	}, []string{"operation"})
)

func init() {
	registry.MustRegister(
		fetchAttempts, deliveries, httpRequests,
		pipelineDuration, posterEvents, lastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

// Registry exposes the registry for tests
func Registry() *prometheus.Registry {
	return registry
}

func ObserveFetch(source, outcome string) {
	fetchAttempts.WithLabelValues(source, outcome).Inc()
}

func ObserveDelivery(kind string, success bool) {
	deliveries.WithLabelValues(kind, outcome(success)).Inc()
}

func ObserveRequest(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func ObservePipeline(operation string, d time.Duration) {
	pipelineDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func SetPosterEvents(n int) {
	posterEvents.Set(float64(n))
}

// MarkSuccess stamps the last success time of an operation
func MarkSuccess(operation string) {
	lastSuccess.WithLabelValues(operation).SetToCurrentTime()
}

func outcome(success bool) string {
	if success {
		return "ok"
	}
	return "error"
}
