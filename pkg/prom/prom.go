package prom

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of handled HTTP requests.",
		},
		[]string{"method", "path", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PromotionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rank_promotions_total",
			Help: "Number of rank promotion activities emitted.",
		},
	)
)

func NewHandler() http.Handler {
	registry := prometheus.NewRegistry()

	// default collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry.MustRegister(RequestTotal)
	registry.MustRegister(RequestDuration)
	registry.MustRegister(PromotionTotal)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func ObserveRequest(method, path string, code int, elapsed time.Duration) {
	RequestTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
