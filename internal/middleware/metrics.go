package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_assist_requests_total",
		Help: "Total number of analysis requests",
	}, []string{"pipeline", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_assist_request_duration_seconds",
		Help:    "Duration of analysis requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"pipeline"})

	// Gateway metrics
	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sales_assist_gateway_request_duration_seconds",
		Help:    "Duration of gateway completions",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "status"})

	gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_assist_gateway_requests_total",
		Help: "Total number of gateway completions",
	}, []string{"model", "status"})

	// Cache metrics
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_assist_cache_hits_total",
		Help: "Total number of result cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sales_assist_cache_misses_total",
		Help: "Total number of result cache misses",
	})

	// Rate limit metrics
	rateLimitExceeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_assist_rate_limit_exceeded_total",
		Help: "Total number of rate limit rejections",
	}, []string{"pipeline"})
)

// Metrics provides methods to record metrics
type Metrics struct{}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordRequest records a finished analysis request
func (m *Metrics) RecordRequest(pipeline, status string, duration time.Duration) {
	requestsTotal.WithLabelValues(pipeline, status).Inc()
	requestDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
}

// RecordGatewayRequest records a gateway completion
func (m *Metrics) RecordGatewayRequest(model, status string, duration time.Duration) {
	gatewayRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
	gatewayRequestsTotal.WithLabelValues(model, status).Inc()
}

// RecordCacheHit records a result cache hit
func (m *Metrics) RecordCacheHit() {
	cacheHits.Inc()
}

// RecordCacheMiss records a result cache miss
func (m *Metrics) RecordCacheMiss() {
	cacheMisses.Inc()
}

// RecordRateLimitExceeded records a rate limit rejection
func (m *Metrics) RecordRateLimitExceeded(pipeline string) {
	rateLimitExceeded.WithLabelValues(pipeline).Inc()
}

// StartMetricsServer starts the metrics HTTP server
func StartMetricsServer(port int, path string) error {
	router := mux.NewRouter()
	router.Handle(path, promhttp.Handler())

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return server.ListenAndServe()
}
