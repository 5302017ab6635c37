package metrics

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AdvisoryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "herdadvisor_operation_duration_seconds",
			Help:    "Advisory operation duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"},
	)

	AdvisoryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "herdadvisor_operation_total",
			Help: "Total number of advisory operations",
		},
		[]string{"operation", "status"},
	)

	DiagnosisConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "herdadvisor_diagnosis_top_confidence",
			Help:    "Confidence of the best ranked disease per diagnosis",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	FallbackFeedings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "herdadvisor_feeding_fallback_total",
			Help: "Feeding requests answered with fallback advice",
		},
	)

	HealthRecordsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "herdadvisor_health_records_created_total",
			Help: "Total health records written",
		},
	)

	PricesSynced = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "herdadvisor_prices_synced_total",
			Help: "Market price records imported by the sync job",
		},
	)
)

var initOnce sync.Once

// Init registers the collectors with the default registry. Safe to call repeatedly.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(AdvisoryDuration)
		prometheus.MustRegister(AdvisoryTotal)
		prometheus.MustRegister(DiagnosisConfidence)
		prometheus.MustRegister(FallbackFeedings)
		prometheus.MustRegister(HealthRecordsCreated)
		prometheus.MustRegister(PricesSynced)
	})
}

// Observe records the outcome of one advisory operation started at start.
func Observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	AdvisoryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	AdvisoryTotal.WithLabelValues(operation, status).Inc()
}

// Handler exposes the registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
