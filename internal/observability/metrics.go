package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partyfinder_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "partyfinder_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ListingsCreated counts LFG listings created, labelled by game type.
	ListingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partyfinder_listings_created_total",
		Help: "Total number of LFG listings created",
	}, []string{"game_type"})

	// ListingsDeleted counts LFG listing deletions by outcome (deleted, denied).
	ListingsDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partyfinder_listings_deleted_total",
		Help: "Total number of LFG listing delete attempts by outcome",
	}, []string{"outcome"})

	// AnnounceDeliveries counts Discord webhook announcements by outcome (sent, failed, skipped).
	AnnounceDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partyfinder_announce_deliveries_total",
		Help: "Total number of Discord webhook announce attempts by outcome",
	}, []string{"outcome"})

	// IdentityReconciliations counts identity reconciliation results (hit, created, conflict).
	IdentityReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partyfinder_identity_reconciliations_total",
		Help: "Total number of Discord identity reconciliations by result",
	}, []string{"result"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
