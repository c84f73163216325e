package observability

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/healx-backend/internal/platform/logger"
)

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and
// records nothing, so callers never branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	ingestBatches   *prometheus.CounterVec
	ingestRecords   *prometheus.CounterVec
	ingestWarnings  prometheus.Counter
	ingestLatency   prometheus.Histogram
	registryLookups *prometheus.CounterVec
	registryReloads *prometheus.CounterVec
	journalUpserts  *prometheus.CounterVec
	mediaGrants     *prometheus.CounterVec

	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

func New(log *logger.Logger) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "healx_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healx_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		ingestBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_ingest_batches_total",
			Help: "Observation batches by outcome.",
		}, []string{"status"}),
		ingestRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_ingest_records_total",
			Help: "Observation records by outcome (accepted or skip reason).",
		}, []string{"outcome"}),
		ingestWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "healx_ingest_range_warnings_total",
			Help: "Accepted records outside their metric reference range.",
		}),
		ingestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "healx_ingest_batch_duration_seconds",
			Help:    "End to end batch ingestion latency.",
			Buckets: prometheus.DefBuckets,
		}),
		registryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_metric_registry_lookups_total",
			Help: "Metric code lookups by cache result.",
		}, []string{"result"}),
		registryReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_metric_registry_invalidations_total",
			Help: "Registry cache drops by trigger.",
		}, []string{"trigger"}),
		journalUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_journal_upserts_total",
			Help: "Journal upserts by status.",
		}, []string{"status"}),
		mediaGrants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "healx_media_upload_grants_total",
			Help: "Upload URL grants by category.",
		}, []string{"category"}),
		redisUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healx_redis_up",
			Help: "1 when the last Redis ping succeeded.",
		}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "healx_redis_ping_seconds",
			Help: "Latency of the last Redis ping.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.ingestBatches, m.ingestRecords, m.ingestWarnings, m.ingestLatency,
		m.registryLookups, m.registryReloads,
		m.journalUpserts, m.mediaGrants,
		m.redisUp, m.redisPing,
	)
	if log != nil {
		log.Info("metrics initialized")
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveIngest records one finished batch. skipped maps reason to count.
func (m *Metrics) ObserveIngest(status string, accepted int, skipped map[string]int, warnings int, dur time.Duration) {
	if m == nil {
		return
	}
	m.ingestBatches.WithLabelValues(status).Inc()
	m.ingestLatency.Observe(dur.Seconds())
	if accepted > 0 {
		m.ingestRecords.WithLabelValues("accepted").Add(float64(accepted))
	}
	for reason, n := range skipped {
		m.ingestRecords.WithLabelValues(reason).Add(float64(n))
	}
	if warnings > 0 {
		m.ingestWarnings.Add(float64(warnings))
	}
}

func (m *Metrics) ObserveRegistryLookup(hits, misses int) {
	if m == nil {
		return
	}
	if hits > 0 {
		m.registryLookups.WithLabelValues("hit").Add(float64(hits))
	}
	if misses > 0 {
		m.registryLookups.WithLabelValues("miss").Add(float64(misses))
	}
}

func (m *Metrics) IncRegistryInvalidation(trigger string) {
	if m == nil {
		return
	}
	m.registryReloads.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncJournalUpsert(status string) {
	if m == nil {
		return
	}
	m.journalUpserts.WithLabelValues(status).Inc()
}

func (m *Metrics) IncMediaGrant(category string) {
	if m == nil {
		return
	}
	m.mediaGrants.WithLabelValues(category).Inc()
}

// RegisterDBStats exposes database/sql pool statistics for db.
func (m *Metrics) RegisterDBStats(log *logger.Logger, db *gorm.DB, name string) {
	if m == nil || db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	if err := m.registry.Register(collectors.NewDBStatsCollector(sqlDB, name)); err != nil && log != nil {
		log.Warn("metrics: db stats collector not registered", "error", err)
	}
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil && !strings.Contains(err.Error(), "context canceled") {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
