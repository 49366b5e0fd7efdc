// Package metrics, Prometheus collector'larını tanımlar ve /metrics handler'ını sunar.
//
// Collector'lar paket seviyesinde tanımlanır ve uygulamaya özel Registry'ye
// kaydedilir; global DefaultRegisterer kullanılmaz (testlerde çakışma olmasın).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "filoapi"

var (
	// Registry, uygulamanın collector'larını tutar.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms - ~2.5s
		},
		[]string{"method", "route"},
	)

	rateLimitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejections_total",
			Help:      "Requests rejected by the rate limiter.",
		},
		[]string{"scope"},
	)

	auditEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Audit log entries written.",
		},
		[]string{"table", "operation"},
	)

	apiKeyVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "apikey",
			Name:      "verifications_total",
			Help:      "API key verification attempts by result.",
		},
		[]string{"result"},
	)

	requestLogDrops = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "usage",
			Name:      "dropped_total",
			Help:      "API request log entries dropped because the buffer was full.",
		},
	)

	jobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job executions.",
		},
		[]string{"job", "success"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		rateLimitRejections,
		auditEntries,
		apiKeyVerifications,
		requestLogDrops,
		jobRuns,
	)
}

// Handler, /metrics endpoint'i için http.Handler döner.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP, tamamlanan bir HTTP isteğini kaydeder.
// route, ServeMux pattern'idir (ör. "GET /api/secure/assets/{id}"); kardinaliteyi sınırlı tutar.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordRateLimitRejection, scope: "client", "ip" veya "login".
func RecordRateLimitRejection(scope string) {
	rateLimitRejections.WithLabelValues(scope).Inc()
}

// RecordAuditEntry, yazılan audit satırını sayar.
func RecordAuditEntry(table, operation string) {
	auditEntries.WithLabelValues(table, operation).Inc()
}

// RecordAPIKeyVerification, result: "ok", "cache_hit", "invalid", "expired", "inactive".
func RecordAPIKeyVerification(result string) {
	apiKeyVerifications.WithLabelValues(result).Inc()
}

// RecordRequestLogDrop, buffer dolduğu için kaybedilen kullanım kaydını sayar.
func RecordRequestLogDrop() {
	requestLogDrops.Inc()
}

// RecordJobRun, cron işinin sonucunu kaydeder.
func RecordJobRun(job string, success bool) {
	jobRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
}
