package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveHTTP(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "GET /api/health", "200"))
	ObserveHTTP("GET", "GET /api/health", 200, 3*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "GET /api/health", "200"))

	assert.Equal(t, before+1, after)
}

func TestCounters(t *testing.T) {
	RecordRateLimitRejection("client")
	RecordAuditEntry("assets", "UPDATE")
	RecordAPIKeyVerification("invalid")
	RecordRequestLogDrop()
	RecordJobRun("audit_retention", true)

	assert.GreaterOrEqual(t, testutil.ToFloat64(rateLimitRejections.WithLabelValues("client")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(auditEntries.WithLabelValues("assets", "UPDATE")), 1.0)
	assert.GreaterOrEqual(t, testutil.ToFloat64(requestLogDrops), 1.0)
}

func TestHandler(t *testing.T) {
	ObserveHTTP("POST", "POST /api/auth/login", 401, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "filoapi_http_requests_total")
}
