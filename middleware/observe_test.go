package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestObserve_RequestID(t *testing.T) {
	var seen string
	h := Observe(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = handlers.RequestID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set(RequestIDHeader, "trace-abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "trace-abc", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "trace-abc", seen)
	})
}

func TestObserve_RecoversPanic(t *testing.T) {
	h := Observe(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/secure/assets", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "internal server error", resp.Error)
}

func TestObserve_UsesMuxPattern(t *testing.T) {
	var pattern string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/secure/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		pattern = r.Pattern
	})

	w := httptest.NewRecorder()
	Observe(zap.NewNop())(mux).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/secure/assets/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET /api/secure/assets/{id}", pattern)
}

func TestUsage_RecordsStatusAndClient(t *testing.T) {
	rec := &recordingUsage{}
	mw := NewUsageMiddleware(rec)

	denied := mw.Record(RequirePermission("asset:write")(http.NotFoundHandler()))
	req := withClient(httptest.NewRequest(http.MethodPost, "/api/secure/assets", nil), testIdentity("asset:read"))
	req.RemoteAddr = "192.0.2.10:5000"
	denied.ServeHTTP(httptest.NewRecorder(), req)

	entries := rec.all()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "client-1", e.APIClientID)
	require.NotNil(t, e.APIKeyID)
	assert.Equal(t, "key-1", *e.APIKeyID)
	assert.Equal(t, http.MethodPost, e.Method)
	assert.Equal(t, "/api/secure/assets", e.Path)
	assert.Equal(t, http.StatusForbidden, e.StatusCode)
	require.NotNil(t, e.IPAddress)
	assert.Equal(t, "192.0.2.10", *e.IPAddress)
	assert.GreaterOrEqual(t, e.DurationMs, int64(0))
}

func TestUsage_SkipsWithoutClient(t *testing.T) {
	rec := &recordingUsage{}
	var called bool
	NewUsageMiddleware(rec).Record(ok(&called)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Empty(t, rec.all())
}

func TestStatusWriter_DefaultsTo200(t *testing.T) {
	w := httptest.NewRecorder()
	sw := newStatusWriter(w)
	_, err := sw.Write([]byte("ok"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, sw.status)
	assert.Same(t, sw, newStatusWriter(sw), "already wrapped writer is reused")
}
