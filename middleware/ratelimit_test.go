package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		granted    []string
		required   string
		wantStatus int
	}{
		{"exact", []string{"asset:read"}, "asset:read", http.StatusOK},
		{"resource wildcard", []string{"asset:*"}, "asset:write", http.StatusOK},
		{"data action wildcard", []string{"data:read"}, "personnel:read", http.StatusOK},
		{"global wildcard", []string{"*"}, "company:write", http.StatusOK},
		{"write does not imply read", []string{"asset:write"}, "asset:read", http.StatusForbidden},
		{"other resource", []string{"asset:read"}, "personnel:read", http.StatusForbidden},
		{"no permissions", nil, "city:read", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			req := withClient(httptest.NewRequest(http.MethodGet, "/", nil), testIdentity(tt.granted...))
			w := httptest.NewRecorder()
			RequirePermission(tt.required)(ok(&called)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
		})
	}
}

func TestRequirePermission_DeniedDetails(t *testing.T) {
	req := withClient(httptest.NewRequest(http.MethodPost, "/", nil), testIdentity("asset:read"))
	w := httptest.NewRecorder()
	var called bool
	RequirePermission("asset:write")(ok(&called)).ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "insufficient permissions", resp.Error)

	raw, err := json.Marshal(resp.Details)
	require.NoError(t, err)
	assert.JSONEq(t, `{"required":"asset:write"}`, string(raw))
}

func TestRequirePermission_NoClient(t *testing.T) {
	var called bool
	w := httptest.NewRecorder()
	RequirePermission("asset:read")(ok(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

// exerciseLimit, limit 2 olan client ile üç istek gönderir.
func exerciseLimit(t *testing.T, limiter ratelimit.Limiter) {
	t.Helper()
	mw := NewRateLimitMiddleware(limiter, 100, zap.NewNop())

	send := func() *httptest.ResponseRecorder {
		var called bool
		req := withClient(httptest.NewRequest(http.MethodGet, "/api/secure/assets", nil), testIdentity("*"))
		w := httptest.NewRecorder()
		mw.Limit(ok(&called)).ServeHTTP(w, req)
		return w
	}

	first := send()
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	reset, err := strconv.ParseInt(first.Header().Get("X-RateLimit-Reset"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, reset, time.Now().Add(-time.Second).Unix())

	second := send()
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := send()
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	retry, err := strconv.Atoi(third.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retry, 1)
	assert.LessOrEqual(t, retry, 60)
	assert.False(t, decode(t, third).Success)
}

func TestRateLimit_Memory(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(time.Minute)
	t.Cleanup(limiter.Close)
	exerciseLimit(t, limiter)
}

func TestRateLimit_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseLimit(t, ratelimit.NewRedisLimiter(client))
}

func TestRateLimit_DefaultLimitWhenUnset(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(time.Minute)
	t.Cleanup(limiter.Close)
	mw := NewRateLimitMiddleware(limiter, 7, zap.NewNop())

	id := testIdentity("*")
	id.RateLimitPerMinute = 0
	var called bool
	w := httptest.NewRecorder()
	mw.Limit(ok(&called)).ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/", nil), id))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_FailOpen(t *testing.T) {
	mw := NewRateLimitMiddleware(failingLimiter{}, 100, zap.NewNop())

	var called bool
	w := httptest.NewRecorder()
	mw.Limit(ok(&called)).ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/", nil), testIdentity("*")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_ClientsAreIsolated(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(time.Minute)
	t.Cleanup(limiter.Close)
	mw := NewRateLimitMiddleware(limiter, 100, zap.NewNop())

	a := testIdentity("*")
	a.RateLimitPerMinute = 1
	b := testIdentity("*")
	b.ClientID = "client-2"
	b.RateLimitPerMinute = 1

	var called bool
	for _, step := range []struct {
		client *models.APIClientIdentity
		want   int
	}{{a, http.StatusOK}, {a, http.StatusTooManyRequests}, {b, http.StatusOK}} {
		w := httptest.NewRecorder()
		mw.Limit(ok(&called)).ServeHTTP(w, withClient(httptest.NewRequest(http.MethodGet, "/", nil), step.client))
		assert.Equal(t, step.want, w.Code)
	}
}
