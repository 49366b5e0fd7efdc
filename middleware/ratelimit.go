package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"go.uber.org/zap"
)

// RateLimitMiddleware, API client başına dakikalık sabit pencere limiti.
//
// Limit client'ın rate_limit_per_minute ayarıdır; 0 ise defaultLimit.
// Her yanıtta X-RateLimit-* header'ları yazılır. Backend hatasında istek
// geçirilir (fail-open) ve hata loglanır.
type RateLimitMiddleware struct {
	limiter      ratelimit.Limiter
	defaultLimit int
	window       time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, defaultLimit int, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter:      limiter,
		defaultLimit: defaultLimit,
		window:       time.Minute,
		logger:       logger.Named("ratelimit"),
		now:          time.Now,
	}
}

func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, ok := handlers.ClientFromContext(r.Context())
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "api client not found in context")
			return
		}

		limit := client.RateLimitPerMinute
		if limit <= 0 {
			limit = m.defaultLimit
		}

		res, err := m.limiter.Allow(r.Context(), "client:"+client.ClientID, limit, m.window)
		if err != nil {
			m.logger.Error("rate limiter unavailable, allowing request",
				zap.String("client_id", client.ClientID), zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

		if !res.Allowed {
			retry := int(res.RetryAfter(m.now()).Round(time.Second) / time.Second)
			metrics.RecordRateLimitRejection("client")
			h.Set("Retry-After", strconv.Itoa(retry))
			handlers.WriteMessage(w, r, http.StatusTooManyRequests, "errors.rateLimited", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
