package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader, istemci gönderirse aynen kullanılır, yoksa üretilir.
const RequestIDHeader = "X-Request-ID"

// Observe, en dış middleware: request id atar, paniği yakalar, isteği loglar
// ve Prometheus metriklerini kaydeder.
//
// Route label'ı ServeMux pattern'idir (r.Pattern). Mux pattern'i kendisine
// verilen request'e yazar; bu yüzden mux'a geçen request pointer'ı saklanır.
func Observe(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			r = r.WithContext(context.WithValue(r.Context(), handlers.RequestIDContextKey, reqID))
			sw := newStatusWriter(w)

			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("request_id", reqID),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					if !sw.wroteHeader {
						pkg.ErrorWithMessage(sw, http.StatusInternalServerError, "internal server error")
					} else {
						sw.status = http.StatusInternalServerError
					}
				}

				d := time.Since(start)
				metrics.ObserveHTTP(r.Method, r.Pattern, sw.status, d)

				fields := []zap.Field{
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", sw.status),
					zap.Duration("duration", d),
					zap.String("request_id", reqID),
				}
				switch {
				case sw.status >= 500:
					logger.Error("request", fields...)
				case sw.status >= 400:
					logger.Warn("request", fields...)
				default:
					logger.Debug("request", fields...)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// Chain, middleware'ları soldan sağa sarar: Chain(h, a, b) → a(b(h)).
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
