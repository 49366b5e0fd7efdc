package middleware

import (
	"net/http"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// UsageMiddleware, doğrulanmış her secure isteği api_request_logs'a bırakır.
// APIKeyMiddleware'den hemen SONRA çalışır; 403 ve 429 yanıtları da kaydedilir.
// Yazım UsageRecorder üzerinden asenkrondur, istek beklemez.
type UsageMiddleware struct {
	recorder services.UsageRecorder
}

func NewUsageMiddleware(recorder services.UsageRecorder) *UsageMiddleware {
	return &UsageMiddleware{recorder: recorder}
}

func (m *UsageMiddleware) Record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, ok := handlers.ClientFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		ip := ratelimit.ExtractIP(r)
		keyID := client.KeyID
		m.recorder.Record(&models.RequestLog{
			APIClientID: client.ClientID,
			APIKeyID:    &keyID,
			Method:      r.Method,
			Path:        r.URL.Path,
			StatusCode:  sw.status,
			DurationMs:  time.Since(start).Milliseconds(),
			IPAddress:   &ip,
		})
	})
}
