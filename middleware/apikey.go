package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/apikey"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"go.uber.org/zap"
)

// KeyVerifier, ham API key'i client kimliğine çevirir. services.APIClientService karşılar.
type KeyVerifier interface {
	Verify(ctx context.Context, raw string) (*models.APIClientIdentity, error)
}

// APIKeyMiddleware, secure route'larda API key doğrulaması.
//
// Key iki header'dan okunur:
//
//	X-API-Key: fk_xxxxxxxx_...
//	Authorization: ApiKey fk_xxxxxxxx_...
//
// Doğrulamadan önce IP throttle çalışır; bcrypt karşılaştırması pahalı
// olduğu için tahmin denemeleri burada yavaşlatılır.
type APIKeyMiddleware struct {
	verifier KeyVerifier
	throttle *ratelimit.IPThrottle
	logger   *zap.Logger
}

// NewAPIKeyMiddleware, throttle nil ise IP throttle devre dışıdır.
func NewAPIKeyMiddleware(verifier KeyVerifier, throttle *ratelimit.IPThrottle, logger *zap.Logger) *APIKeyMiddleware {
	return &APIKeyMiddleware{verifier: verifier, throttle: throttle, logger: logger.Named("apikey")}
}

func (m *APIKeyMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ratelimit.ExtractIP(r)
		if m.throttle != nil && !m.throttle.Allow(ip) {
			metrics.RecordRateLimitRejection("ip")
			w.Header().Set("Retry-After", "1")
			handlers.WriteMessage(w, r, http.StatusTooManyRequests, "errors.rateLimited", nil)
			return
		}

		raw := keyFromRequest(r)
		if raw == "" {
			handlers.WriteMessage(w, r, http.StatusUnauthorized, "auth.missingApiKey", nil)
			return
		}

		identity, err := m.verifier.Verify(r.Context(), raw)
		if err != nil {
			m.logger.Debug("api key rejected", zap.String("key", apikey.Mask(raw)), zap.String("ip", ip), zap.Error(err))
			handlers.WriteMessage(w, r, http.StatusUnauthorized, "auth.invalidApiKey", nil)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.ClientContextKey, identity)
		ctx = actor.With(ctx, actor.Actor{
			APIClientID: identity.ClientID,
			APIKeyID:    identity.KeyID,
			IP:          ip,
			UserAgent:   r.UserAgent(),
		})
		next.ServeHTTP(w, stripInactive(r.WithContext(ctx)))
	})
}

func keyFromRequest(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get(apikey.HeaderName)); k != "" {
		return k
	}
	if k, ok := strings.CutPrefix(r.Header.Get("Authorization"), "ApiKey "); ok {
		return strings.TrimSpace(k)
	}
	return ""
}

// stripInactive, include_inactive parametresini siler. Pasif kayıtları görmek
// admin paneline özeldir; API client'lar sadece aktif kayıtları görür.
// URL kopyalanır, orijinal request'in URL'i paylaşıldığı için değiştirilmez.
func stripInactive(r *http.Request) *http.Request {
	q := r.URL.Query()
	if !q.Has("include_inactive") {
		return r
	}
	q.Del("include_inactive")

	u := *r.URL
	u.RawQuery = q.Encode()
	r.URL = &u
	return r
}
