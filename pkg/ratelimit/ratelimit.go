// Package ratelimit, rate limiting yapı taşlarını barındırır:
//
//   - LoginRateLimiter: admin login brute-force koruması (IP bazlı)
//   - Limiter (Memory / Redis): API client başına sabit pencere limiti
//   - IPThrottle: secure route'larda key tahminini yavaşlatan token bucket
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency);
// handlers ve middleware arasında import cycle oluşmaz.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// bucket, bir anahtar için pencere başlangıcı ve istek sayacı.
// Pencere süresi dolunca sayaç sıfırlanır (fixed window).
type bucket struct {
	count       int
	windowStart time.Time
}

// LoginRateLimiter, IP bazlı login rate limiting.
//
//	limiter := NewLoginRateLimiter(5, 2*time.Minute)
//	if !limiter.Allow(ip) { return 429 }
//	// başarılı login:
//	limiter.Reset(ip)
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter, limiter oluşturur ve süresi dolan bucket'ları
// dakikada bir temizleyen goroutine'i başlatır.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Allow, IP'nin login denemesine izin verilip verilmediğini döner.
// Her çağrı sayacı artırır; başarılı login'de Reset çağrılmalıdır.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists || now.Sub(b.windowStart) > rl.window {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP sayacını sıfırlar.
// Aksi halde meşru kullanıcı sonraki girişlerinde bloke olabilir.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, Retry-After header'ı için kalan bekleme süresi.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (rl *LoginRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *LoginRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, HTTP request'ten client IP adresini çıkarır.
//
// Öncelik: X-Forwarded-For (ilk değer) → X-Real-IP → RemoteAddr.
// Uygulama genellikle nginx/Caddy arkasında çalışır; RemoteAddr proxy'nin IP'sidir.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
// 120 → "2 minute(s)", 45 → "45 second(s)"
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
