package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result, tek bir Allow çağrısının sonucu. Middleware bu değerlerden
// X-RateLimit-* ve Retry-After header'larını üretir.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter, reddedilen istek için beklenecek süre (en az 1 saniye).
func (r Result) RetryAfter(now time.Time) time.Duration {
	d := r.ResetAt.Sub(now)
	if d < time.Second {
		return time.Second
	}
	return d
}

// Limiter, anahtar başına sabit pencere (fixed window) sayacı.
// Memory ve Redis backend'leri bu interface'i karşılar.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error)
}

// windowStart, t'nin içinde bulunduğu pencerenin başlangıcı.
// Pencereler epoch'a hizalıdır; aynı dakika içindeki tüm istekler aynı sayacı paylaşır
// ve birden fazla instance aynı pencere sınırlarını hesaplar.
func windowStart(t time.Time, window time.Duration) time.Time {
	return t.Truncate(window)
}

// MemoryLimiter, tek instance deploy için in-memory Limiter.
// LoginRateLimiter ile aynı bucket + periyodik temizlik yapısını kullanır.
type MemoryLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*bucket
	now         func() time.Time
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewMemoryLimiter, limiter oluşturur; cleanupInterval'da bir eski pencereleri siler.
func NewMemoryLimiter(cleanupInterval time.Duration) *MemoryLimiter {
	m := &MemoryLimiter{
		buckets:     make(map[string]*bucket),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.cleanup()
			case <-m.stopCleanup:
				return
			}
		}
	}()

	return m
}

// Allow, key için sayacı artırır ve limiti kontrol eder. Hiçbir zaman error dönmez.
func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := m.now()
	start := windowStart(now, window)

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || !b.windowStart.Equal(start) {
		b = &bucket{windowStart: start}
		m.buckets[key] = b
	}
	b.count++

	return buildResult(b.count, limit, start.Add(window)), nil
}

// Close, temizleme goroutine'ini durdurur.
func (m *MemoryLimiter) Close() {
	m.stopOnce.Do(func() { close(m.stopCleanup) })
}

// cleanup, mevcut pencereden eski bucket'ları siler.
// Pencere uzunluğu bucket'ta tutulmadığı için en uzun pencere (1 saat) varsayılır.
func (m *MemoryLimiter) cleanup() {
	cutoff := m.now().Add(-time.Hour)

	m.mu.Lock()
	defer m.mu.Unlock()

	for key, b := range m.buckets {
		if b.windowStart.Before(cutoff) {
			delete(m.buckets, key)
		}
	}
}

func buildResult(count, limit int, resetAt time.Time) Result {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
