package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPThrottle, IP başına token bucket. API key doğrulamasından önce çalışır;
// bcrypt karşılaştırmasını tetikleyen key tahmin denemelerini yavaşlatır.
type IPThrottle struct {
	mu       sync.Mutex
	limiters map[string]*ipEntry
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
}

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPThrottle, saniyede perSecond token ve burst kapasitesi ile throttle oluşturur.
func NewIPThrottle(perSecond float64, burst int) *IPThrottle {
	return &IPThrottle{
		limiters: make(map[string]*ipEntry),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

// Allow, IP için bir token tüketmeye çalışır.
func (t *IPThrottle) Allow(ip string) bool {
	now := time.Now()

	t.mu.Lock()
	e, ok := t.limiters[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.limiters[ip] = e
	}
	e.lastSeen = now
	t.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Cleanup, idleTTL boyunca görülmeyen IP'leri siler. Cron işi periyodik çağırır.
func (t *IPThrottle) Cleanup() int {
	cutoff := time.Now().Add(-t.idleTTL)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for ip, e := range t.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(t.limiters, ip)
			removed++
		}
	}
	return removed
}

// Len, takip edilen IP sayısı.
func (t *IPThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.limiters)
}
