// Package cache, generic, thread-safe in-memory TTL cache.
//
// Kullanım alanı: doğrulanmış API key'leri (SHA-256 → client + izinler)
// kısa süre bellekte tutmak. Böylece her secure istekte bcrypt karşılaştırması
// ve iki DB sorgusu yapılmaz. Key iptali veya izin değişikliğinde ilgili
// entry'ler Delete/DeleteFunc ile düşürülür.
//
// Süresi dolan entry Get tarafından döndürülmez; fiziksel silme periyodik yapılır.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, K → V eşlemesi; her entry ttl sonra geçersiz olur.
//
//	c := cache.New[string, *models.APIClientIdentity](time.Minute, 5*time.Minute)
//	c.Set(apikey.CacheKey(raw), identity)
//	identity, ok := c.Get(apikey.CacheKey(raw))
type TTLCache[K comparable, V any] struct {
	mu          sync.RWMutex
	entries     map[K]entry[V]
	ttl         time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// New, cache oluşturur ve cleanupInterval'da bir süresi dolanları silen goroutine başlatır.
// cleanupInterval ttl'den kısa tutulursa map gereksiz büyümez.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stopCleanup:
				return
			}
		}
	}()

	return c
}

// Get, key varsa ve süresi dolmamışsa (value, true) döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, değeri cache'in varsayılan TTL'i ile yazar.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL, değeri verilen TTL ile yazar.
// API key'in kendi expires_at'i cache TTL'inden yakınsa bu kullanılır.
func (c *TTLCache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete, tek bir key'i siler.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// DeleteFunc, predicate'in true döndüğü tüm entry'leri siler.
// Bir client'ın tüm key'lerini düşürmek için value üzerinden eşleşme gerekir.
func (c *TTLCache[K, V]) DeleteFunc(predicate func(key K, value V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if predicate(key, e.value) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear, tüm cache'i boşaltır.
func (c *TTLCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]entry[V])
}

// Len, süresi dolmuşlar dahil entry sayısı.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (c *TTLCache[K, V]) Close() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
