package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter, birden fazla instance arasında paylaşılan sabit pencere limiti.
//
// Anahtar: <prefix><key>:<pencere başlangıcı unix>. INCR ile sayaç artırılır,
// aynı pipeline'da EXPIRE ile pencere bitince anahtarın silinmesi sağlanır.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisLimiter, mevcut bir client ile limiter oluşturur.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "rl:", now: time.Now}
}

// NewRedisClient, adres/şifre/DB ile client açar ve bağlantıyı test eder.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// Allow, Limiter implementasyonu. Redis hatasında error döner;
// fail-open kararı çağıran middleware'e aittir.
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	start := windowStart(r.now(), window)
	redisKey := r.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("redis rate limit: %w", err)
	}

	return buildResult(int(incr.Val()), limit, start.Add(window)), nil
}
