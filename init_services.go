// Package main, service katmanı ve paylaşılan altyapı (limiter, cache, email) başlatma.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/config"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/cache"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/crypto"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/email"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Audit      services.AuditService
	Auth       services.AuthService
	User       services.UserService
	APIClient  services.APIClientService
	Lookup     services.LookupService
	City       services.CityService
	CarModel   services.CarModelService
	Company    services.CompanyService
	WorkArea   services.WorkAreaService
	Personnel  services.PersonnelService
	Asset      services.AssetService
	Assignment services.AssignmentService
	Usage      *services.UsageWriter
}

// RateLimiters, uygulama genelinde paylaşılan limiter'lar.
type RateLimiters struct {
	Login    *ratelimit.LoginRateLimiter
	Client   ratelimit.Limiter
	IP       *ratelimit.IPThrottle
	memory   *ratelimit.MemoryLimiter // backend memory ise, Close için
	redis    *redis.Client
	verified *cache.TTLCache[string, *models.APIClientIdentity]
}

// Close, arka plan goroutine'lerini ve bağlantıları kapatır.
func (l *RateLimiters) Close() {
	l.Login.Close()
	if l.memory != nil {
		l.memory.Close()
	}
	if l.redis != nil {
		_ = l.redis.Close()
	}
	if l.verified != nil {
		l.verified.Close()
	}
}

// initRateLimiters, RATE_LIMIT_BACKEND'e göre client limiter'ını seçer.
// Redis'e başlangıçta ulaşılamazsa hata döner; çalışma anındaki Redis hataları
// middleware'da fail-open ele alınır.
func initRateLimiters(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RateLimiters, error) {
	l := &RateLimiters{
		Login: ratelimit.NewLoginRateLimiter(cfg.RateLimit.LoginAttempts, time.Duration(cfg.RateLimit.LoginWindowMin)*time.Minute),
		IP:    ratelimit.NewIPThrottle(cfg.RateLimit.IPRatePerSecond, cfg.RateLimit.IPBurst),
	}

	switch cfg.RateLimit.Backend {
	case "redis":
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			l.Login.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		l.redis = client
		l.Client = ratelimit.NewRedisLimiter(client)
		logger.Info("rate limit backend: redis", zap.String("addr", cfg.Redis.Addr))
	default:
		l.memory = ratelimit.NewMemoryLimiter(time.Minute)
		l.Client = l.memory
		logger.Info("rate limit backend: memory")
	}

	return l, nil
}

// initMailer, RESEND_API_KEY yoksa bildirimleri sadece loglayan sender döner.
func initMailer(cfg *config.Config, logger *zap.Logger) email.EmailSender {
	if cfg.Email.ResendAPIKey == "" || cfg.Email.FromEmail == "" {
		logger.Info("email notifications disabled (RESEND_API_KEY or RESEND_FROM not set)")
		return email.NewNoopSender(logger)
	}
	return email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromEmail, cfg.Email.AppURL)
}

// initServices, service'leri repository'ler ve altyapı ile oluşturur.
func initServices(
	db *database.DB,
	repos *Repositories,
	hub *ws.Hub,
	limiters *RateLimiters,
	cfg *config.Config,
	logger *zap.Logger,
) (*Services, error) {
	encKey, err := crypto.DeriveKey(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ENCRYPTION_KEY: %w", err)
	}

	cacheTTL := time.Duration(cfg.Security.APIKeyCacheTTL) * time.Second
	limiters.verified = cache.New[string, *models.APIClientIdentity](cacheTTL, time.Minute)

	audit := services.NewAuditService(db.Conn, repos.Audit, hub, logger)

	return &Services{
		Audit: audit,
		Auth: services.NewAuthService(
			repos.User, repos.Session, audit,
			cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
			logger,
		),
		User: services.NewUserService(repos.User, repos.Session, audit),
		APIClient: services.NewAPIClientService(
			repos.APIClient, repos.APIKey, repos.Usage, audit,
			initMailer(cfg, logger), limiters.verified, cacheTTL,
			cfg.RateLimit.DefaultPerMin, logger,
		),
		Lookup:     services.NewLookupService(repos.Lookup, audit),
		City:       services.NewCityService(repos.City, audit),
		CarModel:   services.NewCarModelService(repos.CarModel, audit),
		Company:    services.NewCompanyService(repos.Company, audit),
		WorkArea:   services.NewWorkAreaService(repos.WorkArea, audit),
		Personnel:  services.NewPersonnelService(repos.Personnel, audit, encKey, logger),
		Asset:      services.NewAssetService(repos.Asset, repos.Assignment, audit),
		Assignment: services.NewAssignmentService(repos.Assignment, repos.Asset, repos.Personnel, audit),
		Usage:      services.NewUsageWriter(repos.Usage, cfg.Audit.RequestLogBuffer, logger),
	}, nil
}
