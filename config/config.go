// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Her alt bölüm ayrı bir struct; servisler sadece ihtiyaç duydukları
// bölümü alır (ör. RateLimitConfig sadece rate limiter'a geçer).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Security  SecurityConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Email     EmailConfig
	Audit     AuditConfig
	Jobs      JobsConfig
	Log       LogConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string // Virgülle ayrılmış liste, "*" tüm origin'ler
}

// DatabaseConfig, veritabanı ayarları.
//
// Driver "sqlite" (varsayılan, modernc.org/sqlite) veya "pgx" (PostgreSQL) olabilir.
// sqlite için DSN dosya yoludur, pgx için postgres:// URL'i.
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// JWTConfig, admin paneli JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı, GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// SecurityConfig, şifreleme ve API key doğrulama ayarları.
type SecurityConfig struct {
	EncryptionKey  string // 64 hex karakter (AES-256), personel TC kimlik no şifrelemesi
	APIKeyCacheTTL int    // Saniye; doğrulanmış API key'lerin bellekte tutulma süresi
}

// AdminConfig, ilk açılışta oluşturulacak admin hesabı.
// Her ikisi de boşsa bootstrap atlanır.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// RateLimitConfig, API client rate limit ayarları.
type RateLimitConfig struct {
	Backend         string  // "memory" veya "redis"
	DefaultPerMin   int     // Client'a özel limit yoksa kullanılır
	IPRatePerSecond float64 // Secure route'larda IP başına token bucket hızı
	IPBurst         int
	LoginAttempts   int // Login brute-force koruması: pencere başına deneme
	LoginWindowMin  int
}

// RedisConfig, Redis bağlantı ayarları (rate limit backend'i redis ise).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EmailConfig, Resend email ayarları. APIKey boşsa bildirimler gönderilmez.
type EmailConfig struct {
	ResendAPIKey string
	FromEmail    string
	AppURL       string
}

// AuditConfig, audit ve istek log'u saklama süreleri.
type AuditConfig struct {
	RetentionDays           int
	RequestLogRetentionDays int
	RequestLogBuffer        int
}

// JobsConfig, arka plan cron işleri.
type JobsConfig struct {
	Enabled  bool
	Schedule string // cron ifadesi, varsayılan her gece 03:00
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json veya console
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// Dosya yoksa hata vermez; production'da gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	p := &parser{}

	port := p.int("SERVER_PORT", 8080)
	maxOpen := p.int("DATABASE_MAX_OPEN_CONNS", 10)
	accessExpiry := p.int("JWT_ACCESS_EXPIRY_MINUTES", 15)
	refreshExpiry := p.int("JWT_REFRESH_EXPIRY_DAYS", 7)
	keyCacheTTL := p.int("API_KEY_CACHE_TTL_SECONDS", 60)
	defaultPerMin := p.int("RATE_LIMIT_DEFAULT_PER_MINUTE", 100)
	ipRate := p.float("RATE_LIMIT_IP_PER_SECOND", 20)
	ipBurst := p.int("RATE_LIMIT_IP_BURST", 40)
	loginAttempts := p.int("LOGIN_RATE_LIMIT_ATTEMPTS", 5)
	loginWindow := p.int("LOGIN_RATE_LIMIT_WINDOW_MINUTES", 2)
	redisDB := p.int("REDIS_DB", 0)
	auditRetention := p.int("AUDIT_RETENTION_DAYS", 365)
	requestLogRetention := p.int("REQUEST_LOG_RETENTION_DAYS", 30)
	requestLogBuffer := p.int("REQUEST_LOG_BUFFER", 1024)
	jobsEnabled := p.bool("JOBS_ENABLED", true)
	if p.err != nil {
		return nil, p.err
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	encryptionKey := getEnv("ENCRYPTION_KEY", "")
	if len(encryptionKey) != 64 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be 64 hex characters")
	}

	driver := getEnv("DATABASE_DRIVER", "sqlite")
	if driver != "sqlite" && driver != "pgx" {
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q (sqlite or pgx)", driver)
	}

	backend := getEnv("RATE_LIMIT_BACKEND", "memory")
	if backend != "memory" && backend != "redis" {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BACKEND %q (memory or redis)", backend)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        port,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		},
		Database: DatabaseConfig{
			Driver:       driver,
			DSN:          getEnv("DATABASE_DSN", "./data/filo.db"),
			MaxOpenConns: maxOpen,
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		Security: SecurityConfig{
			EncryptionKey:  encryptionKey,
			APIKeyCacheTTL: keyCacheTTL,
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			FullName: getEnv("ADMIN_FULL_NAME", "Administrator"),
		},
		RateLimit: RateLimitConfig{
			Backend:         backend,
			DefaultPerMin:   defaultPerMin,
			IPRatePerSecond: ipRate,
			IPBurst:         ipBurst,
			LoginAttempts:   loginAttempts,
			LoginWindowMin:  loginWindow,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromEmail:    getEnv("RESEND_FROM", ""),
			AppURL:       getEnv("APP_URL", "http://localhost:8080"),
		},
		Audit: AuditConfig{
			RetentionDays:           auditRetention,
			RequestLogRetentionDays: requestLogRetention,
			RequestLogBuffer:        requestLogBuffer,
		},
		Jobs: JobsConfig{
			Enabled:  jobsEnabled,
			Schedule: getEnv("JOBS_SCHEDULE", "0 3 * * *"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:8080").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// parser, sayısal env variable'ları okur; ilk hatayı saklar.
// Her alan için ayrı if err != nil bloğu yazmamak için.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
