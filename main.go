// Package main, FiloAPI backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi Dependency Injection "wire-up":
//  1. Config'i yükle, logger'ı kur
//  2. Database'i başlat (embedded migration'lar)
//  3. i18n çevirilerini yükle
//  4. WebSocket Hub'ı başlat
//  5. Rate limiter'ları ve repository'leri oluştur
//  6. Service'leri oluştur, gerekirse admin kullanıcıyı bootstrap et
//  7. Handler'ları ve route'ları kur
//  8. Zamanlanmış işleri başlat
//  9. CORS + request observability
//  10. HTTP Server'ı başlat
//  11. Graceful shutdown
//
// Global değişken YOK; her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/config"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/middleware"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/i18n"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/logger"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("[main] %v", err)
	}
}

func run() error {
	// ─── 1. Config + Logger ───
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)
	zl.Info("filoapi starting", zap.Int("port", cfg.Server.Port), zap.String("db_driver", cfg.Database.Driver))

	// ─── 2. Database ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to access embedded migrations: %w", err)
	}
	db, err := database.New(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, migrations, zl)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// ─── 3. i18n ───
	locales, err := fs.Sub(i18n.EmbeddedLocales, "locales")
	if err != nil {
		return fmt.Errorf("failed to access embedded locales: %w", err)
	}
	if err := i18n.Load(locales, zl); err != nil {
		return fmt.Errorf("failed to load i18n translations: %w", err)
	}

	// ─── 4. WebSocket Hub ───
	//
	// Hub, EventPublisher interface'ini implement eder; audit service
	// yeni kayıtları hub üzerinden admin bağlantılarına yayınlar.
	hub := ws.NewHub(zl)
	go hub.Run()

	// ─── 5. Limiters + Repositories ───
	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStart()

	limiters, err := initRateLimiters(startCtx, cfg, zl)
	if err != nil {
		return err
	}
	defer limiters.Close()

	repos := initRepositories(db.Conn)

	// ─── 6. Services ───
	svcs, err := initServices(db, repos, hub, limiters, cfg, zl)
	if err != nil {
		return err
	}
	svcs.Usage.Start()

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		created, err := svcs.Auth.BootstrapAdmin(startCtx, &models.CreateUserRequest{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			FullName: cfg.Admin.FullName,
		})
		if err != nil {
			return fmt.Errorf("failed to bootstrap admin user: %w", err)
		}
		if created {
			zl.Info("bootstrap admin created", zap.String("email", cfg.Admin.Email))
		}
	}

	// ─── 7. Handlers + Routes ───
	h := initHandlers(svcs, limiters, db, hub, cfg, zl)
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs, repos, limiters, cfg.RateLimit.DefaultPerMin, zl)

	// ─── 8. Scheduled Jobs ───
	scheduler, err := initJobs(repos, limiters, cfg, zl)
	if err != nil {
		return err
	}
	if scheduler != nil {
		scheduler.Start()
	}

	// ─── 9. CORS + Observability ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key", "Accept-Language", middleware.RequestIDHeader},
		ExposedHeaders: []string{
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset",
			"Retry-After", middleware.RequestIDHeader,
		},
		Debug: false,
	})

	handler := middleware.Observe(zl)(corsHandler.Handler(mux))

	// ─── 10. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 11. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}
	zl.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Önce yeni request kabulünü durdur, sonra kuyruktaki kullanım kayıtlarını yaz.
	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	svcs.Usage.Stop()
	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	hub.Shutdown()

	zl.Info("server stopped gracefully")
	return nil
}
