// Package main, HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - auth: JWT token doğrulaması
//   - admin: auth + is_admin kontrolü
//   - secure: API key + kullanım kaydı + izin + client rate limit
package main

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/middleware"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/static"
	"go.uber.org/zap"
)

// entityRoute, hem secure hem admin altında aynı CRUD handler'ı ile açılan kaynak.
type entityRoute struct {
	path     string
	resource string
	h        handlers.CRUD
}

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: literal path'ler ({id} gibi) parametrik path'lerle
// çakışmaz; Go 1.22+ ServeMux en spesifik pattern'i seçer.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	svcs *Services,
	repos *Repositories,
	limiters *RateLimiters,
	defaultRateLimit int,
	logger *zap.Logger,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(svcs.Auth, repos.User)
	apiKeyMw := middleware.NewAPIKeyMiddleware(svcs.APIClient, limiters.IP, logger)
	usageMw := middleware.NewUsageMiddleware(svcs.Usage)
	rateMw := middleware.NewRateLimitMiddleware(limiters.Client, defaultRateLimit, logger)

	// ─── Middleware Chain Helpers ───
	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(handler)
	}
	admin := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMw.Require, authMw.RequireAdmin)
	}
	// Kullanım kaydı izin ve limit kontrolünden önce; 403 ve 429 da loglanır.
	secure := func(perm string, handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler,
			apiKeyMw.Require,
			usageMw.Record,
			middleware.RequirePermission(perm),
			rateMw.Limit,
		)
	}

	// ╔══════════════════════════════════════════╗
	// ║  PUBLIC                                  ║
	// ╚══════════════════════════════════════════╝

	mux.HandleFunc("GET /api/health", h.Health.Health)
	mux.HandleFunc("GET /api/ready", h.Health.Ready)
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)
	mux.Handle("GET /api/auth/me", auth(h.Auth.Me))
	mux.Handle("POST /api/auth/change-password", auth(h.Auth.ChangePassword))

	// WebSocket, token query parametresi ile doğrulanır (tarayıcı header gönderemez).
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// ╔══════════════════════════════════════════╗
	// ║  ENTITY ROUTES (secure + admin)          ║
	// ╚══════════════════════════════════════════╝

	entities := []entityRoute{
		{"cities", "city", h.City},
		{"car-models", "car_model", h.CarModel},
		{"companies", "company", h.Company},
		{"work-areas", "work_area", h.WorkArea},
		{"personnel", "personnel", h.Personnel},
		{"assets", "asset", h.Asset},
		{"asset-assignments", "assignment", h.Assignment},
	}
	for _, k := range models.LookupKinds {
		entities = append(entities, entityRoute{k.Slug, k.Resource, h.Lookup.For(k)})
	}

	for _, e := range entities {
		read := e.resource + ":read"
		write := e.resource + ":write"
		secureBase := "/api/secure/" + e.path
		adminBase := "/api/admin/" + e.path

		mux.Handle("GET "+secureBase, secure(read, e.h.List))
		mux.Handle("GET "+secureBase+"/{id}", secure(read, e.h.Get))
		mux.Handle("POST "+secureBase, secure(write, e.h.Create))
		mux.Handle("PATCH "+secureBase+"/{id}", secure(write, e.h.Update))
		mux.Handle("DELETE "+secureBase+"/{id}", secure(write, e.h.Delete))

		mux.Handle("GET "+adminBase, admin(e.h.List))
		mux.Handle("GET "+adminBase+"/{id}", admin(e.h.Get))
		mux.Handle("POST "+adminBase, admin(e.h.Create))
		mux.Handle("PATCH "+adminBase+"/{id}", admin(e.h.Update))
		mux.Handle("DELETE "+adminBase+"/{id}", admin(e.h.Delete))
		mux.Handle("POST "+adminBase+"/{id}/restore", admin(e.h.Restore))
	}

	// Katalog listesi: hangi lookup slug'ları mevcut.
	mux.Handle("GET /api/secure/lookups", middleware.Chain(http.HandlerFunc(h.Lookup.Kinds),
		apiKeyMw.Require, usageMw.Record, rateMw.Limit))
	mux.Handle("GET /api/admin/lookups", admin(h.Lookup.Kinds))

	// Atama ilişkileri
	for _, base := range []string{"/api/secure", "/api/admin"} {
		wrap := func(perm string, handler http.HandlerFunc) http.Handler {
			if base == "/api/admin" {
				return admin(handler)
			}
			return secure(perm, handler)
		}
		mux.Handle("GET "+base+"/assets/{id}/assignments", wrap("assignment:read", h.Assignment.ListByAsset))
		mux.Handle("GET "+base+"/personnel/{id}/assignments", wrap("assignment:read", h.Assignment.ListByPersonnel))
		mux.Handle("POST "+base+"/asset-assignments/{id}/end", wrap("assignment:write", h.Assignment.End))
	}

	// TC kimlik no sadece admin'e açılır.
	mux.Handle("GET /api/admin/personnel/{id}/national-id", admin(h.Personnel.RevealNationalID))

	// ╔══════════════════════════════════════════╗
	// ║  ADMIN MANAGEMENT                        ║
	// ╚══════════════════════════════════════════╝

	// Users
	mux.Handle("GET /api/admin/users", admin(h.User.List))
	mux.Handle("POST /api/admin/users", admin(h.User.Create))
	mux.Handle("GET /api/admin/users/{id}", admin(h.User.Get))
	mux.Handle("PATCH /api/admin/users/{id}", admin(h.User.Update))
	mux.Handle("DELETE /api/admin/users/{id}", admin(h.User.Deactivate))

	// API clients
	mux.Handle("GET /api/admin/api-clients", admin(h.APIClient.List))
	mux.Handle("POST /api/admin/api-clients", admin(h.APIClient.Create))
	mux.Handle("GET /api/admin/api-clients/{id}", admin(h.APIClient.Get))
	mux.Handle("PATCH /api/admin/api-clients/{id}", admin(h.APIClient.Update))
	mux.Handle("DELETE /api/admin/api-clients/{id}", admin(h.APIClient.Deactivate))
	mux.Handle("PUT /api/admin/api-clients/{id}/permissions", admin(h.APIClient.SetPermissions))
	mux.Handle("POST /api/admin/api-clients/{id}/keys", admin(h.APIClient.CreateKey))
	mux.Handle("DELETE /api/admin/api-clients/{id}/keys/{keyId}", admin(h.APIClient.RevokeKey))
	mux.Handle("GET /api/admin/api-clients/{id}/usage", admin(h.APIClient.Usage))

	// Audit
	mux.Handle("GET /api/admin/audit-logs", admin(h.Audit.List))
	mux.Handle("GET /api/admin/audit-logs/{id}", admin(h.Audit.Get))

	// ─── Admin paneli ve API explorer (catch-all) ───
	mux.Handle("/", static.Handler())
}
