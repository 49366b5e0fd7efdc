// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Her middleware func(next http.Handler) http.Handler biçimindedir; işini yapar,
// sonra next'i çağırır. Hata varsa next çağrılmaz ve istek burada biter.
//
// Admin paneli zinciri:  Auth.Require → Auth.RequireAdmin → handler
// Secure API zinciri:    APIKey.Require → Usage.Record → RequirePermission → RateLimit.Limit → handler
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// AuthMiddleware, admin paneli JWT doğrulaması.
type AuthMiddleware struct {
	authService services.AuthService
	userRepo    repository.UserRepository
}

func NewAuthMiddleware(authService services.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		userRepo:    userRepo,
	}
}

// Require, JWT token zorunlu kılar. Header formatı: Authorization: Bearer <token>
//
// Token geçerli olsa bile kullanıcı DB'den tekrar okunur; pasif edilmiş
// kullanıcının elindeki token süresi dolana kadar çalışmamalıdır.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "authorization header required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			return
		}

		claims, err := m.authService.ValidateAccessToken(tokenString)
		if err != nil {
			handlers.WriteError(w, r, err)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found or inactive")
			return
		}

		// Password hash context'te taşınmaz
		user.PasswordHash = ""

		ctx := context.WithValue(r.Context(), handlers.UserContextKey, user)
		ctx = actor.With(ctx, actor.Actor{
			UserID:    user.ID,
			IP:        ratelimit.ExtractIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin, Require'dan SONRA çalışır; is_admin false ise 403.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := handlers.UserFromContext(r.Context())
		if !ok {
			pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
			return
		}

		if !user.IsAdmin {
			pkg.ErrorWithMessage(w, http.StatusForbidden, "admin access required")
			return
		}

		next.ServeHTTP(w, r)
	})
}
