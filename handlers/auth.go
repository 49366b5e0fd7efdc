package handlers

import (
	"net/http"
	"strconv"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/ratelimit"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// AuthHandler, admin paneli oturum endpoint'leri.
// Service interface'i ve rate limiter constructor'dan alınır (DI).
type AuthHandler struct {
	authService  services.AuthService
	loginLimiter *ratelimit.LoginRateLimiter
}

// NewAuthHandler, loginLimiter nil ise login rate limiting devre dışı kalır.
func NewAuthHandler(authService services.AuthService, loginLimiter *ratelimit.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		loginLimiter: loginLimiter,
	}
}

// Login godoc
// POST /api/auth/login
//
// IP bazlı brute-force koruması: pencere içinde izin verilen deneme sayısı
// aşılırsa 429 + Retry-After döner. Başarılı login sayacı sıfırlar.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ExtractIP(r)
	if h.loginLimiter != nil && !h.loginLimiter.Allow(ip) {
		retryAfter := h.loginLimiter.RetryAfterSeconds(ip)
		metrics.RecordRateLimitRejection("login")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		WriteMessage(w, r, http.StatusTooManyRequests, "auth.tooManyAttempts",
			map[string]string{"retry": ratelimit.FormatRetryMessage(retryAfter)})
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if h.loginLimiter != nil {
		h.loginLimiter.Reset(ip)
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Refresh godoc
// POST /api/auth/refresh
// Body: { "refresh_token": "..." }
// Eski refresh token geçersiz olur, yenisi döner.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, tokens)
}

// Logout godoc
// POST /api/auth/logout
// Body: { "refresh_token": "..." }
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		WriteError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me godoc
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, r, pkg.ErrUnauthorized)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// ChangePassword godoc
// POST /api/auth/change-password
// Body: { "current_password": "...", "new_password": "..." }
// Başarılı değişiklikte kullanıcının tüm oturumları kapanır.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, r, pkg.ErrUnauthorized)
		return
	}

	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), user.ID, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}
