package middleware

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
)

// PermissionDenied, 403 yanıtının details alanı.
type PermissionDenied struct {
	Required string `json:"required"`
}

// RequirePermission, APIKeyMiddleware'den SONRA çalışır. Client'ın izinleri
// perm'i karşılamıyorsa 403 döner; eksik izin details'te belirtilir.
//
// Bu pattern "middleware factory" olarak bilinir:
//
//	RequirePermission("asset:write")(http.HandlerFunc(assetHandler.Create))
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, ok := handlers.ClientFromContext(r.Context())
			if !ok {
				pkg.ErrorWithMessage(w, http.StatusUnauthorized, "api client not found in context")
				return
			}

			if !client.Permissions.Has(perm) {
				pkg.ErrorWithDetails(w, http.StatusForbidden, "insufficient permissions", PermissionDenied{Required: perm})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
