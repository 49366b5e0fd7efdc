package handlers

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// contextKey, context'te değer taşımak için kullanılan key tipi.
//
// Go'da context.Value() any tip kabul eder; string key kullanmak çakışmaya neden olabilir.
// Özel bir tip tanımlayarak namespace collision'ı önleriz.
type contextKey string

const (
	// UserContextKey, JWT ile doğrulanmış admin kullanıcı (*models.User).
	UserContextKey contextKey = "user"

	// ClientContextKey, API key ile doğrulanmış client (*models.APIClientIdentity).
	ClientContextKey contextKey = "api_client"

	// RequestIDContextKey, istek başına üretilen kimlik (string).
	RequestIDContextKey contextKey = "request_id"
)

// UserFromContext, auth middleware'ın eklediği kullanıcıyı döner.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*models.User)
	return u, ok && u != nil
}

// ClientFromContext, API key middleware'ın eklediği client kimliğini döner.
func ClientFromContext(ctx context.Context) (*models.APIClientIdentity, bool) {
	c, ok := ctx.Value(ClientContextKey).(*models.APIClientIdentity)
	return c, ok && c != nil
}

// RequestID, istek kimliği; yoksa boş string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}
