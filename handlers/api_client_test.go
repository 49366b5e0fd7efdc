package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database/dbtest"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/cache"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/email"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newClientMux(t *testing.T) *http.ServeMux {
	t.Helper()
	db := dbtest.New(t)
	audit := services.NewAuditService(db.Conn, repository.NewSQLiteAuditRepo(db.Conn), ws.NewHub(zap.NewNop()), zap.NewNop())
	verified := cache.New[string, *models.APIClientIdentity](time.Minute, time.Minute)
	t.Cleanup(verified.Close)

	svc := services.NewAPIClientService(
		repository.NewSQLiteAPIClientRepo(db.Conn), repository.NewSQLiteAPIKeyRepo(db.Conn),
		repository.NewSQLiteUsageRepo(db.Conn), audit, email.NewNoopSender(zap.NewNop()),
		verified, time.Minute, 60, zap.NewNop(),
	)
	h := NewAPIClientHandler(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /clients", h.List)
	mux.HandleFunc("POST /clients", h.Create)
	mux.HandleFunc("GET /clients/{id}", h.Get)
	mux.HandleFunc("PATCH /clients/{id}", h.Update)
	mux.HandleFunc("DELETE /clients/{id}", h.Deactivate)
	mux.HandleFunc("PUT /clients/{id}/permissions", h.SetPermissions)
	mux.HandleFunc("POST /clients/{id}/keys", h.CreateKey)
	mux.HandleFunc("DELETE /clients/{id}/keys/{keyId}", h.RevokeKey)
	mux.HandleFunc("GET /clients/{id}/usage", h.Usage)
	return mux
}

func TestAPIClientHandler_KeyShownOnce(t *testing.T) {
	mux := newClientMux(t)

	w := do(mux, http.MethodPost, "/clients", map[string]any{"name": "Partner", "permissions": []string{"asset:read"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	client := decodeAs[models.APIClient](t, w).Data
	assert.Equal(t, 60, client.RateLimitPerMinute)
	assert.Equal(t, []string{"asset:read"}, client.Permissions)

	// Body yoksa da key oluşur
	w = do(mux, http.MethodPost, "/clients/"+client.ID+"/keys", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeAs[models.CreatedAPIKey](t, w)
	assert.True(t, strings.HasPrefix(created.Data.Key, "fk_"+created.Data.KeyPrefix+"_"))
	assert.NotEmpty(t, created.Message)

	w = do(mux, http.MethodGet, "/clients/"+client.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), created.Data.Key)
	assert.NotContains(t, w.Body.String(), "key_hash")
	require.Len(t, decodeAs[models.APIClient](t, w).Data.Keys, 1)

	w = do(mux, http.MethodDelete, "/clients/"+client.ID+"/keys/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound,
		do(mux, http.MethodDelete, "/clients/"+client.ID+"/keys/does-not-exist", nil).Code)
}

func TestAPIClientHandler_Errors(t *testing.T) {
	mux := newClientMux(t)
	w := do(mux, http.MethodPost, "/clients", map[string]any{"name": "Partner"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeAs[models.APIClient](t, w).Data.ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
	}{
		{"duplicate name", http.MethodPost, "/clients", map[string]any{"name": "Partner"}, http.StatusConflict},
		{"bad permission", http.MethodPut, "/clients/" + id + "/permissions", map[string]any{"permissions": []string{"asset"}}, http.StatusBadRequest},
		{"bad rate limit", http.MethodPatch, "/clients/" + id, map[string]any{"rate_limit_per_minute": 0}, http.StatusBadRequest},
		{"unknown client", http.MethodGet, "/clients/nope", nil, http.StatusNotFound},
		{"bad usage range", http.MethodGet, "/clients/" + id + "/usage?from=yesterday", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(mux, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestAPIClientHandler_UsageEmpty(t *testing.T) {
	mux := newClientMux(t)
	w := do(mux, http.MethodPost, "/clients", map[string]any{"name": "Partner"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeAs[models.APIClient](t, w).Data.ID

	w = do(mux, http.MethodGet, "/clients/"+id+"/usage", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeAs[models.UsageStats](t, w).Data
	assert.Equal(t, id, stats.ClientID)
	assert.Zero(t, stats.TotalRequests)
}
