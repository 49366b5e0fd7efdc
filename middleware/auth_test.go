package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database/dbtest"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/handlers"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	mw    *AuthMiddleware
	auth  services.AuthService
	users services.UserService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := dbtest.New(t)
	userRepo := repository.NewSQLiteUserRepo(db.Conn)
	sessionRepo := repository.NewSQLiteSessionRepo(db.Conn)
	audit := services.NewAuditService(db.Conn, repository.NewSQLiteAuditRepo(db.Conn), ws.NewHub(zap.NewNop()), zap.NewNop())
	auth := services.NewAuthService(userRepo, sessionRepo, audit, "test-secret-0123456789abcdef", 15, 7, zap.NewNop())

	return &authFixture{
		mw:    NewAuthMiddleware(auth, userRepo),
		auth:  auth,
		users: services.NewUserService(userRepo, sessionRepo, audit),
	}
}

// login, kullanıcıyı oluşturup access token döner.
func (f *authFixture) login(t *testing.T, email string, admin bool) (string, *models.User) {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Create(ctx, &models.CreateUserRequest{
		Email: email, FullName: "Test User", Password: "s3cret-pass", IsAdmin: admin,
	})
	require.NoError(t, err)

	tokens, err := f.auth.Login(ctx, &models.LoginRequest{Email: email, Password: "s3cret-pass"})
	require.NoError(t, err)
	return tokens.AccessToken, u
}

func TestAuth_Require(t *testing.T) {
	f := newAuthFixture(t)
	token, _ := f.login(t, "ops@filo.test", false)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			f.mw.Require(ok(&called)).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
		})
	}
}

func TestAuth_RequireSetsUserWithoutHash(t *testing.T) {
	f := newAuthFixture(t)
	token, u := f.login(t, "ops@filo.test", false)

	var got *models.User
	var who actor.Actor
	h := f.mw.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = handlers.UserFromContext(r.Context())
		who = actor.From(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
	assert.Equal(t, u.ID, who.UserID)
	assert.Empty(t, who.APIClientID)
}

func TestAuth_RequireRejectsDeactivatedUser(t *testing.T) {
	f := newAuthFixture(t)
	_, admin := f.login(t, "admin@filo.test", true)
	token, u := f.login(t, "ops@filo.test", false)

	_, err := f.users.Deactivate(context.Background(), admin.ID, u.ID)
	require.NoError(t, err)

	var called bool
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.mw.Require(ok(&called)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}

func TestAuth_RequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	adminToken, _ := f.login(t, "admin@filo.test", true)
	opsToken, _ := f.login(t, "ops@filo.test", false)

	chain := func(called *bool) http.Handler {
		return Chain(ok(called), f.mw.Require, f.mw.RequireAdmin)
	}

	for _, tt := range []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"admin", adminToken, http.StatusOK},
		{"non admin", opsToken, http.StatusForbidden},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			chain(&called).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
		})
	}
}

func TestAuth_RequireAdminWithoutUser(t *testing.T) {
	f := newAuthFixture(t)
	var called bool
	w := httptest.NewRecorder()
	f.mw.RequireAdmin(ok(&called)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
