package services

import (
	"context"
	"testing"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/apikey"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/cache"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clientFixture struct {
	*testEnv
	svc      APIClientService
	keys     repository.APIKeyRepository
	usage    repository.UsageRepository
	verified *cache.TTLCache[string, *models.APIClientIdentity]
	mailer   *recordingMailer
}

func newClientFixture(t *testing.T) *clientFixture {
	t.Helper()
	env := newTestEnv(t)
	verified := cache.New[string, *models.APIClientIdentity](time.Minute, time.Minute)
	t.Cleanup(verified.Close)

	keyRepo := repository.NewSQLiteAPIKeyRepo(env.db.Conn)
	usageRepo := repository.NewSQLiteUsageRepo(env.db.Conn)
	mailer := newRecordingMailer()
	svc := NewAPIClientService(
		repository.NewSQLiteAPIClientRepo(env.db.Conn), keyRepo, usageRepo,
		env.audit, mailer, verified, time.Minute, 60, zap.NewNop(),
	)
	return &clientFixture{testEnv: env, svc: svc, keys: keyRepo, usage: usageRepo, verified: verified, mailer: mailer}
}

func (f *clientFixture) createClient(t *testing.T, perms ...string) *models.APIClient {
	t.Helper()
	c, err := f.svc.Create(context.Background(), "", &models.CreateAPIClientRequest{
		Name: "Partner " + uuid.NewString()[:8], ContactEmail: strPtr("Ops@Partner.io"), Permissions: perms,
	})
	require.NoError(t, err)
	return c
}

func (f *clientFixture) createKey(t *testing.T, clientID string) *models.CreatedAPIKey {
	t.Helper()
	k, err := f.svc.CreateKey(context.Background(), clientID, &models.CreateAPIKeyRequest{Name: strPtr("prod")})
	require.NoError(t, err)
	return k
}

func (f *clientFixture) expectMail(t *testing.T, want string) {
	t.Helper()
	select {
	case got := <-f.mailer.sent:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("expected mail %q", want)
	}
}

func TestAPIClient_CreateDefaults(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t, "Asset:Read", "asset:read", "personnel:*")

	assert.Equal(t, 60, c.RateLimitPerMinute)
	assert.Equal(t, []string{"asset:read", "personnel:*"}, c.Permissions)
	require.NotNil(t, c.ContactEmail)
	assert.Equal(t, "ops@partner.io", *c.ContactEmail)

	got, err := f.svc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Permissions, got.Permissions)
	assert.Empty(t, got.Keys)

	_, err = f.svc.Create(context.Background(), "", &models.CreateAPIClientRequest{Name: "X", Permissions: []string{"asset:delete"}})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAPIClient_KeyLifecycle(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t, "asset:read")
	ctx := context.Background()

	created := f.createKey(t, c.ID)
	assert.Contains(t, created.Key, "fk_"+created.KeyPrefix+"_")
	f.expectMail(t, "created:ops@partner.io")

	identity, err := f.svc.Verify(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, c.ID, identity.ClientID)
	assert.Equal(t, created.ID, identity.KeyID)
	assert.True(t, identity.Permissions.Has("asset:read"))
	assert.False(t, identity.Permissions.Has("asset:write"))
	assert.Equal(t, 1, f.verified.Len())

	key, err := f.keys.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, key.LastUsedAt)

	require.NoError(t, f.svc.RevokeKey(ctx, c.ID, created.ID))
	f.expectMail(t, "revoked:ops@partner.io")
	assert.Zero(t, f.verified.Len(), "revoked key is dropped from the cache")

	_, err = f.svc.Verify(ctx, created.Key)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	assert.Equal(t, []string{models.AuditInsert, models.AuditDelete}, f.operations(t, "api_keys", created.ID))
}

func TestAPIClient_VerifyRejects(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t)
	ctx := context.Background()

	for _, raw := range []string{"", "not-a-key", "fk_zzzzzzzz_" + "00000000000000000000000000000000"} {
		_, err := f.svc.Verify(ctx, raw)
		assert.ErrorIs(t, err, pkg.ErrUnauthorized, raw)
	}

	created := f.createKey(t, c.ID)
	gen, err := apikey.Generate()
	require.NoError(t, err)
	forged := "fk_" + created.KeyPrefix + gen.Raw[len("fk_")+8:]
	_, err = f.svc.Verify(ctx, forged)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized, "right prefix, wrong secret")
}

func TestAPIClient_DeactivateInvalidatesCache(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t, "asset:read")
	ctx := context.Background()
	created := f.createKey(t, c.ID)

	_, err := f.svc.Verify(ctx, created.Key)
	require.NoError(t, err)

	got, err := f.svc.Deactivate(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Zero(t, f.verified.Len())

	_, err = f.svc.Verify(ctx, created.Key)
	assert.ErrorIs(t, err, pkg.ErrUnauthorized)

	_, err = f.svc.CreateKey(ctx, c.ID, &models.CreateAPIKeyRequest{})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = f.svc.Deactivate(ctx, c.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAPIClient_SetPermissionsRefreshesIdentity(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t, "asset:read")
	ctx := context.Background()
	created := f.createKey(t, c.ID)

	_, err := f.svc.Verify(ctx, created.Key)
	require.NoError(t, err)

	updated, err := f.svc.SetPermissions(ctx, c.ID, &models.SetPermissionsRequest{Permissions: []string{"asset:*", "city:read"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"asset:*", "city:read"}, updated.Permissions)
	require.Len(t, updated.Keys, 1)

	identity, err := f.svc.Verify(ctx, created.Key)
	require.NoError(t, err)
	assert.True(t, identity.Permissions.Has("asset:write"))

	trail := f.auditTrail(t, "api_clients", c.ID)
	require.Len(t, trail, 2)
	assert.Contains(t, string(trail[1].ChangedFields), "permissions")
}

func TestAPIClient_RevokeOtherClientsKey(t *testing.T) {
	f := newClientFixture(t)
	a := f.createClient(t)
	b := f.createClient(t)
	key := f.createKey(t, a.ID)

	err := f.svc.RevokeKey(context.Background(), b.ID, key.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAPIClient_Usage(t *testing.T) {
	f := newClientFixture(t)
	c := f.createClient(t)
	ctx := context.Background()

	for _, status := range []int{200, 200, 404} {
		require.NoError(t, f.usage.Create(ctx, &models.RequestLog{
			ID: uuid.NewString(), APIClientID: c.ID, Method: "GET",
			Path: "/api/secure/assets", StatusCode: status, DurationMs: 10, CreatedAt: now(),
		}))
	}

	stats, err := f.svc.Usage(ctx, c.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRequests)
	assert.Equal(t, 2, stats.ByStatusClass["2xx"])
	assert.Equal(t, 1, stats.ByStatusClass["4xx"])

	from := now()
	to := from.Add(-time.Hour)
	_, err = f.svc.Usage(ctx, c.ID, &from, &to)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = f.svc.Usage(ctx, "missing", nil, nil)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}
