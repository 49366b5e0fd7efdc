package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countRows(t *testing.T, env *testEnv, table string) int {
	t.Helper()
	var n int
	require.NoError(t, env.db.Conn.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestUsageWriter_DrainsOnStop(t *testing.T) {
	env := newTestEnv(t)
	w := NewUsageWriter(repository.NewSQLiteUsageRepo(env.db.Conn), 16, zap.NewNop())
	w.Start()

	for i := 0; i < 5; i++ {
		w.Record(&models.RequestLog{APIClientID: "c-1", Method: "GET", Path: "/api/secure/cities", StatusCode: 200})
	}
	w.Stop()
	w.Stop()

	assert.Equal(t, 5, countRows(t, env, "api_request_logs"))

	// Durdurulmuş writer kayıt almaz
	w.Record(&models.RequestLog{APIClientID: "c-1", Method: "GET", Path: "/x", StatusCode: 200})
	assert.Equal(t, 5, countRows(t, env, "api_request_logs"))
}

func TestUsageWriter_DropsWhenFull(t *testing.T) {
	env := newTestEnv(t)
	w := NewUsageWriter(repository.NewSQLiteUsageRepo(env.db.Conn), 1, zap.NewNop())

	// Start çağrılmadan kuyruk tek kayıtta dolar
	for i := 0; i < 3; i++ {
		w.Record(&models.RequestLog{APIClientID: "c-1", Method: "GET", Path: "/api/secure/assets", StatusCode: 200})
	}
	w.Stop()

	assert.Equal(t, 1, countRows(t, env, "api_request_logs"))
}

func TestJobScheduler_InvalidSchedule(t *testing.T) {
	_, err := NewJobScheduler("not a cron", []Job{{Name: "x", Run: func(context.Context) (int64, error) { return 0, nil }}}, zap.NewNop())
	assert.Error(t, err)
}

func TestJobScheduler_RunAllContinuesAfterFailure(t *testing.T) {
	var ran []string
	jobs := []Job{
		{Name: "fails", Run: func(context.Context) (int64, error) { ran = append(ran, "fails"); return 0, errors.New("boom") }},
		{Name: "works", Schedule: "@every 1h", Run: func(context.Context) (int64, error) { ran = append(ran, "works"); return 3, nil }},
	}
	s, err := NewJobScheduler("0 3 * * *", jobs, zap.NewNop())
	require.NoError(t, err)

	s.RunAll(context.Background())
	assert.Equal(t, []string{"fails", "works"}, ran)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestRetentionJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	usageRepo := repository.NewSQLiteUsageRepo(env.db.Conn)
	sessionRepo := repository.NewSQLiteSessionRepo(env.db.Conn)
	userRepo := repository.NewSQLiteUserRepo(env.db.Conn)

	old := now().AddDate(0, 0, -120)
	for _, at := range []time.Time{old, now()} {
		entry, err := NewAuditEntry(ctx, "cities", "x", models.AuditInsert, nil, map[string]any{"name": "x"})
		require.NoError(t, err)
		entry.CreatedAt = at
		require.NoError(t, env.auditRepo.Create(ctx, entry))

		require.NoError(t, usageRepo.Create(ctx, &models.RequestLog{
			ID: uuid.NewString(), APIClientID: "c-1", Method: "GET", Path: "/", StatusCode: 200, CreatedAt: at,
		}))
	}

	u := &models.User{ID: uuid.NewString(), Email: "a@b.co", FullName: "A", PasswordHash: "x", IsActive: true, CreatedAt: now(), UpdatedAt: now()}
	require.NoError(t, userRepo.Create(ctx, u))
	require.NoError(t, sessionRepo.Create(ctx, &models.Session{
		ID: uuid.NewString(), UserID: u.ID, RefreshToken: "expired", ExpiresAt: now().Add(-time.Hour), CreatedAt: old,
	}))

	jobs := RetentionJobs(env.auditRepo, usageRepo, sessionRepo, 90, 30)
	require.Len(t, jobs, 3)

	affected := map[string]int64{}
	for _, j := range jobs {
		n, err := j.Run(ctx)
		require.NoError(t, err, j.Name)
		affected[j.Name] = n
	}
	assert.Equal(t, map[string]int64{"audit_retention": 1, "request_log_retention": 1, "session_purge": 1}, affected)
	assert.Equal(t, 1, countRows(t, env, "audit_logs"))
	assert.Equal(t, 1, countRows(t, env, "api_request_logs"))

	assert.Len(t, RetentionJobs(env.auditRepo, usageRepo, sessionRepo, 0, 0), 1, "only session purge without retention days")
}
