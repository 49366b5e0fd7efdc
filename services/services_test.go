package services

import (
	"context"
	"sync"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/database/dbtest"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/email"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Seed'deki sabit kayıtlar
const (
	seedCountryID = "c0000000-0000-0000-0000-000000000001"
	seedCarTypeID = "c1000000-0000-0000-0000-000000000001"
)

// recordingHub, yayınlanan event'leri biriktirir.
type recordingHub struct {
	mu     sync.Mutex
	events []ws.Event
}

func (h *recordingHub) BroadcastToAll(e ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHub) ConnectionCount() int { return 0 }

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

// recordingMailer, gönderilen bildirimleri channel'a yazar; gönderim goroutine'de olur.
type recordingMailer struct {
	sent chan string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan string, 8)}
}

func (m *recordingMailer) SendAPIKeyCreated(_ context.Context, to string, _ email.KeyNotice) error {
	m.sent <- "created:" + to
	return nil
}

func (m *recordingMailer) SendAPIKeyRevoked(_ context.Context, to string, _ email.KeyNotice) error {
	m.sent <- "revoked:" + to
	return nil
}

type testEnv struct {
	db        *database.DB
	hub       *recordingHub
	audit     AuditService
	auditRepo repository.AuditRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	hub := &recordingHub{}
	auditRepo := repository.NewSQLiteAuditRepo(db.Conn)
	return &testEnv{
		db:        db,
		hub:       hub,
		audit:     NewAuditService(db.Conn, auditRepo, hub, zap.NewNop()),
		auditRepo: auditRepo,
	}
}

// auditTrail, bir kaydın audit satırlarını eskiden yeniye döner.
func (e *testEnv) auditTrail(t *testing.T, table, recordID string) []models.AuditLog {
	t.Helper()
	items, _, err := e.auditRepo.List(context.Background(),
		models.AuditFilter{TableName: table, RecordID: recordID},
		models.ListParams{Page: 1, Limit: 100, SortBy: "created_at", SortOrder: "asc"})
	require.NoError(t, err)
	return items
}

func (e *testEnv) operations(t *testing.T, table, recordID string) []string {
	t.Helper()
	var ops []string
	for _, a := range e.auditTrail(t, table, recordID) {
		ops = append(ops, a.Operation)
	}
	return ops
}

func asUser(userID string) context.Context {
	return actor.With(context.Background(), actor.Actor{UserID: userID, IP: "10.0.0.1", UserAgent: "test"})
}

func asClient(clientID string) context.Context {
	return actor.With(context.Background(), actor.Actor{APIClientID: clientID, IP: "10.0.0.2"})
}

func strPtr(s string) *string { return &s }

func listParams() models.ListParams {
	return models.ListParams{Page: 1, Limit: 20, SortBy: "created_at", Filters: map[string]string{}}
}
