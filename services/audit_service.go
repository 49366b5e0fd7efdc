// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturur; iş kuralları burada yaşar.
// Service http.Request bilmez, sadece domain modelleri ve context.Context alır.
// Doğrudan SQL çalıştırmaz, repository interface'lerini kullanır.
//
// Her mutasyon AuditService.InTx içinde çalışır: kayıt değişikliği ve audit
// satırı aynı transaction'da yazılır, commit sonrası admin paneline yayınlanır.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/ws"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
)

// Recorder, transaction içinde bir audit satırı ekler.
// oldV INSERT'te, newV hiçbir zaman nil olmaz (DELETE de yeni durumu taşır: is_active=false).
type Recorder func(table, recordID, operation string, oldV, newV any) error

// AuditService, audit kayıtlarını yazar ve listeler.
type AuditService interface {
	// InTx, fn'i bir transaction içinde çalıştırır. fn'in rec ile eklediği
	// satırlar aynı transaction'da yazılır; commit sonrası yayınlanır.
	InTx(ctx context.Context, fn func(tx *sqlx.Tx, rec Recorder) error) error
	List(ctx context.Context, f models.AuditFilter, p models.ListParams) (*models.Page[models.AuditLog], error)
	GetByID(ctx context.Context, id string) (*models.AuditLog, error)
}

// sensitiveFields, json:"-" ile zaten gizlenen alanlara ek güvence.
var sensitiveFields = []string{"password_hash", "key_hash", "national_id_enc", "national_id_hash", "refresh_token"}

// ignoredFields, changed_fields hesabında atlanır.
var ignoredFields = []string{"created_at", "updated_at"}

type auditService struct {
	db     *sqlx.DB
	repo   repository.AuditRepository
	hub    ws.EventPublisher
	logger *zap.Logger
}

func NewAuditService(db *sqlx.DB, repo repository.AuditRepository, hub ws.EventPublisher, logger *zap.Logger) AuditService {
	return &auditService{db: db, repo: repo, hub: hub, logger: logger.Named("audit")}
}

func (s *auditService) InTx(ctx context.Context, fn func(tx *sqlx.Tx, rec Recorder) error) error {
	var entries []*models.AuditLog

	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := s.repo.WithTx(tx)
		rec := func(table, recordID, operation string, oldV, newV any) error {
			entry, err := NewAuditEntry(ctx, table, recordID, operation, oldV, newV)
			if err != nil {
				return err
			}
			if err := repo.Create(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
			return nil
		}
		return fn(tx, rec)
	})
	if err != nil {
		return err
	}

	for _, e := range entries {
		metrics.RecordAuditEntry(e.TableName, e.Operation)
		s.logger.Debug("audit entry written",
			zap.String("table", e.TableName), zap.String("record_id", e.RecordID), zap.String("operation", e.Operation))
		if s.hub != nil {
			s.hub.BroadcastToAll(ws.Event{Op: ws.OpAuditCreated, Data: e})
		}
	}
	return nil
}

func (s *auditService) List(ctx context.Context, f models.AuditFilter, p models.ListParams) (*models.Page[models.AuditLog], error) {
	items, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, p), nil
}

func (s *auditService) GetByID(ctx context.Context, id string) (*models.AuditLog, error) {
	return s.repo.GetByID(ctx, id)
}

// NewAuditEntry, iki snapshot'tan audit satırı kurar. Actor context'ten okunur.
func NewAuditEntry(ctx context.Context, table, recordID, operation string, oldV, newV any) (*models.AuditLog, error) {
	oldMap, err := snapshot(oldV)
	if err != nil {
		return nil, err
	}
	newMap, err := snapshot(newV)
	if err != nil {
		return nil, err
	}

	changed, err := json.Marshal(ChangedFields(oldMap, newMap))
	if err != nil {
		return nil, fmt.Errorf("failed to encode changed fields: %w", err)
	}

	entry := &models.AuditLog{
		ID:            uuid.NewString(),
		TableName:     table,
		RecordID:      recordID,
		Operation:     operation,
		ChangedFields: types.JSONText(changed),
		CreatedAt:     now(),
	}
	if entry.OldValues, err = encodeSnapshot(oldMap); err != nil {
		return nil, err
	}
	if entry.NewValues, err = encodeSnapshot(newMap); err != nil {
		return nil, err
	}

	a := actor.From(ctx)
	entry.UserID = optional(a.UserID)
	entry.APIClientID = optional(a.APIClientID)
	entry.IPAddress = optional(a.IP)
	entry.UserAgent = optional(a.UserAgent)

	return entry, nil
}

// snapshot, v'yi JSON üzerinden map'e çevirir ve hassas alanları siler.
func snapshot(v any) (map[string]any, error) {
	if v == nil || (reflect.ValueOf(v).Kind() == reflect.Ptr && reflect.ValueOf(v).IsNil()) {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit snapshot: %w", err)
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode audit snapshot: %w", err)
	}
	for _, f := range sensitiveFields {
		delete(m, f)
	}
	return m, nil
}

func encodeSnapshot(m map[string]any) (models.RawJSON, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	return models.RawJSON(raw), nil
}

// ChangedFields, iki snapshot arasında değeri farklı olan anahtarları sıralı döner.
// Bir tarafta olmayan anahtar değişmiş sayılır.
func ChangedFields(oldMap, newMap map[string]any) []string {
	keys := make(map[string]struct{}, len(oldMap)+len(newMap))
	for k := range oldMap {
		keys[k] = struct{}{}
	}
	for k := range newMap {
		keys[k] = struct{}{}
	}

	changed := []string{}
	for k := range keys {
		if contains(ignoredFields, k) {
			continue
		}
		ov, inOld := oldMap[k]
		nv, inNew := newMap[k]
		if inOld != inNew || !reflect.DeepEqual(ov, nv) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

// ─── Ortak yardımcılar ───

// now, DB'ye yazılan zaman damgaları: UTC, mikrosaniye hassasiyet (Postgres TIMESTAMP ile aynı).
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
