package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// AuditRepository, audit_logs tablosu. Kayıtlar sadece eklenir; silme yalnızca retention job'u ile.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	GetByID(ctx context.Context, id string) (*models.AuditLog, error)
	List(ctx context.Context, f models.AuditFilter, p models.ListParams) ([]models.AuditLog, int, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	WithTx(q database.TxQuerier) AuditRepository
}

var AuditSortable = []string{"created_at", "table_name", "operation"}

// UsageRepository, secure istek log'ları (api_request_logs).
type UsageRepository interface {
	Create(ctx context.Context, entry *models.RequestLog) error
	Stats(ctx context.Context, clientID string, from, to time.Time) (*models.UsageStats, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
	WithTx(q database.TxQuerier) UsageRepository
}
