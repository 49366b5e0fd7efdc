package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

type sqliteAuditRepo struct {
	db database.TxQuerier
	t  table[models.AuditLog]
}

var auditTable = table[models.AuditLog]{
	name:   "audit_logs",
	entity: "audit log",
	columns: []string{
		"id", "table_name", "record_id", "operation", "old_values", "new_values",
		"changed_fields", "user_id", "api_client_id", "ip_address", "user_agent", "created_at",
	},
}

func NewSQLiteAuditRepo(db database.TxQuerier) AuditRepository {
	return &sqliteAuditRepo{db: db, t: auditTable}
}

func (r *sqliteAuditRepo) WithTx(q database.TxQuerier) AuditRepository {
	return &sqliteAuditRepo{db: q, t: r.t}
}

func (r *sqliteAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.t.insert(ctx, r.db, entry)
}

func (r *sqliteAuditRepo) GetByID(ctx context.Context, id string) (*models.AuditLog, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteAuditRepo) List(ctx context.Context, f models.AuditFilter, p models.ListParams) ([]models.AuditLog, int, error) {
	// audit_logs'ta is_active yok; newListQuery yerine boş sorgu
	q := &listQuery{table: r.t.name}
	q.eq("table_name", f.TableName)
	q.eq("record_id", f.RecordID)
	q.eq("operation", f.Operation)
	q.eq("user_id", f.UserID)
	q.eq("api_client_id", f.APIClientID)
	q.timeRange("created_at", f.From, f.To)
	return selectPage[models.AuditLog](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteAuditRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM audit_logs WHERE created_at < ?`), before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old audit logs: %w", err)
	}
	return res.RowsAffected()
}

// ─── Usage ───

type sqliteUsageRepo struct {
	db database.TxQuerier
}

func NewSQLiteUsageRepo(db database.TxQuerier) UsageRepository {
	return &sqliteUsageRepo{db: db}
}

func (r *sqliteUsageRepo) WithTx(q database.TxQuerier) UsageRepository {
	return &sqliteUsageRepo{db: q}
}

func (r *sqliteUsageRepo) Create(ctx context.Context, entry *models.RequestLog) error {
	query := `
		INSERT INTO api_request_logs (id, api_client_id, api_key_id, method, path, status_code, duration_ms, ip_address, created_at)
		VALUES (:id, :api_client_id, :api_key_id, :method, :path, :status_code, :duration_ms, :ip_address, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, entry); err != nil {
		return fmt.Errorf("failed to write request log: %w", err)
	}
	return nil
}

// Stats, üç toplama sorgusu: genel toplam, durum sınıfı dağılımı ve en çok çağrılan 10 path.
func (r *sqliteUsageRepo) Stats(ctx context.Context, clientID string, from, to time.Time) (*models.UsageStats, error) {
	const where = ` FROM api_request_logs WHERE api_client_id = ? AND created_at >= ? AND created_at <= ?`
	args := []any{clientID, from, to}

	stats := &models.UsageStats{
		ClientID:      clientID,
		From:          from,
		To:            to,
		ByStatusClass: map[string]int{},
		TopPaths:      []models.PathCount{},
	}

	var totals struct {
		Total int     `db:"total"`
		Avg   float64 `db:"avg_ms"`
	}
	query := r.db.Rebind(`SELECT COUNT(*) AS total, COALESCE(CAST(AVG(duration_ms) AS DOUBLE PRECISION), 0) AS avg_ms` + where)
	if err := sqlx.GetContext(ctx, r.db, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("failed to compute usage totals: %w", err)
	}
	stats.TotalRequests = totals.Total
	stats.AvgDurationMs = totals.Avg

	if totals.Total == 0 {
		return stats, nil
	}

	var classes []struct {
		Class int `db:"class"`
		Count int `db:"count"`
	}
	query = r.db.Rebind(`SELECT status_code / 100 AS class, COUNT(*) AS count` + where + ` GROUP BY status_code / 100`)
	if err := sqlx.SelectContext(ctx, r.db, &classes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to compute status classes: %w", err)
	}
	for _, c := range classes {
		stats.ByStatusClass[strconv.Itoa(c.Class)+"xx"] = c.Count
	}

	query = r.db.Rebind(`SELECT path, COUNT(*) AS count` + where + ` GROUP BY path ORDER BY count DESC, path LIMIT 10`)
	if err := sqlx.SelectContext(ctx, r.db, &stats.TopPaths, query, args...); err != nil {
		return nil, fmt.Errorf("failed to compute top paths: %w", err)
	}

	return stats, nil
}

func (r *sqliteUsageRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM api_request_logs WHERE created_at < ?`), before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old request logs: %w", err)
	}
	return res.RowsAffected()
}
