package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

type sqliteAPIClientRepo struct {
	db database.TxQuerier
	t  table[models.APIClient]
}

var apiClientTable = table[models.APIClient]{
	name:   "api_clients",
	entity: "api client",
	columns: []string{
		"id", "name", "description", "contact_email", "owner_user_id",
		"rate_limit_per_minute", "is_active", "created_at", "updated_at",
	},
	immutable: []string{"created_at", "owner_user_id"},
	unique:    "api client name already in use",
}

func NewSQLiteAPIClientRepo(db database.TxQuerier) APIClientRepository {
	return &sqliteAPIClientRepo{db: db, t: apiClientTable}
}

func (r *sqliteAPIClientRepo) WithTx(q database.TxQuerier) APIClientRepository {
	return &sqliteAPIClientRepo{db: q, t: r.t}
}

func (r *sqliteAPIClientRepo) Create(ctx context.Context, client *models.APIClient) error {
	return r.t.insert(ctx, r.db, client)
}

func (r *sqliteAPIClientRepo) GetByID(ctx context.Context, id string) (*models.APIClient, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteAPIClientRepo) List(ctx context.Context, p models.ListParams) ([]models.APIClient, int, error) {
	q := newListQuery("api_clients", p)
	q.search(p.Search, "name", "contact_email")
	return selectPage[models.APIClient](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteAPIClientRepo) Update(ctx context.Context, client *models.APIClient) error {
	return r.t.update(ctx, r.db, client.ID, client)
}

func (r *sqliteAPIClientRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

func (r *sqliteAPIClientRepo) GetPermissions(ctx context.Context, clientID string) ([]string, error) {
	perms := []string{}
	query := r.db.Rebind(`SELECT permission FROM api_client_permissions WHERE client_id = ? ORDER BY permission`)
	if err := sqlx.SelectContext(ctx, r.db, &perms, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to get permissions: %w", err)
	}
	return perms, nil
}

func (r *sqliteAPIClientRepo) SetPermissions(ctx context.Context, clientID string, perms []string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM api_client_permissions WHERE client_id = ?`), clientID); err != nil {
		return fmt.Errorf("failed to clear permissions: %w", err)
	}

	insert := r.db.Rebind(`INSERT INTO api_client_permissions (client_id, permission, created_at) VALUES (?, ?, ?)`)
	for _, p := range perms {
		if _, err := r.db.ExecContext(ctx, insert, clientID, p, at); err != nil {
			return mapWriteError(err, "api client permission", "duplicate permission")
		}
	}
	return nil
}

type sqliteAPIKeyRepo struct {
	db database.TxQuerier
	t  table[models.APIKey]
}

var apiKeyTable = table[models.APIKey]{
	name:   "api_keys",
	entity: "api key",
	columns: []string{
		"id", "client_id", "name", "key_prefix", "key_hash", "expires_at",
		"last_used_at", "is_active", "revoked_at", "created_at",
	},
	unique: "api key prefix collision",
}

func NewSQLiteAPIKeyRepo(db database.TxQuerier) APIKeyRepository {
	return &sqliteAPIKeyRepo{db: db, t: apiKeyTable}
}

func (r *sqliteAPIKeyRepo) WithTx(q database.TxQuerier) APIKeyRepository {
	return &sqliteAPIKeyRepo{db: q, t: r.t}
}

func (r *sqliteAPIKeyRepo) Create(ctx context.Context, key *models.APIKey) error {
	return r.t.insert(ctx, r.db, key)
}

func (r *sqliteAPIKeyRepo) GetByID(ctx context.Context, id string) (*models.APIKey, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteAPIKeyRepo) GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error) {
	var key models.APIKey
	query := r.db.Rebind("SELECT " + r.t.columnList() + " FROM api_keys WHERE key_prefix = ?")
	if err := sqlx.GetContext(ctx, r.db, &key, query, prefix); err != nil {
		return nil, notFoundOr(err, "api key", "failed to get api key by prefix")
	}
	return &key, nil
}

func (r *sqliteAPIKeyRepo) ListByClient(ctx context.Context, clientID string) ([]*models.APIKey, error) {
	keys := []*models.APIKey{}
	query := r.db.Rebind("SELECT " + r.t.columnList() + " FROM api_keys WHERE client_id = ? ORDER BY created_at DESC, id")
	if err := sqlx.SelectContext(ctx, r.db, &keys, query, clientID); err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// Revoke, key'i pasifler ve iptal zamanını yazar. Zaten iptal edilmişse ErrNotFound döner.
func (r *sqliteAPIKeyRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	query := r.db.Rebind(`UPDATE api_keys SET is_active = ?, revoked_at = ? WHERE id = ? AND revoked_at IS NULL`)
	res, err := r.db.ExecContext(ctx, query, false, at, id)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	return r.t.expectRow(res, id)
}

func (r *sqliteAPIKeyRepo) TouchLastUsed(ctx context.Context, id string, at time.Time) error {
	query := r.db.Rebind(`UPDATE api_keys SET last_used_at = ? WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, at, id); err != nil {
		return fmt.Errorf("failed to update api key last use: %w", err)
	}
	return nil
}
