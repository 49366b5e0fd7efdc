package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

// sqliteUserRepo, UserRepository implementasyonu.
// Repository'nin DB bağlantısı dışarıya açık olmamalı, bu yüzden küçük harf.
type sqliteUserRepo struct {
	db database.TxQuerier
	t  table[models.User]
}

var userTable = table[models.User]{
	name:   "users",
	entity: "user",
	columns: []string{
		"id", "email", "full_name", "password_hash", "is_admin", "is_active",
		"last_login_at", "created_at", "updated_at",
	},
	immutable: []string{"created_at", "password_hash", "last_login_at"},
	unique:    "email already in use",
}

// NewSQLiteUserRepo, UserRepository interface'i döner (concrete struct değil).
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db, t: userTable}
}

func (r *sqliteUserRepo) WithTx(q database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: q, t: r.t}
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	return r.t.insert(ctx, r.db, user)
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT " + r.t.columnList() + " FROM users WHERE email = ?")
	if err := sqlx.GetContext(ctx, r.db, &user, query, email); err != nil {
		return nil, notFoundOr(err, "user", "failed to get user by email")
	}
	return &user, nil
}

func (r *sqliteUserRepo) List(ctx context.Context, p models.ListParams) ([]models.User, int, error) {
	q := newListQuery("users", p)
	q.search(p.Search, "email", "full_name")
	return selectPage[models.User](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteUserRepo) Update(ctx context.Context, user *models.User) error {
	return r.t.update(ctx, r.db, user.ID, user)
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string, at time.Time) error {
	query := r.db.Rebind("UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, query, passwordHash, at, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return r.t.expectRow(res, userID)
}

func (r *sqliteUserRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	query := r.db.Rebind("UPDATE users SET last_login_at = ? WHERE id = ?")
	if _, err := r.db.ExecContext(ctx, query, at, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.db, &n, "SELECT COUNT(*) FROM users"); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
