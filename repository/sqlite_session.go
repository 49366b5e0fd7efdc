package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

// sqliteSessionRepo, SessionRepository implementasyonu.
type sqliteSessionRepo struct {
	db database.TxQuerier
}

// NewSQLiteSessionRepo, constructor.
func NewSQLiteSessionRepo(db database.TxQuerier) SessionRepository {
	return &sqliteSessionRepo{db: db}
}

func (r *sqliteSessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at, created_at)
		VALUES (:id, :user_id, :refresh_token, :expires_at, :created_at)`

	if _, err := sqlx.NamedExecContext(ctx, r.db, query, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) GetByRefreshToken(ctx context.Context, token string) (*models.Session, error) {
	query := r.db.Rebind(`
		SELECT id, user_id, refresh_token, expires_at, created_at
		FROM sessions WHERE refresh_token = ?`)

	var session models.Session
	if err := sqlx.GetContext(ctx, r.db, &session, query, token); err != nil {
		return nil, notFoundOr(err, "session", "failed to get session by refresh token")
	}
	return &session, nil
}

func (r *sqliteSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE user_id = ?`), userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

func (r *sqliteSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at < ?`), before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
