package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// SessionRepository, JWT refresh token oturumları için interface.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// DeleteExpired, before'dan önce süresi dolmuş oturumları siler, silinen sayıyı döner.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
