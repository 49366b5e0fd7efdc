package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// UserRepository, admin kullanıcıları için veritabanı işlemleri.
//
// context.Context her sorguya geçilir: istemci bağlantıyı koparırsa
// context iptal olur ve devam eden sorgu da durur.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, p models.ListParams) ([]models.User, int, error)
	// Update, profil alanlarını (full_name, is_admin, is_active) yazar.
	Update(ctx context.Context, user *models.User) error
	// UpdatePassword, yeni bcrypt hash'ini yazar.
	UpdatePassword(ctx context.Context, userID, passwordHash string, at time.Time) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	Count(ctx context.Context) (int, error)
	WithTx(q database.TxQuerier) UserRepository
}

// UserSortable, kullanıcı listesinde izin verilen sıralama kolonları.
var UserSortable = []string{"email", "full_name", "created_at", "last_login_at"}
