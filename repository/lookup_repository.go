package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// LookupRepository, aynı şemayı paylaşan referans katalogları için tek repository.
// Hangi tablonun kullanılacağı models.LookupKind ile belirlenir; tablo adı
// kullanıcı girdisinden değil, sabit LookupKinds listesinden gelir.
type LookupRepository interface {
	List(ctx context.Context, kind models.LookupKind, p models.ListParams) ([]models.Lookup, int, error)
	GetByID(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error)
	Create(ctx context.Context, kind models.LookupKind, l *models.Lookup) error
	Update(ctx context.Context, kind models.LookupKind, l *models.Lookup) error
	SetActive(ctx context.Context, kind models.LookupKind, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) LookupRepository
}
