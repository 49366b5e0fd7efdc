package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// PersonnelRepository, çalışanlar. Liste filtreleri: company_id, status, national_id_hash.
type PersonnelRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.Personnel, int, error)
	GetByID(ctx context.Context, id string) (*models.Personnel, error)
	Create(ctx context.Context, p *models.Personnel) error
	Update(ctx context.Context, p *models.Personnel) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) PersonnelRepository
}

// AssetRepository, araçlar. Liste filtreleri: model_id, owner_company_id, ownership_type_id.
type AssetRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.Asset, int, error)
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	Create(ctx context.Context, a *models.Asset) error
	Update(ctx context.Context, a *models.Asset) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) AssetRepository
}

// AssignmentRepository, araç-personel atamaları.
// Liste filtreleri: asset_id, personnel_id, open ("true" → sadece açık atamalar).
type AssignmentRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.AssetAssignment, int, error)
	GetByID(ctx context.Context, id string) (*models.AssetAssignment, error)
	// GetOpenByAsset, aracın açık (end_date NULL, aktif) atamasını döner; yoksa ErrNotFound.
	GetOpenByAsset(ctx context.Context, assetID string) (*models.AssetAssignment, error)
	Create(ctx context.Context, a *models.AssetAssignment) error
	Update(ctx context.Context, a *models.AssetAssignment) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) AssignmentRepository
}
