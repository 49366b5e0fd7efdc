package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssetService, araç CRUD işlemleri.
// created_by / updated_by, isteği yapan kullanıcının veya API client'ın etiketidir.
type AssetService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.Asset], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.Asset, error)
	Create(ctx context.Context, req *models.CreateAssetRequest) (*models.Asset, error)
	Update(ctx context.Context, id string, req *models.UpdateAssetRequest) (*models.Asset, error)
	// Delete, açık zimmeti olan aracı silmez.
	Delete(ctx context.Context, id string) (*models.Asset, error)
	Restore(ctx context.Context, id string) (*models.Asset, error)
}

var assetInfo = entityInfo[models.Asset]{
	table:  "assets",
	name:   "asset",
	active: func(a *models.Asset) bool { return a.IsActive },
}

type assetService struct {
	repo           repository.AssetRepository
	assignmentRepo repository.AssignmentRepository
	audit          AuditService
}

func NewAssetService(repo repository.AssetRepository, assignmentRepo repository.AssignmentRepository, audit AuditService) AssetService {
	return &assetService{repo: repo, assignmentRepo: assignmentRepo, audit: audit}
}

func (s *assetService) List(ctx context.Context, p models.ListParams) (*models.Page[models.Asset], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *assetService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.Asset, error) {
	return getVisible[models.Asset](ctx, s.repo, assetInfo, id, includeInactive)
}

func (s *assetService) Create(ctx context.Context, req *models.CreateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	by := optional(actor.From(ctx).Label())
	a := &models.Asset{
		ID:              uuid.NewString(),
		ModelID:         req.ModelID,
		ModelYear:       req.ModelYear,
		PlateNumber:     req.PlateNumber,
		ChassisNo:       req.ChassisNo,
		EngineNo:        req.EngineNo,
		OwnerCompanyID:  req.OwnerCompanyID,
		OwnershipTypeID: req.OwnershipTypeID,
		RegisterDate:    req.RegisterDate,
		PurchaseDate:    req.PurchaseDate,
		IsActive:        true,
		CreatedBy:       by,
		UpdatedBy:       by,
		CreatedAt:       at,
		UpdatedAt:       at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
			return err
		}
		return rec(assetInfo.table, a.ID, models.AuditInsert, nil, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assetService) Update(ctx context.Context, id string, req *models.UpdateAssetRequest) (*models.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	by := optional(actor.From(ctx).Label())

	return updateActive(ctx, s.audit, assetInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.Asset] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, a *models.Asset) error {
			req.Apply(a)
			a.UpdatedBy = by
			a.UpdatedAt = now()
			return nil
		})
}

func (s *assetService) Delete(ctx context.Context, id string) (*models.Asset, error) {
	open, err := s.assignmentRepo.GetOpenByAsset(ctx, id)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: asset has an open assignment (%s), end it first", pkg.ErrBadRequest, open.ID)
	case !errors.Is(err, pkg.ErrNotFound):
		return nil, err
	}
	return toggleActive(ctx, s.audit, assetInfo, id, false, s.bind)
}

func (s *assetService) Restore(ctx context.Context, id string) (*models.Asset, error) {
	return toggleActive(ctx, s.audit, assetInfo, id, true, s.bind)
}

func (s *assetService) bind(tx *sqlx.Tx) activeRepo[models.Asset] {
	return s.repo.WithTx(tx)
}
