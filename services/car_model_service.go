package services

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CarModelService, araç modeli CRUD işlemleri. Marka ve tip katalogdan gelir.
type CarModelService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.CarModel], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.CarModel, error)
	Create(ctx context.Context, req *models.CreateCarModelRequest) (*models.CarModel, error)
	Update(ctx context.Context, id string, req *models.UpdateCarModelRequest) (*models.CarModel, error)
	Delete(ctx context.Context, id string) (*models.CarModel, error)
	Restore(ctx context.Context, id string) (*models.CarModel, error)
}

var carModelInfo = entityInfo[models.CarModel]{
	table:  "car_models",
	name:   "car model",
	active: func(m *models.CarModel) bool { return m.IsActive },
}

type carModelService struct {
	repo  repository.CarModelRepository
	audit AuditService
}

func NewCarModelService(repo repository.CarModelRepository, audit AuditService) CarModelService {
	return &carModelService{repo: repo, audit: audit}
}

func (s *carModelService) List(ctx context.Context, p models.ListParams) (*models.Page[models.CarModel], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *carModelService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.CarModel, error) {
	return getVisible[models.CarModel](ctx, s.repo, carModelInfo, id, includeInactive)
}

func (s *carModelService) Create(ctx context.Context, req *models.CreateCarModelRequest) (*models.CarModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	m := &models.CarModel{
		ID:        uuid.NewString(),
		BrandID:   req.BrandID,
		TypeID:    req.TypeID,
		Name:      req.Name,
		Capacity:  req.Capacity,
		Detail:    req.Detail,
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
		return rec(carModelInfo.table, m.ID, models.AuditInsert, nil, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *carModelService) Update(ctx context.Context, id string, req *models.UpdateCarModelRequest) (*models.CarModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return updateActive(ctx, s.audit, carModelInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.CarModel] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, m *models.CarModel) error {
			req.Apply(m)
			m.UpdatedAt = now()
			return nil
		})
}

func (s *carModelService) Delete(ctx context.Context, id string) (*models.CarModel, error) {
	return toggleActive(ctx, s.audit, carModelInfo, id, false, s.bind)
}

func (s *carModelService) Restore(ctx context.Context, id string) (*models.CarModel, error) {
	return toggleActive(ctx, s.audit, carModelInfo, id, true, s.bind)
}

func (s *carModelService) bind(tx *sqlx.Tx) activeRepo[models.CarModel] {
	return s.repo.WithTx(tx)
}
