package services

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// CityService, şehir CRUD işlemleri.
type CityService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.City], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.City, error)
	Create(ctx context.Context, req *models.CreateCityRequest) (*models.City, error)
	Update(ctx context.Context, id string, req *models.UpdateCityRequest) (*models.City, error)
	Delete(ctx context.Context, id string) (*models.City, error)
	Restore(ctx context.Context, id string) (*models.City, error)
}

var cityInfo = entityInfo[models.City]{
	table:  "cities",
	name:   "city",
	active: func(c *models.City) bool { return c.IsActive },
}

type cityService struct {
	repo  repository.CityRepository
	audit AuditService
}

func NewCityService(repo repository.CityRepository, audit AuditService) CityService {
	return &cityService{repo: repo, audit: audit}
}

func (s *cityService) List(ctx context.Context, p models.ListParams) (*models.Page[models.City], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *cityService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.City, error) {
	return getVisible[models.City](ctx, s.repo, cityInfo, id, includeInactive)
}

func (s *cityService) Create(ctx context.Context, req *models.CreateCityRequest) (*models.City, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	city := &models.City{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CountryID: req.CountryID,
		PlateCode: req.PlateCode,
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, city); err != nil {
			return err
		}
		return rec(cityInfo.table, city.ID, models.AuditInsert, nil, city)
	})
	if err != nil {
		return nil, err
	}
	return city, nil
}

func (s *cityService) Update(ctx context.Context, id string, req *models.UpdateCityRequest) (*models.City, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return updateActive(ctx, s.audit, cityInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.City] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, c *models.City) error {
			req.Apply(c)
			c.UpdatedAt = now()
			return nil
		})
}

func (s *cityService) Delete(ctx context.Context, id string) (*models.City, error) {
	return toggleActive(ctx, s.audit, cityInfo, id, false, s.bind)
}

func (s *cityService) Restore(ctx context.Context, id string) (*models.City, error) {
	return toggleActive(ctx, s.audit, cityInfo, id, true, s.bind)
}

func (s *cityService) bind(tx *sqlx.Tx) activeRepo[models.City] {
	return s.repo.WithTx(tx)
}
