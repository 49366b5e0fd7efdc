package services

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// WorkAreaService, çalışma alanı CRUD işlemleri.
type WorkAreaService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.WorkArea], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.WorkArea, error)
	Create(ctx context.Context, req *models.CreateWorkAreaRequest) (*models.WorkArea, error)
	// Update, tarih sırasını birleşmiş kayıt üzerinde kontrol eder:
	// sadece end_date gönderilse bile mevcut start_date ile karşılaştırılır.
	Update(ctx context.Context, id string, req *models.UpdateWorkAreaRequest) (*models.WorkArea, error)
	Delete(ctx context.Context, id string) (*models.WorkArea, error)
	Restore(ctx context.Context, id string) (*models.WorkArea, error)
}

var workAreaInfo = entityInfo[models.WorkArea]{
	table:  "work_areas",
	name:   "work area",
	active: func(a *models.WorkArea) bool { return a.IsActive },
}

type workAreaService struct {
	repo  repository.WorkAreaRepository
	audit AuditService
}

func NewWorkAreaService(repo repository.WorkAreaRepository, audit AuditService) WorkAreaService {
	return &workAreaService{repo: repo, audit: audit}
}

func (s *workAreaService) List(ctx context.Context, p models.ListParams) (*models.Page[models.WorkArea], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *workAreaService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.WorkArea, error) {
	return getVisible[models.WorkArea](ctx, s.repo, workAreaInfo, id, includeInactive)
}

func (s *workAreaService) Create(ctx context.Context, req *models.CreateWorkAreaRequest) (*models.WorkArea, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	a := &models.WorkArea{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CityID:    req.CityID,
		CompanyID: req.CompanyID,
		ManagerID: req.ManagerID,
		Address:   req.Address,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, a); err != nil {
			return err
		}
		return rec(workAreaInfo.table, a.ID, models.AuditInsert, nil, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *workAreaService) Update(ctx context.Context, id string, req *models.UpdateWorkAreaRequest) (*models.WorkArea, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return updateActive(ctx, s.audit, workAreaInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.WorkArea] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, a *models.WorkArea) error {
			req.Apply(a)
			if err := a.CheckDates(); err != nil {
				return err
			}
			a.UpdatedAt = now()
			return nil
		})
}

func (s *workAreaService) Delete(ctx context.Context, id string) (*models.WorkArea, error) {
	return toggleActive(ctx, s.audit, workAreaInfo, id, false, s.bind)
}

func (s *workAreaService) Restore(ctx context.Context, id string) (*models.WorkArea, error) {
	return toggleActive(ctx, s.audit, workAreaInfo, id, true, s.bind)
}

func (s *workAreaService) bind(tx *sqlx.Tx) activeRepo[models.WorkArea] {
	return s.repo.WithTx(tx)
}
