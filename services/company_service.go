package services

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CompanyService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.Company], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.Company, error)
	Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error)
	Update(ctx context.Context, id string, req *models.UpdateCompanyRequest) (*models.Company, error)
	Delete(ctx context.Context, id string) (*models.Company, error)
	Restore(ctx context.Context, id string) (*models.Company, error)
}

var companyInfo = entityInfo[models.Company]{
	table:  "companies",
	name:   "company",
	active: func(c *models.Company) bool { return c.IsActive },
}

type companyService struct {
	repo  repository.CompanyRepository
	audit AuditService
}

func NewCompanyService(repo repository.CompanyRepository, audit AuditService) CompanyService {
	return &companyService{repo: repo, audit: audit}
}

func (s *companyService) List(ctx context.Context, p models.ListParams) (*models.Page[models.Company], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *companyService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.Company, error) {
	return getVisible[models.Company](ctx, s.repo, companyInfo, id, includeInactive)
}

func (s *companyService) Create(ctx context.Context, req *models.CreateCompanyRequest) (*models.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	c := &models.Company{
		ID:        uuid.NewString(),
		Name:      req.Name,
		TaxNo:     req.TaxNo,
		TaxOffice: req.TaxOffice,
		Address:   req.Address,
		Phone:     req.Phone,
		CityID:    req.CityID,
		IsActive:  true,
		CreatedAt: at,
		UpdatedAt: at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, c); err != nil {
			return err
		}
		return rec(companyInfo.table, c.ID, models.AuditInsert, nil, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) Update(ctx context.Context, id string, req *models.UpdateCompanyRequest) (*models.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return updateActive(ctx, s.audit, companyInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.Company] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, c *models.Company) error {
			req.Apply(c)
			c.UpdatedAt = now()
			return nil
		})
}

func (s *companyService) Delete(ctx context.Context, id string) (*models.Company, error) {
	return toggleActive(ctx, s.audit, companyInfo, id, false, s.bind)
}

func (s *companyService) Restore(ctx context.Context, id string) (*models.Company, error) {
	return toggleActive(ctx, s.audit, companyInfo, id, true, s.bind)
}

func (s *companyService) bind(tx *sqlx.Tx) activeRepo[models.Company] {
	return s.repo.WithTx(tx)
}
