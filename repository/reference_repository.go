package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// CityRepository, şehirler. Liste filtresi: country_id.
type CityRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.City, int, error)
	GetByID(ctx context.Context, id string) (*models.City, error)
	Create(ctx context.Context, c *models.City) error
	Update(ctx context.Context, c *models.City) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) CityRepository
}

// CarModelRepository, araç modelleri. Liste filtreleri: brand_id, type_id.
type CarModelRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.CarModel, int, error)
	GetByID(ctx context.Context, id string) (*models.CarModel, error)
	Create(ctx context.Context, m *models.CarModel) error
	Update(ctx context.Context, m *models.CarModel) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) CarModelRepository
}

// CompanyRepository, şirketler. Liste filtresi: city_id.
type CompanyRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.Company, int, error)
	GetByID(ctx context.Context, id string) (*models.Company, error)
	Create(ctx context.Context, c *models.Company) error
	Update(ctx context.Context, c *models.Company) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) CompanyRepository
}

// WorkAreaRepository, çalışma alanları. Liste filtreleri: city_id, company_id, manager_id.
type WorkAreaRepository interface {
	List(ctx context.Context, p models.ListParams) ([]models.WorkArea, int, error)
	GetByID(ctx context.Context, id string) (*models.WorkArea, error)
	Create(ctx context.Context, a *models.WorkArea) error
	Update(ctx context.Context, a *models.WorkArea) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	WithTx(q database.TxQuerier) WorkAreaRepository
}
