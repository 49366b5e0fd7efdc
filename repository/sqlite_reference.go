package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// ─── City ───

type sqliteCityRepo struct {
	db database.TxQuerier
	t  table[models.City]
}

var cityTable = table[models.City]{
	name:      "cities",
	entity:    "city",
	columns:   []string{"id", "name", "country_id", "plate_code", "is_active", "created_at", "updated_at"},
	immutable: []string{"created_at"},
	unique:    "city name already exists in this country",
}

func NewSQLiteCityRepo(db database.TxQuerier) CityRepository {
	return &sqliteCityRepo{db: db, t: cityTable}
}

func (r *sqliteCityRepo) WithTx(q database.TxQuerier) CityRepository {
	return &sqliteCityRepo{db: q, t: r.t}
}

func (r *sqliteCityRepo) List(ctx context.Context, p models.ListParams) ([]models.City, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("country_id", p.Filters["country_id"])
	q.search(p.Search, "name", "plate_code")
	return selectPage[models.City](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteCityRepo) GetByID(ctx context.Context, id string) (*models.City, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteCityRepo) Create(ctx context.Context, c *models.City) error {
	return r.t.insert(ctx, r.db, c)
}

func (r *sqliteCityRepo) Update(ctx context.Context, c *models.City) error {
	return r.t.update(ctx, r.db, c.ID, c)
}

func (r *sqliteCityRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

// ─── CarModel ───

type sqliteCarModelRepo struct {
	db database.TxQuerier
	t  table[models.CarModel]
}

var carModelTable = table[models.CarModel]{
	name:      "car_models",
	entity:    "car model",
	columns:   []string{"id", "brand_id", "type_id", "name", "capacity", "detail", "is_active", "created_at", "updated_at"},
	immutable: []string{"created_at"},
	unique:    "car model name already exists for this brand",
}

func NewSQLiteCarModelRepo(db database.TxQuerier) CarModelRepository {
	return &sqliteCarModelRepo{db: db, t: carModelTable}
}

func (r *sqliteCarModelRepo) WithTx(q database.TxQuerier) CarModelRepository {
	return &sqliteCarModelRepo{db: q, t: r.t}
}

func (r *sqliteCarModelRepo) List(ctx context.Context, p models.ListParams) ([]models.CarModel, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("brand_id", p.Filters["brand_id"])
	q.eq("type_id", p.Filters["type_id"])
	q.search(p.Search, "name", "detail")
	return selectPage[models.CarModel](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteCarModelRepo) GetByID(ctx context.Context, id string) (*models.CarModel, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteCarModelRepo) Create(ctx context.Context, m *models.CarModel) error {
	return r.t.insert(ctx, r.db, m)
}

func (r *sqliteCarModelRepo) Update(ctx context.Context, m *models.CarModel) error {
	return r.t.update(ctx, r.db, m.ID, m)
}

func (r *sqliteCarModelRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

// ─── Company ───

type sqliteCompanyRepo struct {
	db database.TxQuerier
	t  table[models.Company]
}

var companyTable = table[models.Company]{
	name:   "companies",
	entity: "company",
	columns: []string{
		"id", "name", "tax_no", "tax_office", "address", "phone", "city_id",
		"is_active", "created_at", "updated_at",
	},
	immutable: []string{"created_at"},
	unique:    "tax number already in use",
}

func NewSQLiteCompanyRepo(db database.TxQuerier) CompanyRepository {
	return &sqliteCompanyRepo{db: db, t: companyTable}
}

func (r *sqliteCompanyRepo) WithTx(q database.TxQuerier) CompanyRepository {
	return &sqliteCompanyRepo{db: q, t: r.t}
}

func (r *sqliteCompanyRepo) List(ctx context.Context, p models.ListParams) ([]models.Company, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("city_id", p.Filters["city_id"])
	q.search(p.Search, "name", "tax_no")
	return selectPage[models.Company](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteCompanyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteCompanyRepo) Create(ctx context.Context, c *models.Company) error {
	return r.t.insert(ctx, r.db, c)
}

func (r *sqliteCompanyRepo) Update(ctx context.Context, c *models.Company) error {
	return r.t.update(ctx, r.db, c.ID, c)
}

func (r *sqliteCompanyRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

// ─── WorkArea ───

type sqliteWorkAreaRepo struct {
	db database.TxQuerier
	t  table[models.WorkArea]
}

var workAreaTable = table[models.WorkArea]{
	name:   "work_areas",
	entity: "work area",
	columns: []string{
		"id", "name", "city_id", "company_id", "manager_id", "address",
		"start_date", "end_date", "is_active", "created_at", "updated_at",
	},
	immutable: []string{"created_at"},
}

func NewSQLiteWorkAreaRepo(db database.TxQuerier) WorkAreaRepository {
	return &sqliteWorkAreaRepo{db: db, t: workAreaTable}
}

func (r *sqliteWorkAreaRepo) WithTx(q database.TxQuerier) WorkAreaRepository {
	return &sqliteWorkAreaRepo{db: q, t: r.t}
}

func (r *sqliteWorkAreaRepo) List(ctx context.Context, p models.ListParams) ([]models.WorkArea, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("city_id", p.Filters["city_id"])
	q.eq("company_id", p.Filters["company_id"])
	q.eq("manager_id", p.Filters["manager_id"])
	q.search(p.Search, "name", "address")
	return selectPage[models.WorkArea](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteWorkAreaRepo) GetByID(ctx context.Context, id string) (*models.WorkArea, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteWorkAreaRepo) Create(ctx context.Context, a *models.WorkArea) error {
	return r.t.insert(ctx, r.db, a)
}

func (r *sqliteWorkAreaRepo) Update(ctx context.Context, a *models.WorkArea) error {
	return r.t.update(ctx, r.db, a.ID, a)
}

func (r *sqliteWorkAreaRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}
