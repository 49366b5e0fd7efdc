package repository

import (
	"context"
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

// ─── Personnel ───

type sqlitePersonnelRepo struct {
	db database.TxQuerier
	t  table[models.Personnel]
}

var personnelTable = table[models.Personnel]{
	name:   "personnel",
	entity: "personnel",
	columns: []string{
		"id", "national_id_enc", "national_id_hash", "national_id_last4",
		"first_name", "last_name", "birth_date", "nationality_id", "birthplace_id",
		"company_id", "phone", "address", "status", "is_active", "created_at", "updated_at",
	},
	immutable: []string{"created_at"},
	unique:    "national id already registered",
}

func NewSQLitePersonnelRepo(db database.TxQuerier) PersonnelRepository {
	return &sqlitePersonnelRepo{db: db, t: personnelTable}
}

func (r *sqlitePersonnelRepo) WithTx(q database.TxQuerier) PersonnelRepository {
	return &sqlitePersonnelRepo{db: q, t: r.t}
}

func (r *sqlitePersonnelRepo) List(ctx context.Context, p models.ListParams) ([]models.Personnel, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("company_id", p.Filters["company_id"])
	q.eq("status", p.Filters["status"])
	q.eq("national_id_hash", p.Filters["national_id_hash"])
	q.search(p.Search, "first_name", "last_name", "phone")
	return selectPage[models.Personnel](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqlitePersonnelRepo) GetByID(ctx context.Context, id string) (*models.Personnel, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqlitePersonnelRepo) Create(ctx context.Context, p *models.Personnel) error {
	return r.t.insert(ctx, r.db, p)
}

func (r *sqlitePersonnelRepo) Update(ctx context.Context, p *models.Personnel) error {
	return r.t.update(ctx, r.db, p.ID, p)
}

func (r *sqlitePersonnelRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

// ─── Asset ───

type sqliteAssetRepo struct {
	db database.TxQuerier
	t  table[models.Asset]
}

var assetTable = table[models.Asset]{
	name:   "assets",
	entity: "asset",
	columns: []string{
		"id", "model_id", "model_year", "plate_number", "chassis_no", "engine_no",
		"owner_company_id", "ownership_type_id", "register_date", "purchase_date",
		"is_active", "created_by", "updated_by", "created_at", "updated_at",
	},
	immutable: []string{"created_at", "created_by"},
	unique:    "plate number already in use",
}

func NewSQLiteAssetRepo(db database.TxQuerier) AssetRepository {
	return &sqliteAssetRepo{db: db, t: assetTable}
}

func (r *sqliteAssetRepo) WithTx(q database.TxQuerier) AssetRepository {
	return &sqliteAssetRepo{db: q, t: r.t}
}

func (r *sqliteAssetRepo) List(ctx context.Context, p models.ListParams) ([]models.Asset, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("model_id", p.Filters["model_id"])
	q.eq("owner_company_id", p.Filters["owner_company_id"])
	q.eq("ownership_type_id", p.Filters["ownership_type_id"])
	// Plaka DB'de boşluksuz saklanır; "34 abc" araması da eşleşmeli
	search := strings.NewReplacer(" ", "", "-", "").Replace(p.Search)
	q.search(search, "plate_number", "chassis_no")
	return selectPage[models.Asset](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteAssetRepo) Create(ctx context.Context, a *models.Asset) error {
	return r.t.insert(ctx, r.db, a)
}

func (r *sqliteAssetRepo) Update(ctx context.Context, a *models.Asset) error {
	return r.t.update(ctx, r.db, a.ID, a)
}

func (r *sqliteAssetRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}

// ─── AssetAssignment ───

type sqliteAssignmentRepo struct {
	db database.TxQuerier
	t  table[models.AssetAssignment]
}

var assignmentTable = table[models.AssetAssignment]{
	name:   "asset_assignments",
	entity: "asset assignment",
	columns: []string{
		"id", "asset_id", "personnel_id", "start_date", "end_date", "notes",
		"is_active", "created_at", "updated_at",
	},
	immutable: []string{"created_at", "asset_id"},
	unique:    "asset already has an open assignment",
}

func NewSQLiteAssignmentRepo(db database.TxQuerier) AssignmentRepository {
	return &sqliteAssignmentRepo{db: db, t: assignmentTable}
}

func (r *sqliteAssignmentRepo) WithTx(q database.TxQuerier) AssignmentRepository {
	return &sqliteAssignmentRepo{db: q, t: r.t}
}

func (r *sqliteAssignmentRepo) List(ctx context.Context, p models.ListParams) ([]models.AssetAssignment, int, error) {
	q := newListQuery(r.t.name, p)
	q.eq("asset_id", p.Filters["asset_id"])
	q.eq("personnel_id", p.Filters["personnel_id"])
	if p.Filters["open"] == "true" {
		q.cond("end_date IS NULL")
	}
	q.search(p.Search, "notes")
	return selectPage[models.AssetAssignment](ctx, r.db, r.t.columnList(), q, p)
}

func (r *sqliteAssignmentRepo) GetByID(ctx context.Context, id string) (*models.AssetAssignment, error) {
	return r.t.get(ctx, r.db, id)
}

func (r *sqliteAssignmentRepo) GetOpenByAsset(ctx context.Context, assetID string) (*models.AssetAssignment, error) {
	var a models.AssetAssignment
	query := r.db.Rebind("SELECT " + r.t.columnList() +
		" FROM asset_assignments WHERE asset_id = ? AND end_date IS NULL AND is_active = ?")
	if err := sqlx.GetContext(ctx, r.db, &a, query, assetID, true); err != nil {
		return nil, notFoundOr(err, "open assignment", "failed to get open assignment")
	}
	return &a, nil
}

func (r *sqliteAssignmentRepo) Create(ctx context.Context, a *models.AssetAssignment) error {
	return r.t.insert(ctx, r.db, a)
}

func (r *sqliteAssignmentRepo) Update(ctx context.Context, a *models.AssetAssignment) error {
	return r.t.update(ctx, r.db, a.ID, a)
}

func (r *sqliteAssignmentRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return r.t.setActive(ctx, r.db, id, active, at)
}
