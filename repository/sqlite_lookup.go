package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

type sqliteLookupRepo struct {
	db database.TxQuerier
}

func NewSQLiteLookupRepo(db database.TxQuerier) LookupRepository {
	return &sqliteLookupRepo{db: db}
}

func (r *sqliteLookupRepo) WithTx(q database.TxQuerier) LookupRepository {
	return &sqliteLookupRepo{db: q}
}

// tableFor, kind'a ait tablo tanımını kurar. Tablo adı LookupKinds listesinde yoksa hata döner.
func tableFor(kind models.LookupKind) (table[models.Lookup], error) {
	known, ok := models.LookupKindBySlug(kind.Slug)
	if !ok || known.Table != kind.Table {
		return table[models.Lookup]{}, fmt.Errorf("unknown lookup kind %q", kind.Slug)
	}
	return table[models.Lookup]{
		name:      known.Table,
		entity:    known.Resource,
		columns:   []string{"id", "name", "code", "description", "is_active", "created_at", "updated_at"},
		immutable: []string{"created_at"},
		unique:    known.Resource + " name already exists",
	}, nil
}

func (r *sqliteLookupRepo) List(ctx context.Context, kind models.LookupKind, p models.ListParams) ([]models.Lookup, int, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, 0, err
	}
	q := newListQuery(t.name, p)
	q.search(p.Search, "name", "code")
	return selectPage[models.Lookup](ctx, r.db, t.columnList(), q, p)
}

func (r *sqliteLookupRepo) GetByID(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	return t.get(ctx, r.db, id)
}

func (r *sqliteLookupRepo) Create(ctx context.Context, kind models.LookupKind, l *models.Lookup) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	return t.insert(ctx, r.db, l)
}

func (r *sqliteLookupRepo) Update(ctx context.Context, kind models.LookupKind, l *models.Lookup) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	return t.update(ctx, r.db, l.ID, l)
}

func (r *sqliteLookupRepo) SetActive(ctx context.Context, kind models.LookupKind, id string, active bool, at time.Time) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	return t.setActive(ctx, r.db, id, active, at)
}
