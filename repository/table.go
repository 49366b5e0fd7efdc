package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/jmoiron/sqlx"
)

// table, soft delete'li varlık tablolarının ortak CRUD sorgularını tutar.
// Kolon adları T'nin db tag'leriyle birebir aynıdır; insert/update sqlx named
// binding (":kolon") kullanır.
type table[T any] struct {
	name      string
	entity    string   // hata mesajları için: "asset"
	columns   []string // id dahil tüm kolonlar
	immutable []string // UPDATE'te yazılmayan kolonlar (id, created_at, ...)
	unique    string   // UNIQUE ihlalinde dönecek mesaj
}

func (t table[T]) columnList() string {
	return strings.Join(t.columns, ", ")
}

func (t table[T]) get(ctx context.Context, db database.TxQuerier, id string) (*T, error) {
	var v T
	query := db.Rebind("SELECT " + t.columnList() + " FROM " + t.name + " WHERE id = ?")
	err := sqlx.GetContext(ctx, db, &v, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", pkg.ErrNotFound, t.entity)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", t.entity, err)
	}
	return &v, nil
}

func (t table[T]) insert(ctx context.Context, db database.TxQuerier, v *T) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		t.name, t.columnList(), strings.Join(t.columns, ", :"))

	if _, err := sqlx.NamedExecContext(ctx, db, query, v); err != nil {
		return t.writeError(err)
	}
	return nil
}

func (t table[T]) update(ctx context.Context, db database.TxQuerier, id string, v *T) error {
	sets := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c == "id" || contains(t.immutable, c) {
			continue
		}
		sets = append(sets, c+" = :"+c)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", t.name, strings.Join(sets, ", "))

	res, err := sqlx.NamedExecContext(ctx, db, query, v)
	if err != nil {
		return t.writeError(err)
	}
	return t.expectRow(res, id)
}

// setActive, soft delete (false) ve restore (true) için.
func (t table[T]) setActive(ctx context.Context, db database.TxQuerier, id string, active bool, at time.Time) error {
	query := db.Rebind("UPDATE " + t.name + " SET is_active = ?, updated_at = ? WHERE id = ?")
	res, err := db.ExecContext(ctx, query, active, at, id)
	if err != nil {
		return t.writeError(err)
	}
	return t.expectRow(res, id)
}

func (t table[T]) expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for %s %s: %w", t.entity, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, t.entity)
	}
	return nil
}

func (t table[T]) writeError(err error) error {
	return mapWriteError(err, t.entity, t.unique)
}

// mapWriteError, driver constraint hatalarını domain error'larına çevirir:
// UNIQUE → ErrAlreadyExists (409), FOREIGN KEY → ErrBadRequest (400).
func mapWriteError(err error, entity, uniqueMsg string) error {
	switch {
	case database.IsUniqueViolation(err):
		if uniqueMsg == "" {
			uniqueMsg = entity + " already exists"
		}
		return fmt.Errorf("%w: %s", pkg.ErrAlreadyExists, uniqueMsg)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a record that does not exist", pkg.ErrBadRequest, entity)
	default:
		return fmt.Errorf("failed to write %s: %w", entity, err)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// notFoundOr, sql.ErrNoRows'u ErrNotFound'a çevirir, diğer hataları msg ile sarar.
func notFoundOr(err error, entity, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", pkg.ErrNotFound, entity)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
