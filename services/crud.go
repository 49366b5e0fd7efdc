package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/jmoiron/sqlx"
)

// activeRepo, soft delete'li repository'lerin ortak alt kümesi.
// City, CarModel, Company, WorkArea, Personnel, Asset ve Assignment repo'ları karşılar.
type activeRepo[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
}

// entityInfo, generic yardımcıların ihtiyaç duyduğu tablo bilgisi.
type entityInfo[T any] struct {
	table  string // audit table_name
	name   string // hata mesajı: "city"
	active func(*T) bool
}

// getVisible, pasif kaydı includeInactive değilse yok sayar.
func getVisible[T any](ctx context.Context, repo activeRepo[T], info entityInfo[T], id string, includeInactive bool) (*T, error) {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !info.active(v) {
		return nil, fmt.Errorf("%w: %s", pkg.ErrNotFound, info.name)
	}
	return v, nil
}

// toggleActive, soft delete (active=false) ve restore (active=true) akışı.
// Kaydın önceki ve sonraki hali aynı transaction'da audit'e yazılır.
//
// Zaten pasif kaydı silmek 404, zaten aktif kaydı geri almak 400 döner.
func toggleActive[T any](
	ctx context.Context,
	audit AuditService,
	info entityInfo[T],
	id string,
	active bool,
	bind func(tx *sqlx.Tx) activeRepo[T],
) (*T, error) {
	var result *T

	err := audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := bind(tx)

		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if info.active(before) == active {
			if active {
				return fmt.Errorf("%w: %s is already active", pkg.ErrBadRequest, info.name)
			}
			return fmt.Errorf("%w: %s", pkg.ErrNotFound, info.name)
		}

		if err := repo.SetActive(ctx, id, active, now()); err != nil {
			return err
		}
		after, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		op := models.AuditDelete
		if active {
			op = models.AuditRestore
		}
		result = after
		return rec(info.table, id, op, before, after)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// listPage, repository List sonucunu sayfa zarfına çevirir.
func listPage[T any](items []T, total int, err error, p models.ListParams) (*models.Page[T], error) {
	if err != nil {
		return nil, err
	}
	return models.NewPage(items, total, p), nil
}

// updateRepo, kısmi güncelleme akışının ihtiyaç duyduğu metodlar.
type updateRepo[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, v *T) error
}

// updateActive, aktif kaydı okur, apply ile yeni halini kurar, yazar ve audit'e ekler.
// apply önceki kaydın kopyası üzerinde çalışır; dönen hata transaction'ı geri alır.
func updateActive[T any](
	ctx context.Context,
	audit AuditService,
	info entityInfo[T],
	id string,
	bind func(tx *sqlx.Tx) updateRepo[T],
	apply func(tx *sqlx.Tx, v *T) error,
) (*T, error) {
	var result *T

	err := audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := bind(tx)

		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !info.active(before) {
			return fmt.Errorf("%w: %s", pkg.ErrNotFound, info.name)
		}

		after := new(T)
		*after = *before
		if err := apply(tx, after); err != nil {
			return err
		}
		if err := repo.Update(ctx, after); err != nil {
			return err
		}
		result = after
		return rec(info.table, id, models.AuditUpdate, before, after)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
