package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LookupService, referans katalogları (ülke, marka, ceza tipi...) için tek service.
// Her çağrı hangi katalogda çalışacağını kind ile belirtir.
type LookupService interface {
	List(ctx context.Context, kind models.LookupKind, p models.ListParams) (*models.Page[models.Lookup], error)
	GetByID(ctx context.Context, kind models.LookupKind, id string, includeInactive bool) (*models.Lookup, error)
	Create(ctx context.Context, kind models.LookupKind, req *models.CreateLookupRequest) (*models.Lookup, error)
	Update(ctx context.Context, kind models.LookupKind, id string, req *models.UpdateLookupRequest) (*models.Lookup, error)
	Delete(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error)
	Restore(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error)
}

type lookupService struct {
	repo  repository.LookupRepository
	audit AuditService
}

func NewLookupService(repo repository.LookupRepository, audit AuditService) LookupService {
	return &lookupService{repo: repo, audit: audit}
}

func (s *lookupService) List(ctx context.Context, kind models.LookupKind, p models.ListParams) (*models.Page[models.Lookup], error) {
	items, total, err := s.repo.List(ctx, kind, p)
	return listPage(items, total, err, p)
}

func (s *lookupService) GetByID(ctx context.Context, kind models.LookupKind, id string, includeInactive bool) (*models.Lookup, error) {
	l, err := s.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !l.IsActive {
		return nil, fmt.Errorf("%w: %s", pkg.ErrNotFound, kind.Resource)
	}
	return l, nil
}

func (s *lookupService) Create(ctx context.Context, kind models.LookupKind, req *models.CreateLookupRequest) (*models.Lookup, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	l := &models.Lookup{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, kind, l); err != nil {
			return err
		}
		return rec(kind.Table, l.ID, models.AuditInsert, nil, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *lookupService) Update(ctx context.Context, kind models.LookupKind, id string, req *models.UpdateLookupRequest) (*models.Lookup, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *models.Lookup
	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.repo.WithTx(tx)
		before, err := repo.GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		if !before.IsActive {
			return fmt.Errorf("%w: %s", pkg.ErrNotFound, kind.Resource)
		}

		after := *before
		req.Apply(&after)
		after.UpdatedAt = now()
		if err := repo.Update(ctx, kind, &after); err != nil {
			return err
		}
		updated = &after
		return rec(kind.Table, id, models.AuditUpdate, before, &after)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *lookupService) Delete(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error) {
	return s.setActive(ctx, kind, id, false)
}

func (s *lookupService) Restore(ctx context.Context, kind models.LookupKind, id string) (*models.Lookup, error) {
	return s.setActive(ctx, kind, id, true)
}

func (s *lookupService) setActive(ctx context.Context, kind models.LookupKind, id string, active bool) (*models.Lookup, error) {
	return toggleActive(ctx, s.audit, entityInfo[models.Lookup]{
		table:  kind.Table,
		name:   kind.Resource,
		active: func(l *models.Lookup) bool { return l.IsActive },
	}, id, active, func(tx *sqlx.Tx) activeRepo[models.Lookup] {
		return kindRepo{repo: s.repo.WithTx(tx), kind: kind}
	})
}

// kindRepo, LookupRepository'yi tek bir kataloğa bağlayıp activeRepo'ya uyarlar.
type kindRepo struct {
	repo repository.LookupRepository
	kind models.LookupKind
}

func (k kindRepo) GetByID(ctx context.Context, id string) (*models.Lookup, error) {
	return k.repo.GetByID(ctx, k.kind, id)
}

func (k kindRepo) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return k.repo.SetActive(ctx, k.kind, id, active, at)
}
