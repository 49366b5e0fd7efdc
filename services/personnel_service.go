package services

import (
	"context"
	"fmt"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/actor"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/crypto"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PersonnelService, çalışan CRUD işlemleri.
//
// TC kimlik no service katmanında şifrelenir; repository sadece şifreli
// değeri, anahtarlı hash'i ve son 4 haneyi görür. Dönen kayıtlarda
// NationalID alanı maskelidir.
type PersonnelService interface {
	// List, "national_id" filtresi verilirse hash'e çevirip tam eşleşme arar.
	List(ctx context.Context, p models.ListParams) (*models.Page[models.Personnel], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.Personnel, error)
	Create(ctx context.Context, req *models.CreatePersonnelRequest) (*models.Personnel, error)
	Update(ctx context.Context, id string, req *models.UpdatePersonnelRequest) (*models.Personnel, error)
	Delete(ctx context.Context, id string) (*models.Personnel, error)
	Restore(ctx context.Context, id string) (*models.Personnel, error)
	// RevealNationalID, şifreli kimlik numarasını çözer. Sadece admin panelinden çağrılır.
	RevealNationalID(ctx context.Context, id string) (string, error)
}

var personnelInfo = entityInfo[models.Personnel]{
	table:  "personnel",
	name:   "personnel",
	active: func(p *models.Personnel) bool { return p.IsActive },
}

type personnelService struct {
	repo   repository.PersonnelRepository
	audit  AuditService
	key    []byte
	logger *zap.Logger
}

func NewPersonnelService(repo repository.PersonnelRepository, audit AuditService, encryptionKey []byte, logger *zap.Logger) PersonnelService {
	return &personnelService{repo: repo, audit: audit, key: encryptionKey, logger: logger.Named("personnel")}
}

func (s *personnelService) List(ctx context.Context, p models.ListParams) (*models.Page[models.Personnel], error) {
	if nid, ok := p.Filters["national_id"]; ok {
		delete(p.Filters, "national_id")
		p.Filters["national_id_hash"] = crypto.LookupHash(nid, s.key)
	}

	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].FillMasked()
	}
	return models.NewPage(items, total, p), nil
}

func (s *personnelService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.Personnel, error) {
	p, err := getVisible[models.Personnel](ctx, s.repo, personnelInfo, id, includeInactive)
	if err != nil {
		return nil, err
	}
	p.FillMasked()
	return p, nil
}

func (s *personnelService) Create(ctx context.Context, req *models.CreatePersonnelRequest) (*models.Personnel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	p := &models.Personnel{
		ID:            uuid.NewString(),
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BirthDate:     req.BirthDate,
		NationalityID: req.NationalityID,
		BirthplaceID:  req.BirthplaceID,
		CompanyID:     req.CompanyID,
		Phone:         req.Phone,
		Address:       req.Address,
		Status:        req.Status,
		IsActive:      true,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	if err := s.setNationalID(p, req.NationalID); err != nil {
		return nil, err
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.repo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		return rec(personnelInfo.table, p.ID, models.AuditInsert, nil, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *personnelService) Update(ctx context.Context, id string, req *models.UpdatePersonnelRequest) (*models.Personnel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := updateActive(ctx, s.audit, personnelInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.Personnel] { return maskedRepo{s.repo.WithTx(tx)} },
		func(_ *sqlx.Tx, p *models.Personnel) error {
			req.Apply(p)
			if req.NationalID != nil {
				if err := s.setNationalID(p, *req.NationalID); err != nil {
					return err
				}
			}
			p.UpdatedAt = now()
			return nil
		})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *personnelService) Delete(ctx context.Context, id string) (*models.Personnel, error) {
	return toggleActive(ctx, s.audit, personnelInfo, id, false, s.bind)
}

func (s *personnelService) Restore(ctx context.Context, id string) (*models.Personnel, error) {
	return toggleActive(ctx, s.audit, personnelInfo, id, true, s.bind)
}

func (s *personnelService) RevealNationalID(ctx context.Context, id string) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	nid, err := crypto.Decrypt(p.NationalIDEnc, s.key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt national id: %w", err)
	}

	s.logger.Info("national id revealed", zap.String("personnel_id", id), zap.String("actor", actor.From(ctx).Label()))
	return nid, nil
}

func (s *personnelService) bind(tx *sqlx.Tx) activeRepo[models.Personnel] {
	return maskedRepo{s.repo.WithTx(tx)}
}

// setNationalID, şifreli değeri, hash'i ve maskeli gösterimi birlikte günceller.
func (s *personnelService) setNationalID(p *models.Personnel, nid string) error {
	enc, err := crypto.Encrypt(nid, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt national id: %w", err)
	}
	p.NationalIDEnc = enc
	p.NationalIDHash = crypto.LookupHash(nid, s.key)
	p.NationalIDLast4 = nid[len(nid)-4:]
	p.FillMasked()
	return nil
}

// maskedRepo, okunan kayıtların NationalID alanını doldurur; audit snapshot'ları
// ve yanıtlar maskeli değeri taşır.
type maskedRepo struct {
	repository.PersonnelRepository
}

func (m maskedRepo) GetByID(ctx context.Context, id string) (*models.Personnel, error) {
	p, err := m.PersonnelRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.FillMasked()
	return p, nil
}
