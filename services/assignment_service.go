package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// AssignmentService, araç-personel zimmet işlemleri.
//
// Bir aracın aynı anda tek açık ataması olabilir. Bu kural hem burada
// hem de DB'deki kısmi unique index ile korunur.
type AssignmentService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.AssetAssignment], error)
	ListByAsset(ctx context.Context, assetID string, p models.ListParams) (*models.Page[models.AssetAssignment], error)
	ListByPersonnel(ctx context.Context, personnelID string, p models.ListParams) (*models.Page[models.AssetAssignment], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*models.AssetAssignment, error)
	Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.AssetAssignment, error)
	Update(ctx context.Context, id string, req *models.UpdateAssignmentRequest) (*models.AssetAssignment, error)
	// End, açık atamayı kapatır. end_date verilmezse bugün kullanılır.
	End(ctx context.Context, id string, req *models.EndAssignmentRequest) (*models.AssetAssignment, error)
	Delete(ctx context.Context, id string) (*models.AssetAssignment, error)
	Restore(ctx context.Context, id string) (*models.AssetAssignment, error)
}

var assignmentInfo = entityInfo[models.AssetAssignment]{
	table:  "asset_assignments",
	name:   "asset assignment",
	active: func(a *models.AssetAssignment) bool { return a.IsActive },
}

type assignmentService struct {
	repo          repository.AssignmentRepository
	assetRepo     repository.AssetRepository
	personnelRepo repository.PersonnelRepository
	audit         AuditService
}

func NewAssignmentService(
	repo repository.AssignmentRepository,
	assetRepo repository.AssetRepository,
	personnelRepo repository.PersonnelRepository,
	audit AuditService,
) AssignmentService {
	return &assignmentService{repo: repo, assetRepo: assetRepo, personnelRepo: personnelRepo, audit: audit}
}

func (s *assignmentService) List(ctx context.Context, p models.ListParams) (*models.Page[models.AssetAssignment], error) {
	items, total, err := s.repo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *assignmentService) ListByAsset(ctx context.Context, assetID string, p models.ListParams) (*models.Page[models.AssetAssignment], error) {
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}
	p.Filters = withFilter(p.Filters, "asset_id", assetID)
	return s.List(ctx, p)
}

func (s *assignmentService) ListByPersonnel(ctx context.Context, personnelID string, p models.ListParams) (*models.Page[models.AssetAssignment], error) {
	if _, err := s.personnelRepo.GetByID(ctx, personnelID); err != nil {
		return nil, err
	}
	p.Filters = withFilter(p.Filters, "personnel_id", personnelID)
	return s.List(ctx, p)
}

func (s *assignmentService) GetByID(ctx context.Context, id string, includeInactive bool) (*models.AssetAssignment, error) {
	return getVisible[models.AssetAssignment](ctx, s.repo, assignmentInfo, id, includeInactive)
}

func (s *assignmentService) Create(ctx context.Context, req *models.CreateAssignmentRequest) (*models.AssetAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	a := &models.AssetAssignment{
		ID:          uuid.NewString(),
		AssetID:     req.AssetID,
		PersonnelID: req.PersonnelID,
		StartDate:   *req.StartDate,
		EndDate:     req.EndDate,
		Notes:       req.Notes,
		IsActive:    true,
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.checkAsset(ctx, tx, a.AssetID); err != nil {
			return err
		}
		if err := s.checkPersonnel(ctx, tx, a.PersonnelID); err != nil {
			return err
		}

		repo := s.repo.WithTx(tx)
		if a.Open() {
			if err := checkNoOpen(ctx, repo, a.AssetID, ""); err != nil {
				return err
			}
		}
		if err := repo.Create(ctx, a); err != nil {
			return err
		}
		return rec(assignmentInfo.table, a.ID, models.AuditInsert, nil, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentService) Update(ctx context.Context, id string, req *models.UpdateAssignmentRequest) (*models.AssetAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return updateActive(ctx, s.audit, assignmentInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.AssetAssignment] { return s.repo.WithTx(tx) },
		func(tx *sqlx.Tx, a *models.AssetAssignment) error {
			personnelChanged := req.PersonnelID != nil && *req.PersonnelID != a.PersonnelID
			req.Apply(a)
			if err := a.CheckDates(); err != nil {
				return err
			}
			if personnelChanged {
				if err := s.checkPersonnel(ctx, tx, a.PersonnelID); err != nil {
					return err
				}
			}
			a.UpdatedAt = now()
			return nil
		})
}

func (s *assignmentService) End(ctx context.Context, id string, req *models.EndAssignmentRequest) (*models.AssetAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	return updateActive(ctx, s.audit, assignmentInfo, id,
		func(tx *sqlx.Tx) updateRepo[models.AssetAssignment] { return s.repo.WithTx(tx) },
		func(_ *sqlx.Tx, a *models.AssetAssignment) error {
			if !a.Open() {
				return fmt.Errorf("%w: assignment already ended on %s", pkg.ErrBadRequest, a.EndDate)
			}

			end := models.NewDate(now())
			if req.EndDate != nil {
				end = *req.EndDate
			}
			a.EndDate = &end
			if err := a.CheckDates(); err != nil {
				return err
			}
			if req.Notes != nil && *req.Notes != "" {
				a.Notes = req.Notes
			}
			a.UpdatedAt = now()
			return nil
		})
}

func (s *assignmentService) Delete(ctx context.Context, id string) (*models.AssetAssignment, error) {
	return toggleActive(ctx, s.audit, assignmentInfo, id, false, s.bind)
}

// Restore, açık bir atamayı geri alırken aracın başka açık ataması olmamalıdır.
func (s *assignmentService) Restore(ctx context.Context, id string) (*models.AssetAssignment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Open() && !a.IsActive {
		if err := checkNoOpen(ctx, s.repo, a.AssetID, a.ID); err != nil {
			return nil, err
		}
	}
	return toggleActive(ctx, s.audit, assignmentInfo, id, true, s.bind)
}

func (s *assignmentService) bind(tx *sqlx.Tx) activeRepo[models.AssetAssignment] {
	return s.repo.WithTx(tx)
}

// ─── Private Helpers ───

func (s *assignmentService) checkAsset(ctx context.Context, tx *sqlx.Tx, assetID string) error {
	asset, err := s.assetRepo.WithTx(tx).GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return pkg.NewValidationError("asset_id", "exists", "")
		}
		return err
	}
	if !asset.IsActive {
		return fmt.Errorf("%w: asset is inactive", pkg.ErrBadRequest)
	}
	return nil
}

func (s *assignmentService) checkPersonnel(ctx context.Context, tx *sqlx.Tx, personnelID string) error {
	p, err := s.personnelRepo.WithTx(tx).GetByID(ctx, personnelID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return pkg.NewValidationError("personnel_id", "exists", "")
		}
		return err
	}
	if !p.IsActive || p.Status == models.PersonnelStatusTerminated {
		return fmt.Errorf("%w: personnel is not active", pkg.ErrBadRequest)
	}
	return nil
}

// checkNoOpen, aracın (exceptID dışında) açık ataması varsa ErrAlreadyExists döner.
func checkNoOpen(ctx context.Context, repo repository.AssignmentRepository, assetID, exceptID string) error {
	open, err := repo.GetOpenByAsset(ctx, assetID)
	switch {
	case errors.Is(err, pkg.ErrNotFound):
		return nil
	case err != nil:
		return err
	case open.ID == exceptID:
		return nil
	default:
		return fmt.Errorf("%w: asset already has an open assignment", pkg.ErrAlreadyExists)
	}
}

// withFilter, filtre map'ini kopyalayıp anahtarı ekler.
func withFilter(filters map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(filters)+1)
	for k, v := range filters {
		out[k] = v
	}
	out[key] = value
	return out
}
