package services

import (
	"context"
	"fmt"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// UserService, admin kullanıcı yönetimi. Sadece is_admin kullanıcılar erişir.
type UserService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.User], error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	// Update, actorID kendi admin yetkisini kaldıramaz ve kendini pasifleştiremez.
	Update(ctx context.Context, actorID, id string, req *models.UpdateUserRequest) (*models.User, error)
	Deactivate(ctx context.Context, actorID, id string) (*models.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	audit       AuditService
}

func NewUserService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, audit AuditService) UserService {
	return &userService{userRepo: userRepo, sessionRepo: sessionRepo, audit: audit}
}

func (s *userService) List(ctx context.Context, p models.ListParams) (*models.Page[models.User], error) {
	items, total, err := s.userRepo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	user, err := newUser(req)
	if err != nil {
		return nil, err
	}

	err = s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return rec("users", user.ID, models.AuditInsert, nil, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, actorID, id string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if actorID == id {
		if req.IsAdmin != nil && !*req.IsAdmin {
			return nil, fmt.Errorf("%w: you cannot remove your own admin role", pkg.ErrBadRequest)
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, fmt.Errorf("%w: you cannot deactivate yourself", pkg.ErrBadRequest)
		}
	}

	var newHash string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		newHash = string(hash)
	}

	var updated *models.User
	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.userRepo.WithTx(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		after := *before
		if req.FullName != nil {
			after.FullName = *req.FullName
		}
		if req.IsAdmin != nil {
			after.IsAdmin = *req.IsAdmin
		}
		if req.IsActive != nil {
			after.IsActive = *req.IsActive
		}
		after.UpdatedAt = now()

		if err := repo.Update(ctx, &after); err != nil {
			return err
		}
		if newHash != "" {
			if err := repo.UpdatePassword(ctx, id, newHash, after.UpdatedAt); err != nil {
				return err
			}
		}

		updated = &after
		return rec("users", id, models.AuditUpdate, before, &after)
	})
	if err != nil {
		return nil, err
	}

	// Pasifleşen veya şifresi değişen kullanıcının açık oturumları kapanır
	if !updated.IsActive || newHash != "" {
		if err := s.sessionRepo.DeleteByUserID(ctx, id); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func (s *userService) Deactivate(ctx context.Context, actorID, id string) (*models.User, error) {
	if actorID == id {
		return nil, fmt.Errorf("%w: you cannot deactivate yourself", pkg.ErrBadRequest)
	}

	var updated *models.User
	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.userRepo.WithTx(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !before.IsActive {
			return fmt.Errorf("%w: user", pkg.ErrNotFound)
		}

		after := *before
		after.IsActive = false
		after.UpdatedAt = now()
		if err := repo.Update(ctx, &after); err != nil {
			return err
		}
		updated = &after
		return rec("users", id, models.AuditDelete, before, &after)
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.DeleteByUserID(ctx, id); err != nil {
		return nil, err
	}
	return updated, nil
}
