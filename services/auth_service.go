package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost, kullanıcı şifreleri için.
const bcryptCost = 12

// tokenIssuer, access token'ların iss claim'i.
const tokenIssuer = "filoapi"

// AuthService, admin paneli oturum işlemleri.
// Handler bu interface'e bağımlıdır, concrete struct'a değil.
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthTokens, error)
	// RefreshToken, refresh token'ı tek kullanımlık tüketir ve yeni çift üretir.
	RefreshToken(ctx context.Context, req *models.RefreshRequest) (*models.AuthTokens, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*models.User, error)
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
	// BootstrapAdmin, hiç kullanıcı yoksa verilen bilgilerle admin oluşturur.
	// Kullanıcı varsa hiçbir şey yapmaz ve false döner.
	BootstrapAdmin(ctx context.Context, req *models.CreateUserRequest) (bool, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	audit       AuditService
	jwtSecret   []byte
	accessExp   time.Duration
	refreshExp  time.Duration
	logger      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	audit AuditService,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		audit:       audit,
		jwtSecret:   []byte(jwtSecret),
		accessExp:   time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:  time.Duration(refreshExpDays) * 24 * time.Hour,
		logger:      logger.Named("auth"),
	}
}

// Login, email + şifre ile giriş. Pasif kullanıcı ile yanlış şifre aynı mesajı alır.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}

	at := now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, err
	}
	user.LastLoginAt = &at

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return s.generateTokens(ctx, user)
}

func (s *authService) RefreshToken(ctx context.Context, req *models.RefreshRequest) (*models.AuthTokens, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// Eski session her durumda silinir: süresi dolmuşsa da, rotation'da da.
	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

// Logout, refresh token'ı iptal eder. Bilinmeyen token hata değildir.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

func (s *authService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword, mevcut şifre doğrulandıktan sonra yeni hash yazar ve
// kullanıcının tüm oturumlarını kapatır.
func (s *authService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", pkg.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	err = s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.userRepo.WithTx(tx)
		at := now()
		if err := repo.UpdatePassword(ctx, userID, string(hash), at); err != nil {
			return err
		}
		after := *user
		after.UpdatedAt = at
		// password_hash snapshot'a girmez; changed_fields boş kalır
		return rec("users", userID, models.AuditUpdate, user, &after)
	})
	if err != nil {
		return err
	}

	return s.sessionRepo.DeleteByUserID(ctx, userID)
}

// ValidateAccessToken, JWT access token'ı doğrular ve claims'i döner.
func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}
	return claims, nil
}

func (s *authService) BootstrapAdmin(ctx context.Context, req *models.CreateUserRequest) (bool, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	req.IsAdmin = true
	if err := req.Validate(); err != nil {
		return false, err
	}
	user, err := newUser(req)
	if err != nil {
		return false, err
	}

	err = s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		if err := s.userRepo.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return rec("users", user.ID, models.AuditInsert, nil, user)
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("bootstrap admin created", zap.String("email", user.Email))
	return true, nil
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	issued := time.Now()
	accessClaims := &models.TokenClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(issued),
			Issuer:    tokenIssuer,
		},
	}

	accessString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshString := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		RefreshToken: refreshString,
		ExpiresAt:    issued.Add(s.refreshExp).UTC(),
		CreatedAt:    now(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &models.AuthTokens{
		AccessToken:  accessString,
		RefreshToken: refreshString,
		ExpiresIn:    int(s.accessExp.Seconds()),
		User:         user,
	}, nil
}

// newUser, doğrulanmış istekten bcrypt hash'li kullanıcı kurar.
func newUser(req *models.CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	at := now()
	return &models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
		IsActive:     true,
		CreatedAt:    at,
		UpdatedAt:    at,
	}, nil
}
