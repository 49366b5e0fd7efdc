// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Her model veritabanındaki bir tablonun Go karşılığıdır ve aynı zamanda
// API'den gelen/giden verinin şeklini belirler.
// `json:"..."` tag'leri response'larda, `db:"..."` tag'leri sqlx sorgularında,
// `validate:"..."` tag'leri request doğrulamasında kullanılır.
package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

// User, admin paneline giriş yapabilen bir kullanıcı.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	PasswordHash string     `json:"-" db:"password_hash"` // API response'a DAHİL EDİLMEZ
	IsAdmin      bool       `json:"is_admin" db:"is_admin"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// CreateUserRequest, admin'in yeni kullanıcı eklerken gönderdiği veri.
// PasswordHash yerine Password alınır; hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

// Validate, CreateUserRequest'i normalize edip doğrular.
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FullName = strings.TrimSpace(r.FullName)
	return validate.Struct(r)
}

// UpdateUserRequest, kısmi güncelleme: nil alanlar değişmez.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *UpdateUserRequest) Validate() error {
	trimPtr(r.FullName)
	return validate.Struct(r)
}

// LoginRequest, giriş yaparken panelden gelen veri.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return validate.Struct(r)
}

// RefreshRequest, access token yenilemek için kullanılır (logout da aynı gövdeyi alır).
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (r *RefreshRequest) Validate() error {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	return validate.Struct(r)
}

// ChangePasswordRequest, oturumdaki kullanıcının kendi şifresini değiştirmesi.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// AuthTokens, login ve refresh sonrası dönen token çifti.
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // saniye
	User         *User  `json:"user"`
}

// trimPtr, nil değilse pointer'daki string'i yerinde trim'ler.
func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// nilIfEmpty, boş string'i NULL'a (nil) çevirir.
func nilIfEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
