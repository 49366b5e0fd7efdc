package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

// APIClient, secure endpoint'leri kullanan üçüncü parti uygulama.
// Bir client'ın birden fazla key'i ve bir izin listesi vardır.
type APIClient struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Description        *string   `json:"description" db:"description"`
	ContactEmail       *string   `json:"contact_email" db:"contact_email"`
	OwnerUserID        *string   `json:"owner_user_id" db:"owner_user_id"`
	RateLimitPerMinute int       `json:"rate_limit_per_minute" db:"rate_limit_per_minute"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	// İlişkili veriler, ayrı sorgularla doldurulur.
	Permissions []string  `json:"permissions,omitempty" db:"-"`
	Keys        []*APIKey `json:"keys,omitempty" db:"-"`
}

// APIKey, bir client'a ait key'in metadata'sı. Key'in kendisi saklanmaz, sadece bcrypt hash'i.
type APIKey struct {
	ID         string     `json:"id" db:"id"`
	ClientID   string     `json:"client_id" db:"client_id"`
	Name       *string    `json:"name" db:"name"`
	KeyPrefix  string     `json:"key_prefix" db:"key_prefix"`
	KeyHash    string     `json:"-" db:"key_hash"`
	ExpiresAt  *time.Time `json:"expires_at" db:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at" db:"last_used_at"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	RevokedAt  *time.Time `json:"revoked_at" db:"revoked_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Expired, key'in süresi now itibariyle dolmuş mu.
func (k *APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && !now.Before(*k.ExpiresAt)
}

// Usable, key aktif, iptal edilmemiş ve süresi dolmamış mı.
func (k *APIKey) Usable(now time.Time) bool {
	return k.IsActive && k.RevokedAt == nil && !k.Expired(now)
}

// APIClientIdentity, doğrulanmış bir key'in taşıdığı kimlik. Middleware bunu context'e koyar;
// doğrulama sonucu cache'te de bu yapı tutulur.
type APIClientIdentity struct {
	ClientID           string        `json:"client_id"`
	ClientName         string        `json:"client_name"`
	KeyID              string        `json:"key_id"`
	Permissions        PermissionSet `json:"permissions"`
	RateLimitPerMinute int           `json:"rate_limit_per_minute"`
	KeyExpiresAt       *time.Time    `json:"-"`
}

type CreateAPIClientRequest struct {
	Name               string   `json:"name" validate:"required,min=2,max=100"`
	Description        *string  `json:"description" validate:"omitempty,max=500"`
	ContactEmail       *string  `json:"contact_email" validate:"omitempty,email,max=254"`
	RateLimitPerMinute *int     `json:"rate_limit_per_minute" validate:"omitempty,gte=1,lte=100000"`
	Permissions        []string `json:"permissions" validate:"dive,permission"`
}

func (r *CreateAPIClientRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = nilIfEmpty(r.Description)
	r.ContactEmail = lowerPtr(nilIfEmpty(r.ContactEmail))
	r.Permissions = NormalizePermissions(r.Permissions)
	return validate.Struct(r)
}

type UpdateAPIClientRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description        *string `json:"description" validate:"omitempty,max=500"`
	ContactEmail       *string `json:"contact_email" validate:"omitempty,email,max=254"`
	RateLimitPerMinute *int    `json:"rate_limit_per_minute" validate:"omitempty,gte=1,lte=100000"`
	IsActive           *bool   `json:"is_active"`
}

func (r *UpdateAPIClientRequest) Validate() error {
	trimPtr(r.Name)
	if r.Name != nil && len(*r.Name) < 2 {
		return validate.Rule("name", "min", "2")
	}
	trimPtr(r.Description)
	trimPtr(r.ContactEmail)
	return validate.Struct(r)
}

// Apply, isteği mevcut client'a uygular.
func (r *UpdateAPIClientRequest) Apply(c *APIClient) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Description != nil {
		c.Description = nilIfEmpty(r.Description)
	}
	if r.ContactEmail != nil {
		c.ContactEmail = lowerPtr(nilIfEmpty(r.ContactEmail))
	}
	if r.RateLimitPerMinute != nil {
		c.RateLimitPerMinute = *r.RateLimitPerMinute
	}
	if r.IsActive != nil {
		c.IsActive = *r.IsActive
	}
}

// SetPermissionsRequest, client'ın izin listesini tamamen değiştirir.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,permission"`
}

func (r *SetPermissionsRequest) Validate() error {
	if r.Permissions == nil {
		return validate.Required("permissions")
	}
	r.Permissions = NormalizePermissions(r.Permissions)
	return validate.Struct(r)
}

type CreateAPIKeyRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=100"`
	ExpiresInDays *int    `json:"expires_in_days" validate:"omitempty,gte=1,lte=3650"`
}

func (r *CreateAPIKeyRequest) Validate() error {
	r.Name = nilIfEmpty(r.Name)
	return validate.Struct(r)
}

// CreatedAPIKey, key oluşturma yanıtı. Key burada BİR KERE döner, tekrar gösterilemez.
type CreatedAPIKey struct {
	*APIKey
	Key string `json:"key"`
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(*s)
	return &v
}
