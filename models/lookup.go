package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

// LookupKind, aynı şemayı paylaşan bir referans kataloğu (ülke, marka, ceza tipi...).
// URL'deki slug, tablo adı ve izin kaynağı bu yapıda birbirine bağlanır.
type LookupKind struct {
	Slug     string `json:"slug"`     // URL segmenti: "car-brands"
	Table    string `json:"table"`    // tablo adı: "car_brands"
	Resource string `json:"resource"` // izin kaynağı: "car_brand" → car_brand:read
}

// LookupKinds, desteklenen tüm kataloglar.
// Tablo adları SQL'e doğrudan yazıldığı için SADECE bu listeden gelir, kullanıcı girdisinden değil.
var LookupKinds = []LookupKind{
	{Slug: "countries", Table: "countries", Resource: "country"},
	{Slug: "car-brands", Table: "car_brands", Resource: "car_brand"},
	{Slug: "car-types", Table: "car_types", Resource: "car_type"},
	{Slug: "ownership-types", Table: "ownership_types", Resource: "ownership_type"},
	{Slug: "penalty-types", Table: "penalty_types", Resource: "penalty_type"},
	{Slug: "maintenance-types", Table: "maintenance_types", Resource: "maintenance_type"},
	{Slug: "payment-types", Table: "payment_types", Resource: "payment_type"},
	{Slug: "policy-types", Table: "policy_types", Resource: "policy_type"},
	{Slug: "document-categories", Table: "document_categories", Resource: "document_category"},
}

// LookupKindBySlug, slug'a karşılık gelen katalog tanımını döner.
func LookupKindBySlug(slug string) (LookupKind, bool) {
	for _, k := range LookupKinds {
		if k.Slug == slug {
			return k, true
		}
	}
	return LookupKind{}, false
}

// LookupSortable, katalog listelerinde izin verilen sıralama kolonları.
var LookupSortable = []string{"name", "code", "created_at"}

// Lookup, bir katalog satırı.
type Lookup struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Code        *string   `json:"code" db:"code"`
	Description *string   `json:"description" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLookupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (r *CreateLookupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = upperPtr(nilIfEmpty(r.Code))
	r.Description = nilIfEmpty(r.Description)
	return validate.Struct(r)
}

// UpdateLookupRequest, kısmi güncelleme. Code/Description için "" gönderilirse alan temizlenir.
type UpdateLookupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=20"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

func (r *UpdateLookupRequest) Validate() error {
	trimPtr(r.Name)
	if r.Name != nil && *r.Name == "" {
		return validate.Required("name")
	}
	trimPtr(r.Code)
	trimPtr(r.Description)
	return validate.Struct(r)
}

// Apply, isteği mevcut kayda uygular.
func (r *UpdateLookupRequest) Apply(l *Lookup) {
	if r.Name != nil {
		l.Name = *r.Name
	}
	if r.Code != nil {
		l.Code = upperPtr(nilIfEmpty(r.Code))
	}
	if r.Description != nil {
		l.Description = nilIfEmpty(r.Description)
	}
}

func upperPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToUpper(*s)
	return &v
}
