package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var CarModelSortable = []string{"name", "capacity", "created_at"}

// CarModel, bir markaya ait araç modeli (ör. Ford / Transit, Panel Van).
type CarModel struct {
	ID        string    `json:"id" db:"id"`
	BrandID   string    `json:"brand_id" db:"brand_id"`
	TypeID    string    `json:"type_id" db:"type_id"`
	Name      string    `json:"name" db:"name"`
	Capacity  *int      `json:"capacity" db:"capacity"` // yolcu veya ton
	Detail    *string   `json:"detail" db:"detail"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCarModelRequest struct {
	BrandID  string  `json:"brand_id" validate:"required,max=64"`
	TypeID   string  `json:"type_id" validate:"required,max=64"`
	Name     string  `json:"name" validate:"required,max=100"`
	Capacity *int    `json:"capacity" validate:"omitempty,gte=1,lte=1000"`
	Detail   *string `json:"detail" validate:"omitempty,max=500"`
}

func (r *CreateCarModelRequest) Validate() error {
	r.BrandID = strings.TrimSpace(r.BrandID)
	r.TypeID = strings.TrimSpace(r.TypeID)
	r.Name = strings.TrimSpace(r.Name)
	r.Detail = nilIfEmpty(r.Detail)
	return validate.Struct(r)
}

type UpdateCarModelRequest struct {
	BrandID  *string `json:"brand_id" validate:"omitempty,max=64"`
	TypeID   *string `json:"type_id" validate:"omitempty,max=64"`
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Capacity *int    `json:"capacity" validate:"omitempty,gte=1,lte=1000"`
	Detail   *string `json:"detail" validate:"omitempty,max=500"`
}

func (r *UpdateCarModelRequest) Validate() error {
	trimPtr(r.BrandID)
	trimPtr(r.TypeID)
	trimPtr(r.Name)
	trimPtr(r.Detail)
	for _, f := range []struct {
		name string
		v    *string
	}{{"brand_id", r.BrandID}, {"type_id", r.TypeID}, {"name", r.Name}} {
		if f.v != nil && *f.v == "" {
			return validate.Required(f.name)
		}
	}
	return validate.Struct(r)
}

func (r *UpdateCarModelRequest) Apply(m *CarModel) {
	if r.BrandID != nil {
		m.BrandID = *r.BrandID
	}
	if r.TypeID != nil {
		m.TypeID = *r.TypeID
	}
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Capacity != nil {
		m.Capacity = r.Capacity
	}
	if r.Detail != nil {
		m.Detail = nilIfEmpty(r.Detail)
	}
}
