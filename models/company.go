package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var CompanySortable = []string{"name", "tax_no", "created_at"}

type Company struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	TaxNo     *string   `json:"tax_no" db:"tax_no"`
	TaxOffice *string   `json:"tax_office" db:"tax_office"`
	Address   *string   `json:"address" db:"address"`
	Phone     *string   `json:"phone" db:"phone"`
	CityID    *string   `json:"city_id" db:"city_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCompanyRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	TaxNo     *string `json:"tax_no" validate:"omitempty,numeric,min=10,max=11"`
	TaxOffice *string `json:"tax_office" validate:"omitempty,max=100"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	CityID    *string `json:"city_id" validate:"omitempty,max=64"`
}

func (r *CreateCompanyRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.TaxNo = nilIfEmpty(r.TaxNo)
	r.TaxOffice = nilIfEmpty(r.TaxOffice)
	r.Address = nilIfEmpty(r.Address)
	r.Phone = nilIfEmpty(r.Phone)
	r.CityID = nilIfEmpty(r.CityID)
	return validate.Struct(r)
}

type UpdateCompanyRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	TaxNo     *string `json:"tax_no" validate:"omitempty,numeric,min=10,max=11"`
	TaxOffice *string `json:"tax_office" validate:"omitempty,max=100"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	CityID    *string `json:"city_id" validate:"omitempty,max=64"`
}

func (r *UpdateCompanyRequest) Validate() error {
	trimPtr(r.Name)
	if r.Name != nil && *r.Name == "" {
		return validate.Required("name")
	}
	trimPtr(r.TaxNo)
	trimPtr(r.TaxOffice)
	trimPtr(r.Address)
	trimPtr(r.Phone)
	trimPtr(r.CityID)
	return validate.Struct(r)
}

func (r *UpdateCompanyRequest) Apply(c *Company) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.TaxNo != nil {
		c.TaxNo = nilIfEmpty(r.TaxNo)
	}
	if r.TaxOffice != nil {
		c.TaxOffice = nilIfEmpty(r.TaxOffice)
	}
	if r.Address != nil {
		c.Address = nilIfEmpty(r.Address)
	}
	if r.Phone != nil {
		c.Phone = nilIfEmpty(r.Phone)
	}
	if r.CityID != nil {
		c.CityID = nilIfEmpty(r.CityID)
	}
}
