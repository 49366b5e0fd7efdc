package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var CitySortable = []string{"name", "plate_code", "created_at"}

type City struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CountryID string    `json:"country_id" db:"country_id"`
	PlateCode *string   `json:"plate_code" db:"plate_code"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CreateCityRequest struct {
	Name      string  `json:"name" validate:"required,max=100"`
	CountryID string  `json:"country_id" validate:"required,max=64"`
	PlateCode *string `json:"plate_code" validate:"omitempty,numeric,len=2"`
}

func (r *CreateCityRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.CountryID = strings.TrimSpace(r.CountryID)
	r.PlateCode = nilIfEmpty(r.PlateCode)
	return validate.Struct(r)
}

type UpdateCityRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=100"`
	CountryID *string `json:"country_id" validate:"omitempty,max=64"`
	PlateCode *string `json:"plate_code" validate:"omitempty,numeric,len=2"`
}

func (r *UpdateCityRequest) Validate() error {
	trimPtr(r.Name)
	trimPtr(r.CountryID)
	trimPtr(r.PlateCode)
	if r.Name != nil && *r.Name == "" {
		return validate.Required("name")
	}
	if r.CountryID != nil && *r.CountryID == "" {
		return validate.Required("country_id")
	}
	return validate.Struct(r)
}

func (r *UpdateCityRequest) Apply(c *City) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.CountryID != nil {
		c.CountryID = *r.CountryID
	}
	if r.PlateCode != nil {
		c.PlateCode = nilIfEmpty(r.PlateCode)
	}
}
