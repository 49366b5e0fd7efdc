package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var WorkAreaSortable = []string{"name", "start_date", "created_at"}

// WorkArea, bir şehirdeki şantiye/proje sahası. Opsiyonel olarak bir şirkete ve sorumlu personele bağlıdır.
type WorkArea struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CityID    string    `json:"city_id" db:"city_id"`
	CompanyID *string   `json:"company_id" db:"company_id"`
	ManagerID *string   `json:"manager_id" db:"manager_id"`
	Address   *string   `json:"address" db:"address"`
	StartDate *Date     `json:"start_date" db:"start_date"`
	EndDate   *Date     `json:"end_date" db:"end_date"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CheckDates, bitiş tarihi başlangıçtan önce olamaz.
func (a *WorkArea) CheckDates() error {
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return validate.Rule("end_date", "gtefield", "start_date")
	}
	return nil
}

type CreateWorkAreaRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	CityID    string  `json:"city_id" validate:"required,max=64"`
	CompanyID *string `json:"company_id" validate:"omitempty,max=64"`
	ManagerID *string `json:"manager_id" validate:"omitempty,max=64"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	StartDate *Date   `json:"start_date"`
	EndDate   *Date   `json:"end_date"`
}

func (r *CreateWorkAreaRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.CityID = strings.TrimSpace(r.CityID)
	r.CompanyID = nilIfEmpty(r.CompanyID)
	r.ManagerID = nilIfEmpty(r.ManagerID)
	r.Address = nilIfEmpty(r.Address)
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return validate.Rule("end_date", "gtefield", "start_date")
	}
	return nil
}

type UpdateWorkAreaRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=200"`
	CityID    *string `json:"city_id" validate:"omitempty,max=64"`
	CompanyID *string `json:"company_id" validate:"omitempty,max=64"`
	ManagerID *string `json:"manager_id" validate:"omitempty,max=64"`
	Address   *string `json:"address" validate:"omitempty,max=500"`
	StartDate *Date   `json:"start_date"`
	EndDate   *Date   `json:"end_date"`
}

func (r *UpdateWorkAreaRequest) Validate() error {
	trimPtr(r.Name)
	trimPtr(r.CityID)
	if r.Name != nil && *r.Name == "" {
		return validate.Required("name")
	}
	if r.CityID != nil && *r.CityID == "" {
		return validate.Required("city_id")
	}
	trimPtr(r.CompanyID)
	trimPtr(r.ManagerID)
	trimPtr(r.Address)
	return validate.Struct(r)
}

// Apply, isteği uygular; tarih sırası kontrolü birleşmiş kayıt üzerinde CheckDates ile yapılır.
func (r *UpdateWorkAreaRequest) Apply(a *WorkArea) {
	if r.Name != nil {
		a.Name = *r.Name
	}
	if r.CityID != nil {
		a.CityID = *r.CityID
	}
	if r.CompanyID != nil {
		a.CompanyID = nilIfEmpty(r.CompanyID)
	}
	if r.ManagerID != nil {
		a.ManagerID = nilIfEmpty(r.ManagerID)
	}
	if r.Address != nil {
		a.Address = nilIfEmpty(r.Address)
	}
	if r.StartDate != nil {
		a.StartDate = r.StartDate
	}
	if r.EndDate != nil {
		a.EndDate = r.EndDate
	}
}
