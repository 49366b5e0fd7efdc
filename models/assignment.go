package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var AssignmentSortable = []string{"start_date", "end_date", "created_at"}

// AssetAssignment, bir aracın bir personele zimmetlenmesi.
// EndDate nil ise atama açıktır; bir aracın aynı anda tek açık ataması olabilir.
type AssetAssignment struct {
	ID          string    `json:"id" db:"id"`
	AssetID     string    `json:"asset_id" db:"asset_id"`
	PersonnelID string    `json:"personnel_id" db:"personnel_id"`
	StartDate   Date      `json:"start_date" db:"start_date"`
	EndDate     *Date     `json:"end_date" db:"end_date"`
	Notes       *string   `json:"notes" db:"notes"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Open, atama hâlâ devam ediyor mu.
func (a *AssetAssignment) Open() bool {
	return a.EndDate == nil
}

// CheckDates, bitiş tarihi başlangıçtan önce olamaz.
func (a *AssetAssignment) CheckDates() error {
	if a.EndDate != nil && a.EndDate.Before(a.StartDate) {
		return validate.Rule("end_date", "gtefield", "start_date")
	}
	return nil
}

type CreateAssignmentRequest struct {
	AssetID     string  `json:"asset_id" validate:"required,max=64"`
	PersonnelID string  `json:"personnel_id" validate:"required,max=64"`
	StartDate   *Date   `json:"start_date" validate:"required"`
	EndDate     *Date   `json:"end_date"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r *CreateAssignmentRequest) Validate() error {
	r.AssetID = strings.TrimSpace(r.AssetID)
	r.PersonnelID = strings.TrimSpace(r.PersonnelID)
	r.Notes = nilIfEmpty(r.Notes)
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return validate.Rule("end_date", "gtefield", "start_date")
	}
	return nil
}

type UpdateAssignmentRequest struct {
	PersonnelID *string `json:"personnel_id" validate:"omitempty,max=64"`
	StartDate   *Date   `json:"start_date"`
	EndDate     *Date   `json:"end_date"`
	Notes       *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r *UpdateAssignmentRequest) Validate() error {
	trimPtr(r.PersonnelID)
	if r.PersonnelID != nil && *r.PersonnelID == "" {
		return validate.Required("personnel_id")
	}
	trimPtr(r.Notes)
	return validate.Struct(r)
}

func (r *UpdateAssignmentRequest) Apply(a *AssetAssignment) {
	if r.PersonnelID != nil {
		a.PersonnelID = *r.PersonnelID
	}
	if r.StartDate != nil {
		a.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		a.EndDate = r.EndDate
	}
	if r.Notes != nil {
		a.Notes = nilIfEmpty(r.Notes)
	}
}

// EndAssignmentRequest, açık atamayı kapatır. EndDate verilmezse bugün kullanılır.
type EndAssignmentRequest struct {
	EndDate *Date   `json:"end_date"`
	Notes   *string `json:"notes" validate:"omitempty,max=1000"`
}

func (r *EndAssignmentRequest) Validate() error {
	trimPtr(r.Notes)
	return validate.Struct(r)
}
