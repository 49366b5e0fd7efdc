package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var AssetSortable = []string{"plate_number", "model_year", "created_at"}

// Asset, filodaki bir araç. Plaka normalize edilmiş (büyük harf, boşluksuz) saklanır
// ve aktif kayıtlar arasında tekildir.
type Asset struct {
	ID              string    `json:"id" db:"id"`
	ModelID         string    `json:"model_id" db:"model_id"`
	ModelYear       int       `json:"model_year" db:"model_year"`
	PlateNumber     string    `json:"plate_number" db:"plate_number"`
	ChassisNo       *string   `json:"chassis_no" db:"chassis_no"`
	EngineNo        *string   `json:"engine_no" db:"engine_no"`
	OwnerCompanyID  *string   `json:"owner_company_id" db:"owner_company_id"`
	OwnershipTypeID *string   `json:"ownership_type_id" db:"ownership_type_id"`
	RegisterDate    *Date     `json:"register_date" db:"register_date"`
	PurchaseDate    *Date     `json:"purchase_date" db:"purchase_date"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedBy       *string   `json:"created_by" db:"created_by"`
	UpdatedBy       *string   `json:"updated_by" db:"updated_by"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type CreateAssetRequest struct {
	ModelID         string  `json:"model_id" validate:"required,max=64"`
	ModelYear       int     `json:"model_year" validate:"required,gte=1950,lte=2100"`
	PlateNumber     string  `json:"plate_number" validate:"required,plate"`
	ChassisNo       *string `json:"chassis_no" validate:"omitempty,max=50"`
	EngineNo        *string `json:"engine_no" validate:"omitempty,max=50"`
	OwnerCompanyID  *string `json:"owner_company_id" validate:"omitempty,max=64"`
	OwnershipTypeID *string `json:"ownership_type_id" validate:"omitempty,max=64"`
	RegisterDate    *Date   `json:"register_date"`
	PurchaseDate    *Date   `json:"purchase_date"`
}

func (r *CreateAssetRequest) Validate() error {
	r.ModelID = strings.TrimSpace(r.ModelID)
	r.PlateNumber = validate.NormalizePlate(r.PlateNumber)
	r.ChassisNo = upperPtr(nilIfEmpty(r.ChassisNo))
	r.EngineNo = upperPtr(nilIfEmpty(r.EngineNo))
	r.OwnerCompanyID = nilIfEmpty(r.OwnerCompanyID)
	r.OwnershipTypeID = nilIfEmpty(r.OwnershipTypeID)
	return validate.Struct(r)
}

type UpdateAssetRequest struct {
	ModelID         *string `json:"model_id" validate:"omitempty,max=64"`
	ModelYear       *int    `json:"model_year" validate:"omitempty,gte=1950,lte=2100"`
	PlateNumber     *string `json:"plate_number" validate:"omitempty,plate"`
	ChassisNo       *string `json:"chassis_no" validate:"omitempty,max=50"`
	EngineNo        *string `json:"engine_no" validate:"omitempty,max=50"`
	OwnerCompanyID  *string `json:"owner_company_id" validate:"omitempty,max=64"`
	OwnershipTypeID *string `json:"ownership_type_id" validate:"omitempty,max=64"`
	RegisterDate    *Date   `json:"register_date"`
	PurchaseDate    *Date   `json:"purchase_date"`
}

func (r *UpdateAssetRequest) Validate() error {
	trimPtr(r.ModelID)
	if r.ModelID != nil && *r.ModelID == "" {
		return validate.Required("model_id")
	}
	if r.PlateNumber != nil {
		p := validate.NormalizePlate(*r.PlateNumber)
		if p == "" {
			return validate.Required("plate_number")
		}
		r.PlateNumber = &p
	}
	trimPtr(r.ChassisNo)
	trimPtr(r.EngineNo)
	trimPtr(r.OwnerCompanyID)
	trimPtr(r.OwnershipTypeID)
	return validate.Struct(r)
}

func (r *UpdateAssetRequest) Apply(a *Asset) {
	if r.ModelID != nil {
		a.ModelID = *r.ModelID
	}
	if r.ModelYear != nil {
		a.ModelYear = *r.ModelYear
	}
	if r.PlateNumber != nil {
		a.PlateNumber = *r.PlateNumber
	}
	if r.ChassisNo != nil {
		a.ChassisNo = upperPtr(nilIfEmpty(r.ChassisNo))
	}
	if r.EngineNo != nil {
		a.EngineNo = upperPtr(nilIfEmpty(r.EngineNo))
	}
	if r.OwnerCompanyID != nil {
		a.OwnerCompanyID = nilIfEmpty(r.OwnerCompanyID)
	}
	if r.OwnershipTypeID != nil {
		a.OwnershipTypeID = nilIfEmpty(r.OwnershipTypeID)
	}
	if r.RegisterDate != nil {
		a.RegisterDate = r.RegisterDate
	}
	if r.PurchaseDate != nil {
		a.PurchaseDate = r.PurchaseDate
	}
}
