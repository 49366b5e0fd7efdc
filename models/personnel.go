package models

import (
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

var PersonnelSortable = []string{"last_name", "first_name", "created_at"}

// Personel durumları.
const (
	PersonnelStatusActive     = "active"
	PersonnelStatusOnLeave    = "on_leave"
	PersonnelStatusTerminated = "terminated"
)

// Personnel, bir çalışan.
//
// TC kimlik numarası DB'de AES-256-GCM ile şifreli (national_id_enc) durur;
// tekillik ve arama için anahtarlı hash'i (national_id_hash), maskeli gösterim
// için son 4 hanesi (national_id_last4) ayrıca saklanır. API'de sadece maskeli
// hali (NationalID alanı, ör. "*******0950") döner.
type Personnel struct {
	ID              string    `json:"id" db:"id"`
	NationalIDEnc   string    `json:"-" db:"national_id_enc"`
	NationalIDHash  string    `json:"-" db:"national_id_hash"`
	NationalIDLast4 string    `json:"-" db:"national_id_last4"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	BirthDate       *Date     `json:"birth_date" db:"birth_date"`
	NationalityID   *string   `json:"nationality_id" db:"nationality_id"`
	BirthplaceID    *string   `json:"birthplace_id" db:"birthplace_id"`
	CompanyID       *string   `json:"company_id" db:"company_id"`
	Phone           *string   `json:"phone" db:"phone"`
	Address         *string   `json:"address" db:"address"`
	Status          string    `json:"status" db:"status"`
	IsActive        bool      `json:"is_active" db:"is_active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	NationalID string `json:"national_id" db:"-"` // maskeli
}

// MaskNationalID, son 4 hane dışındakileri yıldızlar: "12345678950" → "*******8950".
func MaskNationalID(last4 string) string {
	return strings.Repeat("*", 7) + last4
}

// FillMasked, NationalID alanını maskeli değerle doldurur.
func (p *Personnel) FillMasked() {
	p.NationalID = MaskNationalID(p.NationalIDLast4)
}

type CreatePersonnelRequest struct {
	NationalID    string  `json:"national_id" validate:"required,nationalid"`
	FirstName     string  `json:"first_name" validate:"required,max=100"`
	LastName      string  `json:"last_name" validate:"required,max=100"`
	BirthDate     *Date   `json:"birth_date"`
	NationalityID *string `json:"nationality_id" validate:"omitempty,max=64"`
	BirthplaceID  *string `json:"birthplace_id" validate:"omitempty,max=64"`
	CompanyID     *string `json:"company_id" validate:"omitempty,max=64"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Status        string  `json:"status" validate:"omitempty,oneof=active on_leave terminated"`
}

func (r *CreatePersonnelRequest) Validate() error {
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.NationalityID = nilIfEmpty(r.NationalityID)
	r.BirthplaceID = nilIfEmpty(r.BirthplaceID)
	r.CompanyID = nilIfEmpty(r.CompanyID)
	r.Phone = nilIfEmpty(r.Phone)
	r.Address = nilIfEmpty(r.Address)
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = PersonnelStatusActive
	}
	if err := validate.Struct(r); err != nil {
		return err
	}
	return checkBirthDate(r.BirthDate)
}

// UpdatePersonnelRequest, TC kimlik no da değiştirilebilir (yeniden şifrelenir).
type UpdatePersonnelRequest struct {
	NationalID    *string `json:"national_id" validate:"omitempty,nationalid"`
	FirstName     *string `json:"first_name" validate:"omitempty,max=100"`
	LastName      *string `json:"last_name" validate:"omitempty,max=100"`
	BirthDate     *Date   `json:"birth_date"`
	NationalityID *string `json:"nationality_id" validate:"omitempty,max=64"`
	BirthplaceID  *string `json:"birthplace_id" validate:"omitempty,max=64"`
	CompanyID     *string `json:"company_id" validate:"omitempty,max=64"`
	Phone         *string `json:"phone" validate:"omitempty,max=20"`
	Address       *string `json:"address" validate:"omitempty,max=500"`
	Status        *string `json:"status" validate:"omitempty,oneof=active on_leave terminated"`
}

func (r *UpdatePersonnelRequest) Validate() error {
	trimPtr(r.NationalID)
	trimPtr(r.FirstName)
	trimPtr(r.LastName)
	trimPtr(r.Status)
	for _, f := range []struct {
		name string
		v    *string
	}{{"national_id", r.NationalID}, {"first_name", r.FirstName}, {"last_name", r.LastName}, {"status", r.Status}} {
		if f.v != nil && *f.v == "" {
			return validate.Required(f.name)
		}
	}
	trimPtr(r.NationalityID)
	trimPtr(r.BirthplaceID)
	trimPtr(r.CompanyID)
	trimPtr(r.Phone)
	trimPtr(r.Address)
	if err := validate.Struct(r); err != nil {
		return err
	}
	return checkBirthDate(r.BirthDate)
}

// Apply, şifreleme gerektirmeyen alanları uygular. NationalID service katmanında işlenir.
func (r *UpdatePersonnelRequest) Apply(p *Personnel) {
	if r.FirstName != nil {
		p.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		p.LastName = *r.LastName
	}
	if r.BirthDate != nil {
		p.BirthDate = r.BirthDate
	}
	if r.NationalityID != nil {
		p.NationalityID = nilIfEmpty(r.NationalityID)
	}
	if r.BirthplaceID != nil {
		p.BirthplaceID = nilIfEmpty(r.BirthplaceID)
	}
	if r.CompanyID != nil {
		p.CompanyID = nilIfEmpty(r.CompanyID)
	}
	if r.Phone != nil {
		p.Phone = nilIfEmpty(r.Phone)
	}
	if r.Address != nil {
		p.Address = nilIfEmpty(r.Address)
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
}

// checkBirthDate, doğum tarihi gelecekte olamaz.
func checkBirthDate(d *Date) error {
	if d != nil && d.After(time.Now().UTC()) {
		return validate.Rule("birth_date", "lte", "today")
	}
	return nil
}
