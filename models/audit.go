package models

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
	"github.com/jmoiron/sqlx/types"
)

// Audit operasyonları.
const (
	AuditInsert  = "INSERT"
	AuditUpdate  = "UPDATE"
	AuditDelete  = "DELETE"
	AuditRestore = "RESTORE"
)

// AuditLog, bir kayıt üzerindeki tek bir değişikliğin izi.
// OldValues INSERT'te, NewValues hiçbir operasyonda boş kalmaz
// (DELETE soft delete olduğu için is_active=false haliyle yazılır).
type AuditLog struct {
	ID            string         `json:"id" db:"id"`
	TableName     string         `json:"table_name" db:"table_name"`
	RecordID      string         `json:"record_id" db:"record_id"`
	Operation     string         `json:"operation" db:"operation"`
	OldValues     RawJSON        `json:"old_values" db:"old_values"`
	NewValues     RawJSON        `json:"new_values" db:"new_values"`
	ChangedFields types.JSONText `json:"changed_fields" db:"changed_fields"`
	UserID        *string        `json:"user_id" db:"user_id"`
	APIClientID   *string        `json:"api_client_id" db:"api_client_id"`
	IPAddress     *string        `json:"ip_address" db:"ip_address"`
	UserAgent     *string        `json:"user_agent" db:"user_agent"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
}

// AuditFilter, audit log listesinin filtreleri. Boş alanlar filtre uygulamaz.
type AuditFilter struct {
	TableName   string     `json:"table_name"`
	RecordID    string     `json:"record_id"`
	Operation   string     `json:"operation" validate:"omitempty,oneof=INSERT UPDATE DELETE RESTORE"`
	UserID      string     `json:"user_id"`
	APIClientID string     `json:"api_client_id"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
}

// ParseAuditFilter, query string'den filtreleri okur. from/to RFC3339 veya YYYY-MM-DD olabilir.
func ParseAuditFilter(q url.Values) (AuditFilter, error) {
	f := AuditFilter{
		TableName:   strings.TrimSpace(q.Get("table_name")),
		RecordID:    strings.TrimSpace(q.Get("record_id")),
		Operation:   strings.ToUpper(strings.TrimSpace(q.Get("operation"))),
		UserID:      strings.TrimSpace(q.Get("user_id")),
		APIClientID: strings.TrimSpace(q.Get("api_client_id")),
	}

	var err error
	if f.From, err = ParseTimeParam(q.Get("from"), "from"); err != nil {
		return f, err
	}
	if f.To, err = ParseTimeParam(q.Get("to"), "to"); err != nil {
		return f, err
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, validate.Rule("to", "gtefield", "from")
	}

	return f, validate.Struct(&f)
}

// ParseTimeParam, RFC3339 veya YYYY-MM-DD okur; boş değer için nil döner.
func ParseTimeParam(v, field string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		t = t.UTC()
		return &t, nil
	}
	d, err := ParseDate(v)
	if err != nil {
		return nil, validate.Rule(field, "datetime", time.RFC3339)
	}
	return &d.Time, nil
}

// RawJSON, NULL olabilen JSON kolonu. NULL ve boş değer JSON'da null olarak görünür.
type RawJSON []byte

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*j = nil
		return nil
	}
	*j = append((*j)[:0], b...)
	return nil
}

// Value, boşsa NULL yazar.
func (j RawJSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case string:
		*j = RawJSON(v)
	case []byte:
		*j = append(RawJSON(nil), v...)
	default:
		return fmt.Errorf("cannot scan %T into RawJSON", src)
	}
	return nil
}
