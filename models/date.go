package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout, API'de tarih alanlarının biçimi.
const DateLayout = "2006-01-02"

// Date, saat bilgisi olmayan takvim günü (doğum tarihi, atama başlangıcı vb.).
// JSON'da "2024-05-01", DB'de gece yarısı UTC TIMESTAMP olarak saklanır.
type Date struct {
	time.Time
}

// NewDate, t'nin UTC gününü döner.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate, "2006-01-02" biçimini çözer.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before, d'nin o'dan önceki bir gün olup olmadığı.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value, driver'a time.Time olarak yazar.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan, driver'ın döndüğü time.Time veya metin değerini okur.
// SQLite TIMESTAMP kolonlarını çoğunlukla time.Time olarak döner, seed verileri metin olabilir.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("cannot scan %q into Date", s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
