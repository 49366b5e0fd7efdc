// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// Error karşılaştırması string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import (
	"errors"
	"sort"
	"strings"
)

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrAlreadyExists = errors.New("already exists")
	ErrBadRequest    = errors.New("bad request")
	ErrRateLimited   = errors.New("rate limit exceeded")
	ErrInternal      = errors.New("internal error")
)

// FieldError, tek bir alanın doğrulama hatası.
// Rule, ihlal edilen kuralın kodudur (ör. "required", "max"); Param kural parametresi.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"` // i18n ile doldurulur
}

// ValidationError, bir request'in bir veya daha fazla alanı geçersiz olduğunda döner.
// errors.Is(err, ErrBadRequest) true döner, handler 400 verir.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError, tek alanlı doğrulama hatası oluşturur.
// Struct tag'i ile ifade edilemeyen kurallar (tarih sırası vb.) için.
func NewValidationError(field, rule, param string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Param: param}}}
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field+" "+f.Rule)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

// Unwrap, errors.Is(err, ErrBadRequest) kontrolünün çalışmasını sağlar.
func (e *ValidationError) Unwrap() error {
	return ErrBadRequest
}
