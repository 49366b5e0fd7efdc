package models

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/validate"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams, liste endpoint'lerinin ortak query parametreleri.
//
//	GET /api/secure/assets?page=2&limit=50&search=34ab&sort_by=plate_number&sort_order=desc&model_id=...
//
// Filters, kaynağa özel eşitlik filtreleridir (ör. country_id). Sadece
// ParseListParams'a verilen allowedFilters içindeki anahtarlar alınır.
type ListParams struct {
	Page            int               `json:"page" validate:"gte=1"`
	Limit           int               `json:"limit" validate:"gte=1,lte=100"`
	Search          string            `json:"search" validate:"max=100"`
	SortBy          string            `json:"sort_by"`
	SortOrder       string            `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	IncludeInactive bool              `json:"include_inactive"`
	Filters         map[string]string `json:"-"`
}

// Offset, SQL OFFSET değeri.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Desc, sıralama yönü azalan mı.
func (p ListParams) Desc() bool {
	return p.SortOrder == "desc"
}

// ParseListParams, query string'i ListParams'a çevirir ve doğrular.
// sortable ilk elemanı varsayılan sıralama kolonudur.
func ParseListParams(q url.Values, sortable []string, allowedFilters ...string) (ListParams, error) {
	p := ListParams{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		Search:    strings.TrimSpace(q.Get("search")),
		SortBy:    strings.TrimSpace(q.Get("sort_by")),
		SortOrder: strings.ToLower(strings.TrimSpace(q.Get("sort_order"))),
		Filters:   make(map[string]string),
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, pkg.NewValidationError("page", "numeric", "")
		}
		p.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, pkg.NewValidationError("limit", "numeric", "")
		}
		p.Limit = n
	}
	if v := q.Get("include_inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return p, pkg.NewValidationError("include_inactive", "boolean", "")
		}
		p.IncludeInactive = b
	}

	if err := validate.Struct(&p); err != nil {
		return p, err
	}

	if p.SortBy == "" && len(sortable) > 0 {
		p.SortBy = sortable[0]
	} else if p.SortBy != "" && !containsString(sortable, p.SortBy) {
		return p, pkg.NewValidationError("sort_by", "oneof", strings.Join(sortable, " "))
	}

	for _, f := range allowedFilters {
		if v := strings.TrimSpace(q.Get(f)); v != "" {
			p.Filters[f] = v
		}
	}

	return p, nil
}

// Page, sayfalanmış liste yanıtı.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage, items nil ise boş dizi döner; JSON'da null yerine [] görünür.
func NewPage[T any](items []T, total int, p ListParams) *Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return &Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
