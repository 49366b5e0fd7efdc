package handlers

import (
	"context"
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
)

// CRUD, soft delete'li bir kaynağın standart endpoint'leri.
// Route kaydı bu interface üzerinden yapılır; secure ve admin tarafı
// aynı handler'ı farklı middleware zincirleriyle kullanır.
type CRUD interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
}

// crudService, City/Company/Asset... service'lerinin ortak metod seti.
// T kayıt tipi, C create request'i, U update request'i.
type crudService[T, C, U any] interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[T], error)
	GetByID(ctx context.Context, id string, includeInactive bool) (*T, error)
	Create(ctx context.Context, req *C) (*T, error)
	Update(ctx context.Context, id string, req *U) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
	Restore(ctx context.Context, id string) (*T, error)
}

// EntityHandler, crudService'i HTTP'ye bağlayan generic handler.
type EntityHandler[T, C, U any] struct {
	svc      crudService[T, C, U]
	sortable []string
	filters  []string
}

// NewEntityHandler, sortable'ın ilk elemanı varsayılan sıralamadır;
// filters query'den kabul edilen eşitlik filtreleridir.
func NewEntityHandler[T, C, U any](svc crudService[T, C, U], sortable []string, filters ...string) *EntityHandler[T, C, U] {
	return &EntityHandler[T, C, U]{svc: svc, sortable: sortable, filters: filters}
}

// List godoc
// GET /{resource}?page&limit&search&sort_by&sort_order&include_inactive&<filter>
func (h *EntityHandler[T, C, U]) List(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, h.sortable, h.filters...)
	if !ok {
		return
	}

	page, err := h.svc.List(r.Context(), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /{resource}/{id}
func (h *EntityHandler[T, C, U]) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.GetByID(r.Context(), r.PathValue("id"), includeInactive(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, v)
}

// Create godoc
// POST /{resource}
func (h *EntityHandler[T, C, U]) Create(w http.ResponseWriter, r *http.Request) {
	var req C
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, v)
}

// Update godoc
// PATCH /{resource}/{id}
// Sadece gönderilen alanlar değişir.
func (h *EntityHandler[T, C, U]) Update(w http.ResponseWriter, r *http.Request) {
	var req U
	if !decodeJSON(w, r, &req) {
		return
	}

	v, err := h.svc.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, v)
}

// Delete godoc
// DELETE /{resource}/{id}
// Soft delete: kayıt is_active=false olarak döner.
func (h *EntityHandler[T, C, U]) Delete(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, v, "deleted")
}

// Restore godoc
// POST /{resource}/{id}/restore
func (h *EntityHandler[T, C, U]) Restore(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Restore(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, v, "restored")
}
