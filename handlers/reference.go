package handlers

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

func NewCityHandler(svc services.CityService) CRUD {
	return NewEntityHandler[models.City, models.CreateCityRequest, models.UpdateCityRequest](
		svc, models.CitySortable, "country_id")
}

func NewCarModelHandler(svc services.CarModelService) CRUD {
	return NewEntityHandler[models.CarModel, models.CreateCarModelRequest, models.UpdateCarModelRequest](
		svc, models.CarModelSortable, "brand_id", "type_id")
}

func NewCompanyHandler(svc services.CompanyService) CRUD {
	return NewEntityHandler[models.Company, models.CreateCompanyRequest, models.UpdateCompanyRequest](
		svc, models.CompanySortable, "city_id")
}

func NewWorkAreaHandler(svc services.WorkAreaService) CRUD {
	return NewEntityHandler[models.WorkArea, models.CreateWorkAreaRequest, models.UpdateWorkAreaRequest](
		svc, models.WorkAreaSortable, "city_id", "company_id", "manager_id")
}

// LookupHandler, katalog tabloları (ülkeler, markalar, ceza tipleri...).
// Her katalog için For ile ayrı bir CRUD üretilir; route'lar katalog başına kaydedilir,
// böylece izin kaynağı route kaydında sabitlenir.
type LookupHandler struct {
	svc services.LookupService
}

func NewLookupHandler(svc services.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// For, tek bir katalog için CRUD handler'ı döner.
func (h *LookupHandler) For(kind models.LookupKind) CRUD {
	return &lookupKindHandler{svc: h.svc, kind: kind}
}

// Kinds godoc
// GET /lookups
// Desteklenen katalogların listesi; API explorer bunu kullanır.
func (h *LookupHandler) Kinds(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, models.LookupKinds)
}

type lookupKindHandler struct {
	svc  services.LookupService
	kind models.LookupKind
}

func (h *lookupKindHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, models.LookupSortable)
	if !ok {
		return
	}

	page, err := h.svc.List(r.Context(), h.kind, p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

func (h *lookupKindHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetByID(r.Context(), h.kind, r.PathValue("id"), includeInactive(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, l)
}

func (h *lookupKindHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := h.svc.Create(r.Context(), h.kind, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, l)
}

func (h *lookupKindHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateLookupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	l, err := h.svc.Update(r.Context(), h.kind, r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, l)
}

func (h *lookupKindHandler) Delete(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Delete(r.Context(), h.kind, r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, l, "deleted")
}

func (h *lookupKindHandler) Restore(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.Restore(r.Context(), h.kind, r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, l, "restored")
}
