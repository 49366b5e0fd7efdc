package handlers

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// NewAssetHandler, araç endpoint'leri. search plaka üzerinde çalışır.
func NewAssetHandler(svc services.AssetService) *EntityHandler[models.Asset, models.CreateAssetRequest, models.UpdateAssetRequest] {
	return NewEntityHandler[models.Asset, models.CreateAssetRequest, models.UpdateAssetRequest](
		svc, models.AssetSortable, "model_id", "owner_company_id", "ownership_type_id")
}

// PersonnelHandler, standart CRUD'a ek olarak kimlik no gösterimini sunar.
type PersonnelHandler struct {
	*EntityHandler[models.Personnel, models.CreatePersonnelRequest, models.UpdatePersonnelRequest]
	svc services.PersonnelService
}

// NewPersonnelHandler, national_id filtresi service'te hash'e çevrilir.
func NewPersonnelHandler(svc services.PersonnelService) *PersonnelHandler {
	return &PersonnelHandler{
		EntityHandler: NewEntityHandler[models.Personnel, models.CreatePersonnelRequest, models.UpdatePersonnelRequest](
			svc, models.PersonnelSortable, "company_id", "status", "national_id"),
		svc: svc,
	}
}

// RevealNationalID godoc
// GET /api/admin/personnel/{id}/national-id
// Sadece admin; okuma audit'e yazılmaz ama loglanır.
func (h *PersonnelHandler) RevealNationalID(w http.ResponseWriter, r *http.Request) {
	nid, err := h.svc.RevealNationalID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"national_id": nid})
}

// AssignmentHandler, araç-personel atamaları.
type AssignmentHandler struct {
	*EntityHandler[models.AssetAssignment, models.CreateAssignmentRequest, models.UpdateAssignmentRequest]
	svc services.AssignmentService
}

func NewAssignmentHandler(svc services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{
		EntityHandler: NewEntityHandler[models.AssetAssignment, models.CreateAssignmentRequest, models.UpdateAssignmentRequest](
			svc, models.AssignmentSortable, "asset_id", "personnel_id", "open"),
		svc: svc,
	}
}

// ListByAsset godoc
// GET /assets/{id}/assignments
func (h *AssignmentHandler) ListByAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, models.AssignmentSortable, "open")
	if !ok {
		return
	}

	page, err := h.svc.ListByAsset(r.Context(), r.PathValue("id"), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// ListByPersonnel godoc
// GET /personnel/{id}/assignments
func (h *AssignmentHandler) ListByPersonnel(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, models.AssignmentSortable, "open")
	if !ok {
		return
	}

	page, err := h.svc.ListByPersonnel(r.Context(), r.PathValue("id"), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// End godoc
// POST /asset-assignments/{id}/end
// Body opsiyonel: { "end_date": "2024-06-30", "notes": "..." }
func (h *AssignmentHandler) End(w http.ResponseWriter, r *http.Request) {
	var req models.EndAssignmentRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	a, err := h.svc.End(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, a)
}
