package handlers

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// AuditHandler, audit log sorgulama. Kayıtlar salt okunurdur.
type AuditHandler struct {
	auditService services.AuditService
}

func NewAuditHandler(auditService services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// GET /api/admin/audit-logs?table_name&record_id&operation&user_id&api_client_id&from&to&page&limit
// Varsayılan sıralama en yeni önce.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := models.ParseAuditFilter(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	p, ok := listParams(w, r, repository.AuditSortable)
	if !ok {
		return
	}
	if r.URL.Query().Get("sort_order") == "" {
		p.SortOrder = "desc"
	}

	page, err := h.auditService.List(r.Context(), f, p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /api/admin/audit-logs/{id}
func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.auditService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, entry)
}
