package handlers

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// APIClientHandler, üçüncü parti client'ların, izinlerinin ve key'lerinin yönetimi.
type APIClientHandler struct {
	clientService services.APIClientService
}

func NewAPIClientHandler(clientService services.APIClientService) *APIClientHandler {
	return &APIClientHandler{clientService: clientService}
}

// List godoc
// GET /api/admin/api-clients
func (h *APIClientHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, repository.APIClientSortable)
	if !ok {
		return
	}

	page, err := h.clientService.List(r.Context(), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /api/admin/api-clients/{id}
// İzinler ve key metadata'sı ile birlikte döner; key'lerin kendisi asla dönmez.
func (h *APIClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.clientService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, c)
}

// Create godoc
// POST /api/admin/api-clients
// Oluşturan admin client'ın sahibi olarak kaydedilir.
func (h *APIClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAPIClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ownerID := ""
	if u, ok := UserFromContext(r.Context()); ok {
		ownerID = u.ID
	}

	c, err := h.clientService.Create(r.Context(), ownerID, &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, c)
}

// Update godoc
// PATCH /api/admin/api-clients/{id}
func (h *APIClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateAPIClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.clientService.Update(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, c)
}

// Deactivate godoc
// DELETE /api/admin/api-clients/{id}
// Client'ın tüm key'leri anında geçersiz olur.
func (h *APIClientHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	c, err := h.clientService.Deactivate(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, c, "deactivated")
}

// SetPermissions godoc
// PUT /api/admin/api-clients/{id}/permissions
// Body: { "permissions": ["asset:read", "personnel:*"] }
func (h *APIClientHandler) SetPermissions(w http.ResponseWriter, r *http.Request) {
	var req models.SetPermissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.clientService.SetPermissions(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, c)
}

// CreateKey godoc
// POST /api/admin/api-clients/{id}/keys
// Yanıttaki "key" alanı sadece bu yanıtta görünür.
func (h *APIClientHandler) CreateKey(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAPIKeyRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	k, err := h.clientService.CreateKey(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusCreated, k, "store this key now, it will not be shown again")
}

// RevokeKey godoc
// DELETE /api/admin/api-clients/{id}/keys/{keyId}
func (h *APIClientHandler) RevokeKey(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.RevokeKey(r.Context(), r.PathValue("id"), r.PathValue("keyId")); err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]string{"message": "key revoked"})
}

// Usage godoc
// GET /api/admin/api-clients/{id}/usage?from=2024-01-01&to=2024-01-31
// Aralık verilmezse son 30 gün.
func (h *APIClientHandler) Usage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := models.ParseTimeParam(q.Get("from"), "from")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	to, err := models.ParseTimeParam(q.Get("to"), "to")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	stats, err := h.clientService.Usage(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, stats)
}
