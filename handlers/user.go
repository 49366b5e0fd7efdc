package handlers

import (
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
)

// UserHandler, admin kullanıcı yönetimi. Tüm endpoint'ler is_admin gerektirir.
type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := listParams(w, r, repository.UserSortable)
	if !ok {
		return
	}

	page, err := h.userService.List(r.Context(), p)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /api/admin/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, u)
}

// Create godoc
// POST /api/admin/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, u)
}

// Update godoc
// PATCH /api/admin/users/{id}
// Admin kendi admin yetkisini veya aktifliğini kaldıramaz.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	current, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, r, pkg.ErrUnauthorized)
		return
	}

	var req models.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.userService.Update(r.Context(), current.ID, r.PathValue("id"), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, u)
}

// Deactivate godoc
// DELETE /api/admin/users/{id}
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	current, ok := UserFromContext(r.Context())
	if !ok {
		WriteError(w, r, pkg.ErrUnauthorized)
		return
	}

	u, err := h.userService.Deactivate(r.Context(), current.ID, r.PathValue("id"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	pkg.JSONWithMessage(w, http.StatusOK, u, "deactivated")
}
