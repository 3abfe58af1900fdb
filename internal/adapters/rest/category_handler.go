package rest

import (
	"net/http"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/posts/application"
)

type CategoryHandler struct {
	*BaseHandler
	service *application.CategoryService
}

func NewCategoryHandler(base *BaseHandler, service *application.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateCategory adds a category to the taxonomy. Admin only.
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	var req categoryRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.CreateCategory(r.Context(), principal, req.Name, req.Description)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusCreated)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := h.PathUUID(r, "categoryID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.GetCategory(r.Context(), categoryID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusOK)
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, views, http.StatusOK)
}
