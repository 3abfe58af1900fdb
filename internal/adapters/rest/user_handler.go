package rest

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/users/application"
)

type UserHandler struct {
	*BaseHandler
	service *application.UserService
}

func NewUserHandler(base *BaseHandler, service *application.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetMe returns the authenticated user's own profile, email included.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	profile, err := h.service.GetProfile(r.Context(), principal)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, profile, http.StatusOK)
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateMe updates the authenticated user's profile. Empty fields are
// left unchanged.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	var req updateProfileRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), principal, application.UpdateProfileParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, profile, http.StatusOK)
}

// GetPublicProfile returns a user's public profile, email omitted.
func (h *UserHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := h.PathUUID(r, "userID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	profile, err := h.service.GetPublicProfile(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, profile, http.StatusOK)
}

type userListResponse struct {
	Users []*application.AdminUserView `json:"users"`
	Page  pagination.Meta              `json:"page"`
}

// ListUsers returns one page of all accounts. Admin only.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	users, meta, err := h.service.ListUsers(r.Context(), principal, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, userListResponse{Users: users, Page: meta}, http.StatusOK)
}

// GrantAdmin grants the ADMIN role. Idempotent; admin only.
func (h *UserHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.GrantAdmin)
}

// RevokeAdmin revokes the ADMIN role. Idempotent; admin only.
func (h *UserHandler) RevokeAdmin(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.RevokeAdmin)
}

// ActivateUser restores a deactivated account. Admin only.
func (h *UserHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.ActivateUser)
}

// DeactivateUser soft-deletes an account: the row and the user's content
// survive, the account can no longer log in. Admin only.
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.DeactivateUser)
}

func (h *UserHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, principal identity.Principal, userID uuid.UUID) error,
) {
	principal, _ := identity.FromContext(r.Context())

	userID, err := h.PathUUID(r, "userID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := op(r.Context(), principal, userID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
