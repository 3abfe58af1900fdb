package rest

import (
	"net/http"

	"github.com/harborblog/backend/internal/users/application"
)

type AuthHandler struct {
	*BaseHandler
	service *application.AuthService
}

func NewAuthHandler(base *BaseHandler, service *application.AuthService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), application.RegisterParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	h.WriteJSONResponse(w, r, registerResponse{
		ID:       user.ID.String(),
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
	}, http.StatusCreated)
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, token, http.StatusOK)
}
