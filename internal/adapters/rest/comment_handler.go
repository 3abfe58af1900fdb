package rest

import (
	"net/http"

	"github.com/harborblog/backend/internal/comments/application"
	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/pagination"
)

type CommentHandler struct {
	*BaseHandler
	service *application.CommentService
}

func NewCommentHandler(base *BaseHandler, service *application.CommentService) *CommentHandler {
	return &CommentHandler{
		BaseHandler: base,
		service:     service,
	}
}

type commentRequest struct {
	Body string `json:"body"`
}

type commentListResponse struct {
	Comments []*application.CommentView `json:"comments"`
	Page     pagination.Meta            `json:"page"`
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	var req commentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.CreateComment(r.Context(), principal, postID, req.Body)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusCreated)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	commentID, err := h.PathUUID(r, "commentID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.GetComment(r.Context(), postID, commentID, viewer)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusOK)
}

func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	views, meta, err := h.service.ListByPost(r.Context(), postID, viewer, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, commentListResponse{Comments: views, Page: meta}, http.StatusOK)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	commentID, err := h.PathUUID(r, "commentID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	var req commentRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.UpdateComment(r.Context(), principal, postID, commentID, req.Body)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusOK)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	commentID, err := h.PathUUID(r, "commentID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := h.service.DeleteComment(r.Context(), principal, postID, commentID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a comment.
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	commentID, err := h.PathUUID(r, "commentID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := h.service.ToggleCommentLike(r.Context(), principal, commentID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
