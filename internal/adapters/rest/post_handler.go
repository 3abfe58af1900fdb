package rest

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/identity"
	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/pagination"
	"github.com/harborblog/backend/internal/posts/application"
)

// maxUploadBytes caps the in-memory portion of a multipart upload.
const maxUploadBytes = 32 << 20

type PostHandler struct {
	*BaseHandler
	service *application.PostService
}

func NewPostHandler(base *BaseHandler, service *application.PostService) *PostHandler {
	return &PostHandler{
		BaseHandler: base,
		service:     service,
	}
}

type postListResponse struct {
	Posts []*application.PostView `json:"posts"`
	Page  pagination.Meta         `json:"page"`
}

// CreatePost accepts either a JSON body or a multipart form with file
// uploads under the "files" field.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	params, err := h.decodeCreateParams(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.CreatePost(r.Context(), principal, params)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusCreated)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.GetPost(r.Context(), postID, viewer)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusOK)
}

func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	views, meta, err := h.service.ListPosts(r.Context(), viewer, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, postListResponse{Posts: views, Page: meta}, http.StatusOK)
}

// ListByCategory lists the posts in one category.
func (h *PostHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	categoryID, err := h.PathUUID(r, "categoryID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	views, meta, err := h.service.ListByCategory(r.Context(), categoryID, viewer, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, postListResponse{Posts: views, Page: meta}, http.StatusOK)
}

// ListByAuthor lists the posts written by one user.
func (h *PostHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	viewer, _ := identity.FromContext(r.Context())

	authorID, err := h.PathUUID(r, "userID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	views, meta, err := h.service.ListByAuthor(r.Context(), authorID, viewer, pagination.FromQuery(r.URL.Query()))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, postListResponse{Posts: views, Page: meta}, http.StatusOK)
}

type updatePostRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	CategoryID  uuid.UUID `json:"categoryId"`
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	var req updatePostRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	view, err := h.service.UpdatePost(r.Context(), principal, postID, application.UpdatePostParams{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.WriteJSONResponse(w, r, view, http.StatusOK)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := h.service.DeletePost(r.Context(), principal, postID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike flips the caller's like on a post.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	principal, _ := identity.FromContext(r.Context())

	postID, err := h.PathUUID(r, "postID")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	if err := h.service.TogglePostLike(r.Context(), principal, postID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) decodeCreateParams(r *http.Request) (application.CreatePostParams, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return h.decodeMultipart(r)
	}

	var req updatePostRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		return application.CreatePostParams{}, err
	}
	return application.CreatePostParams{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
	}, nil
}

func (h *PostHandler) decodeMultipart(r *http.Request) (application.CreatePostParams, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return application.CreatePostParams{}, invalidBody(err)
	}

	categoryID, err := uuid.Parse(r.FormValue("categoryId"))
	if err != nil {
		return application.CreatePostParams{}, invalidBody(err)
	}

	params := application.CreatePostParams{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		CategoryID:  categoryID,
	}

	for _, header := range r.MultipartForm.File["files"] {
		upload, err := readUpload(header)
		if err != nil {
			return application.CreatePostParams{}, err
		}
		params.Files = append(params.Files, upload)
	}
	return params, nil
}

func readUpload(header *multipart.FileHeader) (application.FileUpload, error) {
	file, err := header.Open()
	if err != nil {
		return application.FileUpload{}, invalidBody(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return application.FileUpload{}, invalidBody(err)
	}
	return application.FileUpload{Name: header.Filename, Data: data}, nil
}

func invalidBody(err error) error {
	return apperror.Wrap(
		err,
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidFormat,
		"invalid request body",
		http.StatusBadRequest,
	)
}
