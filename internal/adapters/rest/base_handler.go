package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harborblog/backend/internal/platform/apperror"
	"github.com/harborblog/backend/internal/platform/logger"
)

// BaseHandler contains common dependencies and helper methods for all handlers
type BaseHandler struct {
	logger logger.Logger
}

// NewBaseHandler creates a new base handler with common dependencies
func NewBaseHandler(logger logger.Logger) *BaseHandler {
	return &BaseHandler{
		logger: logger,
	}
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error   apperror.BusinessCode `json:"error"`
	Message string                `json:"message"`
	Details any                   `json:"details,omitempty"`
}

// WriteError renders a service error. Anything that is not an AppError is
// treated as an internal failure and logged; the client never sees the
// underlying message.
func (h *BaseHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		h.logger.Error(r.Context(), "unhandled error reached the REST layer", "error", err)
		appErr = apperror.New(
			apperror.CodeInternalError,
			apperror.BusinessCodeGeneral,
			"internal server error",
			http.StatusInternalServerError,
		)
	}
	if appErr.Code == apperror.CodeInternalError && appErr.Inner != nil {
		h.logger.Error(r.Context(), "internal error", "error", appErr.Inner, "path", r.URL.Path)
	}

	h.WriteJSONResponse(w, r, errorBody{
		Error:   appErr.BusinessCode,
		Message: appErr.Message,
		Details: appErr.Details,
	}, appErr.HTTPStatus)
}

// WriteJSONResponse writes a JSON response with the given status code
func (h *BaseHandler) WriteJSONResponse(w http.ResponseWriter, r *http.Request, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(r.Context(), "failed to encode response",
			"error", err,
			"status_code", statusCode,
		)
	}
}

// DecodeJSON decodes a request body, rejecting unknown fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Wrap(
			err,
			apperror.CodeValidationFailed,
			apperror.BusinessCodeInvalidFormat,
			"invalid request body",
			http.StatusBadRequest,
		)
	}
	return nil
}

// PathUUID parses a UUID route parameter.
func (h *BaseHandler) PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperror.Wrap(
			err,
			apperror.CodeValidationFailed,
			apperror.BusinessCodeInvalidFormat,
			"invalid "+name,
			http.StatusBadRequest,
		)
	}
	return id, nil
}
