package application

import (
	"net/http"

	"github.com/harborblog/backend/internal/platform/apperror"
)

var (
	ErrCommentNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeCommentNotFound,
		"comment not found",
		http.StatusNotFound,
	)

	ErrPostNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodePostNotFound,
		"post not found",
		http.StatusNotFound,
	)

	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"not authorized for this operation",
		http.StatusForbidden,
	)

	// ErrCommentMismatch covers a comment ID addressed under the wrong
	// post, which the API treats as a client error rather than a 404.
	ErrCommentMismatch = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeCommentMismatch,
		"comment does not belong to post",
		http.StatusBadRequest,
	)

	ErrCommentTooShort = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeCommentTooShort,
		"comment body must be at least 2 characters",
		http.StatusBadRequest,
	)

	ErrInvalidCommentData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidFormat,
		"invalid comment data",
		http.StatusBadRequest,
	)
)
