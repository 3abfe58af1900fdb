package application

import (
	"net/http"

	"github.com/harborblog/backend/internal/platform/apperror"
)

var (
	ErrPostNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodePostNotFound,
		"post not found",
		http.StatusNotFound,
	)

	ErrCategoryNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeCategoryNotFound,
		"category not found",
		http.StatusNotFound,
	)

	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"not authorized for this operation",
		http.StatusForbidden,
	)

	ErrInvalidPostData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidFormat,
		"invalid post data",
		http.StatusBadRequest,
	)

	ErrEmptyUpload = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeEmptyUpload,
		"uploaded file is empty",
		http.StatusBadRequest,
	)

	ErrCategoryNameTaken = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeGeneral,
		"category name is already taken",
		http.StatusBadRequest,
	)
)
