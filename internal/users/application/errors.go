package application

import (
	"net/http"

	"github.com/harborblog/backend/internal/platform/apperror"
)

// Error definitions shared by the user and auth services
var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeUserNotFound,
		"user not found",
		http.StatusNotFound,
	)

	ErrRoleNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeRoleNotFound,
		"role not found",
		http.StatusNotFound,
	)

	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthenticated,
		apperror.BusinessCodeGeneral,
		"authentication required",
		http.StatusUnauthorized,
	)

	ErrPermissionDenied = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodePermissionDenied,
		"not authorized for this operation",
		http.StatusForbidden,
	)

	ErrUserDeactivated = apperror.New(
		apperror.CodeForbidden,
		apperror.BusinessCodeUserDeactivated,
		"user account is deactivated",
		http.StatusForbidden,
	)

	// Uniqueness conflicts surface as 400s with a field hint, matching the
	// API contract for registration and profile updates.
	ErrUsernameTaken = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeUsernameTaken,
		"username is already taken",
		http.StatusBadRequest,
	)

	ErrEmailTaken = apperror.New(
		apperror.CodeConflict,
		apperror.BusinessCodeEmailTaken,
		"email is already taken",
		http.StatusBadRequest,
	)

	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthenticated,
		apperror.BusinessCodeInvalidCredentials,
		"invalid username or password",
		http.StatusUnauthorized,
	)

	ErrInvalidUserData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidFormat,
		"invalid user data",
		http.StatusBadRequest,
	)

	ErrInvalidEmail = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidEmail,
		"invalid email format",
		http.StatusBadRequest,
	)
)
