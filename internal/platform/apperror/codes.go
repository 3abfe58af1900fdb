package apperror

// ErrorCode is the system-level error category. It maps one-to-one onto the
// transport status class but stays transport-agnostic.
type ErrorCode string

const (
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeForbidden        ErrorCode = "FORBIDDEN"
	CodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// BusinessCode names the specific business reason behind an error so that
// clients can branch on it without string matching.
type BusinessCode string

const (
	BusinessCodeGeneral BusinessCode = "GENERAL"

	BusinessCodeUserNotFound     BusinessCode = "USER_NOT_FOUND"
	BusinessCodePostNotFound     BusinessCode = "POST_NOT_FOUND"
	BusinessCodeCommentNotFound  BusinessCode = "COMMENT_NOT_FOUND"
	BusinessCodeCategoryNotFound BusinessCode = "CATEGORY_NOT_FOUND"
	BusinessCodeRoleNotFound     BusinessCode = "ROLE_NOT_FOUND"

	BusinessCodePermissionDenied BusinessCode = "PERMISSION_DENIED"
	BusinessCodeUserDeactivated  BusinessCode = "USER_DEACTIVATED"

	BusinessCodeUsernameTaken      BusinessCode = "USERNAME_TAKEN"
	BusinessCodeEmailTaken         BusinessCode = "EMAIL_TAKEN"
	BusinessCodeInvalidCredentials BusinessCode = "INVALID_CREDENTIALS"

	BusinessCodeInvalidFormat    BusinessCode = "INVALID_FORMAT"
	BusinessCodeInvalidEmail     BusinessCode = "INVALID_EMAIL"
	BusinessCodeCommentTooShort  BusinessCode = "COMMENT_TOO_SHORT"
	BusinessCodeCommentMismatch  BusinessCode = "COMMENT_NOT_IN_POST"
	BusinessCodeEmptyUpload      BusinessCode = "EMPTY_UPLOAD"
)
