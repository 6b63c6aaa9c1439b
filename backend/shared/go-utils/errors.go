// backend/shared/go-utils/errors.go
package utils

import (
	"errors"
	"net/http"
)

// Domain-level errors used by the service layer. Controllers only ever see
// them wrapped inside an *AppError.
var (
	ErrNotFound     = errors.New("not_found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid_input")
	ErrInvalidEmail = errors.New("invalid_email")

	// Co-debtor confirmation
	ErrInvalidToken = errors.New("invalid_token")
	ErrTokenExpired = errors.New("token_expired")

	// Contract initiation
	ErrInvalidUnit  = errors.New("invalid_unit")
	ErrInvalidAdmin = errors.New("invalid_admin")

	// Missing mail transport settings (API key, from address, base URL)
	ErrConfiguration = errors.New("configuration_error")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")

	// For external service failures (SendGrid, Twilio)
	ErrExternalServiceFailure = errors.New("external_service_failure")
)

// AppError carries a public code/message pair from services to controllers.
// Details, when set, is echoed back to the caller (partial-success payloads).
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
	Details    any
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, appErr.Details, appErr.Err)
	} else {
		// Fallback for unexpected error types
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}

// ---------------------------------------------------------------------
// Constructors for the taxonomy kinds. Keeps status/code pairs in one place.
// ---------------------------------------------------------------------

func NotFoundError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: msg, Err: ErrNotFound}
}

// HiddenForbiddenError answers like NotFoundError so callers cannot discover
// for records they do not own, while errors.Is still sees ErrForbidden.
func HiddenForbiddenError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Code: ErrCodeNotFound, Message: msg, Err: ErrForbidden}
}

func InvalidInputError(msg string, details any) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeValidation, Message: msg, Err: ErrInvalidInput, Details: details}
}

func InternalError(msg string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: ErrCodeInternal, Message: msg, Err: err}
}

func ConfigurationError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusServiceUnavailable, Code: ErrCodeConfiguration, Message: msg, Err: ErrConfiguration}
}

func DependencyFailureError(msg string, details any) *AppError {
	return &AppError{StatusCode: http.StatusBadGateway, Code: ErrCodeExternalServiceFailure, Message: msg, Err: ErrExternalServiceFailure, Details: details}
}

func ConflictError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusConflict, Code: ErrCodeRowVersionConflict, Message: msg, Err: ErrRowVersionConflict}
}

func InvalidTokenError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: ErrCodeInvalidToken, Message: msg, Err: ErrInvalidToken}
}

func TokenExpiredError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusGone, Code: ErrCodeTokenExpired, Message: msg, Err: ErrTokenExpired}
}

func InvalidUnitError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Code: ErrCodeInvalidUnit, Message: msg, Err: ErrInvalidUnit}
}

func InvalidAdminError(msg string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Code: ErrCodeInvalidAdmin, Message: msg, Err: ErrInvalidAdmin}
}
