package error

import (
	"errors"
	"net/http"

	"github.com/fixr105/Seven-Render-sub004/internal/domain"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return e.Message
}

var (
	ErrBadRequest     = &AppError{Code: "BAD_REQUEST", Message: "Bad request", Status: http.StatusBadRequest}
	ErrUnauthorized   = &AppError{Code: "UNAUTHORIZED", Message: "Unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden      = &AppError{Code: "PERMISSION_DENIED", Message: "Permission denied", Status: http.StatusForbidden}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Not found", Status: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "Internal server error", Status: http.StatusInternalServerError}
)

func NewBadRequest(message string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Message: message, Status: http.StatusBadRequest}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: message, Status: http.StatusUnauthorized}
}

func NewForbidden(message string) *AppError {
	return &AppError{Code: "PERMISSION_DENIED", Message: message, Status: http.StatusForbidden}
}

func NewNotFound(message string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, Status: http.StatusNotFound}
}

func NewInvalidTransition(message string) *AppError {
	return &AppError{Code: "INVALID_TRANSITION", Message: message, Status: http.StatusConflict}
}

func NewInternalServer(message string) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: message, Status: http.StatusInternalServerError}
}

// MapError translates domain sentinel errors into HTTP-mappable AppErrors.
// Callers can tell "wrong state" (INVALID_TRANSITION) from "wrong actor"
// (PERMISSION_DENIED) apart.
func MapError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		return NewInvalidTransition(err.Error())
	case errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrQueryNotFound),
		errors.Is(err, ports.ErrRecordNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, domain.ErrNotQueryAuthor),
		errors.Is(err, domain.ErrPermissionDenied):
		return NewForbidden(err.Error())
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidRole):
		return NewBadRequest(err.Error())
	default:
		return NewInternalServer("An unexpected error occurred")
	}
}
