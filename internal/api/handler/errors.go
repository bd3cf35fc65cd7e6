package handler

import (
	"net/http"

	"github.com/Hike-12/BharatAI/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeEmailExists        = apierr.CodeEmailExists
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodeCourseNotFound     = apierr.CodeCourseNotFound
	CodeNotOwner           = apierr.CodeNotOwner
	CodeNotTeacher         = apierr.CodeNotTeacher
	CodeNotEnrolled        = apierr.CodeNotEnrolled
	CodeForbidden          = apierr.CodeForbidden
	CodeInvalidEvent       = apierr.CodeInvalidEvent
	CodeUnavailable        = apierr.CodeUnavailable
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return apierr.NewForbiddenError(message)
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
