package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/access"
	"github.com/Hike-12/BharatAI/internal/services/auth"
	"github.com/Hike-12/BharatAI/internal/services/course"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeCourseNotFound     = "COURSE_NOT_FOUND"
	CodeNotOwner           = "NOT_OWNER"
	CodeNotTeacher         = "NOT_TEACHER"
	CodeNotEnrolled        = "NOT_ENROLLED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidEvent       = "INVALID_EVENT"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{CodeEmailExists, "Email already registered"}}
	case errors.Is(err, model.ErrCourseNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCourseNotFound, "Course not found"}}
	case errors.Is(err, model.ErrNotOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotOwner, "Only the course owner can perform this action"}}
	case errors.Is(err, model.ErrNotTeacher):
		return &httpError{http.StatusForbidden, APIError{CodeNotTeacher, "Only teachers can create courses"}}
	case errors.Is(err, model.ErrNotEnrolled):
		return &httpError{http.StatusForbidden, APIError{CodeNotEnrolled, "Not enrolled in this course"}}
	case errors.Is(err, model.ErrInvalidEvent):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidEvent, "Invalid progress event"}}
	case errors.Is(err, model.ErrUnavailable):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeUnavailable, "Service temporarily unavailable"}}

	// Map auth errors. Token failures share one generic message so a caller
	// cannot tell a bad signature from a stale subject.
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid email or password"}}
	case errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrUnknownUser):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, auth.ErrWeakPassword):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Password must be at least 8 characters"}}
	case errors.Is(err, auth.ErrInvalidEmail):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid email address"}}
	case errors.Is(err, auth.ErrInvalidRole):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Role must be student or teacher"}}

	// Map access errors
	case errors.Is(err, access.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid course code or password"}}
	case errors.Is(err, access.ErrCourseRefRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "course_id or course_code is required"}}

	// Map course errors
	case errors.Is(err, course.ErrTitleRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Course title is required"}}
	case errors.Is(err, course.ErrContentRefRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Course content reference is required"}}
	case errors.Is(err, course.ErrPasswordRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Private courses require a password"}}
	case errors.Is(err, course.ErrInvalidVisibility):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Visibility must be public or private"}}
	case errors.Is(err, course.ErrInvalidSections):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Total sections must be positive"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) error {
	return &httpError{http.StatusForbidden, APIError{CodeForbidden, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
