package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	// Course errors
	ErrCourseNotFound = errors.New("course not found")
	ErrNotOwner       = errors.New("user does not own this course")
	ErrNotTeacher     = errors.New("only teachers can create courses")

	// Enrollment errors
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotEnrolled        = errors.New("user is not enrolled in this course")

	// Progress errors
	ErrProgressNotFound = errors.New("progress not found")
	ErrInvalidEvent     = errors.New("invalid progress event")
	ErrVersionConflict  = errors.New("progress version conflict")

	// Storage errors
	// ErrUnavailable wraps a store failure that persisted through the
	// bounded retry policy; it is the only error the API maps to 503.
	ErrUnavailable = errors.New("storage unavailable")
)
