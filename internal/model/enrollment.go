package model

import "time"

// EnrollmentID uniquely identifies an enrollment record
type EnrollmentID string

// Enrollment is a durable grant of a user's right to access a course.
// At most one enrollment exists per (UserID, CourseID) pair; the storage
// layer enforces this with its insert-if-absent operation.
type Enrollment struct {
	ID         EnrollmentID
	UserID     UserID
	CourseID   CourseID
	EnrolledAt time.Time
}
