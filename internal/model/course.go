package model

import "time"

// CourseID uniquely identifies a course
type CourseID string

// CourseCode is the short human-shareable identifier for a private course
type CourseCode string

// Visibility controls who may view a course
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether the visibility is one of the known modes
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Course represents published course content.
//
// Invariant: PasswordHash is set iff Visibility is private. Code is assigned
// the first time a course becomes private, is immutable from then on, and
// stays reserved even after the course goes public again or is soft-deleted,
// so a code is never handed out twice.
type Course struct {
	ID            CourseID
	OwnerID       UserID
	Title         string
	Description   string
	Visibility    Visibility
	PasswordHash  string     // bcrypt hash, present iff private
	Code          CourseCode // assigned when the course first becomes private
	ContentRef    string     // opaque reference supplied by the file-ingestion layer
	TotalSections int        // number of content sections, drives completion percentage
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

// Deleted reports whether the course has been soft-deleted
func (c *Course) Deleted() bool {
	return c.DeletedAt != nil
}

// Private reports whether the course is password-protected
func (c *Course) Private() bool {
	return c.Visibility == VisibilityPrivate
}
