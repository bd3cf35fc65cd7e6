package model

import "time"

// UserID uniquely identifies a user across the system
type UserID string

// Role distinguishes students from teachers
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User represents a platform account.
// PasswordHash is a bcrypt hash; the plaintext secret never leaves the auth
// service. Users are soft-deleted only, since enrollments, progress and
// unlocks keep referencing them.
type User struct {
	ID           UserID
	Email        string // login email (immutable)
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time // nil while the account is active
}

// Deleted reports whether the user has been soft-deleted
func (u *User) Deleted() bool {
	return u.DeletedAt != nil
}
