package storage

import (
	"context"

	"github.com/Hike-12/BharatAI/internal/model"
)

// Storage defines the interface for data persistence.
//
// CreateEnrollment and CreateUnlock are insert-if-absent operations: the
// "already exists" outcome is part of their return value, never an error.
// They are the only concurrency control the enrollment and achievement
// paths rely on. SaveProgress is a versioned compare-and-set.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Course operations. Gets return soft-deleted courses; callers decide
	// whether deleted records are visible. CourseCodeExists covers deleted
	// courses too, so generated codes are never reused.
	SaveCourse(ctx context.Context, course *model.Course) error
	GetCourse(ctx context.Context, id model.CourseID) (*model.Course, error)
	GetCourseByCode(ctx context.Context, code model.CourseCode) (*model.Course, error)
	CourseCodeExists(ctx context.Context, code model.CourseCode) (bool, error)

	// Enrollment operations. CreateEnrollment returns the stored enrollment
	// and whether this call created it; when an enrollment already exists
	// for the (user, course) pair the existing record is returned with
	// created=false.
	CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, bool, error)
	GetEnrollment(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Enrollment, error)
	ListEnrollments(ctx context.Context, userID model.UserID) ([]*model.Enrollment, error)

	// Progress operations. SaveProgress succeeds only if the stored version
	// equals expectedVersion (0 for a record that does not exist yet) and
	// stores progress with Version = expectedVersion + 1; otherwise it
	// fails with model.ErrVersionConflict.
	GetProgress(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Progress, error)
	SaveProgress(ctx context.Context, progress *model.Progress, expectedVersion int64) error
	ListProgress(ctx context.Context, userID model.UserID) ([]*model.Progress, error)

	// Achievement unlock operations. CreateUnlock reports whether this call
	// created the record; false means another write already unlocked the
	// same (user, achievement) pair.
	CreateUnlock(ctx context.Context, unlock *model.AchievementUnlock) (bool, error)
	ListUnlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error)
}
