// Package retrying wraps a storage backend with a bounded retry policy for
// transient failures. Domain errors pass through untouched; infrastructure
// errors are retried with exponential backoff and, once attempts are
// exhausted, surfaced as model.ErrUnavailable.
package retrying

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Config holds the retry policy
type Config struct {
	// MaxAttempts is the total number of tries, including the first
	MaxAttempts int
	// BaseDelay is the delay before the first retry; it doubles each attempt
	BaseDelay time.Duration
}

// DefaultConfig returns sensible defaults for the retry policy
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   50 * time.Millisecond,
	}
}

// Storage decorates another storage backend with retries
type Storage struct {
	inner storage.Storage
	cfg   Config
}

// New wraps a storage backend with the given retry policy
func New(inner storage.Storage, cfg Config) *Storage {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Storage{inner: inner, cfg: cfg}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// domainErrors are outcomes of the operation itself, not infrastructure
// failures; retrying them would never change the result.
var domainErrors = []error{
	model.ErrUserNotFound,
	model.ErrEmailExists,
	model.ErrCourseNotFound,
	model.ErrEnrollmentNotFound,
	model.ErrProgressNotFound,
	model.ErrVersionConflict,
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	for _, domain := range domainErrors {
		if errors.Is(err, domain) {
			return false
		}
	}
	return true
}

// do runs op up to MaxAttempts times, backing off between attempts
func (s *Storage) do(ctx context.Context, op func() error) error {
	delay := s.cfg.BaseDelay

	var err error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		err = op()
		if err == nil || !retryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", model.ErrUnavailable, err)
}

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	return s.do(ctx, func() error {
		return s.inner.SaveUser(ctx, user)
	})
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user *model.User
	err := s.do(ctx, func() error {
		var err error
		user, err = s.inner.GetUser(ctx, id)
		return err
	})
	return user, err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user *model.User
	err := s.do(ctx, func() error {
		var err error
		user, err = s.inner.GetUserByEmail(ctx, email)
		return err
	})
	return user, err
}

func (s *Storage) SaveCourse(ctx context.Context, course *model.Course) error {
	return s.do(ctx, func() error {
		return s.inner.SaveCourse(ctx, course)
	})
}

func (s *Storage) GetCourse(ctx context.Context, id model.CourseID) (*model.Course, error) {
	var course *model.Course
	err := s.do(ctx, func() error {
		var err error
		course, err = s.inner.GetCourse(ctx, id)
		return err
	})
	return course, err
}

func (s *Storage) GetCourseByCode(ctx context.Context, code model.CourseCode) (*model.Course, error) {
	var course *model.Course
	err := s.do(ctx, func() error {
		var err error
		course, err = s.inner.GetCourseByCode(ctx, code)
		return err
	})
	return course, err
}

func (s *Storage) CourseCodeExists(ctx context.Context, code model.CourseCode) (bool, error) {
	var exists bool
	err := s.do(ctx, func() error {
		var err error
		exists, err = s.inner.CourseCodeExists(ctx, code)
		return err
	})
	return exists, err
}

// CreateEnrollment is safe to retry: the insert-if-absent contract means a
// retry after an ambiguous failure lands on the created=false path.
func (s *Storage) CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, bool, error) {
	var stored *model.Enrollment
	var created bool
	err := s.do(ctx, func() error {
		var err error
		stored, created, err = s.inner.CreateEnrollment(ctx, enrollment)
		return err
	})
	return stored, created, err
}

func (s *Storage) GetEnrollment(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Enrollment, error) {
	var enrollment *model.Enrollment
	err := s.do(ctx, func() error {
		var err error
		enrollment, err = s.inner.GetEnrollment(ctx, userID, courseID)
		return err
	})
	return enrollment, err
}

func (s *Storage) ListEnrollments(ctx context.Context, userID model.UserID) ([]*model.Enrollment, error) {
	var enrollments []*model.Enrollment
	err := s.do(ctx, func() error {
		var err error
		enrollments, err = s.inner.ListEnrollments(ctx, userID)
		return err
	})
	return enrollments, err
}

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Progress, error) {
	var progress *model.Progress
	err := s.do(ctx, func() error {
		var err error
		progress, err = s.inner.GetProgress(ctx, userID, courseID)
		return err
	})
	return progress, err
}

// SaveProgress does not retry version conflicts; the caller owns the
// reload-and-reapply loop.
func (s *Storage) SaveProgress(ctx context.Context, progress *model.Progress, expectedVersion int64) error {
	return s.do(ctx, func() error {
		return s.inner.SaveProgress(ctx, progress, expectedVersion)
	})
}

func (s *Storage) ListProgress(ctx context.Context, userID model.UserID) ([]*model.Progress, error) {
	var records []*model.Progress
	err := s.do(ctx, func() error {
		var err error
		records, err = s.inner.ListProgress(ctx, userID)
		return err
	})
	return records, err
}

func (s *Storage) CreateUnlock(ctx context.Context, unlock *model.AchievementUnlock) (bool, error) {
	var created bool
	err := s.do(ctx, func() error {
		var err error
		created, err = s.inner.CreateUnlock(ctx, unlock)
		return err
	})
	return created, err
}

func (s *Storage) ListUnlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error) {
	var unlocks []*model.AchievementUnlock
	err := s.do(ctx, func() error {
		var err error
		unlocks, err = s.inner.ListUnlocks(ctx, userID)
		return err
	})
	return unlocks, err
}
