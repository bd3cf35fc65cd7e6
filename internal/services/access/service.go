package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Errors
var (
	// ErrInvalidCredentials covers both an unknown course code and a wrong
	// course password, so callers cannot probe which codes exist.
	ErrInvalidCredentials = errors.New("invalid course code or password")
	ErrCourseRefRequired  = errors.New("course id or course code is required")
)

// dummyHash is compared against on the unknown-code path, so it costs the
// same as a wrong-password path.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	return h
}()

// EnrollRef addresses the course to enroll in, by ID or by shareable code
type EnrollRef struct {
	CourseID   model.CourseID
	CourseCode model.CourseCode
}

// Service decides who may view a course and handles enrollment
type Service struct {
	storage storage.Storage
	clock   clock.Clock
}

// New creates a new access service
func New(storage storage.Storage, clock clock.Clock) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
	}
}

// CanView reports whether the user may view the course: it is public, the
// user owns it, or the user is enrolled.
func (s *Service) CanView(ctx context.Context, userID model.UserID, courseID model.CourseID) (bool, error) {
	course, err := s.storage.GetCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	if course.Deleted() {
		return false, model.ErrCourseNotFound
	}

	if course.OwnerID == userID {
		return true, nil
	}
	if !course.Private() {
		return true, nil
	}

	_, err = s.storage.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrEnrollmentNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Enroll grants the user access to a course. Private courses require the
// course password. Enrollment is idempotent: enrolling twice returns the
// existing record as success. A first enrollment also seeds the progress
// record.
func (s *Service) Enroll(ctx context.Context, userID model.UserID, ref EnrollRef, password string) (*model.Enrollment, error) {
	course, err := s.resolveCourse(ctx, ref, password)
	if err != nil {
		return nil, err
	}

	if course.Private() && course.OwnerID != userID {
		if err := bcrypt.CompareHashAndPassword([]byte(course.PasswordHash), []byte(password)); err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	now := s.clock.Now()
	enrollment := &model.Enrollment{
		ID:         model.EnrollmentID(uuid.NewString()),
		UserID:     userID,
		CourseID:   course.ID,
		EnrolledAt: now,
	}

	stored, created, err := s.storage.CreateEnrollment(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	if created {
		// Seed the progress record. A version conflict means a concurrent
		// write already seeded it, which is fine.
		progress := model.NewProgress(userID, course.ID, now)
		if err := s.storage.SaveProgress(ctx, progress, 0); err != nil && !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
	}

	return stored, nil
}

// resolveCourse finds the target course. Lookups by code collapse every
// failure into ErrInvalidCredentials; lookups by ID report plain not-found,
// since IDs are not secrets.
func (s *Service) resolveCourse(ctx context.Context, ref EnrollRef, password string) (*model.Course, error) {
	switch {
	case ref.CourseID != "":
		course, err := s.storage.GetCourse(ctx, ref.CourseID)
		if err != nil {
			return nil, err
		}
		if course.Deleted() {
			return nil, model.ErrCourseNotFound
		}
		return course, nil

	case ref.CourseCode != "":
		course, err := s.storage.GetCourseByCode(ctx, ref.CourseCode)
		if err != nil {
			if errors.Is(err, model.ErrCourseNotFound) {
				_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
		if course.Deleted() {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return course, nil

	default:
		return nil, ErrCourseRefRequired
	}
}
