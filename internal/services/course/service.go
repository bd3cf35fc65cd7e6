package course

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/dependencies/random"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

const (
	// CourseCodeLength is the length of generated course codes
	CourseCodeLength = 8
	// CourseCodeAlphabet is the characters used in course codes (avoid confusing chars)
	CourseCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	// codeGenerationAttempts bounds the collision-retry loop
	codeGenerationAttempts = 10
)

// Errors
var (
	ErrTitleRequired      = errors.New("course title is required")
	ErrContentRefRequired = errors.New("course content reference is required")
	ErrPasswordRequired   = errors.New("private courses require a password")
	ErrInvalidVisibility  = errors.New("invalid visibility")
	ErrInvalidSections    = errors.New("total sections must be positive")
)

// CreateInput describes a course to create
type CreateInput struct {
	Title         string
	Description   string
	Visibility    model.Visibility
	Password      string
	ContentRef    string
	TotalSections int
}

// Service manages the course registry
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
}

// New creates a new course service
func New(storage storage.Storage, clock clock.Clock, random random.Random) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
	}
}

// Create publishes a new course owned by the given user. Only teachers can
// create courses. Private courses get a bcrypt password hash and a unique
// course code.
func (s *Service) Create(ctx context.Context, ownerID model.UserID, input CreateInput) (*model.Course, error) {
	owner, err := s.storage.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner.Role != model.RoleTeacher {
		return nil, model.ErrNotTeacher
	}

	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.ContentRef == "" {
		return nil, ErrContentRefRequired
	}
	if input.TotalSections <= 0 {
		return nil, ErrInvalidSections
	}
	if !input.Visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	now := s.clock.Now()
	course := &model.Course{
		ID:            model.CourseID(uuid.NewString()),
		OwnerID:       ownerID,
		Title:         input.Title,
		Description:   input.Description,
		Visibility:    input.Visibility,
		ContentRef:    input.ContentRef,
		TotalSections: input.TotalSections,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if input.Visibility == model.VisibilityPrivate {
		if input.Password == "" {
			return nil, ErrPasswordRequired
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		course.PasswordHash = string(hash)

		code, err := s.generateCode(ctx)
		if err != nil {
			return nil, err
		}
		course.Code = code
	}

	if err := s.storage.SaveCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Get retrieves a course by ID. Soft-deleted courses are not visible.
func (s *Service) Get(ctx context.Context, id model.CourseID) (*model.Course, error) {
	course, err := s.storage.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.Deleted() {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

// ChangeVisibility switches a course between public and private. Owner only.
// Going private requires a password and assigns a code if the course never
// had one; the code is kept when going public, it stays reserved regardless.
func (s *Service) ChangeVisibility(ctx context.Context, userID model.UserID, courseID model.CourseID, visibility model.Visibility, password string) (*model.Course, error) {
	if !visibility.Valid() {
		return nil, ErrInvalidVisibility
	}

	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, model.ErrNotOwner
	}

	switch visibility {
	case model.VisibilityPrivate:
		if password == "" {
			return nil, ErrPasswordRequired
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		course.PasswordHash = string(hash)

		if course.Code == "" {
			code, err := s.generateCode(ctx)
			if err != nil {
				return nil, err
			}
			course.Code = code
		}

	case model.VisibilityPublic:
		course.PasswordHash = ""
	}

	course.Visibility = visibility
	course.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveCourse(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// SoftDelete marks a course deleted. Owner only. The course code stays
// reserved, and existing enrollments and progress records are untouched.
func (s *Service) SoftDelete(ctx context.Context, userID model.UserID, courseID model.CourseID) error {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return err
	}
	if course.OwnerID != userID {
		return model.ErrNotOwner
	}

	now := s.clock.Now()
	course.DeletedAt = &now
	course.UpdatedAt = now
	return s.storage.SaveCourse(ctx, course)
}

// generateCode draws codes until one is unused. The existence check covers
// soft-deleted courses, so released codes are never recycled.
func (s *Service) generateCode(ctx context.Context) (model.CourseCode, error) {
	for i := 0; i < codeGenerationAttempts; i++ {
		code := model.CourseCode(s.random.String(CourseCodeLength, CourseCodeAlphabet))
		exists, err := s.storage.CourseCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique course code after %d attempts", codeGenerationAttempts)
}
