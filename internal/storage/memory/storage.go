package memory

import (
	"context"
	"sync"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users       map[model.UserID]*model.User
	emailIndex  map[string]model.UserID
	courses     map[model.CourseID]*model.Course
	codeIndex   map[model.CourseCode]model.CourseID // never shrinks: codes stay reserved
	enrollments map[enrollmentKey]*model.Enrollment
	progress    map[enrollmentKey]*model.Progress
	unlocks     map[unlockKey]*model.AchievementUnlock
}

type enrollmentKey struct {
	userID   model.UserID
	courseID model.CourseID
}

type unlockKey struct {
	userID        model.UserID
	achievementID model.AchievementID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:       make(map[model.UserID]*model.User),
		emailIndex:  make(map[string]model.UserID),
		courses:     make(map[model.CourseID]*model.Course),
		codeIndex:   make(map[model.CourseCode]model.CourseID),
		enrollments: make(map[enrollmentKey]*model.Enrollment),
		progress:    make(map[enrollmentKey]*model.Progress),
		unlocks:     make(map[unlockKey]*model.AchievementUnlock),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	s.emailIndex[user.Email] = user.ID
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// Course operations

func (s *Storage) SaveCourse(ctx context.Context, course *model.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = course
	if course.Code != "" {
		s.codeIndex[course.Code] = course.ID
	}
	return nil
}

func (s *Storage) GetCourse(ctx context.Context, id model.CourseID) (*model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	course, ok := s.courses[id]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

func (s *Storage) GetCourseByCode(ctx context.Context, code model.CourseCode) (*model.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codeIndex[code]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	course, ok := s.courses[id]
	if !ok {
		return nil, model.ErrCourseNotFound
	}
	return course, nil
}

func (s *Storage) CourseCodeExists(ctx context.Context, code model.CourseCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codeIndex[code]
	return ok, nil
}

// Enrollment operations

func (s *Storage) CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollmentKey{userID: enrollment.UserID, courseID: enrollment.CourseID}
	if existing, ok := s.enrollments[key]; ok {
		return existing, false, nil
	}
	s.enrollments[key] = enrollment
	return enrollment, true, nil
}

func (s *Storage) GetEnrollment(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enrollment, ok := s.enrollments[enrollmentKey{userID: userID, courseID: courseID}]
	if !ok {
		return nil, model.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *Storage) ListEnrollments(ctx context.Context, userID model.UserID) ([]*model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var enrollments []*model.Enrollment
	for key, e := range s.enrollments {
		if key.userID == userID {
			enrollments = append(enrollments, e)
		}
	}
	return enrollments, nil
}

// Progress operations

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[enrollmentKey{userID: userID, courseID: courseID}]
	if !ok {
		return nil, model.ErrProgressNotFound
	}
	return p.Clone(), nil
}

func (s *Storage) SaveProgress(ctx context.Context, progress *model.Progress, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := enrollmentKey{userID: progress.UserID, courseID: progress.CourseID}
	current, ok := s.progress[key]
	if ok && current.Version != expectedVersion {
		return model.ErrVersionConflict
	}
	if !ok && expectedVersion != 0 {
		return model.ErrVersionConflict
	}
	stored := progress.Clone()
	stored.Version = expectedVersion + 1
	s.progress[key] = stored
	progress.Version = stored.Version
	return nil
}

func (s *Storage) ListProgress(ctx context.Context, userID model.UserID) ([]*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*model.Progress
	for key, p := range s.progress {
		if key.userID == userID {
			result = append(result, p.Clone())
		}
	}
	return result, nil
}

// Achievement unlock operations

func (s *Storage) CreateUnlock(ctx context.Context, unlock *model.AchievementUnlock) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := unlockKey{userID: unlock.UserID, achievementID: unlock.AchievementID}
	if _, ok := s.unlocks[key]; ok {
		return false, nil
	}
	s.unlocks[key] = unlock
	return true, nil
}

func (s *Storage) ListUnlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var unlocks []*model.AchievementUnlock
	for key, u := range s.unlocks {
		if key.userID == userID {
			unlocks = append(unlocks, u)
		}
	}
	return unlocks, nil
}
