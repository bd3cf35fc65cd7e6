package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Hike-12/BharatAI/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:           "user-1",
		Email:        "alice@example.com",
		Name:         "Alice",
		Role:         model.RoleStudent,
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(user.Email, retrieved.Email)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetUserByEmail() {
	user := &model.User{ID: "user-1", Email: "alice@example.com", Role: model.RoleStudent}
	_ = s.storage.SaveUser(s.ctx, user)

	retrieved, err := s.storage.GetUserByEmail(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal("user-1", string(retrieved.ID))
}

func (s *StorageSuite) TestGetUserByEmailNotFound() {
	_, err := s.storage.GetUserByEmail(s.ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Course tests

func (s *StorageSuite) TestSaveAndGetCourse() {
	course := &model.Course{
		ID:            "course-1",
		OwnerID:       "teacher-1",
		Title:         "Intro to Algebra",
		Visibility:    model.VisibilityPublic,
		TotalSections: 10,
	}

	err := s.storage.SaveCourse(s.ctx, course)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetCourse(s.ctx, "course-1")
	s.Require().NoError(err)
	s.Equal(course.Title, retrieved.Title)
}

func (s *StorageSuite) TestGetCourseNotFound() {
	_, err := s.storage.GetCourse(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrCourseNotFound)
}

func (s *StorageSuite) TestGetCourseByCode() {
	course := &model.Course{
		ID:         "course-1",
		OwnerID:    "teacher-1",
		Visibility: model.VisibilityPrivate,
		Code:       "ABCD2345",
	}
	_ = s.storage.SaveCourse(s.ctx, course)

	retrieved, err := s.storage.GetCourseByCode(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.Equal("course-1", string(retrieved.ID))
}

func (s *StorageSuite) TestCourseCodeSurvivesSoftDelete() {
	now := time.Now()
	course := &model.Course{
		ID:         "course-1",
		OwnerID:    "teacher-1",
		Visibility: model.VisibilityPrivate,
		Code:       "ABCD2345",
	}
	_ = s.storage.SaveCourse(s.ctx, course)

	course.DeletedAt = &now
	_ = s.storage.SaveCourse(s.ctx, course)

	exists, err := s.storage.CourseCodeExists(s.ctx, "ABCD2345")
	s.Require().NoError(err)
	s.True(exists)
}

// Enrollment tests

func (s *StorageSuite) TestCreateEnrollment() {
	enrollment := &model.Enrollment{
		ID:         "enr-1",
		UserID:     "user-1",
		CourseID:   "course-1",
		EnrolledAt: time.Now(),
	}

	stored, created, err := s.storage.CreateEnrollment(s.ctx, enrollment)
	s.Require().NoError(err)
	s.True(created)
	s.Equal(enrollment.ID, stored.ID)
}

func (s *StorageSuite) TestCreateEnrollmentDuplicateReturnsExisting() {
	first := &model.Enrollment{ID: "enr-1", UserID: "user-1", CourseID: "course-1"}
	second := &model.Enrollment{ID: "enr-2", UserID: "user-1", CourseID: "course-1"}

	_, created, err := s.storage.CreateEnrollment(s.ctx, first)
	s.Require().NoError(err)
	s.True(created)

	stored, created, err := s.storage.CreateEnrollment(s.ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.Equal("enr-1", string(stored.ID))
}

func (s *StorageSuite) TestCreateEnrollmentConcurrent() {
	const workers = 16

	var wg sync.WaitGroup
	createdCount := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			enrollment := &model.Enrollment{
				ID:       "enr-race",
				UserID:   "user-1",
				CourseID: "course-1",
			}
			_, created, err := s.storage.CreateEnrollment(s.ctx, enrollment)
			s.NoError(err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	wins := 0
	for created := range createdCount {
		if created {
			wins++
		}
	}
	s.Equal(1, wins, "exactly one concurrent enrollment should win")
}

func (s *StorageSuite) TestListEnrollments() {
	_, _, _ = s.storage.CreateEnrollment(s.ctx, &model.Enrollment{ID: "enr-1", UserID: "user-1", CourseID: "course-1"})
	_, _, _ = s.storage.CreateEnrollment(s.ctx, &model.Enrollment{ID: "enr-2", UserID: "user-1", CourseID: "course-2"})
	_, _, _ = s.storage.CreateEnrollment(s.ctx, &model.Enrollment{ID: "enr-3", UserID: "user-2", CourseID: "course-1"})

	enrollments, err := s.storage.ListEnrollments(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(enrollments, 2)
}

// Progress tests

func (s *StorageSuite) TestSaveAndGetProgress() {
	progress := model.NewProgress("user-1", "course-1", time.Now())
	progress.SectionsViewed[1] = true

	err := s.storage.SaveProgress(s.ctx, progress, 0)
	s.Require().NoError(err)
	s.Equal(int64(1), progress.Version)

	retrieved, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	s.Equal(int64(1), retrieved.Version)
	s.True(retrieved.SectionsViewed[1])
}

func (s *StorageSuite) TestGetProgressReturnsCopy() {
	progress := model.NewProgress("user-1", "course-1", time.Now())
	_ = s.storage.SaveProgress(s.ctx, progress, 0)

	first, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	first.SectionsViewed[99] = true

	second, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	s.False(second.SectionsViewed[99], "mutating a loaded record must not leak into the store")
}

func (s *StorageSuite) TestSaveProgressVersionConflict() {
	progress := model.NewProgress("user-1", "course-1", time.Now())
	_ = s.storage.SaveProgress(s.ctx, progress, 0)

	stale := model.NewProgress("user-1", "course-1", time.Now())
	err := s.storage.SaveProgress(s.ctx, stale, 0)
	s.ErrorIs(err, model.ErrVersionConflict)
}

func (s *StorageSuite) TestSaveProgressNewRecordNeedsVersionZero() {
	progress := model.NewProgress("user-1", "course-1", time.Now())
	err := s.storage.SaveProgress(s.ctx, progress, 2)
	s.ErrorIs(err, model.ErrVersionConflict)
}

func (s *StorageSuite) TestSaveProgressConcurrentCAS() {
	progress := model.NewProgress("user-1", "course-1", time.Now())
	_ = s.storage.SaveProgress(s.ctx, progress, 0)

	const workers = 8

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(section int) {
			defer wg.Done()
			loaded, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
			if err != nil {
				results <- err
				return
			}
			loaded.SectionsViewed[section] = true
			results <- s.storage.SaveProgress(s.ctx, loaded, loaded.Version)
		}(i + 1)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			s.ErrorIs(err, model.ErrVersionConflict)
		}
	}
	s.GreaterOrEqual(wins, 1, "at least one concurrent writer should land")

	retrieved, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	s.Equal(int64(1+wins), retrieved.Version)
}

func (s *StorageSuite) TestListProgress() {
	_ = s.storage.SaveProgress(s.ctx, model.NewProgress("user-1", "course-1", time.Now()), 0)
	_ = s.storage.SaveProgress(s.ctx, model.NewProgress("user-1", "course-2", time.Now()), 0)
	_ = s.storage.SaveProgress(s.ctx, model.NewProgress("user-2", "course-1", time.Now()), 0)

	records, err := s.storage.ListProgress(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(records, 2)
}

// Achievement unlock tests

func (s *StorageSuite) TestCreateUnlockDuplicate() {
	unlock := &model.AchievementUnlock{
		UserID:        "user-1",
		AchievementID: "first-enrollment",
		UnlockedAt:    time.Now(),
	}

	created, err := s.storage.CreateUnlock(s.ctx, unlock)
	s.Require().NoError(err)
	s.True(created)

	created, err = s.storage.CreateUnlock(s.ctx, unlock)
	s.Require().NoError(err)
	s.False(created)
}

func (s *StorageSuite) TestCreateUnlockConcurrent() {
	const workers = 16

	var wg sync.WaitGroup
	createdCount := make(chan bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := &model.AchievementUnlock{
				UserID:        "user-1",
				AchievementID: "first-enrollment",
				UnlockedAt:    time.Now(),
			}
			created, err := s.storage.CreateUnlock(s.ctx, unlock)
			s.NoError(err)
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	wins := 0
	for created := range createdCount {
		if created {
			wins++
		}
	}
	s.Equal(1, wins, "exactly one concurrent unlock should win")
}

func (s *StorageSuite) TestListUnlocks() {
	_, _ = s.storage.CreateUnlock(s.ctx, &model.AchievementUnlock{UserID: "user-1", AchievementID: "a"})
	_, _ = s.storage.CreateUnlock(s.ctx, &model.AchievementUnlock{UserID: "user-1", AchievementID: "b"})
	_, _ = s.storage.CreateUnlock(s.ctx, &model.AchievementUnlock{UserID: "user-2", AchievementID: "a"})

	unlocks, err := s.storage.ListUnlocks(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(unlocks, 2)
}
