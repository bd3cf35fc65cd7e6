package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Hike-12/BharatAI/internal/dependencies/mocks"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/achievement"
	"github.com/Hike-12/BharatAI/internal/storage/memory"
	"github.com/Hike-12/BharatAI/internal/testutil"
)

type TrackerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	tracker *Tracker
	ctx     context.Context
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	engine := achievement.New(s.storage, s.clock, testutil.NopLogger(), achievement.DefaultCatalog())
	s.tracker = New(s.storage, engine, s.clock)
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SaveCourse(s.ctx, &model.Course{
		ID:            "course-1",
		OwnerID:       "teacher-1",
		Title:         "Course One",
		Visibility:    model.VisibilityPublic,
		TotalSections: 3,
	}))
	s.enroll("user-1", "course-1")
}

func (s *TrackerSuite) enroll(userID model.UserID, courseID model.CourseID) {
	_, _, err := s.storage.CreateEnrollment(s.ctx, &model.Enrollment{
		ID:       model.EnrollmentID("enr-" + string(userID) + "-" + string(courseID)),
		UserID:   userID,
		CourseID: courseID,
	})
	s.Require().NoError(err)
}

func sectionEvent(courseID model.CourseID, section int) model.ProgressEvent {
	return model.ProgressEvent{
		CourseID:  courseID,
		Type:      model.EventSectionViewed,
		SectionID: section,
	}
}

func (s *TrackerSuite) TestRecordSectionViewed() {
	result, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.Require().NoError(err)

	s.True(result.Progress.SectionsViewed[1])
	s.Equal(1, result.Progress.SectionsCompleted())
	s.InDelta(1.0/3.0, result.Progress.PercentComplete(result.Course.TotalSections), 0.001)
}

func (s *TrackerSuite) TestRecordRequiresEnrollment() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-2", sectionEvent("course-1", 1))
	s.ErrorIs(err, model.ErrNotEnrolled)
}

func (s *TrackerSuite) TestReplayedSectionDoesNotDoubleCount() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.Require().NoError(err)

	result, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.Require().NoError(err)
	s.Equal(1, result.Progress.SectionsCompleted())
	s.Empty(result.NewlyUnlocked, "no-op replay must not re-evaluate achievements")
}

func (s *TrackerSuite) TestSectionOutOfRange() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 4))
	s.ErrorIs(err, model.ErrInvalidEvent)

	_, err = s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 0))
	s.ErrorIs(err, model.ErrInvalidEvent)
}

func (s *TrackerSuite) TestTimeSpentAccumulates() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventTimeSpent, Seconds: 120,
	})
	s.Require().NoError(err)

	result, err := s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventTimeSpent, Seconds: 60,
	})
	s.Require().NoError(err)
	s.Equal(int64(180), result.Progress.TimeSpentSeconds)
}

func (s *TrackerSuite) TestNegativeTimeRejected() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventTimeSpent, Seconds: -5,
	})
	s.ErrorIs(err, model.ErrInvalidEvent)
}

func (s *TrackerSuite) TestQuizScoreMaxWins() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventQuizScore, QuizID: "quiz-1", Score: 80,
	})
	s.Require().NoError(err)

	// Lower re-attempt is a no-op
	result, err := s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventQuizScore, QuizID: "quiz-1", Score: 60,
	})
	s.Require().NoError(err)
	s.Equal(80, result.Progress.QuizScores["quiz-1"])

	result, err = s.tracker.RecordEvent(s.ctx, "user-1", model.ProgressEvent{
		CourseID: "course-1", Type: model.EventQuizScore, QuizID: "quiz-1", Score: 95,
	})
	s.Require().NoError(err)
	s.Equal(95, result.Progress.QuizScores["quiz-1"])
}

func (s *TrackerSuite) TestCompletionUnlocksAchievements() {
	var last *Result
	for section := 1; section <= 3; section++ {
		result, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", section))
		s.Require().NoError(err)
		last = result
	}

	s.True(last.Progress.Completed(last.Course.TotalSections))

	ids := make([]model.AchievementID, 0, len(last.NewlyUnlocked))
	for _, a := range last.NewlyUnlocked {
		ids = append(ids, a.ID)
	}
	s.Contains(ids, model.AchievementID("first-course-complete"))
}

func (s *TrackerSuite) TestFirstEventUnlocksEnrollmentAchievement() {
	result, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.Require().NoError(err)

	ids := make([]model.AchievementID, 0, len(result.NewlyUnlocked))
	for _, a := range result.NewlyUnlocked {
		ids = append(ids, a.ID)
	}
	s.Contains(ids, model.AchievementID("first-enrollment"))
	s.Contains(ids, model.AchievementID("first-steps"))
}

func (s *TrackerSuite) TestConcurrentEventsAllLand() {
	const workers = 3

	var wg sync.WaitGroup
	for section := 1; section <= workers; section++ {
		wg.Add(1)
		go func(section int) {
			defer wg.Done()
			_, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", section))
			s.NoError(err)
		}(section)
	}
	wg.Wait()

	progress, err := s.storage.GetProgress(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	s.Equal(workers, progress.SectionsCompleted(), "CAS retry must not lose concurrent sections")
}

func (s *TrackerSuite) TestGet() {
	_, err := s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.Require().NoError(err)

	result, err := s.tracker.Get(s.ctx, "user-1", "course-1")
	s.Require().NoError(err)
	s.Equal(1, result.Progress.SectionsCompleted())
	s.Equal(3, result.Course.TotalSections)
}

func (s *TrackerSuite) TestGetRequiresEnrollment() {
	_, err := s.tracker.Get(s.ctx, "user-2", "course-1")
	s.ErrorIs(err, model.ErrNotEnrolled)
}

func (s *TrackerSuite) TestDeletedCourseRejectsEvents() {
	now := s.clock.Now()
	course, err := s.storage.GetCourse(s.ctx, "course-1")
	s.Require().NoError(err)
	course.DeletedAt = &now
	s.Require().NoError(s.storage.SaveCourse(s.ctx, course))

	_, err = s.tracker.RecordEvent(s.ctx, "user-1", sectionEvent("course-1", 1))
	s.ErrorIs(err, model.ErrCourseNotFound)
}
