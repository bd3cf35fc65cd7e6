package access

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hike-12/BharatAI/internal/dependencies/mocks"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage/memory"
)

type AccessServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context

	teacher       *model.User
	student       *model.User
	publicCourse  *model.Course
	privateCourse *model.Course
}

func TestAccessServiceSuite(t *testing.T) {
	suite.Run(t, new(AccessServiceSuite))
}

func (s *AccessServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock)
	s.ctx = context.Background()

	s.teacher = &model.User{ID: "teacher-1", Email: "t@example.com", Role: model.RoleTeacher}
	s.student = &model.User{ID: "student-1", Email: "s@example.com", Role: model.RoleStudent}
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.teacher))
	s.Require().NoError(s.storage.SaveUser(s.ctx, s.student))

	hash, err := bcrypt.GenerateFromPassword([]byte("course-secret"), bcrypt.MinCost)
	s.Require().NoError(err)

	s.publicCourse = &model.Course{
		ID:            "course-public",
		OwnerID:       s.teacher.ID,
		Title:         "Open Course",
		Visibility:    model.VisibilityPublic,
		TotalSections: 5,
	}
	s.privateCourse = &model.Course{
		ID:            "course-private",
		OwnerID:       s.teacher.ID,
		Title:         "Hidden Course",
		Visibility:    model.VisibilityPrivate,
		PasswordHash:  string(hash),
		Code:          "ABCD2345",
		TotalSections: 5,
	}
	s.Require().NoError(s.storage.SaveCourse(s.ctx, s.publicCourse))
	s.Require().NoError(s.storage.SaveCourse(s.ctx, s.privateCourse))
}

// CanView tests

func (s *AccessServiceSuite) TestCanViewPublicCourse() {
	canView, err := s.service.CanView(s.ctx, s.student.ID, s.publicCourse.ID)
	s.Require().NoError(err)
	s.True(canView)
}

func (s *AccessServiceSuite) TestCanViewPrivateCourseAsOwner() {
	canView, err := s.service.CanView(s.ctx, s.teacher.ID, s.privateCourse.ID)
	s.Require().NoError(err)
	s.True(canView)
}

func (s *AccessServiceSuite) TestCannotViewPrivateCourseBeforeEnroll() {
	canView, err := s.service.CanView(s.ctx, s.student.ID, s.privateCourse.ID)
	s.Require().NoError(err)
	s.False(canView)
}

func (s *AccessServiceSuite) TestCanViewPrivateCourseAfterEnroll() {
	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "ABCD2345"}, "course-secret")
	s.Require().NoError(err)

	canView, err := s.service.CanView(s.ctx, s.student.ID, s.privateCourse.ID)
	s.Require().NoError(err)
	s.True(canView)
}

func (s *AccessServiceSuite) TestCanViewDeletedCourse() {
	now := s.clock.Now()
	s.publicCourse.DeletedAt = &now
	s.Require().NoError(s.storage.SaveCourse(s.ctx, s.publicCourse))

	_, err := s.service.CanView(s.ctx, s.student.ID, s.publicCourse.ID)
	s.ErrorIs(err, model.ErrCourseNotFound)
}

// Enroll tests

func (s *AccessServiceSuite) TestEnrollPublicCourseByID() {
	enrollment, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseID: s.publicCourse.ID}, "")
	s.Require().NoError(err)
	s.Equal(s.student.ID, enrollment.UserID)
	s.Equal(s.publicCourse.ID, enrollment.CourseID)
}

func (s *AccessServiceSuite) TestEnrollSeedsProgress() {
	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseID: s.publicCourse.ID}, "")
	s.Require().NoError(err)

	progress, err := s.storage.GetProgress(s.ctx, s.student.ID, s.publicCourse.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), progress.Version)
	s.Empty(progress.SectionsViewed)
}

func (s *AccessServiceSuite) TestEnrollIsIdempotent() {
	first, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseID: s.publicCourse.ID}, "")
	s.Require().NoError(err)

	second, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseID: s.publicCourse.ID}, "")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID, "re-enrolling returns the existing record")
}

func (s *AccessServiceSuite) TestEnrollPrivateCourseByCode() {
	enrollment, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "ABCD2345"}, "course-secret")
	s.Require().NoError(err)
	s.Equal(s.privateCourse.ID, enrollment.CourseID)
}

func (s *AccessServiceSuite) TestEnrollPrivateCourseWrongPassword() {
	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "ABCD2345"}, "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AccessServiceSuite) TestEnrollUnknownCodeIndistinguishableFromWrongPassword() {
	_, unknownCodeErr := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "NOPE2345"}, "course-secret")
	_, wrongPasswordErr := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "ABCD2345"}, "wrong")

	s.ErrorIs(unknownCodeErr, ErrInvalidCredentials)
	s.ErrorIs(wrongPasswordErr, ErrInvalidCredentials)
	s.Equal(unknownCodeErr.Error(), wrongPasswordErr.Error())
}

func (s *AccessServiceSuite) TestEnrollPrivateCourseByIDStillNeedsPassword() {
	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseID: s.privateCourse.ID}, "")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AccessServiceSuite) TestEnrollOwnPrivateCourseWithoutPassword() {
	_, err := s.service.Enroll(s.ctx, s.teacher.ID, EnrollRef{CourseID: s.privateCourse.ID}, "")
	s.NoError(err)
}

func (s *AccessServiceSuite) TestEnrollDeletedCourseByCode() {
	now := s.clock.Now()
	s.privateCourse.DeletedAt = &now
	s.Require().NoError(s.storage.SaveCourse(s.ctx, s.privateCourse))

	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{CourseCode: "ABCD2345"}, "course-secret")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AccessServiceSuite) TestEnrollWithoutRef() {
	_, err := s.service.Enroll(s.ctx, s.student.ID, EnrollRef{}, "")
	s.ErrorIs(err, ErrCourseRefRequired)
}
