package response

import (
	"time"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/auth"
)

// User represents a user in API responses. The password hash never leaves
// the service layer.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:        string(u.ID),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      UserFromModel(s.User),
	}
}

// Course represents a course in API responses.
// Code is populated only for the owner; everyone else learns it out of band.
type Course struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Visibility    string    `json:"visibility"`
	Code          string    `json:"code,omitempty"`
	ContentRef    string    `json:"content_ref,omitempty"`
	TotalSections int       `json:"total_sections"`
	CreatedAt     time.Time `json:"created_at"`
}

// CourseFromModel converts a model.Course to a response Course.
// viewerID controls whether the course code is included.
func CourseFromModel(c *model.Course, viewerID model.UserID) Course {
	resp := Course{
		ID:            string(c.ID),
		OwnerID:       string(c.OwnerID),
		Title:         c.Title,
		Description:   c.Description,
		Visibility:    string(c.Visibility),
		ContentRef:    c.ContentRef,
		TotalSections: c.TotalSections,
		CreatedAt:     c.CreatedAt,
	}
	if c.OwnerID == viewerID {
		resp.Code = string(c.Code)
	}
	return resp
}

// CourseSummary is the restricted view of a course for users without access.
// No content reference, no code.
type CourseSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility"`
}

// CourseSummaryFromModel converts a model.Course to a CourseSummary
func CourseSummaryFromModel(c *model.Course) CourseSummary {
	return CourseSummary{
		ID:          string(c.ID),
		Title:       c.Title,
		Description: c.Description,
		Visibility:  string(c.Visibility),
	}
}

// AccessResponse reports whether the caller may view a course
type AccessResponse struct {
	CanView bool `json:"can_view"`
}

// Enrollment represents an enrollment in API responses
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// EnrollmentFromModel converts a model.Enrollment
func EnrollmentFromModel(e *model.Enrollment) Enrollment {
	return Enrollment{
		ID:         string(e.ID),
		UserID:     string(e.UserID),
		CourseID:   string(e.CourseID),
		EnrolledAt: e.EnrolledAt,
	}
}

// Progress represents a progress record in API responses
type Progress struct {
	CourseID          string         `json:"course_id"`
	SectionsViewed    []int          `json:"sections_viewed"`
	SectionsCompleted int            `json:"sections_completed"`
	TotalSections     int            `json:"total_sections"`
	PercentComplete   float64        `json:"percent_complete"`
	Completed         bool           `json:"completed"`
	TimeSpentSeconds  int64          `json:"time_spent_seconds"`
	QuizScores        map[string]int `json:"quiz_scores,omitempty"`
	StartedAt         time.Time      `json:"started_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// ProgressFromModel converts a model.Progress against its course
func ProgressFromModel(p *model.Progress, course *model.Course) Progress {
	sections := make([]int, 0, len(p.SectionsViewed))
	for section := 1; section <= course.TotalSections; section++ {
		if p.SectionsViewed[section] {
			sections = append(sections, section)
		}
	}

	return Progress{
		CourseID:          string(p.CourseID),
		SectionsViewed:    sections,
		SectionsCompleted: p.SectionsCompleted(),
		TotalSections:     course.TotalSections,
		PercentComplete:   p.PercentComplete(course.TotalSections),
		Completed:         p.Completed(course.TotalSections),
		TimeSpentSeconds:  p.TimeSpentSeconds,
		QuizScores:        p.QuizScores,
		StartedAt:         p.StartedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// Achievement represents a catalog entry in API responses
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AchievementFromModel converts a model.Achievement
func AchievementFromModel(a model.Achievement) Achievement {
	return Achievement{
		ID:          string(a.ID),
		Name:        a.Name,
		Description: a.Description,
	}
}

// Unlock represents an unlocked achievement in API responses
type Unlock struct {
	Achievement Achievement            `json:"achievement"`
	UnlockedAt  time.Time              `json:"unlocked_at"`
	Snapshot    model.ProgressSnapshot `json:"snapshot"`
}

// ProgressEventResponse is the response after recording a progress event
type ProgressEventResponse struct {
	Progress      Progress      `json:"progress"`
	NewlyUnlocked []Achievement `json:"newly_unlocked"`
}
