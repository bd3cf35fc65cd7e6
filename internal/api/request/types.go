package request

// SignupRequest is the request body for creating an account
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the request body for changing the account password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateCourseRequest is the request body for publishing a course
type CreateCourseRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Visibility    string `json:"visibility"`
	Password      string `json:"password,omitempty"`
	ContentRef    string `json:"content_ref"`
	TotalSections int    `json:"total_sections"`
}

// ChangeVisibilityRequest is the request body for switching course visibility
type ChangeVisibilityRequest struct {
	Visibility string `json:"visibility"`
	Password   string `json:"password,omitempty"`
}

// EnrollRequest is the request body for enrolling in a course.
// Exactly one of CourseID or CourseCode addresses the course.
type EnrollRequest struct {
	CourseID   string `json:"course_id,omitempty"`
	CourseCode string `json:"course_code,omitempty"`
	Password   string `json:"password,omitempty"`
}

// ProgressEventRequest is the request body for reporting a progress event
type ProgressEventRequest struct {
	CourseID  string `json:"course_id"`
	EventType string `json:"event_type"`
	SectionID int    `json:"section_id,omitempty"`
	Seconds   int64  `json:"seconds,omitempty"`
	QuizID    string `json:"quiz_id,omitempty"`
	Score     int    `json:"score,omitempty"`
}
