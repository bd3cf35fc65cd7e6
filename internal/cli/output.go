package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Course:
		o.printCourse(v)
	case AccessResult:
		o.printAccessResult(v)
	case Enrollment:
		o.printEnrollment(v)
	case Progress:
		o.printProgress(v)
	case ProgressEventResult:
		o.printProgressEventResult(v)
	case []Unlock:
		o.printUnlocks(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// AuthResult combines token and user
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Course response type
type Course struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Visibility    string `json:"visibility"`
	Code          string `json:"code,omitempty"`
	ContentRef    string `json:"content_ref,omitempty"`
	TotalSections int    `json:"total_sections"`
}

// AccessResult response type
type AccessResult struct {
	CanView bool `json:"can_view"`
}

// Enrollment response type
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Progress response type
type Progress struct {
	CourseID          string         `json:"course_id"`
	SectionsViewed    []int          `json:"sections_viewed"`
	SectionsCompleted int            `json:"sections_completed"`
	TotalSections     int            `json:"total_sections"`
	PercentComplete   float64        `json:"percent_complete"`
	Completed         bool           `json:"completed"`
	TimeSpentSeconds  int64          `json:"time_spent_seconds"`
	QuizScores        map[string]int `json:"quiz_scores,omitempty"`
}

// Achievement response type
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProgressEventResult response type
type ProgressEventResult struct {
	Progress      Progress      `json:"progress"`
	NewlyUnlocked []Achievement `json:"newly_unlocked"`
}

// Unlock response type
type Unlock struct {
	Achievement Achievement `json:"achievement"`
	UnlockedAt  time.Time   `json:"unlocked_at"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Name, u.ID)
	fmt.Printf("Email: %s\n", u.Email)
	fmt.Printf("Role: %s\n", u.Role)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.Token)
	fmt.Printf("Expires: %s\n", a.ExpiresAt.Format(time.RFC3339))
}

func (o *Output) printCourse(c Course) {
	fmt.Printf("Course: %s (%s)\n", c.Title, c.ID)
	if c.Description != "" {
		fmt.Printf("Description: %s\n", c.Description)
	}
	fmt.Printf("Visibility: %s\n", c.Visibility)
	if c.Code != "" {
		fmt.Printf("Code: %s\n", c.Code)
	}
	if c.ContentRef != "" {
		fmt.Printf("Content: %s\n", c.ContentRef)
	}
	fmt.Printf("Sections: %d\n", c.TotalSections)
}

func (o *Output) printAccessResult(a AccessResult) {
	if a.CanView {
		fmt.Println("Access: granted")
	} else {
		fmt.Println("Access: denied")
	}
}

func (o *Output) printEnrollment(e Enrollment) {
	fmt.Printf("Enrolled in course %s\n", e.CourseID)
	fmt.Printf("Enrollment: %s\n", e.ID)
	fmt.Printf("Since: %s\n", e.EnrolledAt.Format(time.RFC3339))
}

func (o *Output) printProgress(p Progress) {
	fmt.Printf("Course: %s\n", p.CourseID)
	fmt.Printf("Sections: %d/%d (%.0f%%)\n", p.SectionsCompleted, p.TotalSections, p.PercentComplete*100)
	if len(p.SectionsViewed) > 0 {
		viewed := make([]string, len(p.SectionsViewed))
		for i, s := range p.SectionsViewed {
			viewed[i] = fmt.Sprintf("%d", s)
		}
		fmt.Printf("Viewed: %s\n", strings.Join(viewed, ", "))
	}
	fmt.Printf("Time spent: %s\n", (time.Duration(p.TimeSpentSeconds) * time.Second).String())
	for quiz, score := range p.QuizScores {
		fmt.Printf("Quiz %s: %d\n", quiz, score)
	}
	if p.Completed {
		fmt.Println("Course complete!")
	}
}

func (o *Output) printProgressEventResult(r ProgressEventResult) {
	o.printProgress(r.Progress)
	for _, a := range r.NewlyUnlocked {
		fmt.Printf("Achievement unlocked: %s - %s\n", a.Name, a.Description)
	}
}

func (o *Output) printUnlocks(unlocks []Unlock) {
	if len(unlocks) == 0 {
		fmt.Println("No achievements unlocked yet")
		return
	}
	fmt.Printf("Achievements (%d):\n", len(unlocks))
	for _, u := range unlocks {
		fmt.Printf("  - %s: %s (unlocked %s)\n", u.Achievement.Name, u.Achievement.Description, u.UnlockedAt.Format("2006-01-02"))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
