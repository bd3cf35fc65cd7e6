package model

import "time"

// AchievementID identifies an achievement definition in the catalog
type AchievementID string

// RuleKind identifies the predicate an achievement rule evaluates
type RuleKind string

const (
	// RuleSectionsCompleted fires when the user has viewed at least
	// Threshold sections across all courses (or within Rule.CourseID when set)
	RuleSectionsCompleted RuleKind = "sections_completed"
	// RuleCoursesCompleted fires when the user has completed at least
	// Threshold courses
	RuleCoursesCompleted RuleKind = "courses_completed"
	// RuleTimeSpent fires when accumulated study time reaches Threshold seconds
	RuleTimeSpent RuleKind = "time_spent"
	// RuleQuizScore fires when any quiz score reaches Threshold
	RuleQuizScore RuleKind = "quiz_score"
	// RuleEnrollments fires when the user is enrolled in at least Threshold
	// courses
	RuleEnrollments RuleKind = "enrollments"
)

// Rule is the typed predicate behind an achievement
type Rule struct {
	Kind      RuleKind
	Threshold int
	// CourseID scopes the rule to a single course when non-empty;
	// only meaningful for sections_completed
	CourseID CourseID
}

// Achievement is a static catalog entry, not created at runtime
type Achievement struct {
	ID          AchievementID
	Name        string
	Description string
	Rule        Rule
}

// ProgressSnapshot captures the aggregate state that satisfied a rule at
// unlock time
type ProgressSnapshot struct {
	SectionsCompleted int   `json:"sections_completed"`
	CoursesCompleted  int   `json:"courses_completed"`
	TimeSpentSeconds  int64 `json:"time_spent_seconds"`
	Enrollments       int   `json:"enrollments"`
	BestQuizScore     int   `json:"best_quiz_score"`
}

// AchievementUnlock is the one-time durable record that a user satisfied an
// achievement's rule. At most one unlock exists per (UserID, AchievementID);
// the storage layer enforces this and a duplicate write is treated as
// success, which makes unlocking idempotent under concurrent evaluation.
type AchievementUnlock struct {
	UserID        UserID
	AchievementID AchievementID
	UnlockedAt    time.Time
	Snapshot      ProgressSnapshot
}
