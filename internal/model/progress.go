package model

import "time"

// ProgressEventType identifies the kind of progress event the content layer
// reports
type ProgressEventType string

const (
	// EventSectionViewed marks a content section as viewed. Idempotent:
	// reporting the same section twice does not double-count.
	EventSectionViewed ProgressEventType = "section_viewed"
	// EventTimeSpent adds a positive number of seconds of study time.
	EventTimeSpent ProgressEventType = "time_spent"
	// EventQuizScore records a quiz attempt. Stored scores are max-wins:
	// a lower re-attempt is a no-op, never a decrease.
	EventQuizScore ProgressEventType = "quiz_score"
)

// ProgressEvent is a single content-consumption report for one (user, course)
// pair
type ProgressEvent struct {
	UserID   UserID
	CourseID CourseID
	Type     ProgressEventType

	// SectionID is set for section_viewed events (1-based section number)
	SectionID int
	// Seconds is set for time_spent events
	Seconds int64
	// QuizID and Score are set for quiz_score events
	QuizID string
	Score  int
}

// Progress is the monotonic per-(user, course) completion record.
// Every field only ever grows; Version guards concurrent updates via
// compare-and-set at the storage layer.
type Progress struct {
	UserID   UserID
	CourseID CourseID

	// SectionsViewed is the set of viewed section numbers
	SectionsViewed map[int]bool
	// TimeSpentSeconds is accumulated study time
	TimeSpentSeconds int64
	// QuizScores holds the best score per quiz
	QuizScores map[string]int

	StartedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// NewProgress creates the empty progress record seeded at enrollment
func NewProgress(userID UserID, courseID CourseID, now time.Time) *Progress {
	return &Progress{
		UserID:         userID,
		CourseID:       courseID,
		SectionsViewed: make(map[int]bool),
		QuizScores:     make(map[string]int),
		StartedAt:      now,
		UpdatedAt:      now,
	}
}

// SectionsCompleted returns the number of distinct sections viewed
func (p *Progress) SectionsCompleted() int {
	return len(p.SectionsViewed)
}

// PercentComplete returns completion as a fraction of totalSections, in [0, 1]
func (p *Progress) PercentComplete(totalSections int) float64 {
	if totalSections <= 0 {
		return 0
	}
	pct := float64(len(p.SectionsViewed)) / float64(totalSections)
	if pct > 1 {
		pct = 1
	}
	return pct
}

// Completed reports whether every section of the course has been viewed
func (p *Progress) Completed(totalSections int) bool {
	return totalSections > 0 && len(p.SectionsViewed) >= totalSections
}

// Apply applies an event to the progress record, enforcing monotonicity.
// Returns whether the record changed. Events that would decrease any
// completion measure fail with ErrInvalidEvent; idempotent replays (same
// section viewed again, lower quiz re-attempt) are accepted as no-ops.
func (p *Progress) Apply(event ProgressEvent, totalSections int, now time.Time) (bool, error) {
	switch event.Type {
	case EventSectionViewed:
		if event.SectionID < 1 || (totalSections > 0 && event.SectionID > totalSections) {
			return false, ErrInvalidEvent
		}
		if p.SectionsViewed[event.SectionID] {
			return false, nil
		}
		p.SectionsViewed[event.SectionID] = true

	case EventTimeSpent:
		if event.Seconds <= 0 {
			return false, ErrInvalidEvent
		}
		p.TimeSpentSeconds += event.Seconds

	case EventQuizScore:
		if event.QuizID == "" || event.Score < 0 || event.Score > 100 {
			return false, ErrInvalidEvent
		}
		if best, ok := p.QuizScores[event.QuizID]; ok && event.Score <= best {
			return false, nil
		}
		p.QuizScores[event.QuizID] = event.Score

	default:
		return false, ErrInvalidEvent
	}

	p.UpdatedAt = now
	return true, nil
}

// Clone returns a deep copy, so a compare-and-set retry can reapply an event
// against freshly loaded state without aliasing maps
func (p *Progress) Clone() *Progress {
	clone := *p
	clone.SectionsViewed = make(map[int]bool, len(p.SectionsViewed))
	for k, v := range p.SectionsViewed {
		clone.SectionsViewed[k] = v
	}
	clone.QuizScores = make(map[string]int, len(p.QuizScores))
	for k, v := range p.QuizScores {
		clone.QuizScores[k] = v
	}
	return &clone
}
