package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/achievement"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// casAttempts bounds the reload-and-reapply loop for contended writes
const casAttempts = 5

// Result is the outcome of recording a progress event
type Result struct {
	Progress *model.Progress
	Course   *model.Course
	// NewlyUnlocked holds achievements this event unlocked, in catalog order
	NewlyUnlocked []model.Achievement
}

// Tracker records progress events and triggers achievement evaluation
type Tracker struct {
	storage storage.Storage
	engine  *achievement.Engine
	clock   clock.Clock
}

// New creates a new progress tracker
func New(storage storage.Storage, engine *achievement.Engine, clock clock.Clock) *Tracker {
	return &Tracker{
		storage: storage,
		engine:  engine,
		clock:   clock,
	}
}

// RecordEvent applies a progress event for an enrolled user. The write is a
// versioned compare-and-set: on conflict the event is reapplied against
// freshly loaded state, which keeps progress monotonic under concurrent
// reports. After a successful write the achievement engine runs
// synchronously and newly unlocked achievements ride back on the result.
func (t *Tracker) RecordEvent(ctx context.Context, userID model.UserID, event model.ProgressEvent) (*Result, error) {
	if _, err := t.storage.GetEnrollment(ctx, userID, event.CourseID); err != nil {
		if errors.Is(err, model.ErrEnrollmentNotFound) {
			return nil, model.ErrNotEnrolled
		}
		return nil, err
	}

	course, err := t.storage.GetCourse(ctx, event.CourseID)
	if err != nil {
		return nil, err
	}
	if course.Deleted() {
		return nil, model.ErrCourseNotFound
	}

	event.UserID = userID
	now := t.clock.Now()

	var current *model.Progress
	var changed bool
	for attempt := 0; attempt < casAttempts; attempt++ {
		current, err = t.loadOrSeed(ctx, userID, event.CourseID, now)
		if err != nil {
			return nil, err
		}

		changed, err = current.Apply(event, course.TotalSections, now)
		if err != nil {
			return nil, err
		}
		if !changed {
			// Idempotent replay: nothing to write, nothing new to unlock
			return &Result{Progress: current, Course: course}, nil
		}

		err = t.storage.SaveProgress(ctx, current, current.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("progress write contended beyond %d attempts: %w", casAttempts, err)
	}

	newlyUnlocked, err := t.engine.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Result{
		Progress:      current,
		Course:        course,
		NewlyUnlocked: newlyUnlocked,
	}, nil
}

// Get returns the user's progress in a course. Requires an enrollment.
func (t *Tracker) Get(ctx context.Context, userID model.UserID, courseID model.CourseID) (*Result, error) {
	if _, err := t.storage.GetEnrollment(ctx, userID, courseID); err != nil {
		if errors.Is(err, model.ErrEnrollmentNotFound) {
			return nil, model.ErrNotEnrolled
		}
		return nil, err
	}

	course, err := t.storage.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	progress, err := t.loadOrSeed(ctx, userID, courseID, t.clock.Now())
	if err != nil {
		return nil, err
	}

	return &Result{Progress: progress, Course: course}, nil
}

// loadOrSeed returns the stored progress record, or a fresh version-zero
// record if enrollment seeding has not landed yet
func (t *Tracker) loadOrSeed(ctx context.Context, userID model.UserID, courseID model.CourseID, now time.Time) (*model.Progress, error) {
	progress, err := t.storage.GetProgress(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, model.ErrProgressNotFound) {
			return model.NewProgress(userID, courseID, now), nil
		}
		return nil, err
	}
	return progress, nil
}
