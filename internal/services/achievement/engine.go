package achievement

import (
	"context"
	"log/slog"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Engine evaluates the achievement catalog against a user's aggregate
// progress. Evaluation is stateless and safe to run concurrently: the unlock
// write is insert-if-absent, so when two evaluations race only one reports
// the unlock as new.
type Engine struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	catalog []model.Achievement
}

// New creates a new achievement engine
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger, catalog []model.Achievement) *Engine {
	return &Engine{
		storage: storage,
		clock:   clock,
		logger:  logger,
		catalog: catalog,
	}
}

// Catalog returns the achievement definitions
func (e *Engine) Catalog() []model.Achievement {
	return e.catalog
}

// Lookup returns the catalog entry for an ID
func (e *Engine) Lookup(id model.AchievementID) (model.Achievement, bool) {
	for _, a := range e.catalog {
		if a.ID == id {
			return a, true
		}
	}
	return model.Achievement{}, false
}

// Unlocks returns the user's unlocked achievements
func (e *Engine) Unlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error) {
	return e.storage.ListUnlocks(ctx, userID)
}

// Evaluate checks every catalog entry for the user and returns the
// achievements newly unlocked by this call. Malformed catalog entries are
// logged and skipped; they never abort evaluation.
func (e *Engine) Evaluate(ctx context.Context, userID model.UserID) ([]model.Achievement, error) {
	enrollments, err := e.storage.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, err
	}
	records, err := e.storage.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocks, err := e.storage.ListUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlocked := make(map[model.AchievementID]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.AchievementID] = true
	}

	snapshot, perCourse := e.aggregate(ctx, enrollments, records)

	var newlyUnlocked []model.Achievement
	for _, a := range e.catalog {
		if unlocked[a.ID] {
			continue
		}
		ok, valid := satisfied(a.Rule, snapshot, perCourse)
		if !valid {
			e.logger.Warn("skipping malformed achievement rule",
				"achievement_id", a.ID,
				"rule_kind", a.Rule.Kind,
				"threshold", a.Rule.Threshold,
			)
			continue
		}
		if !ok {
			continue
		}

		created, err := e.storage.CreateUnlock(ctx, &model.AchievementUnlock{
			UserID:        userID,
			AchievementID: a.ID,
			UnlockedAt:    e.clock.Now(),
			Snapshot:      snapshot,
		})
		if err != nil {
			return nil, err
		}
		if created {
			newlyUnlocked = append(newlyUnlocked, a)
		}
	}

	return newlyUnlocked, nil
}

// aggregate folds the user's progress records into the snapshot the rules
// are evaluated against, plus per-course section counts for scoped rules
func (e *Engine) aggregate(ctx context.Context, enrollments []*model.Enrollment, records []*model.Progress) (model.ProgressSnapshot, map[model.CourseID]int) {
	snapshot := model.ProgressSnapshot{
		Enrollments: len(enrollments),
	}
	perCourse := make(map[model.CourseID]int, len(records))

	for _, p := range records {
		completed := p.SectionsCompleted()
		snapshot.SectionsCompleted += completed
		snapshot.TimeSpentSeconds += p.TimeSpentSeconds
		perCourse[p.CourseID] = completed

		for _, score := range p.QuizScores {
			if score > snapshot.BestQuizScore {
				snapshot.BestQuizScore = score
			}
		}

		course, err := e.storage.GetCourse(ctx, p.CourseID)
		if err != nil {
			e.logger.Warn("skipping progress for unknown course",
				"course_id", p.CourseID, "error", err)
			continue
		}
		if p.Completed(course.TotalSections) {
			snapshot.CoursesCompleted++
		}
	}

	return snapshot, perCourse
}

// satisfied evaluates a rule against the snapshot. The second result is
// false when the rule itself is malformed.
func satisfied(rule model.Rule, snapshot model.ProgressSnapshot, perCourse map[model.CourseID]int) (ok bool, valid bool) {
	if rule.Threshold <= 0 {
		return false, false
	}

	switch rule.Kind {
	case model.RuleSectionsCompleted:
		if rule.CourseID != "" {
			return perCourse[rule.CourseID] >= rule.Threshold, true
		}
		return snapshot.SectionsCompleted >= rule.Threshold, true
	case model.RuleCoursesCompleted:
		return snapshot.CoursesCompleted >= rule.Threshold, true
	case model.RuleTimeSpent:
		return snapshot.TimeSpentSeconds >= int64(rule.Threshold), true
	case model.RuleQuizScore:
		return snapshot.BestQuizScore >= rule.Threshold, true
	case model.RuleEnrollments:
		return snapshot.Enrollments >= rule.Threshold, true
	default:
		return false, false
	}
}
