package achievement

import "github.com/Hike-12/BharatAI/internal/model"

// DefaultCatalog returns the static achievement catalog. Entries are
// definitions, not state; unlocks are the only runtime records.
func DefaultCatalog() []model.Achievement {
	return []model.Achievement{
		{
			ID:          "first-enrollment",
			Name:        "Getting Started",
			Description: "Enroll in your first course",
			Rule:        model.Rule{Kind: model.RuleEnrollments, Threshold: 1},
		},
		{
			ID:          "course-collector",
			Name:        "Course Collector",
			Description: "Enroll in five courses",
			Rule:        model.Rule{Kind: model.RuleEnrollments, Threshold: 5},
		},
		{
			ID:          "first-steps",
			Name:        "First Steps",
			Description: "Complete your first section",
			Rule:        model.Rule{Kind: model.RuleSectionsCompleted, Threshold: 1},
		},
		{
			ID:          "section-scholar",
			Name:        "Scholar",
			Description: "Complete twenty-five sections",
			Rule:        model.Rule{Kind: model.RuleSectionsCompleted, Threshold: 25},
		},
		{
			ID:          "first-course-complete",
			Name:        "Finisher",
			Description: "Complete every section of a course",
			Rule:        model.Rule{Kind: model.RuleCoursesCompleted, Threshold: 1},
		},
		{
			ID:          "dedicated-learner",
			Name:        "Dedicated Learner",
			Description: "Spend ten hours studying",
			Rule:        model.Rule{Kind: model.RuleTimeSpent, Threshold: 36000},
		},
		{
			ID:          "quiz-ace",
			Name:        "Quiz Ace",
			Description: "Score 90 or higher on a quiz",
			Rule:        model.Rule{Kind: model.RuleQuizScore, Threshold: 90},
		},
	}
}
