package redis

import (
	"fmt"

	"github.com/Hike-12/BharatAI/internal/model"
)

// Key prefix for all platform data
const keyPrefix = "bharatai"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// emailIndexKey returns the Redis key for the email -> user_id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// courseKey returns the Redis key for a Course
func courseKey(id model.CourseID) string {
	return fmt.Sprintf("%s:course:%s", keyPrefix, id)
}

// codeIndexKey returns the Redis key for the course_code -> course_id index.
// Entries are never deleted, so codes stay reserved across soft deletes.
func codeIndexKey(code model.CourseCode) string {
	return fmt.Sprintf("%s:idx:code:%s", keyPrefix, code)
}

// enrollmentKey returns the Redis key for an Enrollment
func enrollmentKey(userID model.UserID, courseID model.CourseID) string {
	return fmt.Sprintf("%s:enrollment:%s:%s", keyPrefix, userID, courseID)
}

// enrollmentsIndexKey returns the Redis key for the SET of a user's enrollments
func enrollmentsIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:enrollments:%s", keyPrefix, userID)
}

// progressKey returns the Redis key for a Progress record
func progressKey(userID model.UserID, courseID model.CourseID) string {
	return fmt.Sprintf("%s:progress:%s:%s", keyPrefix, userID, courseID)
}

// progressIndexKey returns the Redis key for the SET of a user's progress records
func progressIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:progress:%s", keyPrefix, userID)
}

// unlockKey returns the Redis key for an AchievementUnlock
func unlockKey(userID model.UserID, achievementID model.AchievementID) string {
	return fmt.Sprintf("%s:unlock:%s:%s", keyPrefix, userID, achievementID)
}

// unlocksIndexKey returns the Redis key for the SET of a user's unlocks
func unlocksIndexKey(userID model.UserID) string {
	return fmt.Sprintf("%s:idx:unlocks:%s", keyPrefix, userID)
}
