package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, emailIndexKey(user.Email), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	// Look up user ID from email index
	userIDStr, err := s.client.Get(ctx, emailIndexKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return s.GetUser(ctx, model.UserID(userIDStr))
}

// Course operations

func (s *Storage) SaveCourse(ctx context.Context, course *model.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, courseKey(course.ID), data, 0)
	if course.Code != "" {
		pipe.Set(ctx, codeIndexKey(course.Code), string(course.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetCourse(ctx context.Context, id model.CourseID) (*model.Course, error) {
	data, err := s.client.Get(ctx, courseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCourseNotFound
		}
		return nil, err
	}

	var course model.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *Storage) GetCourseByCode(ctx context.Context, code model.CourseCode) (*model.Course, error) {
	// Look up course ID from code index
	courseIDStr, err := s.client.Get(ctx, codeIndexKey(code)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrCourseNotFound
		}
		return nil, err
	}

	return s.GetCourse(ctx, model.CourseID(courseIDStr))
}

func (s *Storage) CourseCodeExists(ctx context.Context, code model.CourseCode) (bool, error) {
	exists, err := s.client.Exists(ctx, codeIndexKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Enrollment operations

func (s *Storage) CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, bool, error) {
	data, err := json.Marshal(enrollment)
	if err != nil {
		return nil, false, err
	}

	key := enrollmentKey(enrollment.UserID, enrollment.CourseID)

	// SETNX is the uniqueness guarantee for the (user, course) pair
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return nil, false, err
	}

	if !created {
		existing, err := s.GetEnrollment(ctx, enrollment.UserID, enrollment.CourseID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	if err := s.client.SAdd(ctx, enrollmentsIndexKey(enrollment.UserID), key).Err(); err != nil {
		return nil, false, err
	}
	return enrollment, true, nil
}

func (s *Storage) GetEnrollment(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Enrollment, error) {
	data, err := s.client.Get(ctx, enrollmentKey(userID, courseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEnrollmentNotFound
		}
		return nil, err
	}

	var enrollment model.Enrollment
	if err := json.Unmarshal(data, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *Storage) ListEnrollments(ctx context.Context, userID model.UserID) ([]*model.Enrollment, error) {
	keys, err := s.client.SMembers(ctx, enrollmentsIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Enrollment{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	enrollments := make([]*model.Enrollment, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var enrollment model.Enrollment
		if err := json.Unmarshal([]byte(val.(string)), &enrollment); err != nil {
			continue // Skip invalid data
		}
		enrollments = append(enrollments, &enrollment)
	}

	return enrollments, nil
}

// Progress operations

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Progress, error) {
	data, err := s.client.Get(ctx, progressKey(userID, courseID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrProgressNotFound
		}
		return nil, err
	}

	var progress model.Progress
	if err := json.Unmarshal(data, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *Storage) SaveProgress(ctx context.Context, progress *model.Progress, expectedVersion int64) error {
	key := progressKey(progress.UserID, progress.CourseID)

	// WATCH-based optimistic transaction: the write only lands if the
	// stored version still matches expectedVersion when the tx executes
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		var currentVersion int64

		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				return err
			}
			currentVersion = 0
		} else {
			var current model.Progress
			if err := json.Unmarshal(data, &current); err != nil {
				return err
			}
			currentVersion = current.Version
		}

		if currentVersion != expectedVersion {
			return model.ErrVersionConflict
		}

		stored := progress.Clone()
		stored.Version = expectedVersion + 1
		payload, err := json.Marshal(stored)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			pipe.SAdd(ctx, progressIndexKey(progress.UserID), key)
			return nil
		})
		return err
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return model.ErrVersionConflict
		}
		return err
	}

	progress.Version = expectedVersion + 1
	return nil
}

func (s *Storage) ListProgress(ctx context.Context, userID model.UserID) ([]*model.Progress, error) {
	keys, err := s.client.SMembers(ctx, progressIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.Progress{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.Progress, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var progress model.Progress
		if err := json.Unmarshal([]byte(val.(string)), &progress); err != nil {
			continue // Skip invalid data
		}
		records = append(records, &progress)
	}

	return records, nil
}

// Achievement unlock operations

func (s *Storage) CreateUnlock(ctx context.Context, unlock *model.AchievementUnlock) (bool, error) {
	data, err := json.Marshal(unlock)
	if err != nil {
		return false, err
	}

	key := unlockKey(unlock.UserID, unlock.AchievementID)

	// SETNX makes the unlock at-most-once per (user, achievement) pair
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	if err := s.client.SAdd(ctx, unlocksIndexKey(unlock.UserID), key).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Storage) ListUnlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error) {
	keys, err := s.client.SMembers(ctx, unlocksIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []*model.AchievementUnlock{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	unlocks := make([]*model.AchievementUnlock, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var unlock model.AchievementUnlock
		if err := json.Unmarshal([]byte(val.(string)), &unlock); err != nil {
			continue // Skip invalid data
		}
		unlocks = append(unlocks, &unlock)
	}

	return unlocks, nil
}
