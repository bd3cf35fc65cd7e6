package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New creates a new PostgreSQL storage instance and applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := cfg.PoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewFromURL creates a PostgreSQL storage from a database URL
func NewFromURL(ctx context.Context, databaseURL string) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if poolCfg.MaxConns == 0 {
		poolCfg.MaxConns = 10
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate applies the schema
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, role, password_hash, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			role = EXCLUDED.role,
			password_hash = EXCLUDED.password_hash,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err := s.pool.Exec(ctx, query,
		string(user.ID),
		user.Email,
		user.Name,
		string(user.Role),
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
		user.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.pool.QueryRow(ctx, query, string(id)))
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, name, role, password_hash, created_at, updated_at, deleted_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *Storage) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var id, role string

	err := row.Scan(
		&id,
		&user.Email,
		&user.Name,
		&role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.ID = model.UserID(id)
	user.Role = model.Role(role)
	return &user, nil
}

// Course operations

func (s *Storage) SaveCourse(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (id, owner_id, title, description, visibility, password_hash,
			code, content_ref, total_sections, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			visibility = EXCLUDED.visibility,
			password_hash = EXCLUDED.password_hash,
			code = EXCLUDED.code,
			content_ref = EXCLUDED.content_ref,
			total_sections = EXCLUDED.total_sections,
			updated_at = EXCLUDED.updated_at,
			deleted_at = EXCLUDED.deleted_at
	`

	_, err := s.pool.Exec(ctx, query,
		string(course.ID),
		string(course.OwnerID),
		course.Title,
		course.Description,
		string(course.Visibility),
		course.PasswordHash,
		string(course.Code),
		course.ContentRef,
		course.TotalSections,
		course.CreatedAt,
		course.UpdatedAt,
		course.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	return nil
}

func (s *Storage) GetCourse(ctx context.Context, id model.CourseID) (*model.Course, error) {
	query := `
		SELECT id, owner_id, title, description, visibility, password_hash,
			code, content_ref, total_sections, created_at, updated_at, deleted_at
		FROM courses
		WHERE id = $1
	`
	return s.scanCourse(s.pool.QueryRow(ctx, query, string(id)))
}

func (s *Storage) GetCourseByCode(ctx context.Context, code model.CourseCode) (*model.Course, error) {
	query := `
		SELECT id, owner_id, title, description, visibility, password_hash,
			code, content_ref, total_sections, created_at, updated_at, deleted_at
		FROM courses
		WHERE code = $1 AND code <> ''
	`
	return s.scanCourse(s.pool.QueryRow(ctx, query, string(code)))
}

func (s *Storage) CourseCodeExists(ctx context.Context, code model.CourseCode) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1 AND code <> '')`,
		string(code),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return exists, nil
}

func (s *Storage) scanCourse(row pgx.Row) (*model.Course, error) {
	var course model.Course
	var id, ownerID, visibility, code string

	err := row.Scan(
		&id,
		&ownerID,
		&course.Title,
		&course.Description,
		&visibility,
		&course.PasswordHash,
		&code,
		&course.ContentRef,
		&course.TotalSections,
		&course.CreatedAt,
		&course.UpdatedAt,
		&course.DeletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	course.ID = model.CourseID(id)
	course.OwnerID = model.UserID(ownerID)
	course.Visibility = model.Visibility(visibility)
	course.Code = model.CourseCode(code)
	return &course, nil
}

// Enrollment operations

func (s *Storage) CreateEnrollment(ctx context.Context, enrollment *model.Enrollment) (*model.Enrollment, bool, error) {
	query := `
		INSERT INTO enrollments (id, user_id, course_id, enrolled_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query,
		string(enrollment.ID),
		string(enrollment.UserID),
		string(enrollment.CourseID),
		enrollment.EnrolledAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		existing, err := s.GetEnrollment(ctx, enrollment.UserID, enrollment.CourseID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return enrollment, true, nil
}

func (s *Storage) GetEnrollment(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE user_id = $1 AND course_id = $2
	`

	var enrollment model.Enrollment
	var id, uid, cid string

	err := s.pool.QueryRow(ctx, query, string(userID), string(courseID)).Scan(
		&id, &uid, &cid, &enrollment.EnrolledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan enrollment: %w", err)
	}

	enrollment.ID = model.EnrollmentID(id)
	enrollment.UserID = model.UserID(uid)
	enrollment.CourseID = model.CourseID(cid)
	return &enrollment, nil
}

func (s *Storage) ListEnrollments(ctx context.Context, userID model.UserID) ([]*model.Enrollment, error) {
	query := `
		SELECT id, user_id, course_id, enrolled_at
		FROM enrollments
		WHERE user_id = $1
		ORDER BY enrolled_at
	`

	rows, err := s.pool.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*model.Enrollment{}
	for rows.Next() {
		var enrollment model.Enrollment
		var id, uid, cid string
		if err := rows.Scan(&id, &uid, &cid, &enrollment.EnrolledAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollment.ID = model.EnrollmentID(id)
		enrollment.UserID = model.UserID(uid)
		enrollment.CourseID = model.CourseID(cid)
		enrollments = append(enrollments, &enrollment)
	}
	return enrollments, rows.Err()
}

// Progress operations

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, courseID model.CourseID) (*model.Progress, error) {
	query := `
		SELECT user_id, course_id, sections_viewed, time_spent_seconds,
			quiz_scores, started_at, updated_at, version
		FROM progress
		WHERE user_id = $1 AND course_id = $2
	`
	return s.scanProgress(s.pool.QueryRow(ctx, query, string(userID), string(courseID)))
}

func (s *Storage) SaveProgress(ctx context.Context, progress *model.Progress, expectedVersion int64) error {
	sectionsJSON, err := json.Marshal(progress.SectionsViewed)
	if err != nil {
		return fmt.Errorf("failed to marshal sections: %w", err)
	}
	scoresJSON, err := json.Marshal(progress.QuizScores)
	if err != nil {
		return fmt.Errorf("failed to marshal quiz scores: %w", err)
	}

	if expectedVersion == 0 {
		query := `
			INSERT INTO progress (user_id, course_id, sections_viewed, time_spent_seconds,
				quiz_scores, started_at, updated_at, version)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
			ON CONFLICT (user_id, course_id) DO NOTHING
		`
		tag, err := s.pool.Exec(ctx, query,
			string(progress.UserID),
			string(progress.CourseID),
			sectionsJSON,
			progress.TimeSpentSeconds,
			scoresJSON,
			progress.StartedAt,
			progress.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert progress: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrVersionConflict
		}
		progress.Version = 1
		return nil
	}

	// The version predicate makes the update a compare-and-set
	query := `
		UPDATE progress SET
			sections_viewed = $1,
			time_spent_seconds = $2,
			quiz_scores = $3,
			updated_at = $4,
			version = $5
		WHERE user_id = $6 AND course_id = $7 AND version = $8
	`
	tag, err := s.pool.Exec(ctx, query,
		sectionsJSON,
		progress.TimeSpentSeconds,
		scoresJSON,
		progress.UpdatedAt,
		expectedVersion+1,
		string(progress.UserID),
		string(progress.CourseID),
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}
	progress.Version = expectedVersion + 1
	return nil
}

func (s *Storage) ListProgress(ctx context.Context, userID model.UserID) ([]*model.Progress, error) {
	query := `
		SELECT user_id, course_id, sections_viewed, time_spent_seconds,
			quiz_scores, started_at, updated_at, version
		FROM progress
		WHERE user_id = $1
	`

	rows, err := s.pool.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	records := []*model.Progress{}
	for rows.Next() {
		progress, err := s.scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, progress)
	}
	return records, rows.Err()
}

func (s *Storage) scanProgress(row pgx.Row) (*model.Progress, error) {
	var progress model.Progress
	var uid, cid string
	var sectionsJSON, scoresJSON []byte

	err := row.Scan(
		&uid,
		&cid,
		&sectionsJSON,
		&progress.TimeSpentSeconds,
		&scoresJSON,
		&progress.StartedAt,
		&progress.UpdatedAt,
		&progress.Version,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan progress: %w", err)
	}

	progress.UserID = model.UserID(uid)
	progress.CourseID = model.CourseID(cid)
	progress.SectionsViewed = make(map[int]bool)
	if err := json.Unmarshal(sectionsJSON, &progress.SectionsViewed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	progress.QuizScores = make(map[string]int)
	if err := json.Unmarshal(scoresJSON, &progress.QuizScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quiz scores: %w", err)
	}
	return &progress, nil
}

// Achievement unlock operations

func (s *Storage) CreateUnlock(ctx context.Context, unlock *model.AchievementUnlock) (bool, error) {
	snapshotJSON, err := json.Marshal(unlock.Snapshot)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO achievement_unlocks (user_id, achievement_id, unlocked_at, snapshot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, achievement_id) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query,
		string(unlock.UserID),
		string(unlock.AchievementID),
		unlock.UnlockedAt,
		snapshotJSON,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create unlock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Storage) ListUnlocks(ctx context.Context, userID model.UserID) ([]*model.AchievementUnlock, error) {
	query := `
		SELECT user_id, achievement_id, unlocked_at, snapshot
		FROM achievement_unlocks
		WHERE user_id = $1
		ORDER BY unlocked_at
	`

	rows, err := s.pool.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocks: %w", err)
	}
	defer rows.Close()

	unlocks := []*model.AchievementUnlock{}
	for rows.Next() {
		var unlock model.AchievementUnlock
		var uid, aid string
		var snapshotJSON []byte

		if err := rows.Scan(&uid, &aid, &unlock.UnlockedAt, &snapshotJSON); err != nil {
			return nil, fmt.Errorf("failed to scan unlock: %w", err)
		}
		unlock.UserID = model.UserID(uid)
		unlock.AchievementID = model.AchievementID(aid)
		if err := json.Unmarshal(snapshotJSON, &unlock.Snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		unlocks = append(unlocks, &unlock)
	}
	return unlocks, rows.Err()
}
