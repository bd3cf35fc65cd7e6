package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/dependencies/random"
	"github.com/Hike-12/BharatAI/internal/services/access"
	"github.com/Hike-12/BharatAI/internal/services/achievement"
	"github.com/Hike-12/BharatAI/internal/services/auth"
	"github.com/Hike-12/BharatAI/internal/services/course"
	"github.com/Hike-12/BharatAI/internal/services/progress"
	"github.com/Hike-12/BharatAI/internal/storage"
	"github.com/Hike-12/BharatAI/internal/storage/memory"
	postgresstorage "github.com/Hike-12/BharatAI/internal/storage/postgres"
	redisstorage "github.com/Hike-12/BharatAI/internal/storage/redis"
	"github.com/Hike-12/BharatAI/internal/storage/retrying"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService       *auth.Service
	CourseService     *course.Service
	AccessService     *access.Service
	AchievementEngine *achievement.Engine
	ProgressTracker   *progress.Tracker
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds Postgres connection settings (required if StorageType is "postgres")
	PostgresConfig *postgresstorage.Config
	// RetryConfig enables the retrying storage decorator when set.
	// Memory storage is never wrapped; it cannot fail transiently.
	RetryConfig *retrying.Config
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		if cfg.RetryConfig != nil {
			store = retrying.New(store, *cfg.RetryConfig)
		}
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pgStore, err := postgresstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		store = pgStore
		if cfg.RetryConfig != nil {
			store = retrying.New(store, *cfg.RetryConfig)
		}
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.TokenDuration == 0 {
		authCfg.TokenDuration = auth.DefaultConfig().TokenDuration
	}

	return newWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	// Create services
	authService := auth.New(store, clk, authCfg)
	courseService := course.New(store, clk, rnd)
	accessService := access.New(store, clk)
	engine := achievement.New(store, clk, logger, achievement.DefaultCatalog())
	tracker := progress.New(store, engine, clk)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		AuthService:       authService,
		CourseService:     courseService,
		AccessService:     accessService,
		AchievementEngine: engine,
		ProgressTracker:   tracker,
	}
}
