package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Hike-12/BharatAI/internal/api"
	"github.com/Hike-12/BharatAI/internal/factory"
	"github.com/Hike-12/BharatAI/internal/services/auth"
	postgresstorage "github.com/Hike-12/BharatAI/internal/storage/postgres"
	redisstorage "github.com/Hike-12/BharatAI/internal/storage/redis"
	"github.com/Hike-12/BharatAI/internal/storage/retrying"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	retryCfg := retrying.DefaultConfig()
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		RetryConfig: &retryCfg,
		AuthConfig: auth.Config{
			TokenSecret: os.Getenv("AUTH_TOKEN_SECRET"),
		},
	}

	if cfg.AuthConfig.TokenSecret == "" {
		logger.Error("AUTH_TOKEN_SECRET is required")
		os.Exit(1)
	}
	if d := os.Getenv("AUTH_TOKEN_DURATION"); d != "" {
		duration, err := time.ParseDuration(d)
		if err != nil {
			logger.Error("invalid AUTH_TOKEN_DURATION", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg.AuthConfig.TokenDuration = duration
	}

	// Configure the selected storage backend
	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypePostgres:
		pgCfg := postgresstorage.DefaultConfig()
		if host := os.Getenv("POSTGRES_HOST"); host != "" {
			pgCfg.Host = host
		}
		if port := os.Getenv("POSTGRES_PORT"); port != "" {
			p, err := strconv.Atoi(port)
			if err != nil {
				logger.Error("invalid POSTGRES_PORT", slog.String("error", err.Error()))
				os.Exit(1)
			}
			pgCfg.Port = p
		}
		if db := os.Getenv("POSTGRES_DB"); db != "" {
			pgCfg.Database = db
		}
		if user := os.Getenv("POSTGRES_USER"); user != "" {
			pgCfg.User = user
		}
		pgCfg.Password = os.Getenv("POSTGRES_PASSWORD")
		if sslMode := os.Getenv("POSTGRES_SSLMODE"); sslMode != "" {
			pgCfg.SSLMode = sslMode
		}
		cfg.PostgresConfig = &pgCfg
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		CourseService: app.CourseService,
		AccessService: app.AccessService,
		Tracker:       app.ProgressTracker,
		Engine:        app.AchievementEngine,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			logger.Error("invalid PORT", slog.String("error", err.Error()))
			os.Exit(1)
		}
		serverConfig.Port = p
	}
	server := api.NewServer(router, serverConfig, logger)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
