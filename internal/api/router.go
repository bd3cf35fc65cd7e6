package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hike-12/BharatAI/internal/api/handler"
	"github.com/Hike-12/BharatAI/internal/api/middleware"
	"github.com/Hike-12/BharatAI/internal/services/access"
	"github.com/Hike-12/BharatAI/internal/services/achievement"
	"github.com/Hike-12/BharatAI/internal/services/auth"
	"github.com/Hike-12/BharatAI/internal/services/course"
	"github.com/Hike-12/BharatAI/internal/services/progress"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	CourseService *course.Service
	AccessService *access.Service
	Tracker       *progress.Tracker
	Engine        *achievement.Engine
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	courseHandler := handler.NewCourseHandler(cfg.CourseService, cfg.AccessService)
	enrollHandler := handler.NewEnrollHandler(cfg.AccessService)
	progressHandler := handler.NewProgressHandler(cfg.Tracker)
	achievementHandler := handler.NewAchievementHandler(cfg.Engine)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Auth routes (no auth required for signup/login)
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Protected auth routes
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(authMiddleware)
	authProtected.HandleFunc("/password", authHandler.ChangePassword).Methods(http.MethodPost)

	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/me", authHandler.GetMe).Methods(http.MethodGet)

	// Course routes (all require auth)
	courses := api.PathPrefix("/courses").Subrouter()
	courses.Use(authMiddleware)
	courses.HandleFunc("", courseHandler.Create).Methods(http.MethodPost)
	courses.HandleFunc("/{id}", courseHandler.Get).Methods(http.MethodGet)
	courses.HandleFunc("/{id}", courseHandler.Delete).Methods(http.MethodDelete)
	courses.HandleFunc("/{id}/access", courseHandler.Access).Methods(http.MethodGet)
	courses.HandleFunc("/{id}/visibility", courseHandler.ChangeVisibility).Methods(http.MethodPatch)
	courses.HandleFunc("/{id}/progress", progressHandler.Get).Methods(http.MethodGet)

	// Enrollment and progress routes (all require auth)
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/enroll", enrollHandler.Enroll).Methods(http.MethodPost)
	protected.HandleFunc("/progress", progressHandler.Record).Methods(http.MethodPost)
	protected.HandleFunc("/achievements", achievementHandler.ListUnlocks).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
