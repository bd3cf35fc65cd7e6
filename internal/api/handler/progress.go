package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hike-12/BharatAI/internal/api/middleware"
	"github.com/Hike-12/BharatAI/internal/api/request"
	"github.com/Hike-12/BharatAI/internal/api/response"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/progress"
)

// ProgressHandler handles progress tracking endpoints
type ProgressHandler struct {
	tracker *progress.Tracker
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(tracker *progress.Tracker) *ProgressHandler {
	return &ProgressHandler{
		tracker: tracker,
	}
}

// Record handles POST /api/v1/progress
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.ProgressEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.CourseID == "" {
		WriteError(w, NewInvalidRequestError("course_id is required"))
		return
	}

	result, err := h.tracker.RecordEvent(r.Context(), user.ID, model.ProgressEvent{
		CourseID:  model.CourseID(req.CourseID),
		Type:      model.ProgressEventType(req.EventType),
		SectionID: req.SectionID,
		Seconds:   req.Seconds,
		QuizID:    req.QuizID,
		Score:     req.Score,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	newlyUnlocked := make([]response.Achievement, 0, len(result.NewlyUnlocked))
	for _, a := range result.NewlyUnlocked {
		newlyUnlocked = append(newlyUnlocked, response.AchievementFromModel(a))
	}

	response.JSON(w, http.StatusOK, response.ProgressEventResponse{
		Progress:      response.ProgressFromModel(result.Progress, result.Course),
		NewlyUnlocked: newlyUnlocked,
	})
}

// Get handles GET /api/v1/courses/{id}/progress
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	courseID := model.CourseID(mux.Vars(r)["id"])

	result, err := h.tracker.Get(r.Context(), user.ID, courseID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProgressFromModel(result.Progress, result.Course))
}
