package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Hike-12/BharatAI/internal/api/middleware"
	"github.com/Hike-12/BharatAI/internal/api/request"
	"github.com/Hike-12/BharatAI/internal/api/response"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/access"
	"github.com/Hike-12/BharatAI/internal/services/course"
)

// CourseHandler handles course registry endpoints
type CourseHandler struct {
	courseService *course.Service
	accessService *access.Service
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courseService *course.Service, accessService *access.Service) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		accessService: accessService,
	}
}

// Create handles POST /api/v1/courses
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, err := h.courseService.Create(r.Context(), user.ID, course.CreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Visibility:    model.Visibility(req.Visibility),
		Password:      req.Password,
		ContentRef:    req.ContentRef,
		TotalSections: req.TotalSections,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CourseFromModel(created, user.ID))
}

// Get handles GET /api/v1/courses/{id}.
// Callers without view access get the restricted summary, not an error, so
// a course can be discovered before enrolling.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	courseID := model.CourseID(mux.Vars(r)["id"])

	c, err := h.courseService.Get(r.Context(), courseID)
	if err != nil {
		WriteError(w, err)
		return
	}

	canView, err := h.accessService.CanView(r.Context(), user.ID, courseID)
	if err != nil {
		WriteError(w, err)
		return
	}

	if !canView {
		response.JSON(w, http.StatusOK, response.CourseSummaryFromModel(c))
		return
	}
	response.JSON(w, http.StatusOK, response.CourseFromModel(c, user.ID))
}

// Access handles GET /api/v1/courses/{id}/access
func (h *CourseHandler) Access(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	courseID := model.CourseID(mux.Vars(r)["id"])

	canView, err := h.accessService.CanView(r.Context(), user.ID, courseID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AccessResponse{CanView: canView})
}

// ChangeVisibility handles PATCH /api/v1/courses/{id}/visibility
func (h *CourseHandler) ChangeVisibility(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	courseID := model.CourseID(mux.Vars(r)["id"])

	var req request.ChangeVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.courseService.ChangeVisibility(r.Context(), user.ID, courseID, model.Visibility(req.Visibility), req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CourseFromModel(updated, user.ID))
}

// Delete handles DELETE /api/v1/courses/{id}
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	courseID := model.CourseID(mux.Vars(r)["id"])

	if err := h.courseService.SoftDelete(r.Context(), user.ID, courseID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
