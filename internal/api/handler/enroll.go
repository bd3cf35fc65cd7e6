package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Hike-12/BharatAI/internal/api/middleware"
	"github.com/Hike-12/BharatAI/internal/api/request"
	"github.com/Hike-12/BharatAI/internal/api/response"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/services/access"
)

// EnrollHandler handles enrollment endpoints
type EnrollHandler struct {
	accessService *access.Service
}

// NewEnrollHandler creates a new enrollment handler
func NewEnrollHandler(accessService *access.Service) *EnrollHandler {
	return &EnrollHandler{
		accessService: accessService,
	}
}

// Enroll handles POST /api/v1/enroll
func (h *EnrollHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.CourseID != "" && req.CourseCode != "" {
		WriteError(w, NewInvalidRequestError("provide course_id or course_code, not both"))
		return
	}

	enrollment, err := h.accessService.Enroll(r.Context(), user.ID, access.EnrollRef{
		CourseID:   model.CourseID(req.CourseID),
		CourseCode: model.CourseCode(req.CourseCode),
	}, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EnrollmentFromModel(enrollment))
}
