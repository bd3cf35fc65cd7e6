package handler

import (
	"net/http"

	"github.com/Hike-12/BharatAI/internal/api/middleware"
	"github.com/Hike-12/BharatAI/internal/api/response"
	"github.com/Hike-12/BharatAI/internal/services/achievement"
)

// AchievementHandler handles achievement endpoints
type AchievementHandler struct {
	engine *achievement.Engine
}

// NewAchievementHandler creates a new achievement handler
func NewAchievementHandler(engine *achievement.Engine) *AchievementHandler {
	return &AchievementHandler{
		engine: engine,
	}
}

// ListUnlocks handles GET /api/v1/achievements.
// Unlocks for achievements no longer in the catalog are skipped.
func (h *AchievementHandler) ListUnlocks(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	unlocks, err := h.engine.Unlocks(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := make([]response.Unlock, 0, len(unlocks))
	for _, u := range unlocks {
		a, ok := h.engine.Lookup(u.AchievementID)
		if !ok {
			continue
		}
		resp = append(resp, response.Unlock{
			Achievement: response.AchievementFromModel(a),
			UnlockedAt:  u.UnlockedAt,
			Snapshot:    u.Snapshot,
		})
	}

	response.JSON(w, http.StatusOK, resp)
}
