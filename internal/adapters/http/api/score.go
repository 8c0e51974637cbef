// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchmaker/internal/domain/types"
)

// ScoreDependencies defines the interface for score previews.
type ScoreDependencies interface {
	Score(ctx context.Context, providerID, seekerID string, load *int) (types.ScoreBreakdown, error)
}

// ScoreHandler handles score preview requests.
type ScoreHandler struct {
	deps  ScoreDependencies
	limit int64
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies, maxBodyBytes int64) *ScoreHandler {
	return &ScoreHandler{deps: deps, limit: maxBodyBytes}
}

type scoreRequest struct {
	ProviderID string `json:"provider_id"`
	SeekerID   string `json:"seeker_id"`
	Load       *int   `json:"load"`
}

// HandleScore handles POST /score requests. Without load, the provider's
// current load is used.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, h.limit, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if req.ProviderID == "" || req.SeekerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	res, err := h.deps.Score(r.Context(), req.ProviderID, req.SeekerID, req.Load)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
