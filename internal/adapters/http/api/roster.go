// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/matchmaker/internal/domain/types"
)

// RosterDependencies defines the interface for roster operations.
type RosterDependencies interface {
	LoadRoster(ctx context.Context, roster types.Roster) error
	Roster(ctx context.Context) (types.Roster, error)
}

// RosterHandler handles roster import and export.
type RosterHandler struct {
	deps  RosterDependencies
	limit int64
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies, maxBodyBytes int64) *RosterHandler {
	return &RosterHandler{deps: deps, limit: maxBodyBytes}
}

type rosterResponse struct {
	Providers int `json:"providers"`
	Seekers   int `json:"seekers"`
}

// HandlePutRoster handles PUT /roster requests.
func (h *RosterHandler) HandlePutRoster(w http.ResponseWriter, r *http.Request) {
	var req types.Roster
	if err := decodeJSON(w, r, h.limit, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.deps.LoadRoster(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rosterResponse{Providers: len(req.Providers), Seekers: len(req.Seekers)})
}

// HandleGetRoster handles GET /roster requests.
func (h *RosterHandler) HandleGetRoster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.deps.Roster(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}
