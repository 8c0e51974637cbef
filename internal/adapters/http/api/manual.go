// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	service "github.com/okian/matchmaker/internal/app"
	"github.com/okian/matchmaker/internal/domain/model"
)

// ManualDependencies defines the interface for hand-made pairings.
type ManualDependencies interface {
	CreateManual(ctx context.Context, req service.ManualRequest) (service.ManualResult, error)
}

// ManualHandler handles manual pairing requests.
type ManualHandler struct {
	deps  ManualDependencies
	limit int64
}

// NewManualHandler creates a new manual pairing handler.
func NewManualHandler(deps ManualDependencies, maxBodyBytes int64) *ManualHandler {
	return &ManualHandler{deps: deps, limit: maxBodyBytes}
}

// manualRequest mirrors the OpenAPI schema for POST /relationships/manual.
type manualRequest struct {
	ProviderID    string `json:"provider_id"`
	SeekerID      string `json:"seeker_id"`
	Justification string `json:"justification"`
	RequestID     string `json:"request_id"`
}

type manualResponse struct {
	Status       string              `json:"status"`
	Duplicate    bool                `json:"duplicate"`
	Relationship *model.Relationship `json:"relationship,omitempty"`
	Load         int                 `json:"load"`
	Capacity     int                 `json:"capacity"`
	OverCapacity bool                `json:"over_capacity"`
	Warning      string              `json:"warning,omitempty"`
}

// HandleCreate handles POST /relationships/manual requests. A repeated
// request_id answers 200 with the original relationship instead of 201.
func (h *ManualHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	if err := decodeJSON(w, r, h.limit, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	res, err := h.deps.CreateManual(r.Context(), service.ManualRequest{
		ProviderID:    req.ProviderID,
		SeekerID:      req.SeekerID,
		Justification: req.Justification,
		RequestID:     req.RequestID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := manualResponse{
		Status:       "created",
		Duplicate:    res.Duplicate,
		Load:         res.Load,
		Capacity:     res.Capacity,
		OverCapacity: res.OverCapacity,
		Warning:      res.Warning,
	}
	if res.Relationship.ID != "" {
		rel := res.Relationship
		resp.Relationship = &rel
	}
	if res.Duplicate {
		resp.Status = "duplicate"
		writeJSON(w, http.StatusOK, resp)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
