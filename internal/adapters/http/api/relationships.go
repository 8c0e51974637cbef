// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/matchmaker/internal/domain/model"
)

// RelationshipDependencies defines the interface for relationship reads and
// the post-assignment mutations on a single relationship.
type RelationshipDependencies interface {
	Relationships(ctx context.Context) ([]model.Relationship, error)
	Relationship(ctx context.Context, id string) (model.Relationship, error)
	Swap(ctx context.Context, relID, providerID string) (model.Relationship, error)
	SwapCandidates(ctx context.Context, relID string) ([]string, error)
	UpdateStatus(ctx context.Context, relID, status string) (model.Relationship, error)
	AdvanceStatus(ctx context.Context, relID string) (model.Relationship, error)
}

// RelationshipHandler handles relationship requests.
type RelationshipHandler struct {
	deps  RelationshipDependencies
	limit int64
}

// NewRelationshipHandler creates a new relationship handler.
func NewRelationshipHandler(deps RelationshipDependencies, maxBodyBytes int64) *RelationshipHandler {
	return &RelationshipHandler{deps: deps, limit: maxBodyBytes}
}

type swapRequest struct {
	ProviderID string `json:"provider_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type candidatesResponse struct {
	RelationshipID string   `json:"relationship_id"`
	ProviderIDs    []string `json:"provider_ids"`
}

// HandleList handles GET /relationships requests. ?provider_id, ?seeker_id
// and ?status narrow the list.
func (h *RelationshipHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rels, err := h.deps.Relationships(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	q := r.URL.Query()
	providerID, seekerID := q.Get("provider_id"), q.Get("seeker_id")
	status := model.Status(strings.ToUpper(strings.TrimSpace(q.Get("status"))))

	out := make([]model.Relationship, 0, len(rels))
	for _, rel := range rels {
		if providerID != "" && rel.ProviderID != providerID {
			continue
		}
		if seekerID != "" && rel.SeekerID != seekerID {
			continue
		}
		if status != "" && rel.Status != status {
			continue
		}
		out = append(out, rel)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /relationships/{id} requests.
func (h *RelationshipHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rel, err := h.deps.Relationship(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// HandleSwap handles POST /relationships/{id}/swap requests.
func (h *RelationshipHandler) HandleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeJSON(w, r, h.limit, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rel, err := h.deps.Swap(r.Context(), r.PathValue("id"), req.ProviderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// HandleCandidates handles GET /relationships/{id}/candidates requests.
func (h *RelationshipHandler) HandleCandidates(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ids, err := h.deps.SwapCandidates(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidatesResponse{RelationshipID: id, ProviderIDs: nonNil(ids)})
}

// HandleSetStatus handles PUT /relationships/{id}/status requests.
func (h *RelationshipHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, h.limit, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	rel, err := h.deps.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// HandleAdvance handles POST /relationships/{id}/advance requests.
func (h *RelationshipHandler) HandleAdvance(w http.ResponseWriter, r *http.Request) {
	rel, err := h.deps.AdvanceStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}
