// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/matchmaker/internal/app"
	"github.com/okian/matchmaker/internal/domain/matching"
	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/types"
)

// AssignmentDependencies defines the interface for assignment runs and
// their read-side views.
type AssignmentDependencies interface {
	RunAssignment(ctx context.Context, threshold *int) (matching.Outcome, error)
	Audit(ctx context.Context, filter service.AuditFilter) ([]model.ScoreRecord, error)
	Unmatched(ctx context.Context) ([]string, error)
	Reset(ctx context.Context) error
}

// AssignmentHandler handles assignment requests.
type AssignmentHandler struct {
	deps  AssignmentDependencies
	limit int64
}

// NewAssignmentHandler creates a new assignment handler.
func NewAssignmentHandler(deps AssignmentDependencies, maxBodyBytes int64) *AssignmentHandler {
	return &AssignmentHandler{deps: deps, limit: maxBodyBytes}
}

// assignmentRequest mirrors the OpenAPI schema for POST /assignments.
type assignmentRequest struct {
	Threshold *int `json:"threshold"`
}

// HandleRun handles POST /assignments requests. An empty body runs with the
// configured default threshold. ?include_audit=true embeds the audit.
func (h *AssignmentHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req assignmentRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, h.limit, &req); err != nil && !isEmptyBody(err) {
			writeServiceError(w, err)
			return
		}
	}
	includeAudit, _ := strconv.ParseBool(r.URL.Query().Get("include_audit"))

	out, err := h.deps.RunAssignment(r.Context(), req.Threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := types.Outcome{
		Relationships: nonNil(out.Relationships),
		Unmatched:     nonNil(out.Unmatched),
		AuditSize:     len(out.Audit),
	}
	if includeAudit {
		resp.Audit = out.Audit
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAudit handles GET /audit requests, filtered by ?seeker_id and ?provider_id.
func (h *AssignmentHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.deps.Audit(r.Context(), service.AuditFilter{
		SeekerID:   q.Get("seeker_id"),
		ProviderID: q.Get("provider_id"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}

// HandleUnmatched handles GET /unmatched requests.
func (h *AssignmentHandler) HandleUnmatched(w http.ResponseWriter, r *http.Request) {
	ids, err := h.deps.Unmatched(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ids))
}

// HandleReset handles DELETE /relationships requests.
func (h *AssignmentHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Reset(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isEmptyBody(err error) bool {
	return errors.Is(err, errEmptyBody)
}

// nonNil keeps JSON arrays from encoding as null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
