// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	repository "github.com/okian/matchmaker/internal/adapters/repository"
	service "github.com/okian/matchmaker/internal/app"
	"github.com/okian/matchmaker/internal/domain/model"
	"github.com/okian/matchmaker/internal/domain/pairing"
	"github.com/okian/matchmaker/internal/domain/types"
)

const defaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RosterDependencies
	AssignmentDependencies
	RelationshipDependencies
	ManualDependencies
	ScoreDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	rosterHandler       *RosterHandler
	assignmentHandler   *AssignmentHandler
	relationshipHandler *RelationshipHandler
	manualHandler       *ManualHandler
	scoreHandler        *ScoreHandler
}

// NewServer creates a new API server with all handlers. maxBodyBytes caps
// request bodies; zero or less uses 1 MiB.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		rosterHandler:       NewRosterHandler(deps, maxBodyBytes),
		assignmentHandler:   NewAssignmentHandler(deps, maxBodyBytes),
		relationshipHandler: NewRelationshipHandler(deps, maxBodyBytes),
		manualHandler:       NewManualHandler(deps, maxBodyBytes),
		scoreHandler:        NewScoreHandler(deps, maxBodyBytes),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("PUT /roster", MetricsMiddleware(s.rosterHandler.HandlePutRoster, "roster"))
	mux.HandleFunc("GET /roster", MetricsMiddleware(s.rosterHandler.HandleGetRoster, "roster"))

	mux.HandleFunc("POST /assignments", MetricsMiddleware(s.assignmentHandler.HandleRun, "assignments"))
	mux.HandleFunc("GET /audit", MetricsMiddleware(s.assignmentHandler.HandleAudit, "audit"))
	mux.HandleFunc("GET /unmatched", MetricsMiddleware(s.assignmentHandler.HandleUnmatched, "unmatched"))
	mux.HandleFunc("DELETE /relationships", MetricsMiddleware(s.assignmentHandler.HandleReset, "reset"))

	mux.HandleFunc("GET /relationships", MetricsMiddleware(s.relationshipHandler.HandleList, "relationships"))
	mux.HandleFunc("GET /relationships/{id}", MetricsMiddleware(s.relationshipHandler.HandleGet, "relationship"))
	mux.HandleFunc("POST /relationships/{id}/swap", MetricsMiddleware(s.relationshipHandler.HandleSwap, "swap"))
	mux.HandleFunc("GET /relationships/{id}/candidates", MetricsMiddleware(s.relationshipHandler.HandleCandidates, "candidates"))
	mux.HandleFunc("PUT /relationships/{id}/status", MetricsMiddleware(s.relationshipHandler.HandleSetStatus, "status"))
	mux.HandleFunc("POST /relationships/{id}/advance", MetricsMiddleware(s.relationshipHandler.HandleAdvance, "advance"))
	mux.HandleFunc("POST /relationships/manual", MetricsMiddleware(s.manualHandler.HandleCreate, "manual"))

	mux.HandleFunc("POST /score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a size-limited JSON body into v. Unknown fields are
// rejected so typos in field names surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w", ErrBadRequest, errEmptyBody)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

// writeServiceError translates service and domain errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", err)
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, types.ErrInvalidRoster),
		errors.Is(err, model.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, pairing.ErrUnknownEntity):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, model.ErrTerminalStatus):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
