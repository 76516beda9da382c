// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/whichracket/advisor/internal/adapters/repository"
)

// SessionsHandler handles session lifecycle requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// sessionResponse combines progress with the current profile snapshot.
type sessionResponse struct {
	SessionID      string             `json:"session_id"`
	Answered       int                `json:"answered"`
	QuestionsTotal int                `json:"questions_total"`
	Attributes     map[string]float64 `json:"attributes"`
	Styles         map[string]float64 `json:"styles"`
	Ranges         any                `json:"ranges"`
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	state, err := h.deps.StartSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// HandleGet handles GET /sessions/{id} requests.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	state, err := h.deps.Session(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	prof, err := h.deps.Profile(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID:      state.ID,
		Answered:       state.Answered,
		QuestionsTotal: state.QuestionsTotal,
		Attributes:     prof.Attributes,
		Styles:         prof.Styles,
		Ranges:         prof.Ranges,
	})
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.deps.EndSession(r.Context(), id); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleReset handles POST /sessions/{id}/reset requests.
func (h *SessionsHandler) HandleReset(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	state, err := h.deps.ResetSession(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// writeSessionError translates session lookup failures to HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
