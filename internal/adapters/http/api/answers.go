// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/whichracket/advisor/internal/app"
)

// AnswersHandler handles answer submission and undo requests.
type AnswersHandler struct {
	deps Dependencies
}

// NewAnswersHandler creates a new answers handler.
func NewAnswersHandler(deps Dependencies) *AnswersHandler {
	return &AnswersHandler{deps: deps}
}

// answerRequest mirrors the OpenAPI schema for POST /sessions/{id}/answers.
type answerRequest struct {
	QuestionIndex int                `json:"question_index"`
	Effects       map[string]float64 `json:"effects"`
}

func (a answerRequest) validate() error {
	switch {
	case a.QuestionIndex < 0:
		return errors.New("question_index must not be negative")
	case len(a.Effects) == 0:
		return errors.New("missing effects")
	}
	return nil
}

// HandleSubmit handles POST /sessions/{id}/answers requests.
func (h *AnswersHandler) HandleSubmit(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.submit_answer"
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	state, err := h.deps.SubmitAnswer(r.Context(), id, req.QuestionIndex, req.Effects)
	if err != nil {
		if errors.Is(err, service.ErrBadQuestionIndex) {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleUndo handles DELETE /sessions/{id}/answers requests. Undoing with no
// answers recorded succeeds and leaves the session at the start.
func (h *AnswersHandler) HandleUndo(w http.ResponseWriter, r *http.Request, id string) {
	state, err := h.deps.UndoAnswer(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}
