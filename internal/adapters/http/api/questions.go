// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// QuestionsHandler serves the question feed to the UI collaborator.
type QuestionsHandler struct {
	deps Dependencies
}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler(deps Dependencies) *QuestionsHandler {
	return &QuestionsHandler{deps: deps}
}

// HandleGetQuestions handles GET /questions requests.
func (h *QuestionsHandler) HandleGetQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Questions(r.Context()))
}
