// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// StyleHandler handles play-style classification requests.
type StyleHandler struct {
	deps Dependencies
}

// NewStyleHandler creates a new style handler.
func NewStyleHandler(deps Dependencies) *StyleHandler {
	return &StyleHandler{deps: deps}
}

// HandleGet handles GET /sessions/{id}/style requests.
func (h *StyleHandler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	label, err := h.deps.StyleLabel(r.Context(), id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}
