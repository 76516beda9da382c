// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"

	"github.com/whichracket/advisor/internal/domain/match"
	"github.com/whichracket/advisor/internal/domain/types"
)

// Recommendation mirrors the read shape returned by ranking queries.
type Recommendation = types.Recommendation

// RecommendHandler handles ranked recommendation requests.
type RecommendHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewRecommendHandler creates a new recommendations handler.
func NewRecommendHandler(deps Dependencies, maxLimit int) *RecommendHandler {
	return &RecommendHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGet handles GET /sessions/{id}/recommendations?mode=M&limit=N.
// Mode defaults to neutral, limit to the engine's top-K.
func (h *RecommendHandler) HandleGet(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	mode, err := match.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if limit > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}

	ranked, err := h.deps.Recommend(r.Context(), id, mode, limit)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	if ranked == nil {
		ranked = []Recommendation{}
	}
	writeJSON(w, http.StatusOK, ranked)
}
