// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/whichracket/advisor/internal/adapters/feed"
	"github.com/whichracket/advisor/internal/domain/match"
	"github.com/whichracket/advisor/internal/domain/profile"
	"github.com/whichracket/advisor/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StartSession(ctx context.Context) (types.SessionState, error)
	Session(ctx context.Context, id string) (types.SessionState, error)
	EndSession(ctx context.Context, id string) error
	ResetSession(ctx context.Context, id string) (types.SessionState, error)

	SubmitAnswer(ctx context.Context, id string, questionIndex int, effects map[string]float64) (types.SessionState, error)
	UndoAnswer(ctx context.Context, id string) (types.SessionState, error)

	Profile(ctx context.Context, id string) (profile.Profile, error)
	Recommend(ctx context.Context, id string, mode match.Mode, limit int) ([]types.Recommendation, error)
	StyleLabel(ctx context.Context, id string) (types.StyleLabel, error)

	Questions(ctx context.Context) []feed.Question
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	answersHandler   *AnswersHandler
	recommendHandler *RecommendHandler
	styleHandler     *StyleHandler
	questionsHandler *QuestionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRecommendLimit int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps),
		answersHandler:   NewAnswersHandler(deps),
		recommendHandler: NewRecommendHandler(deps, maxRecommendLimit),
		styleHandler:     NewStyleHandler(deps),
		questionsHandler: NewQuestionsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/questions", MetricsMiddleware(s.questionsHandler.HandleGetQuestions, "questions"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.routeSession, "sessions"))
}

// routeSession dispatches /sessions/{id}[/{subresource}] requests.
func (s *Server) routeSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.SplitN(rest, "/", 2)
	id := parts[0]
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch sub {
	case "":
		switch r.Method {
		case http.MethodGet:
			s.sessionsHandler.HandleGet(w, r, id)
		case http.MethodDelete:
			s.sessionsHandler.HandleDelete(w, r, id)
		default:
			http.NotFound(w, r)
		}
	case "reset":
		s.sessionsHandler.HandleReset(w, r, id)
	case "answers":
		switch r.Method {
		case http.MethodPost:
			s.answersHandler.HandleSubmit(w, r, id)
		case http.MethodDelete:
			s.answersHandler.HandleUndo(w, r, id)
		default:
			http.NotFound(w, r)
		}
	case "recommendations":
		s.recommendHandler.HandleGet(w, r, id)
	case "style":
		s.styleHandler.HandleGet(w, r, id)
	default:
		http.NotFound(w, r)
	}
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
