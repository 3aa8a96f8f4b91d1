// Package api exposes the scouting service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/diamond/internal/adapters/repository"
	service "github.com/okian/diamond/internal/app"
	"github.com/okian/diamond/internal/domain/model"
	"github.com/okian/diamond/internal/domain/tiering"
	"github.com/okian/diamond/internal/domain/types"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Submit(ctx context.Context, sub model.Submission) (types.Ack, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, pitcherID string) (Entry, error)
	Evaluation(ctx context.Context, pitcherID string) (repository.Standing, error)
	HiddenGems(ctx context.Context) ([]tiering.Record, error)
	Categories(ctx context.Context) (map[tiering.Category][]tiering.Record, error)
	Thresholds() tiering.Thresholds
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the scouting API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	pitchersHandler    *PitchersHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	gemsHandler        *GemsHandler
}

// NewServer creates the API server. A non-positive maxLimit uses the default.
func NewServer(deps Dependencies, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = defaultMaxLimit
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		pitchersHandler:    NewPitchersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		gemsHandler:        NewGemsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/pitchers", MetricsMiddleware(s.pitchersHandler.HandlePostPitcher, "pitchers"))
	mux.HandleFunc("/pitchers/", MetricsMiddleware(s.pitchersHandler.HandleGetPitcher, "pitcher"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/gems", MetricsMiddleware(s.gemsHandler.HandleGetGems, "gems"))
	mux.HandleFunc("/categories", MetricsMiddleware(s.gemsHandler.HandleGetCategories, "categories"))
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

// writeServiceError maps service and board errors onto status codes.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, service.ErrInvalidSubmission):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
