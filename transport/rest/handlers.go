package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/gomoku-backend/internal/agent"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
)

const defaultRecentLimit = 20

type matchRepo interface {
	GetByID(ctx context.Context, id string) (*entity.MatchRecord, error)
	Recent(ctx context.Context, limit int) ([]*entity.MatchRecord, error)
	Stats(ctx context.Context, agentName string) (repository.AgentStats, error)
}

type Handlers struct {
	logger    *slog.Logger
	matchRepo matchRepo
}

func NewHandlers(logger *slog.Logger, matchRepo matchRepo) *Handlers {
	return &Handlers{
		logger:    logger.With("component", "rest"),
		matchRepo: matchRepo,
	}
}

func (that *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", that.PingHandler)
	mux.HandleFunc("GET /agents", that.AgentsHandler)
	mux.HandleFunc("GET /matches", that.RecentMatchesHandler)
	mux.HandleFunc("GET /matches/{id}", that.MatchHandler)
	mux.HandleFunc("GET /stats/{agent}", that.StatsHandler)

	return mux
}

// AgentsHandler lists the agent names a game can be started against.
func (that *Handlers) AgentsHandler(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(agent.Names()))
	for _, name := range agent.Names() {
		if agent.Automated(name) {
			names = append(names, name)
		}
	}

	that.writeJSON(w, http.StatusOK, names)
}

func (that *Handlers) RecentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := that.matchRepo.Recent(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to list matches", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *Handlers) MatchHandler(w http.ResponseWriter, r *http.Request) {
	record, err := that.matchRepo.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, repository.ErrMatchNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	if err != nil {
		that.logger.Error("failed to get match", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, record)
}

func (that *Handlers) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := that.matchRepo.Stats(r.Context(), r.PathValue("agent"))
	if err != nil {
		that.logger.Error("failed to get stats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
