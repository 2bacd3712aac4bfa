package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-rooms-backend/internal/entity"
)

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)
	RoomsHandler(w http.ResponseWriter, r *http.Request)
}

type roomDirectory interface {
	ListJoinable(ctx context.Context) ([]entity.Summary, error)
}

type handlers struct {
	logger    *slog.Logger
	directory roomDirectory
}

func NewHandlers(logger *slog.Logger, directory roomDirectory) Handlers {
	return &handlers{
		logger:    logger,
		directory: directory,
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// RoomsHandler serves the joinable-room listing from the Redis mirror.
func (that *handlers) RoomsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "RoomsHandler")

	rooms, err := that.directory.ListJoinable(r.Context())
	if err != nil {
		log.Error("failed to list rooms", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if rooms == nil {
		rooms = []entity.Summary{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(rooms); err != nil {
		log.Error("failed to encode rooms", "error", err)
	}
}
