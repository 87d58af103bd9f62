package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

const maxBodyBytes = 4 << 10

type gameManager interface {
	Dispatch(ctx context.Context, event session.Event) (session.View, error)
	View() session.View
}

type handlers struct {
	logger *slog.Logger
	game   gameManager
}

func (that *handlers) state(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.game.View())
}

func (that *handlers) events(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "events")

	var message Message

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&message); err != nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed message"})
		return
	}

	event, err := message.toEvent()
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	view, err := that.game.Dispatch(r.Context(), event)
	if errors.Is(err, usecase.ErrGameStopped) {
		that.writeJSON(w, http.StatusGone, ErrorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to dispatch event", "action", message.Action, "error", err)
		that.writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "game is busy"})
		return
	}

	log.Debug("event applied", "action", message.Action, "phase", view.Phase.String())

	that.writeJSON(w, http.StatusOK, view)
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
