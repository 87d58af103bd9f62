package rest

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
)

const (
	ActionStart = "game:start"
	ActionTurn  = "game:turn"
	ActionAgain = "game:again"
	ActionMenu  = "game:menu"
	ActionQuit  = "game:quit"
)

// Message is the body of POST /api/events.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type TurnPayload struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// toEvent maps a message to a session event.
func (that Message) toEvent() (session.Event, error) {
	switch that.Action {
	case ActionStart:
		return session.StartGame(), nil
	case ActionAgain:
		return session.PlayAgain(), nil
	case ActionMenu:
		return session.ReturnToMenu(), nil
	case ActionQuit:
		return session.Quit(), nil
	case ActionTurn:
		var payload TurnPayload
		if len(that.Payload) == 0 {
			return session.Event{}, fmt.Errorf("%s needs a payload", ActionTurn)
		}
		if err := json.Unmarshal(that.Payload, &payload); err != nil {
			return session.Event{}, fmt.Errorf("failed to unmarshal payload: %w", err)
		}
		if payload.Row == nil || payload.Col == nil {
			return session.Event{}, fmt.Errorf("%s needs row and col", ActionTurn)
		}

		return session.CellSelected(*payload.Row, *payload.Col), nil
	default:
		return session.Event{}, fmt.Errorf("%w: %q", apperror.ErrUnknownEvent, that.Action)
	}
}
