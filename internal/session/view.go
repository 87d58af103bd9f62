package session

import "github.com/rocketscienceinc/tictactoe-solo/internal/entity"

// View is a read-only copy of the session for presentation layers.
type View struct {
	SessionID      string            `json:"session_id"`
	Phase          Phase             `json:"phase"`
	Board          entity.Board      `json:"board"`
	Scores         entity.Scoreboard `json:"scores"`
	Outcome        Outcome           `json:"outcome,omitempty"`
	TicksRemaining int               `json:"ticks_remaining,omitempty"`
	PlayerMark     entity.Cell       `json:"player_mark"`
	ComputerMark   entity.Cell       `json:"computer_mark"`
	Message        string            `json:"message,omitempty"`
	Done           bool              `json:"done,omitempty"`
}

func (that *Session) View() View {
	return View{
		SessionID:      that.id,
		Phase:          that.phase,
		Board:          that.board,
		Scores:         that.scores.Snapshot(),
		Outcome:        that.outcome,
		TicksRemaining: that.ticksRemaining,
		PlayerMark:     that.human,
		ComputerMark:   that.computer,
		Message:        message(that.phase, that.outcome),
		Done:           that.quit,
	}
}

func message(phase Phase, outcome Outcome) string {
	switch phase {
	case PhaseMenu:
		return "TIC TAC TOE"
	case PhasePlayerTurn:
		return "Your move"
	case PhaseComputerTurn:
		return "Computer is thinking..."
	case PhaseRoundOver:
		switch outcome {
		case OutcomePlayerWin:
			return "YOU WIN!"
		case OutcomeComputerWin:
			return "COMPUTER WINS!"
		case OutcomeDraw:
			return "IT'S A DRAW!"
		}
	}

	return ""
}
