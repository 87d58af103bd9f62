package session

// Phase is the tag of the session state.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlayerTurn
	PhaseComputerTurn
	PhaseRoundOver
)

func (that Phase) String() string {
	switch that {
	case PhaseMenu:
		return "menu"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseComputerTurn:
		return "computer_turn"
	case PhaseRoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

func (that Phase) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

// Outcome is how a round ended. OutcomeNone until the round is over.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerWin
	OutcomeComputerWin
	OutcomeDraw
)

func (that Outcome) String() string {
	switch that {
	case OutcomePlayerWin:
		return "player"
	case OutcomeComputerWin:
		return "computer"
	case OutcomeDraw:
		return "draw"
	default:
		return ""
	}
}

func (that Outcome) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}
