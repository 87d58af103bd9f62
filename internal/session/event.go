package session

import "fmt"

type EventKind int

const (
	EventStartGame EventKind = iota + 1
	EventCellSelected
	EventTick
	EventPlayAgain
	EventReturnToMenu
	EventQuit
)

func (that EventKind) String() string {
	switch that {
	case EventStartGame:
		return "start_game"
	case EventCellSelected:
		return "cell_selected"
	case EventTick:
		return "tick"
	case EventPlayAgain:
		return "play_again"
	case EventReturnToMenu:
		return "return_to_menu"
	case EventQuit:
		return "quit"
	default:
		return fmt.Sprintf("event(%d)", int(that))
	}
}

// Event is a discrete input to the session. Row and Col are only read for
// EventCellSelected.
type Event struct {
	Kind EventKind
	Row  int
	Col  int
}

func StartGame() Event {
	return Event{Kind: EventStartGame}
}

func CellSelected(row, col int) Event {
	return Event{Kind: EventCellSelected, Row: row, Col: col}
}

func Tick() Event {
	return Event{Kind: EventTick}
}

func PlayAgain() Event {
	return Event{Kind: EventPlayAgain}
}

func ReturnToMenu() Event {
	return Event{Kind: EventReturnToMenu}
}

func Quit() Event {
	return Event{Kind: EventQuit}
}
