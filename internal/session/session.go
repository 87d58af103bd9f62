package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// DefaultThinkingTicks is how many ticks the computer "thinks" before it moves.
const DefaultThinkingTicks = 30

type engine interface {
	BestMove(board entity.Board) (entity.SearchResult, error)
	Marks() (computer, opponent entity.Cell)
}

// ScoreStore persists the scoreboard between sessions.
type ScoreStore interface {
	Load(ctx context.Context) (entity.Scoreboard, error)
	Save(ctx context.Context, scores entity.Scoreboard) error
}

// RoundObserver is told about every finished round.
type RoundObserver interface {
	ObserveRound(outcome string)
}

type Options struct {
	// ThinkingTicks is the countdown entered on every computer turn.
	ThinkingTicks int
	// ComputerFirst makes every round open with the computer's move.
	ComputerFirst bool
	// Observer may be nil.
	Observer RoundObserver
}

// Session is the game state machine. It is not safe for concurrent use: a single
// goroutine must own it and feed it events.
type Session struct {
	id     string
	logger *slog.Logger

	engine   engine
	store    ScoreStore
	observer RoundObserver

	human    entity.Cell
	computer entity.Cell

	thinkingTicks int
	computerFirst bool

	phase          Phase
	board          entity.Board
	ticksRemaining int
	outcome        Outcome
	scores         entity.Scoreboard
	quit           bool
}

// New creates a session in the menu. The scoreboard is loaded from store; a missing
// or unreadable record starts the session from zero.
func New(ctx context.Context, logger *slog.Logger, engine engine, store ScoreStore, opts Options) *Session {
	computer, human := engine.Marks()

	that := &Session{
		id:            uuid.NewString(),
		engine:        engine,
		store:         store,
		observer:      opts.Observer,
		human:         human,
		computer:      computer,
		thinkingTicks: max(opts.ThinkingTicks, 0),
		computerFirst: opts.ComputerFirst,
		phase:         PhaseMenu,
	}
	that.logger = logger.With("component", "session", "sessionID", that.id)

	that.scores = that.loadScores(ctx)

	return that
}

func (that *Session) ID() string {
	return that.id
}

func (that *Session) Phase() Phase {
	return that.phase
}

// Done reports whether a Quit event was received.
func (that *Session) Done() bool {
	return that.quit
}

// Handle applies one event and reports whether the state changed. Events the
// current phase does not accept are ignored.
func (that *Session) Handle(ctx context.Context, event Event) bool {
	if that.quit {
		return false
	}

	if event.Kind == EventQuit {
		that.logger.Info("quit requested", "phase", that.phase.String())
		that.quit = true
		return true
	}

	switch that.phase {
	case PhaseMenu:
		if event.Kind == EventStartGame {
			that.startRound()
			return true
		}
	case PhasePlayerTurn:
		if event.Kind == EventCellSelected {
			return that.playerMove(ctx, event.Row, event.Col)
		}
	case PhaseComputerTurn:
		if event.Kind == EventTick {
			that.tick(ctx)
			return true
		}
	case PhaseRoundOver:
		switch event.Kind {
		case EventPlayAgain:
			that.startRound()
			return true
		case EventReturnToMenu:
			that.enter(PhaseMenu)
			return true
		}
	}

	return false
}

func (that *Session) startRound() {
	that.board = entity.Board{}
	that.outcome = OutcomeNone

	if that.computerFirst {
		that.beginComputerTurn()
		return
	}

	that.enter(PhasePlayerTurn)
}

func (that *Session) playerMove(ctx context.Context, row, col int) bool {
	if err := that.board.Place(row, col, that.human); err != nil {
		if errors.Is(err, apperror.ErrInvalidMove) {
			that.logger.Debug("move ignored", "row", row, "col", col, "reason", err)
			return false
		}
		panic(fmt.Errorf("failed to place player mark: %w", err))
	}

	that.logger.Debug("player moved", "row", row, "col", col)

	if that.finishIfTerminal(ctx) {
		return true
	}

	that.beginComputerTurn()

	return true
}

func (that *Session) beginComputerTurn() {
	that.ticksRemaining = that.thinkingTicks
	that.enter(PhaseComputerTurn)
}

func (that *Session) tick(ctx context.Context) {
	if that.ticksRemaining > 0 {
		that.ticksRemaining--
		return
	}

	result, err := that.engine.BestMove(that.board)
	if err != nil {
		panic(fmt.Errorf("computer turn on board %q: %w", that.board.String(), err))
	}

	if err = that.board.Place(result.Move.Row, result.Move.Col, that.computer); err != nil {
		panic(fmt.Errorf("failed to apply computer move %s: %w", result.Move.Position, err))
	}

	that.logger.Debug("computer moved", "row", result.Move.Row, "col", result.Move.Col, "score", result.Score)

	if that.finishIfTerminal(ctx) {
		return
	}

	that.enter(PhasePlayerTurn)
}

// finishIfTerminal ends the round when the board is decided, records the outcome
// and persists the scoreboard.
func (that *Session) finishIfTerminal(ctx context.Context) bool {
	winner, won := that.board.Winner()

	switch {
	case won && winner == that.human:
		that.outcome = OutcomePlayerWin
		that.scores.RecordPlayerWin()
	case won && winner == that.computer:
		that.outcome = OutcomeComputerWin
		that.scores.RecordComputerWin()
	case that.board.IsFull():
		that.outcome = OutcomeDraw
		that.scores.RecordDraw()
	default:
		return false
	}

	that.ticksRemaining = 0
	that.enter(PhaseRoundOver)

	snapshot := that.scores.Snapshot()
	that.logger.Info("round over",
		"outcome", that.outcome.String(),
		"playerWins", snapshot.PlayerWins,
		"computerWins", snapshot.ComputerWins,
		"draws", snapshot.Draws,
	)

	if that.observer != nil {
		that.observer.ObserveRound(that.outcome.String())
	}

	that.saveScores(ctx, snapshot)

	return true
}

func (that *Session) enter(phase Phase) {
	that.logger.Debug("phase changed", "from", that.phase.String(), "to", phase.String())
	that.phase = phase
}

func (that *Session) loadScores(ctx context.Context) entity.Scoreboard {
	log := that.logger.With("method", "loadScores")

	if that.store == nil {
		return entity.Scoreboard{}
	}

	scores, err := that.store.Load(ctx)
	if errors.Is(err, apperror.ErrScoreboardNotFound) {
		log.Info("no saved scoreboard, starting from zero")
		return entity.Scoreboard{}
	}

	if err != nil {
		log.Error("failed to load scoreboard, starting from zero", "error", err)
		return entity.Scoreboard{}
	}

	return scores
}

func (that *Session) saveScores(ctx context.Context, scores entity.Scoreboard) {
	if that.store == nil {
		return
	}

	if err := that.store.Save(ctx, scores); err != nil {
		that.logger.Error("failed to save scoreboard", "method", "saveScores", "error", err)
	}
}
