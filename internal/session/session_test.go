package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	minimax "github.com/rocketscienceinc/tictactoe-solo/internal/engine"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errStorageDown = errors.New("storage down")

type mockStore struct {
	mock.Mock
}

func (that *mockStore) Load(ctx context.Context) (entity.Scoreboard, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.Scoreboard), args.Error(1)
}

func (that *mockStore) Save(ctx context.Context, scores entity.Scoreboard) error {
	return that.Called(ctx, scores).Error(0)
}

// scriptedEngine plays X and returns its moves in order.
type scriptedEngine struct {
	moves []entity.Position
	err   error
}

func (that *scriptedEngine) Marks() (entity.Cell, entity.Cell) {
	return entity.X, entity.O
}

func (that *scriptedEngine) BestMove(_ entity.Board) (entity.SearchResult, error) {
	if that.err != nil {
		return entity.SearchResult{}, that.err
	}

	next := that.moves[0]
	that.moves = that.moves[1:]

	return entity.SearchResult{Move: &entity.Move{Position: next, Mark: entity.X}}, nil
}

type countingRounds struct {
	outcomes []string
}

func (that *countingRounds) ObserveRound(outcome string) {
	that.outcomes = append(that.outcomes, outcome)
}

func at(row, col int) entity.Position {
	return entity.Position{Row: row, Col: col}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEmptyStore() *mockStore {
	store := &mockStore{}
	store.On("Load", mock.Anything).Return(entity.Scoreboard{}, apperror.ErrScoreboardNotFound).Once()
	return store
}

// playCells selects each cell in turn and ticks through every computer turn.
func playCells(t *testing.T, ctx context.Context, s *Session, cells ...entity.Position) {
	t.Helper()

	for _, cell := range cells {
		require.Equal(t, PhasePlayerTurn, s.Phase(), "before %s", cell)
		require.True(t, s.Handle(ctx, CellSelected(cell.Row, cell.Col)), "cell %s", cell)

		for s.Phase() == PhaseComputerTurn {
			s.Handle(ctx, Tick())
		}
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("Loads the saved scoreboard", func(t *testing.T) {
		// Given: a store holding earlier results
		store := &mockStore{}
		saved := entity.Scoreboard{PlayerWins: 2, ComputerWins: 5, Draws: 7}
		store.On("Load", mock.Anything).Return(saved, nil).Once()

		// When: a session starts
		s := New(ctx, testLogger(), &scriptedEngine{}, store, Options{})

		// Then: it is in the menu with the saved scores
		view := s.View()
		assert.Equal(t, PhaseMenu, view.Phase)
		assert.Equal(t, saved, view.Scores)
		assert.Equal(t, entity.O, view.PlayerMark)
		assert.Equal(t, entity.X, view.ComputerMark)
		assert.NotEmpty(t, view.SessionID)
		store.AssertExpectations(t)
	})

	t.Run("Starts from zero when nothing is saved", func(t *testing.T) {
		store := newEmptyStore()

		s := New(ctx, testLogger(), &scriptedEngine{}, store, Options{})

		assert.Equal(t, entity.Scoreboard{}, s.View().Scores)
	})

	t.Run("Starts from zero when the store fails", func(t *testing.T) {
		store := &mockStore{}
		store.On("Load", mock.Anything).Return(entity.Scoreboard{}, errStorageDown).Once()

		s := New(ctx, testLogger(), &scriptedEngine{}, store, Options{})

		assert.Equal(t, entity.Scoreboard{}, s.View().Scores)
	})

	t.Run("Works without a store", func(t *testing.T) {
		s := New(ctx, testLogger(), &scriptedEngine{moves: []entity.Position{at(1, 1)}}, nil, Options{})

		s.Handle(ctx, StartGame())
		playCells(t, ctx, s, at(0, 0))

		assert.Equal(t, PhasePlayerTurn, s.Phase())
	})
}

func TestSession_Menu(t *testing.T) {
	ctx := context.Background()

	t.Run("Ignores everything but start and quit", func(t *testing.T) {
		// Given: a session in the menu
		s := New(ctx, testLogger(), &scriptedEngine{}, newEmptyStore(), Options{})

		// When: unrelated events arrive
		for _, event := range []Event{CellSelected(0, 0), Tick(), PlayAgain(), ReturnToMenu()} {
			changed := s.Handle(ctx, event)

			// Then: nothing happens
			assert.False(t, changed, "event %s", event.Kind)
			assert.Equal(t, PhaseMenu, s.Phase())
		}
	})

	t.Run("Start opens a round with an empty board", func(t *testing.T) {
		s := New(ctx, testLogger(), &scriptedEngine{}, newEmptyStore(), Options{})

		changed := s.Handle(ctx, StartGame())

		require.True(t, changed)
		view := s.View()
		assert.Equal(t, PhasePlayerTurn, view.Phase)
		assert.Equal(t, entity.Board{}, view.Board)
		assert.Equal(t, OutcomeNone, view.Outcome)
		assert.Equal(t, "Your move", view.Message)
	})

	t.Run("Start hands the first move to the computer when configured", func(t *testing.T) {
		engine := &scriptedEngine{moves: []entity.Position{at(1, 1)}}
		s := New(ctx, testLogger(), engine, newEmptyStore(), Options{ThinkingTicks: 2, ComputerFirst: true})

		s.Handle(ctx, StartGame())
		assert.Equal(t, PhaseComputerTurn, s.Phase())
		assert.Equal(t, 2, s.View().TicksRemaining)

		for range 3 {
			s.Handle(ctx, Tick())
		}

		view := s.View()
		assert.Equal(t, PhasePlayerTurn, view.Phase)
		assert.Equal(t, entity.X, view.Board.At(1, 1))
	})
}

func TestSession_PlayerTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Occupied cell changes nothing", func(t *testing.T) {
		// Given: a round where the computer took the center
		store := newEmptyStore()
		engine := &scriptedEngine{moves: []entity.Position{at(1, 1)}}
		s := New(ctx, testLogger(), engine, store, Options{})
		s.Handle(ctx, StartGame())
		playCells(t, ctx, s, at(0, 0))
		before := s.View()

		// When: the player selects an occupied cell
		changedOwn := s.Handle(ctx, CellSelected(0, 0))
		changedTheirs := s.Handle(ctx, CellSelected(1, 1))

		// Then: board, phase and scores are untouched and nothing is saved
		assert.False(t, changedOwn)
		assert.False(t, changedTheirs)
		assert.Equal(t, before, s.View())
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Out of range cell changes nothing", func(t *testing.T) {
		s := New(ctx, testLogger(), &scriptedEngine{}, newEmptyStore(), Options{})
		s.Handle(ctx, StartGame())

		assert.False(t, s.Handle(ctx, CellSelected(3, 0)))
		assert.False(t, s.Handle(ctx, CellSelected(0, -1)))
		assert.Equal(t, PhasePlayerTurn, s.Phase())
		assert.Equal(t, entity.Board{}, s.View().Board)
	})

	t.Run("Ticks are ignored on the player's turn", func(t *testing.T) {
		s := New(ctx, testLogger(), &scriptedEngine{}, newEmptyStore(), Options{})
		s.Handle(ctx, StartGame())

		assert.False(t, s.Handle(ctx, Tick()))
		assert.Equal(t, PhasePlayerTurn, s.Phase())
	})

	t.Run("A valid move starts the thinking countdown", func(t *testing.T) {
		s := New(ctx, testLogger(), &scriptedEngine{moves: []entity.Position{at(2, 2)}}, newEmptyStore(), Options{ThinkingTicks: 3})
		s.Handle(ctx, StartGame())

		require.True(t, s.Handle(ctx, CellSelected(0, 0)))

		view := s.View()
		assert.Equal(t, PhaseComputerTurn, view.Phase)
		assert.Equal(t, 3, view.TicksRemaining)
		assert.Equal(t, entity.O, view.Board.At(0, 0))
		assert.Equal(t, "Computer is thinking...", view.Message)

		// And: cell selections are ignored while the computer thinks
		assert.False(t, s.Handle(ctx, CellSelected(1, 1)))
	})
}

func TestSession_ComputerTurn(t *testing.T) {
	ctx := context.Background()

	// Given: the computer is thinking for 3 ticks
	s := New(ctx, testLogger(), &scriptedEngine{moves: []entity.Position{at(2, 2)}}, newEmptyStore(), Options{ThinkingTicks: 3})
	s.Handle(ctx, StartGame())
	s.Handle(ctx, CellSelected(0, 0))

	// When: ticks arrive, the countdown runs without touching the board
	for remaining := 2; remaining >= 0; remaining-- {
		require.True(t, s.Handle(ctx, Tick()))
		assert.Equal(t, PhaseComputerTurn, s.Phase())
		assert.Equal(t, remaining, s.View().TicksRemaining)
		assert.Equal(t, entity.Empty, s.View().Board.At(2, 2))
	}

	// Then: the tick after the countdown reaches zero plays the move
	require.True(t, s.Handle(ctx, Tick()))
	view := s.View()
	assert.Equal(t, PhasePlayerTurn, view.Phase)
	assert.Equal(t, entity.X, view.Board.At(2, 2))
}

func TestSession_ContractViolationPanics(t *testing.T) {
	ctx := context.Background()

	// Given: an engine that reports a broken precondition
	engine := &scriptedEngine{err: apperror.ErrEngineContractViolation}
	s := New(ctx, testLogger(), engine, newEmptyStore(), Options{})
	s.Handle(ctx, StartGame())
	s.Handle(ctx, CellSelected(0, 0))

	// When / Then: the computer's move panics
	assert.Panics(t, func() {
		s.Handle(ctx, Tick())
	})
}

func TestSession_Rounds(t *testing.T) {
	ctx := context.Background()

	// Given: a store expecting one save per finished round
	store := newEmptyStore()
	afterWin := entity.Scoreboard{PlayerWins: 1}
	afterLoss := entity.Scoreboard{PlayerWins: 1, ComputerWins: 1}
	afterDraw := entity.Scoreboard{PlayerWins: 1, ComputerWins: 1, Draws: 1}
	store.On("Save", mock.Anything, afterWin).Return(nil).Once()
	store.On("Save", mock.Anything, afterLoss).Return(nil).Once()
	store.On("Save", mock.Anything, afterDraw).Return(nil).Once()

	engine := &scriptedEngine{moves: []entity.Position{
		// round 1: the player wins the top row
		at(1, 0), at(1, 1),
		// round 2: the computer wins the middle row
		at(1, 0), at(1, 1), at(1, 2),
		// round 3: draw
		at(0, 1), at(1, 1), at(1, 2), at(2, 0),
	}}
	rounds := &countingRounds{}
	s := New(ctx, testLogger(), engine, store, Options{ThinkingTicks: 1, Observer: rounds})

	// When: the player wins
	s.Handle(ctx, StartGame())
	playCells(t, ctx, s, at(0, 0), at(0, 1), at(0, 2))

	// Then: the round is over, the win is counted and saved
	view := s.View()
	assert.Equal(t, PhaseRoundOver, view.Phase)
	assert.Equal(t, OutcomePlayerWin, view.Outcome)
	assert.Equal(t, "YOU WIN!", view.Message)
	assert.Equal(t, afterWin, view.Scores)
	store.AssertCalled(t, "Save", mock.Anything, afterWin)

	// And: round over ignores moves and ticks
	assert.False(t, s.Handle(ctx, CellSelected(2, 2)))
	assert.False(t, s.Handle(ctx, Tick()))
	assert.False(t, s.Handle(ctx, StartGame()))

	// When: playing again and losing
	require.True(t, s.Handle(ctx, PlayAgain()))
	assert.Equal(t, entity.Board{}, s.View().Board)
	assert.Equal(t, afterWin, s.View().Scores)
	playCells(t, ctx, s, at(0, 0), at(0, 1), at(2, 2))

	// Then: the loss is counted and saved
	view = s.View()
	assert.Equal(t, PhaseRoundOver, view.Phase)
	assert.Equal(t, OutcomeComputerWin, view.Outcome)
	assert.Equal(t, "COMPUTER WINS!", view.Message)
	assert.Equal(t, afterLoss, view.Scores)
	store.AssertCalled(t, "Save", mock.Anything, afterLoss)

	// When: going through the menu and drawing
	require.True(t, s.Handle(ctx, ReturnToMenu()))
	assert.Equal(t, PhaseMenu, s.Phase())
	require.True(t, s.Handle(ctx, StartGame()))
	playCells(t, ctx, s,
		at(0, 0), at(0, 2), at(1, 0),
		at(2, 1), at(2, 2),
	)

	// Then: the scoreboard holds one of each and every round was saved
	view = s.View()
	assert.Equal(t, PhaseRoundOver, view.Phase)
	assert.Equal(t, OutcomeDraw, view.Outcome)
	assert.Equal(t, "IT'S A DRAW!", view.Message)
	assert.Equal(t, afterDraw, view.Scores)
	assert.Equal(t, []string{"player", "computer", "draw"}, rounds.outcomes)
	store.AssertExpectations(t)
}

func TestSession_SaveFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()

	// Given: a store that cannot save
	store := newEmptyStore()
	store.On("Save", mock.Anything, mock.Anything).Return(errStorageDown)
	engine := &scriptedEngine{moves: []entity.Position{at(1, 0), at(1, 1)}}
	s := New(ctx, testLogger(), engine, store, Options{})

	// When: a round finishes
	s.Handle(ctx, StartGame())
	playCells(t, ctx, s, at(0, 0), at(0, 1), at(0, 2))

	// Then: the session still reaches round over with the counted win
	assert.Equal(t, PhaseRoundOver, s.Phase())
	assert.Equal(t, 1, s.View().Scores.PlayerWins)
}

func TestSession_Quit(t *testing.T) {
	ctx := context.Background()

	for _, start := range []string{"menu", "round"} {
		t.Run(start, func(t *testing.T) {
			s := New(ctx, testLogger(), &scriptedEngine{}, newEmptyStore(), Options{})
			if start == "round" {
				s.Handle(ctx, StartGame())
			}
			phase := s.Phase()

			// When: quit arrives
			require.True(t, s.Handle(ctx, Quit()))

			// Then: the session is done and ignores further input
			assert.True(t, s.Done())
			assert.True(t, s.View().Done)
			assert.False(t, s.Handle(ctx, StartGame()))
			assert.False(t, s.Handle(ctx, CellSelected(0, 0)))
			assert.Equal(t, phase, s.Phase())
		})
	}
}

func TestSession_AgainstMinimax(t *testing.T) {
	ctx := context.Background()

	// Given: the real engine playing X against a player who always picks the first free cell
	engine := minimax.New(testLogger(), entity.X, entity.O, nil)
	store := newEmptyStore()
	store.On("Save", mock.Anything, mock.Anything).Return(nil)
	s := New(ctx, testLogger(), engine, store, Options{})

	for round := range 3 {
		if round == 0 {
			s.Handle(ctx, StartGame())
		} else {
			s.Handle(ctx, PlayAgain())
		}

		// When: the round is played out
		for s.Phase() != PhaseRoundOver {
			free := s.View().Board
			cells := free.EmptyCells()
			require.NotEmpty(t, cells)
			playCells(t, ctx, s, cells[0])
		}

		// Then: the player never wins
		assert.NotEqual(t, OutcomePlayerWin, s.View().Outcome)
	}

	scores := s.View().Scores
	assert.Zero(t, scores.PlayerWins)
	assert.Equal(t, 3, scores.Rounds())
}
