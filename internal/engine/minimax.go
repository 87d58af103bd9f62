package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// WinScore is the score of an immediate win. Every ply of depth moves a win or a loss
// one point toward zero.
const WinScore = 10

type Engine interface {
	BestMove(board entity.Board) (entity.SearchResult, error)
	Evaluate(board entity.Board, depth int, maximizing bool) int

	Marks() (computer, opponent entity.Cell)
}

// SearchObserver receives statistics about every completed search.
type SearchObserver interface {
	ObserveSearch(nodes int, elapsed time.Duration)
}

type minimaxEngine struct {
	logger   *slog.Logger
	observer SearchObserver

	computer entity.Cell
	opponent entity.Cell
}

// New returns an exhaustive minimax engine playing computer against opponent.
// observer may be nil.
func New(logger *slog.Logger, computer, opponent entity.Cell, observer SearchObserver) Engine {
	return &minimaxEngine{
		logger:   logger.With("component", "engine"),
		observer: observer,
		computer: computer,
		opponent: opponent,
	}
}

func (that *minimaxEngine) Marks() (entity.Cell, entity.Cell) {
	return that.computer, that.opponent
}

// BestMove picks the highest scoring cell for the computer. Ties go to the first cell
// in row-major order. A full or decided board is a caller bug and is reported as
// apperror.ErrEngineContractViolation.
func (that *minimaxEngine) BestMove(board entity.Board) (entity.SearchResult, error) {
	if err := that.checkContract(&board); err != nil {
		return entity.SearchResult{}, err
	}

	start := time.Now()
	nodes := 0
	result := entity.SearchResult{Score: -WinScore - 1}

	for _, pos := range board.EmptyCells() {
		child := board
		child[pos.Row][pos.Col] = that.computer

		score := that.evaluate(child, 1, false, &nodes)
		if result.Move == nil || score > result.Score {
			result.Move = &entity.Move{Position: pos, Mark: that.computer}
			result.Score = score
		}
	}

	result.Nodes = nodes
	elapsed := time.Since(start)

	if that.observer != nil {
		that.observer.ObserveSearch(nodes, elapsed)
	}

	that.logger.Debug("search finished",
		"move", result.Move.Position.String(),
		"score", result.Score,
		"nodes", nodes,
		"elapsed", elapsed,
	)

	return result, nil
}

// Evaluate scores board from the computer's point of view. maximizing tells whose
// move it is: the computer's when true, the opponent's otherwise.
func (that *minimaxEngine) Evaluate(board entity.Board, depth int, maximizing bool) int {
	nodes := 0
	return that.evaluate(board, depth, maximizing, &nodes)
}

// evaluate hands every child its own copy of the board, so sibling branches never
// observe each other's moves.
func (that *minimaxEngine) evaluate(board entity.Board, depth int, maximizing bool, nodes *int) int {
	*nodes++

	if winner, ok := board.Winner(); ok {
		switch winner {
		case that.computer:
			return WinScore - depth
		case that.opponent:
			return depth - WinScore
		}
	}

	if board.IsFull() {
		return 0
	}

	mark, best := that.opponent, WinScore+1
	if maximizing {
		mark, best = that.computer, -WinScore-1
	}

	for _, pos := range board.EmptyCells() {
		child := board
		child[pos.Row][pos.Col] = mark

		score := that.evaluate(child, depth+1, !maximizing, nodes)
		if (maximizing && score > best) || (!maximizing && score < best) {
			best = score
		}
	}

	return best
}

func (that *minimaxEngine) checkContract(board *entity.Board) error {
	if !that.computer.IsMark() || !that.opponent.IsMark() || that.computer == that.opponent {
		return fmt.Errorf("%w: marks %s and %s", apperror.ErrEngineContractViolation, that.computer, that.opponent)
	}

	if winner, ok := board.Winner(); ok {
		return fmt.Errorf("%w: board already won by %s", apperror.ErrEngineContractViolation, winner)
	}

	if board.IsFull() {
		return fmt.Errorf("%w: board is full", apperror.ErrEngineContractViolation)
	}

	return nil
}
