package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

// Size is the side length of the board.
const Size = 3

// Cell is the state of one board square.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (that Cell) String() string {
	switch that {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// IsMark reports whether the cell holds a player mark.
func (that Cell) IsMark() bool {
	return that == X || that == O
}

// Opposite returns the other player's mark. Empty stays Empty.
func (that Cell) Opposite() Cell {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	cell, err := ParseCell(string(text))
	if err != nil {
		return err
	}
	*that = cell

	return nil
}

// ParseCell converts "X", "O", "." or "" into a Cell.
func ParseCell(s string) (Cell, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	case ".", "", "_":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("unknown cell %q", s)
	}
}

// WinLines lists every row, column and diagonal in check order.
var WinLines = [8][3]Position{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board is a 3x3 grid. It is a value type: assigning it copies every cell.
type Board [Size][Size]Cell

// Place puts mark on an empty in-range cell.
func (that *Board) Place(row, col int, mark Cell) error {
	if row < 0 || row >= Size || col < 0 || col >= Size {
		return fmt.Errorf("%w: cell (%d, %d) is out of range", apperror.ErrInvalidMove, row, col)
	}

	if !mark.IsMark() {
		return fmt.Errorf("%w: %q is not a mark", apperror.ErrInvalidMove, mark)
	}

	if that[row][col] != Empty {
		return fmt.Errorf("%w: cell (%d, %d) is occupied by %s", apperror.ErrInvalidMove, row, col, that[row][col])
	}

	that[row][col] = mark

	return nil
}

// At returns the cell at row, col.
func (that Board) At(row, col int) Cell {
	return that[row][col]
}

// Winner returns the mark of the first complete line found.
func (that Board) Winner() (Cell, bool) {
	for _, line := range WinLines {
		a := that[line[0].Row][line[0].Col]
		b := that[line[1].Row][line[1].Col]
		c := that[line[2].Row][line[2].Col]

		if a != Empty && a == b && b == c {
			return a, true
		}
	}

	return Empty, false
}

func (that Board) IsFull() bool {
	for _, row := range that {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// EmptyCells enumerates empty positions in row-major order.
func (that Board) EmptyCells() []Position {
	cells := make([]Position, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			if that[row][col] == Empty {
				cells = append(cells, Position{Row: row, Col: col})
			}
		}
	}

	return cells
}

// Count returns how many cells hold mark.
func (that Board) Count(mark Cell) int {
	n := 0
	for _, row := range that {
		for _, cell := range row {
			if cell == mark {
				n++
			}
		}
	}

	return n
}

// IsTerminal reports whether the round is decided on this board.
func (that Board) IsTerminal() bool {
	if _, ok := that.Winner(); ok {
		return true
	}

	return that.IsFull()
}

// String renders the board as three lines, "." for empty cells.
func (that Board) String() string {
	var sb strings.Builder
	for row := range Size {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range Size {
			sb.WriteString(that[row][col].String())
		}
	}

	return sb.String()
}

// ParseBoard builds a board from the String form; whitespace is ignored.
func ParseBoard(s string) (Board, error) {
	var board Board

	cells := strings.Join(strings.Fields(s), "")
	if len(cells) != Size*Size {
		return board, fmt.Errorf("board needs %d cells, got %d", Size*Size, len(cells))
	}

	for i, r := range cells {
		cell, err := ParseCell(string(r))
		if err != nil {
			return Board{}, fmt.Errorf("failed to parse cell %d: %w", i, err)
		}
		board[i/Size][i%Size] = cell
	}

	return board, nil
}

// MustParseBoard is ParseBoard for fixtures known to be valid.
func MustParseBoard(s string) Board {
	board, err := ParseBoard(s)
	if err != nil {
		panic(err)
	}

	return board
}
