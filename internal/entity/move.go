package entity

import "fmt"

// Position addresses a board cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (that Position) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// Move is a position paired with the mark placed there.
type Move struct {
	Position
	Mark Cell `json:"mark"`
}

// SearchResult is the engine's choice. Move is nil when the board had no empty cell.
type SearchResult struct {
	Move  *Move
	Score int
	Nodes int
}
