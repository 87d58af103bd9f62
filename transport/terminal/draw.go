package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
)

const (
	left     = 2
	titleRow = 1
	boardRow = 3
)

var (
	styleText     = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleCursor   = tcell.StyleDefault.Reverse(true)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleComputer = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (that *UI) draw() {
	that.screen.Clear()

	view := that.view
	that.drawText(left, titleRow, styleTitle, view.Message)

	if view.Phase == session.PhaseMenu {
		that.drawText(left, boardRow, styleText, fmt.Sprintf("You play %s, the computer plays %s.", view.PlayerMark, view.ComputerMark))
		that.drawScores(boardRow + 2)
		that.drawText(left, boardRow+4, styleHint, "Enter/p: play   q: quit")
		that.screen.Show()

		return
	}

	// each cell is three columns wide, separated by '|'
	for row := range entity.Size {
		y := boardRow + row*2
		for col := range entity.Size {
			x := left + col*4
			style := that.cellStyle(view.Board.At(row, col))
			if view.Phase == session.PhasePlayerTurn && that.cursor == (entity.Position{Row: row, Col: col}) {
				style = styleCursor
			}
			that.drawText(x, y, style, " "+view.Board.At(row, col).String()+" ")
			if col < entity.Size-1 {
				that.drawText(x+3, y, styleText, "|")
			}
		}
		if row < entity.Size-1 {
			that.drawText(left, y+1, styleText, "---+---+---")
		}
	}

	footer := boardRow + entity.Size*2
	that.drawScores(footer)

	switch view.Phase {
	case session.PhasePlayerTurn:
		that.drawText(left, footer+2, styleHint, "1-9 or arrows+Enter: move   q: quit")
	case session.PhaseRoundOver:
		that.drawText(left, footer+2, styleHint, "a/Enter: play again   m: menu   q: quit")
	}

	that.screen.Show()
}

func (that *UI) drawScores(y int) {
	scores := that.view.Scores
	that.drawText(left, y, styleText, fmt.Sprintf("You: %d   Computer: %d   Draws: %d",
		scores.PlayerWins, scores.ComputerWins, scores.Draws))
}

func (that *UI) cellStyle(cell entity.Cell) tcell.Style {
	switch cell {
	case that.view.PlayerMark:
		return stylePlayer
	case that.view.ComputerMark:
		return styleComputer
	default:
		return styleHint
	}
}

func (that *UI) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		that.screen.SetContent(x+i, y, r, nil, style)
	}
}
