package terminal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
)

type gameManager interface {
	Dispatch(ctx context.Context, event session.Event) (session.View, error)
	Subscribe() <-chan session.View
	Stopped() <-chan struct{}
}

// UI renders the game on a terminal screen and turns key presses into events.
type UI struct {
	logger *slog.Logger
	game   gameManager
	screen tcell.Screen

	view   session.View
	cursor entity.Position
}

func New(logger *slog.Logger, game gameManager, screen tcell.Screen) *UI {
	return &UI{
		logger: logger.With("component", "terminal"),
		game:   game,
		screen: screen,
		cursor: entity.Position{Row: 1, Col: 1},
	}
}

// NewScreen opens the process terminal.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	return screen, nil
}

// Run owns the screen until ctx is cancelled, the game stops or the player quits.
func (that *UI) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	if err := that.screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer that.screen.Fini()

	that.screen.HideCursor()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)

	go that.screen.ChannelEvents(events, quit)

	updates := that.game.Subscribe()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-that.game.Stopped():
			log.Info("game stopped, closing terminal")
			return nil

		case view := <-updates:
			that.view = view
			that.draw()

		case ev, ok := <-events:
			if !ok {
				return nil
			}

			switch ev := ev.(type) {
			case *tcell.EventResize:
				that.screen.Sync()
				that.draw()

			case *tcell.EventKey:
				event, dispatch := that.handleKey(ev)
				if !dispatch {
					that.draw()
					continue
				}

				view, err := that.game.Dispatch(ctx, event)
				if errors.Is(err, usecase.ErrGameStopped) {
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to dispatch %s: %w", event.Kind, err)
				}

				that.view = view
				that.draw()
			}
		}
	}
}

// handleKey moves the cursor or translates the key into a session event.
func (that *UI) handleKey(ev *tcell.EventKey) (session.Event, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return session.Quit(), true
	case tcell.KeyEnter:
		switch that.view.Phase {
		case session.PhaseMenu:
			return session.StartGame(), true
		case session.PhasePlayerTurn:
			return session.CellSelected(that.cursor.Row, that.cursor.Col), true
		case session.PhaseRoundOver:
			return session.PlayAgain(), true
		}
		return session.Event{}, false
	case tcell.KeyUp:
		that.moveCursor(-1, 0)
		return session.Event{}, false
	case tcell.KeyDown:
		that.moveCursor(1, 0)
		return session.Event{}, false
	case tcell.KeyLeft:
		that.moveCursor(0, -1)
		return session.Event{}, false
	case tcell.KeyRight:
		that.moveCursor(0, 1)
		return session.Event{}, false
	case tcell.KeyRune:
	default:
		return session.Event{}, false
	}

	r := ev.Rune()
	switch {
	case r == 'q' || r == 'Q':
		return session.Quit(), true
	case r == 'p' || r == 'P':
		return session.StartGame(), true
	case r == 'a' || r == 'A':
		return session.PlayAgain(), true
	case r == 'm' || r == 'M':
		return session.ReturnToMenu(), true
	case r >= '1' && r <= '9':
		n := int(r - '1')
		that.cursor = entity.Position{Row: n / entity.Size, Col: n % entity.Size}
		return session.CellSelected(that.cursor.Row, that.cursor.Col), true
	}

	return session.Event{}, false
}

func (that *UI) moveCursor(dRow, dCol int) {
	that.cursor.Row = (that.cursor.Row + dRow + entity.Size) % entity.Size
	that.cursor.Col = (that.cursor.Col + dCol + entity.Size) % entity.Size
}
