package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
)

var (
	ErrGameStopped    = errors.New("game is stopped")
	ErrSessionCrashed = errors.New("session crashed")
)

type gameSession interface {
	Handle(ctx context.Context, event session.Event) bool
	View() session.View
	Done() bool
}

type request struct {
	event session.Event
	reply chan session.View
}

// GameManager owns a session on a single goroutine (Run) and lets any number of
// transports send it events and read its latest view.
type GameManager struct {
	logger  *slog.Logger
	session gameSession

	tickInterval time.Duration
	requests     chan request
	stopped      chan struct{}
	stopOnce     sync.Once

	mu          sync.RWMutex
	view        session.View
	subscribers []chan session.View
}

// NewGameManager drives sess with tickRate Tick events per second once Run starts.
func NewGameManager(logger *slog.Logger, sess gameSession, tickRate int) *GameManager {
	return &GameManager{
		logger:       logger.With("component", "gameManager"),
		session:      sess,
		tickInterval: time.Second / time.Duration(max(tickRate, 1)),
		requests:     make(chan request),
		stopped:      make(chan struct{}),
		view:         sess.View(),
	}
}

// Run processes events and ticks until ctx is cancelled or the session quits.
// A panic inside the session is returned as ErrSessionCrashed.
func (that *GameManager) Run(ctx context.Context) (err error) {
	log := that.logger.With("method", "Run")

	defer that.stop()

	defer func() {
		if r := recover(); r != nil {
			log.Error("session panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrSessionCrashed, r)
		}
	}()

	ticker := time.NewTicker(that.tickInterval)
	defer ticker.Stop()

	log.Info("game loop started", "tickInterval", that.tickInterval.String())

	for {
		select {
		case <-ctx.Done():
			log.Info("game loop stopped", "reason", ctx.Err())
			return nil

		case req := <-that.requests:
			view := that.apply(ctx, req.event)
			req.reply <- view

			if view.Done {
				log.Info("session finished")
				return nil
			}

		case <-ticker.C:
			that.apply(ctx, session.Tick())
		}
	}
}

// Dispatch hands event to the game loop and waits for the resulting view.
func (that *GameManager) Dispatch(ctx context.Context, event session.Event) (session.View, error) {
	req := request{
		event: event,
		reply: make(chan session.View, 1),
	}

	select {
	case that.requests <- req:
	case <-that.stopped:
		return that.View(), ErrGameStopped
	case <-ctx.Done():
		return session.View{}, fmt.Errorf("failed to dispatch %s: %w", event.Kind, ctx.Err())
	}

	select {
	case view := <-req.reply:
		return view, nil
	case <-that.stopped:
		return that.View(), ErrGameStopped
	}
}

// View returns the latest published view.
func (that *GameManager) View() session.View {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.view
}

// Subscribe returns a channel that always holds the most recent view not yet read.
func (that *GameManager) Subscribe() <-chan session.View {
	ch := make(chan session.View, 1)

	that.mu.Lock()
	that.subscribers = append(that.subscribers, ch)
	ch <- that.view
	that.mu.Unlock()

	return ch
}

// Stopped is closed when Run returns.
func (that *GameManager) Stopped() <-chan struct{} {
	return that.stopped
}

func (that *GameManager) apply(ctx context.Context, event session.Event) session.View {
	if !that.session.Handle(ctx, event) {
		return that.View()
	}

	view := that.session.View()
	that.publish(view)

	return view
}

func (that *GameManager) publish(view session.View) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.view = view

	for _, ch := range that.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- view
	}
}

func (that *GameManager) stop() {
	that.stopOnce.Do(func() {
		close(that.stopped)
	})
}
