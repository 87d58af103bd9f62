package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rocketscienceinc/tictactoe-solo/internal/config"
	"github.com/rocketscienceinc/tictactoe-solo/internal/engine"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
	"github.com/rocketscienceinc/tictactoe-solo/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository"
	"github.com/rocketscienceinc/tictactoe-solo/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-solo/internal/session"
	"github.com/rocketscienceinc/tictactoe-solo/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-solo/transport/rest"
	"github.com/rocketscienceinc/tictactoe-solo/transport/terminal"
)

type closerFunc func() error

func (that closerFunc) Close() error {
	return that()
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	scoreRepo, closeStore, err := newScoreRepository(ctx, conf)
	if err != nil {
		return fmt.Errorf("could not open score storage: %w", err)
	}

	defer func() {
		if err = closeStore.Close(); err != nil {
			log.Error("could not close score storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	gameMetrics := metrics.New(registry)

	human, err := entity.ParseCell(conf.Game.PlayerMark)
	if err != nil {
		return fmt.Errorf("invalid player mark: %w", err)
	}

	minimax := engine.New(logger, human.Opposite(), human, gameMetrics)
	gameSession := session.New(ctx, logger, minimax, scoreRepo, session.Options{
		ThinkingTicks: conf.Game.ThinkingTicks,
		ComputerFirst: conf.Game.ComputerFirst,
		Observer:      gameMetrics,
	})
	gameManager := usecase.NewGameManager(logger, gameSession, conf.Game.TickRate)

	log.Info("Session created", "sessionID", gameSession.ID(), "storage", conf.Storage.Driver,
		"playerMark", human.String())

	// run game loop
	gameErrCh := make(chan error, 1)
	go func() {
		gameErrCh <- gameManager.Run(ctx)
	}()

	// run HTTP server
	httpErrCh := make(chan error, 1)
	if conf.HTTPEnabled {
		go func() {
			log.Info("Starting HTTP server", "port", conf.HTTPPort)
			router := rest.NewRouter(logger, gameManager, registry)
			if httpErr := rest.Start(ctx, conf.HTTPPort, router); httpErr != nil {
				log.Error("HTTP server error", "error", httpErr)
				httpErrCh <- httpErr
			}
		}()
	}

	// run terminal UI
	termErrCh := make(chan error, 1)
	termDone := make(chan struct{})
	if conf.TerminalEnabled {
		screen, screenErr := terminal.NewScreen()
		if screenErr != nil {
			return fmt.Errorf("could not open terminal: %w", screenErr)
		}

		go func() {
			defer close(termDone)

			ui := terminal.New(logger, gameManager, screen)
			if termErr := ui.Run(ctx); termErr != nil {
				log.Error("Terminal error", "error", termErr)
				termErrCh <- termErr
			}
		}()
	} else {
		close(termDone)
	}

	// the terminal must be restored before the process exits
	defer func() {
		cancel()
		<-termDone
	}()

	select {
	case err = <-gameErrCh:
		if err != nil {
			return fmt.Errorf("game loop error: %w", err)
		}
		log.Info("Game finished, shutting down")
		return nil
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-termErrCh:
		return fmt.Errorf("terminal error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newScoreRepository opens the configured backend. The returned closer releases it.
func newScoreRepository(ctx context.Context, conf *config.Config) (repository.ScoreRepository, io.Closer, error) {
	switch strings.ToLower(conf.Storage.Driver) {
	case config.StorageSQLite:
		sqliteStorage, err := storage.NewSQLiteStorage(conf.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to sqlite storage: %w", err)
		}

		if err = sqliteStorage.Init(ctx); err != nil {
			_ = sqliteStorage.Close()
			return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
		}

		return repository.NewSQLiteScoreRepository(sqliteStorage.Connection, conf.Storage.Profile), sqliteStorage, nil

	case config.StorageRedis:
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		return repository.NewRedisScoreRepository(redisStorage, conf.Storage.Profile), redisStorage, nil

	default:
		return repository.NewFileScoreRepository(conf.Storage.FilePath), closerFunc(func() error { return nil }), nil
	}
}
