package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type fileScores struct {
	path string
}

// NewFileScoreRepository keeps the scoreboard in a small JSON document:
// {"player_wins": 0, "computer_wins": 0, "draws": 0}.
func NewFileScoreRepository(path string) ScoreRepository {
	return &fileScores{path: path}
}

func (that *fileScores) Load(_ context.Context) (entity.Scoreboard, error) {
	data, err := os.ReadFile(that.path)
	if errors.Is(err, os.ErrNotExist) {
		return entity.Scoreboard{}, apperror.ErrScoreboardNotFound
	}
	if err != nil {
		return entity.Scoreboard{}, fmt.Errorf("failed to read scoreboard file: %w", err)
	}

	var scores entity.Scoreboard
	if err = json.Unmarshal(data, &scores); err != nil {
		return entity.Scoreboard{}, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	return scores, nil
}

// Save replaces the file through a temporary file so a crash never leaves half a
// document behind.
func (that *fileScores) Save(_ context.Context, scores entity.Scoreboard) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scoreboard: %w", err)
	}

	dir := filepath.Dir(that.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create scoreboard directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(that.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint: errcheck // already renamed on success

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scoreboard: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), that.path); err != nil {
		return fmt.Errorf("failed to replace scoreboard file: %w", err)
	}

	return nil
}
