package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type sqliteScores struct {
	conn    *sql.DB
	profile string
}

// NewSQLiteScoreRepository stores one scoreboards row per profile. The table is
// created by storage.SQLiteStorage.Init.
func NewSQLiteScoreRepository(conn *sql.DB, profile string) ScoreRepository {
	return &sqliteScores{
		conn:    conn,
		profile: profileOrDefault(profile),
	}
}

func (that *sqliteScores) Load(ctx context.Context) (entity.Scoreboard, error) {
	query := `SELECT player_wins, computer_wins, draws FROM scoreboards WHERE profile = ?`

	var scores entity.Scoreboard

	err := that.conn.QueryRowContext(ctx, query, that.profile).Scan(&scores.PlayerWins, &scores.ComputerWins, &scores.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Scoreboard{}, apperror.ErrScoreboardNotFound
	}
	if err != nil {
		return entity.Scoreboard{}, fmt.Errorf("can't load scoreboard: %w", err)
	}

	return scores, nil
}

func (that *sqliteScores) Save(ctx context.Context, scores entity.Scoreboard) error {
	query := `
	INSERT INTO scoreboards (profile, player_wins, computer_wins, draws, updated_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(profile) DO UPDATE SET
		player_wins = excluded.player_wins,
		computer_wins = excluded.computer_wins,
		draws = excluded.draws,
		updated_at = excluded.updated_at`

	_, err := that.conn.ExecContext(ctx, query,
		that.profile, scores.PlayerWins, scores.ComputerWins, scores.Draws, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("can't save scoreboard: %w", err)
	}

	return nil
}
