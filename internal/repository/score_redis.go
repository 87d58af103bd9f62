package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type redisScores struct {
	client *redis.Client
	key    string
}

// NewRedisScoreRepository keeps the scoreboard as JSON under "scoreboard:<profile>".
func NewRedisScoreRepository(client *redis.Client, profile string) ScoreRepository {
	return &redisScores{
		client: client,
		key:    "scoreboard:" + profileOrDefault(profile),
	}
}

func (that *redisScores) Load(ctx context.Context) (entity.Scoreboard, error) {
	response, err := that.client.Get(ctx, that.key).Result()

	if errors.Is(err, redis.Nil) {
		return entity.Scoreboard{}, apperror.ErrScoreboardNotFound
	}

	if err != nil {
		return entity.Scoreboard{}, fmt.Errorf("failed to get scoreboard: %w", err)
	}

	var scores entity.Scoreboard
	if err = json.Unmarshal([]byte(response), &scores); err != nil {
		return entity.Scoreboard{}, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	return scores, nil
}

func (that *redisScores) Save(ctx context.Context, scores entity.Scoreboard) error {
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scoreboard: %w", err)
	}

	if err = that.client.Set(ctx, that.key, scoresJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set scoreboard: %w", err)
	}

	return nil
}
