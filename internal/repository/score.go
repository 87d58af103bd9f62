package repository

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

// DefaultProfile is the record key used when none is configured.
const DefaultProfile = "default"

type ScoreRepository interface {
	Load(ctx context.Context) (entity.Scoreboard, error)
	Save(ctx context.Context, scores entity.Scoreboard) error
}

func profileOrDefault(profile string) string {
	if profile == "" {
		return DefaultProfile
	}

	return profile
}
