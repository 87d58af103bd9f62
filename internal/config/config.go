package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

var (
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrInvalidPlayerMark    = errors.New("player mark must be X or O")
	ErrInvalidThinkingTicks = errors.New("thinking ticks must not be negative")
	ErrInvalidTickRate      = errors.New("tick rate must be positive")
	ErrNoFrontend           = errors.New("both the terminal and the HTTP transport are disabled")
)

type Config struct {
	LogLevel        string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile         string  `yaml:"log-file" env:"LOG_FILE" env-default:"tictactoe.log"`
	HTTPPort        string  `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	HTTPEnabled     bool    `yaml:"http-enabled" env:"HTTP_ENABLED"`
	TerminalEnabled bool    `yaml:"terminal-enabled" env:"TERMINAL_ENABLED"`
	Storage         Storage `yaml:"storage"`
	Redis           Redis   `yaml:"redis"`
	Game            Game    `yaml:"game"`
}

type Storage struct {
	Driver     string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	FilePath   string `yaml:"file-path" env:"STORAGE_FILE_PATH" env-default:"tictactoe_scores.json"`
	SQLitePath string `yaml:"sqlite-path" env:"STORAGE_SQLITE_PATH" env-default:"data/tictactoe.db"`
	Profile    string `yaml:"profile" env:"STORAGE_PROFILE" env-default:"default"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	ThinkingTicks int    `yaml:"thinking-ticks" env:"GAME_THINKING_TICKS"`
	TickRate      int    `yaml:"tick-rate" env:"GAME_TICK_RATE" env-default:"60"`
	PlayerMark    string `yaml:"player-mark" env:"GAME_PLAYER_MARK" env-default:"O"`
	ComputerFirst bool   `yaml:"computer-first" env:"GAME_COMPUTER_FIRST" env-default:"false"`
}

// MustLoad reads .env (if any) into the environment, then the config.yml at path.
// Environment variables override file values.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := newDefaults()

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// newDefaults pre-fills the fields whose zero value is a valid setting: cleanenv
// applies env-default to any zero field, so "false" or 0 in the file would be lost.
func newDefaults() *Config {
	return &Config{
		HTTPEnabled:     true,
		TerminalEnabled: true,
		Game: Game{
			ThinkingTicks: 30,
		},
	}
}

func (that *Config) Validate() error {
	switch that.Storage.Driver {
	case StorageFile, StorageSQLite, StorageRedis:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, that.Storage.Driver)
	}

	switch strings.ToUpper(that.Game.PlayerMark) {
	case "X", "O":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPlayerMark, that.Game.PlayerMark)
	}

	if that.Game.ThinkingTicks < 0 {
		return ErrInvalidThinkingTicks
	}

	if that.Game.TickRate <= 0 {
		return ErrInvalidTickRate
	}

	if !that.HTTPEnabled && !that.TerminalEnabled {
		return ErrNoFrontend
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
