package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// registers the pure-Go "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

type SQLiteStorage struct {
	Connection *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("can't create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &SQLiteStorage{Connection: conn}, nil
}

// Init creates the scoreboard table.
func (that *SQLiteStorage) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS scoreboards (
		profile       TEXT PRIMARY KEY,
		player_wins   INTEGER NOT NULL DEFAULT 0,
		computer_wins INTEGER NOT NULL DEFAULT 0,
		draws         INTEGER NOT NULL DEFAULT 0,
		updated_at    INTEGER NOT NULL
	)`

	if _, err := that.Connection.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("can't create table: %w", err)
	}

	return nil
}

func (that *SQLiteStorage) Close() error {
	return that.Connection.Close()
}
