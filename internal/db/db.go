package db

import (
	"context"
	"time"

	"farkle_server/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// схема ленты истории; живое состояние матчей в базу не пишется
const schema = `
CREATE TABLE IF NOT EXISTS match_history (
	id          BIGSERIAL PRIMARY KEY,
	room_id     TEXT NOT NULL,
	player_0    TEXT NOT NULL,
	player_1    TEXT NOT NULL,
	score_0     INTEGER NOT NULL,
	score_1     INTEGER NOT NULL,
	winner_seat INTEGER,
	duration_s  BIGINT NOT NULL DEFAULT 0,
	finished_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_match_history_finished_at ON match_history (finished_at DESC);
`

// Connect открывает пул соединений и гарантирует схему
func Connect(databaseURL string) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("не удалось создать пул базы данных", "error", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("база данных недоступна", "error", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Fatal("не удалось применить схему", "error", err)
	}

	logger.Info("подключение к базе данных установлено")
	return pool
}
