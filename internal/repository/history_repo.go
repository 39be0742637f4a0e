package repository

import (
	"context"

	"farkle_server/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchHistoryRepository struct {
	db *pgxpool.Pool
}

func NewMatchHistoryRepository(db *pgxpool.Pool) *MatchHistoryRepository {
	return &MatchHistoryRepository{db: db}
}

// добавляет запись о доигранном матче
func (r *MatchHistoryRepository) Create(ctx context.Context, rec *domain.MatchRecord) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO match_history (room_id, player_0, player_1, score_0, score_1, winner_seat, duration_s, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, rec.RoomID, rec.Player0, rec.Player1, rec.Score0, rec.Score1, rec.WinnerSeat, rec.DurationS, rec.FinishedAt).
		Scan(&rec.ID)
}

// последние доигранные матчи, свежие первыми
func (r *MatchHistoryRepository) ListRecent(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, room_id, player_0, player_1, score_0, score_1, winner_seat, duration_s, finished_at
		FROM match_history
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		if err := rows.Scan(
			&rec.ID, &rec.RoomID, &rec.Player0, &rec.Player1,
			&rec.Score0, &rec.Score1, &rec.WinnerSeat, &rec.DurationS, &rec.FinishedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
