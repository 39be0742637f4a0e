package service

import (
	"context"
	"time"

	"farkle_server/internal/domain"
	"farkle_server/internal/game"
	"farkle_server/internal/logger"
	"farkle_server/internal/repository"
)

// HistoryService пишет доигранные матчи в ленту истории.
// Запись опциональна и выполняется по принципу best effort:
// игра никогда не зависит от базы.
type HistoryService struct {
	repo *repository.MatchHistoryRepository
}

func NewHistoryService(repo *repository.MatchHistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// RecordFinished сохраняет слепок завершенного матча
func (s *HistoryService) RecordFinished(snap *game.Snapshot, startedAt time.Time) {
	if s == nil || s.repo == nil || snap == nil || snap.Status != game.StatusFinished {
		return
	}
	if snap.Players[0] == nil || snap.Players[1] == nil {
		return
	}

	rec := &domain.MatchRecord{
		RoomID:     snap.RoomID,
		Player0:    snap.Players[0].Name,
		Player1:    snap.Players[1].Name,
		Score0:     snap.Players[0].Total,
		Score1:     snap.Players[1].Total,
		WinnerSeat: snap.WinnerSeat,
		FinishedAt: time.Now(),
	}
	if !startedAt.IsZero() {
		rec.DurationS = int64(time.Since(startedAt).Seconds())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.repo.Create(ctx, rec); err != nil {
		logger.Error("запись истории матча не удалась", "room", snap.RoomID, "error", err)
	}
}

// ListRecent отдает последние матчи для ленты
func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]domain.MatchRecord, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRecent(ctx, limit)
}
