package domain

import "time"

// запись о доигранном матче для ленты истории
// живые матчи не сохраняются и рестарт процесса их не переживает
type MatchRecord struct {
	ID         int64     `json:"id"`
	RoomID     string    `json:"room_id"`
	Player0    string    `json:"player_0"`
	Player1    string    `json:"player_1"`
	Score0     int       `json:"score_0"`
	Score1     int       `json:"score_1"`
	WinnerSeat *int      `json:"winner_seat"` // nil при ничьей
	DurationS  int64     `json:"duration_s"`
	FinishedAt time.Time `json:"finished_at"`
}
