package ws

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// игровые метрики, отдаются через /metrics
var (
	activeRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "farkle_active_rooms",
		Help: "Количество живых комнат.",
	})
	matchesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farkle_matches_started_total",
		Help: "Сколько матчей стартовало.",
	})
	matchesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farkle_matches_finished_total",
		Help: "Сколько матчей доиграно до конца.",
	})
	rollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farkle_rolls_total",
		Help: "Сколько бросков сделано.",
	})
	farklesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farkle_farkles_total",
		Help: "Сколько бросков закончились фарклом.",
	})
	hotDiceTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "farkle_hot_dice_total",
		Help: "Сколько раз стол съедался целиком.",
	})
)
