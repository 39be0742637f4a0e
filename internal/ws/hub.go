package ws

import (
	"log"
	"sort"
	"sync"
	"time"

	"farkle_server/internal/game"
	"farkle_server/internal/service"

	"github.com/google/uuid"
)

// комнаты, пустующие дольше этого срока, убираются
const staleRoomAfter = 10 * time.Minute

// Hub - реестр комнат, ключ - идентификатор комнаты.
// Реестром владеет транспортный слой; само ядро матча о нем не знает.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	rules   *game.Rules
	History *service.HistoryService
}

func NewHub(rules *game.Rules, history *service.HistoryService) *Hub {
	if rules == nil {
		rules = game.DefaultRules()
	}
	return &Hub{
		rooms:   make(map[string]*Room),
		rules:   rules,
		History: history,
	}
}

// CreateRoom создает комнату со свежим идентификатором
func (h *Hub) CreateRoom() *Room {
	return h.GetOrCreate(uuid.NewString())
}

// GetOrCreate возвращает комнату по идентификатору, создавая при
// первом обращении
func (h *Hub) GetOrCreate(id string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[id]; ok {
		return room
	}

	room := NewRoom(id, h.rules, h)
	room.History = h.History
	h.rooms[id] = room
	activeRooms.Inc()

	log.Printf("Hub.GetOrCreate: создана комната=%s, запуск Run()", id)
	go room.Run()

	return room
}

// Get возвращает комнату без создания
func (h *Hub) Get(id string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[id]
	return room, ok
}

// сводка комнаты для лобби
type RoomInfo struct {
	ID      string      `json:"id"`
	Status  game.Status `json:"status"`
	Players []string    `json:"players"`
}

// ListRooms возвращает сводки всех комнат для лобби
func (h *Hub) ListRooms() []RoomInfo {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		snap := r.Snapshot()
		info := RoomInfo{ID: r.ID, Status: snap.Status}
		for _, p := range snap.Players {
			if p != nil {
				info.Players = append(info.Players, p.Name)
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// StartCleanup запускает периодическую уборку пустых комнат
func (h *Hub) StartCleanup() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			h.cleanupStaleRooms()
		}
	}()
}

func (h *Hub) cleanupStaleRooms() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	for id, room := range h.rooms {
		empty, since := room.Empty()
		if empty && now.Sub(since) > staleRoomAfter {
			delete(h.rooms, id)
			room.Stop()
			activeRooms.Dec()
			log.Printf("Hub.cleanupStaleRooms: убрана пустая комната=%s", id)
		}
	}
}
