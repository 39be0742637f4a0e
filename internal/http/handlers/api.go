package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"farkle_server/internal/logger"
	"farkle_server/internal/service"
	"farkle_server/internal/ws"

	"github.com/gin-gonic/gin"
)

const maxNameLength = 24

type Handler struct {
	Hub     *ws.Hub
	History *service.HistoryService
}

func NewHandler(hub *ws.Hub, history *service.HistoryService) *Handler {
	return &Handler{Hub: hub, History: history}
}

// Гостевой вход: имя в обмен на токен сессии
func (h *Handler) GuestAuth(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > maxNameLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name must be 1-24 characters"})
		return
	}

	token, sess, err := service.IssueSessionToken(name)
	if err != nil {
		logger.Error("не удалось выдать токен сессии", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"session": sess,
	})
}

// Создание комнаты со свежим идентификатором
func (h *Handler) CreateRoom(c *gin.Context) {
	room := h.Hub.CreateRoom()
	c.JSON(http.StatusOK, gin.H{"room_id": room.ID})
}

// Лобби: сводка всех комнат
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Hub.ListRooms()})
}

// Полный слепок одного матча
func (h *Handler) GetRoom(c *gin.Context) {
	room, ok := h.Hub.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, room.Snapshot())
}

// Лента последних доигранных матчей (пусто без настроенной базы)
func (h *Handler) GetHistory(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := h.History.ListRecent(c.Request.Context(), limit)
	if err != nil {
		logger.Error("чтение истории не удалось", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": records})
}
