package ws

import (
	"log"
	"net/http"
	"os"
	"time"

	"farkle_server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// содержит зависимости для обработки WebSocket
type WSHandler struct {
	Hub *Hub
}

func NewWSHandler(hub *Hub) *WSHandler {
	return &WSHandler{Hub: hub}
}

func (h *WSHandler) HandleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		sess, err := service.ParseSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		roomID := c.Query("room")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "room required"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ошибка апгрейда ws:", err)
			return
		}

		room := h.Hub.GetOrCreate(roomID)
		client := NewClient(sess.ID, sess.Name, conn, h.Hub)
		client.Room = room

		// неблокирующая отправка на случай, если цикл комнаты завершился
		select {
		case room.Register <- client:
		case <-time.After(5 * time.Second):
			log.Printf("HandleWS: ТАЙМАУТ регистрации сессии=%s в комнату=%s", sess.ID, roomID)
			conn.Close()
			return
		}

		go client.Run()
	}
}
