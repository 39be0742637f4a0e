package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

// одно WebSocket-соединение игрока
type Client struct {
	SessionID string
	Name      string
	Conn      *websocket.Conn
	Send      chan []byte

	Hub  *Hub
	Room *Room
	Done chan struct{}
}

func NewClient(sessionID, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		SessionID: sessionID,
		Name:      name,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		Hub:       hub,
		Done:      make(chan struct{}),
	}
}

// Run запускает насосы чтения и записи и блокируется до разрыва соединения.
// Комната уже назначена обработчиком апгрейда.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
	<-c.Done
}

// read
func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client.readPump: сессия=%s ошибка чтения: %v", c.SessionID, err)
			}
			break
		}
		if c.Room != nil {
			c.Room.HandleMessage(c, msg)
		}
	}
}

// write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: сессия=%s ошибка записи: %v", c.SessionID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// disconnect
func (c *Client) disconnect() {
	if c.Room != nil {
		// неблокирующая отправка на случай, если цикл комнаты уже завершился
		select {
		case c.Room.Disconnect <- c:
		default:
			log.Printf("Client.disconnect: комната=%s канал Disconnect заполнен/закрыт", c.Room.ID)
		}
	}
	_ = c.Conn.Close()
}
