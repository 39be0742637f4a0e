package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"farkle_server/internal/game"
	"farkle_server/internal/service"
)

// пауза между броском-фарклом и автоматической передачей хода,
// чтобы клиент успел показать результат
const BustDelay = 2 * time.Second

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Room владеет одним матчем и сериализует все его мутации:
// каждое действие игрока выполняется целиком под mu, сам матч
// блокировок не держит
type Room struct {
	ID      string
	Clients map[string]*Client // по id сессии

	Register   chan *Client
	Disconnect chan *Client

	mu         sync.Mutex
	match      *game.Match
	startedAt  time.Time
	createdAt  time.Time
	emptySince time.Time

	// защита от устаревших таймеров фаркла (тот же прием, что и
	// с номером раунда у таймера хода)
	bustSeq     int
	bustPending bool

	hub     *Hub
	History *service.HistoryService

	done chan struct{}
}

func NewRoom(id string, rules *game.Rules, hub *Hub) *Room {
	return &Room{
		ID:         id,
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client, 2),
		Disconnect: make(chan *Client, 2),
		match:      game.NewMatch(id, rules, nil),
		createdAt:  time.Now(),
		hub:        hub,
		done:       make(chan struct{}),
	}
}

func (r *Room) Run() {
	log.Printf("Room.Run: запуск комнаты=%s", r.ID)

	for {
		select {
		case c := <-r.Register:
			r.handleRegister(c)

		case c := <-r.Disconnect:
			r.handleDisconnect(c)

		case <-r.done:
			log.Printf("Room.Run: комната=%s остановлена", r.ID)
			return
		}
	}
}

// Stop завершает цикл комнаты (вызывается хабом при уборке)
func (r *Room) Stop() {
	select {
	case <-r.done:
	default:
		close(r.done)
	}
}

// слепок матча под блокировкой комнаты
func (r *Room) snapshot() *game.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match.Snapshot()
}

func (r *Room) Snapshot() *game.Snapshot {
	return r.snapshot()
}

// Empty сообщает хабу, можно ли убирать комнату: пустая и с какого момента
func (r *Room) Empty() (bool, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Clients) > 0 {
		return false, time.Time{}
	}
	if r.emptySince.IsZero() {
		return true, r.createdAt
	}
	return true, r.emptySince
}

func (r *Room) handleRegister(c *Client) {
	r.mu.Lock()

	// место выбирает транспорт: совпадение имени - перехват места
	// (реконнект), иначе посадка на свободное; политика перехвата
	// действует и для еще подключенного места, устаревшее соединение
	// закрывается здесь же
	var seat int
	if s, ok := r.match.SeatByName(c.Name); ok {
		seat = s
		for sid, old := range r.Clients {
			if old != nil && old.Name == c.Name && sid != c.SessionID {
				delete(r.Clients, sid)
				go old.Conn.Close()
				log.Printf("Room.handleRegister: комната=%s имя=%s перехват места %d, старая сессия=%s закрыта", r.ID, c.Name, seat, sid)
			}
		}
		r.match.Reclaim(seat, c.SessionID)
	} else {
		var err error
		seat, err = r.match.Attach(c.SessionID, c.Name)
		if err != nil {
			r.mu.Unlock()
			log.Printf("Room.handleRegister: комната=%s имя=%s: %v", r.ID, c.Name, err)
			r.sendTo(c, Message{Type: "error", Payload: map[string]string{"message": "room is full"}})
			go c.Conn.Close()
			return
		}
		if r.match.State() == game.StatusPlaying && r.startedAt.IsZero() {
			// второй игрок сел - матч стартовал
			r.startedAt = time.Now()
			matchesStarted.Inc()
		}
	}

	r.Clients[c.SessionID] = c
	r.emptySince = time.Time{}
	c.Room = r
	name := c.Name
	r.mu.Unlock()

	log.Printf("Room.handleRegister: комната=%s сессия=%s имя=%s место=%d", r.ID, c.SessionID, name, seat)

	r.sendTo(c, Message{Type: "joined", Payload: map[string]any{
		"room_id": r.ID,
		"seat":    seat,
	}})
	r.sendToOthers(c, Message{Type: "opponent_joined", Payload: map[string]any{
		"name": name,
		"seat": seat,
	}})
	r.broadcastState()
}

func (r *Room) handleDisconnect(c *Client) {
	r.mu.Lock()
	// реконнект мог уже перезанять сессию - не трогаем чужого клиента
	if cur, ok := r.Clients[c.SessionID]; !ok || cur != c {
		r.mu.Unlock()
		return
	}
	delete(r.Clients, c.SessionID)
	seat := r.match.Disconnect(c.SessionID)
	left := len(r.Clients)
	if left == 0 {
		r.emptySince = time.Now()
	}
	r.mu.Unlock()

	log.Printf("Room.handleDisconnect: комната=%s сессия=%s место=%d осталось=%d", r.ID, c.SessionID, seat, left)

	if left > 0 {
		r.sendToOthers(c, Message{Type: "opponent_left", Payload: map[string]any{
			"name": c.Name,
			"seat": seat,
		}})
		r.broadcastState()
	}
}

// HandleMessage обрабатывает действие игрока; вызывается из readPump
// клиента, все мутации матча проходят под mu
func (r *Room) HandleMessage(c *Client, raw []byte) {
	var msg struct {
		Type  string `json:"type"`
		Value int    `json:"value"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Printf("Room.HandleMessage: не разобрано: %v", err)
		return
	}

	switch msg.Type {
	case "roll":
		r.handleRoll(c)
	case "select":
		r.handleSelect(c, msg.Value)
	case "bank":
		r.handleBank(c)
	case "restart":
		r.handleRestart(c)
	default:
		log.Printf("Room.HandleMessage: комната=%s неизвестный тип=%s", r.ID, msg.Type)
	}
}

func (r *Room) handleRoll(c *Client) {
	r.mu.Lock()
	if r.bustPending {
		r.mu.Unlock()
		r.sendError(c, "farkle is being resolved")
		return
	}
	res, err := r.match.Roll(c.SessionID)
	if err != nil {
		r.mu.Unlock()
		r.sendError(c, err.Error())
		return
	}

	rollsTotal.Inc()
	if res.HotDice {
		hotDiceTotal.Inc()
	}
	if res.Farkle {
		farklesTotal.Inc()
		r.bustPending = true
		r.bustSeq++
		seq := r.bustSeq
		time.AfterFunc(BustDelay, func() {
			r.resolveBust(seq)
		})
	}
	r.mu.Unlock()

	r.broadcast(Message{Type: "roll_result", Payload: res})
	r.broadcastState()
}

func (r *Room) handleSelect(c *Client, dieID int) {
	r.mu.Lock()
	if r.bustPending {
		r.mu.Unlock()
		return
	}
	// невалидный ввод - тихий no-op, как и в самом матче
	r.match.ToggleSelection(c.SessionID, dieID)
	r.mu.Unlock()

	r.broadcastState()
}

func (r *Room) handleBank(c *Client) {
	r.mu.Lock()
	if r.bustPending {
		r.mu.Unlock()
		r.sendError(c, "farkle is being resolved")
		return
	}
	err := r.match.Bank(c.SessionID)
	finished := err == nil && r.match.State() == game.StatusFinished
	r.mu.Unlock()

	if err != nil {
		r.sendError(c, err.Error())
		return
	}

	r.broadcastState()
	if finished {
		r.finishMatch()
	}
}

func (r *Room) handleRestart(c *Client) {
	r.mu.Lock()
	err := r.match.Restart()
	if err == nil {
		r.startedAt = time.Now()
		matchesStarted.Inc()
	}
	r.mu.Unlock()

	if err != nil {
		r.sendError(c, err.Error())
		return
	}
	log.Printf("Room.handleRestart: комната=%s новый матч", r.ID)
	r.broadcastState()
}

// resolveBust вызывается таймером спустя BustDelay после фаркла
func (r *Room) resolveBust(seq int) {
	r.mu.Lock()
	// рестарт или более поздний фаркл делают этот таймер устаревшим
	if seq != r.bustSeq {
		r.mu.Unlock()
		log.Printf("Room.resolveBust: комната=%s устаревший таймер seq=%d, пропускаем", r.ID, seq)
		return
	}
	r.bustPending = false
	r.bustSeq++ // повторный вызов с тем же номером станет устаревшим
	r.match.ResolveBust()
	finished := r.match.State() == game.StatusFinished
	r.mu.Unlock()

	r.broadcastState()
	if finished {
		r.finishMatch()
	}
}

// finishMatch фиксирует завершенный матч: метрика + запись в историю
// (история необязательна и пишется в фоне, игра от нее не зависит)
func (r *Room) finishMatch() {
	snap := r.snapshot()
	matchesFinished.Inc()

	r.mu.Lock()
	startedAt := r.startedAt
	hist := r.History
	r.mu.Unlock()

	log.Printf("Room.finishMatch: комната=%s победитель=%v ничья=%v", r.ID, snap.WinnerSeat, snap.Tie)

	if hist != nil {
		go hist.RecordFinished(snap, startedAt)
	}
}

func (r *Room) broadcastState() {
	r.broadcast(Message{Type: "state", Payload: r.snapshot()})
}

func (r *Room) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Room.broadcast: ошибка сериализации: %v", err)
		return
	}

	r.mu.Lock()
	clients := make([]*Client, 0, len(r.Clients))
	for _, c := range r.Clients {
		clients = append(clients, c)
	}
	r.mu.Unlock()

	// отправка без удержания блокировки
	for _, c := range clients {
		select {
		case c.Send <- data:
		case <-time.After(2 * time.Second):
			log.Printf("Room.broadcast: таймаут отправки сессии=%s тип=%s", c.SessionID, msg.Type)
		}
	}
}

func (r *Room) sendTo(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Room.sendTo: ошибка сериализации: %v", err)
		return
	}
	select {
	case c.Send <- data:
	case <-time.After(2 * time.Second):
		log.Printf("Room.sendTo: таймаут отправки сессии=%s тип=%s", c.SessionID, msg.Type)
	}
}

func (r *Room) sendToOthers(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	r.mu.Lock()
	others := make([]*Client, 0, len(r.Clients))
	for sid, other := range r.Clients {
		if sid != c.SessionID {
			others = append(others, other)
		}
	}
	r.mu.Unlock()

	for _, other := range others {
		select {
		case other.Send <- data:
		case <-time.After(2 * time.Second):
			log.Printf("Room.sendToOthers: таймаут отправки сессии=%s", other.SessionID)
		}
	}
}

func (r *Room) sendError(c *Client, message string) {
	r.sendTo(c, Message{Type: "error", Payload: map[string]string{"message": message}})
}
