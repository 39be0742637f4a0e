package game

import "errors"

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// ошибки нарушений правил - при любой из них состояние матча не меняется
var (
	ErrRoomFull           = errors.New("room is full")
	ErrGameNotActive      = errors.New("game is not active")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrMustSelectToReroll = errors.New("select at least one die before rerolling")
	ErrInvalidSelection   = errors.New("selection is not a complete scoring combination")
	ErrCannotBankZero     = errors.New("cannot bank a zero round")
	ErrNotFinished        = errors.New("game is not finished")
)

const NoSeat = -1

// место за столом
// SessionID переназначается при реконнекте, Total живет пока живет матч
type Player struct {
	SessionID string
	Name      string
	Total     int
	Connected bool
}

// Match - авторитетное состояние одного матча на два игрока.
// Сам матч не содержит блокировок: владелец (комната) обязан
// сериализовать вызовы, методы нельзя перемежать из разных горутин.
type Match struct {
	roomID string
	rules  *Rules
	roller Roller

	players    [2]*Player
	current    int
	roundScore int
	diceToRoll int
	dice       []Die

	status         Status
	winner         int // место победителя или NoSeat
	tie            bool
	finalRound     bool
	finalRoundSeat int

	dieSeq int
}

func NewMatch(roomID string, rules *Rules, roller Roller) *Match {
	if rules == nil {
		rules = DefaultRules()
	}
	if roller == nil {
		roller = NewRoller()
	}
	return &Match{
		roomID:         roomID,
		rules:          rules,
		roller:         roller,
		diceToRoll:     DiceSides,
		status:         StatusWaiting,
		winner:         NoSeat,
		finalRoundSeat: NoSeat,
	}
}

func (m *Match) RoomID() string { return m.roomID }
func (m *Match) State() Status  { return m.status }
func (m *Match) Rules() *Rules  { return m.rules }

// SeatByName находит место по отображаемому имени
// сопоставление имен делает транспортный слой, матч только отвечает на запрос
func (m *Match) SeatByName(name string) (int, bool) {
	for seat, p := range m.players {
		if p != nil && p.Name == name {
			return seat, true
		}
	}
	return NoSeat, false
}

func (m *Match) seatOf(sessionID string) int {
	for seat, p := range m.players {
		if p != nil && p.SessionID == sessionID {
			return seat
		}
	}
	return NoSeat
}

// PlayerName возвращает имя на месте (пустая строка если место свободно)
func (m *Match) PlayerName(seat int) string {
	if seat < 0 || seat > 1 || m.players[seat] == nil {
		return ""
	}
	return m.players[seat].Name
}

// ConnectedCount - сколько мест занято живыми соединениями
func (m *Match) ConnectedCount() int {
	n := 0
	for _, p := range m.players {
		if p != nil && p.Connected {
			n++
		}
	}
	return n
}

// Attach сажает нового игрока на свободное место.
// Когда оба места заняты в статусе waiting, матч сам переходит в playing:
// ход у места 0, начинается свежий ход.
func (m *Match) Attach(sessionID, name string) (int, error) {
	for seat, p := range m.players {
		if p == nil {
			m.players[seat] = &Player{
				SessionID: sessionID,
				Name:      name,
				Connected: true,
			}
			if m.status == StatusWaiting && m.players[0] != nil && m.players[1] != nil {
				m.status = StatusPlaying
				m.current = 0
				m.startTurn()
			}
			return seat, nil
		}
	}
	return NoSeat, ErrRoomFull
}

// Reclaim переназначает место существующего игрока новой сессии (реконнект
// или перехват по имени - политика выбора места лежит на транспорте)
func (m *Match) Reclaim(seat int, sessionID string) {
	if seat < 0 || seat > 1 || m.players[seat] == nil {
		return
	}
	m.players[seat].SessionID = sessionID
	m.players[seat].Connected = true
}

// Disconnect помечает место отключенным, матч продолжает жить
func (m *Match) Disconnect(sessionID string) int {
	seat := m.seatOf(sessionID)
	if seat != NoSeat {
		m.players[seat].Connected = false
	}
	return seat
}

// результат броска для трансляции клиентам
type RollResult struct {
	Dice       []Die `json:"dice"`
	Farkle     bool  `json:"farkle"`
	HotDice    bool  `json:"hot_dice"`
	RoundScore int   `json:"round_score"`
}

// Roll выполняет бросок текущего игрока.
// Если на столе уже лежат кубики, сперва засчитывается отмеченный выбор:
// он обязан быть полной комбинацией, его очки уходят в счет хода, а
// оставшееся количество кубиков определяет размер нового броска
// (полное потребление - "горячие кубики" - возвращает все шесть).
func (m *Match) Roll(sessionID string) (*RollResult, error) {
	if m.status != StatusPlaying {
		return nil, ErrGameNotActive
	}
	if m.seatOf(sessionID) != m.current {
		return nil, ErrNotYourTurn
	}

	hot := false
	if len(m.dice) > 0 {
		sel := selectedFaces(m.dice)
		if len(sel) == 0 {
			return nil, ErrMustSelectToReroll
		}
		if !IsCompleteSelection(sel, m.rules) {
			return nil, ErrInvalidSelection
		}
		m.roundScore += Score(sel, m.rules)
		remaining := len(m.dice) - len(sel)
		if remaining == 0 {
			remaining = DiceSides
			hot = true
		}
		m.diceToRoll = remaining
	}

	// старые кубики уничтожаются целиком - от отмеченных остаются
	// только очки, уже сложенные в счет хода
	fresh := make([]Die, m.diceToRoll)
	for i := range fresh {
		m.dieSeq++
		fresh[i] = Die{ID: m.dieSeq, Face: m.roller.Face()}
	}
	m.dice = fresh

	res := &RollResult{
		Dice:       append([]Die(nil), m.dice...),
		Farkle:     !HasAnyScoringMove(faces(m.dice), m.rules),
		HotDice:    hot,
		RoundScore: m.roundScore,
	}
	// фаркл не двигает ход сам - транспорт покажет результат
	// и затем явно вызовет ResolveBust
	return res, nil
}

// ToggleSelection переключает отметку кубика текущего игрока.
// Невалидный ввод (чужой ход, неизвестный id) молча игнорируется.
func (m *Match) ToggleSelection(sessionID string, dieID int) {
	if m.status != StatusPlaying || m.seatOf(sessionID) != m.current {
		return
	}
	for i := range m.dice {
		if m.dice[i].ID == dieID {
			m.dice[i].Selected = !m.dice[i].Selected
			return
		}
	}
}

// Bank фиксирует счет хода в общий счет игрока и передает ход.
// Отмеченные кубики, если есть, сперва засчитываются как при броске.
func (m *Match) Bank(sessionID string) error {
	if m.status != StatusPlaying {
		return ErrGameNotActive
	}
	if m.seatOf(sessionID) != m.current {
		return ErrNotYourTurn
	}

	sel := selectedFaces(m.dice)
	if len(sel) > 0 {
		if !IsCompleteSelection(sel, m.rules) {
			return ErrInvalidSelection
		}
		m.roundScore += Score(sel, m.rules)
	} else if m.roundScore == 0 && len(m.dice) > 0 {
		// нельзя закрыть ход с нулем очков, когда кубики лежат на столе
		return ErrCannotBankZero
	}

	banker := m.players[m.current]
	banker.Total += m.roundScore

	// порог победы пройден впервые - начинается финальный круг,
	// соперник еще получит свой ход
	if !m.finalRound && banker.Total >= m.rules.WinScore {
		m.finalRound = true
		m.finalRoundSeat = m.current
	}

	m.nextTurn()
	return nil
}

// ResolveBust сбрасывает счет проваленного хода и передает ход.
// Вызывается транспортом после паузы на показ фаркла.
func (m *Match) ResolveBust() {
	if m.status != StatusPlaying {
		return
	}
	m.roundScore = 0
	m.nextTurn()
}

// nextTurn передает ход; если круг вернулся к месту, открывшему финальный
// круг, матч заканчивается здесь (игрок, взявший порог, дополнительного
// хода не получает)
func (m *Match) nextTurn() {
	m.current = 1 - m.current
	if m.finalRound && m.current == m.finalRoundSeat {
		m.finish()
		return
	}
	m.startTurn()
}

func (m *Match) startTurn() {
	m.roundScore = 0
	m.diceToRoll = DiceSides
	m.dice = nil
}

func (m *Match) finish() {
	m.status = StatusFinished
	m.roundScore = 0
	m.dice = nil

	a, b := m.players[0].Total, m.players[1].Total
	switch {
	case a > b:
		m.winner = 0
	case b > a:
		m.winner = 1
	default:
		m.winner = NoSeat
		m.tie = true
	}
}

// Restart начинает новый матч тем же составом
func (m *Match) Restart() error {
	if m.status != StatusFinished {
		return ErrNotFinished
	}
	for _, p := range m.players {
		p.Total = 0
	}
	m.current = 0
	m.winner = NoSeat
	m.tie = false
	m.finalRound = false
	m.finalRoundSeat = NoSeat
	m.dieSeq = 0
	m.status = StatusPlaying
	m.startTurn()
	return nil
}

// место в снапшоте (без идентификатора сессии - он не для трансляции)
type SeatInfo struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Connected bool   `json:"connected"`
}

// Snapshot - плоский сериализуемый слепок матча, транслируется клиентам
// как есть; это контракт провода между ядром и транспортом
type Snapshot struct {
	RoomID         string       `json:"room_id"`
	Players        [2]*SeatInfo `json:"players"`
	CurrentSeat    int          `json:"current_seat"`
	RoundScore     int          `json:"round_score"`
	DiceToRoll     int          `json:"dice_to_roll"`
	Dice           []Die        `json:"dice"`
	Status         Status       `json:"status"`
	WinnerSeat     *int         `json:"winner_seat,omitempty"`
	Tie            bool         `json:"tie,omitempty"`
	FinalRound     bool         `json:"final_round"`
	FinalRoundSeat int          `json:"final_round_seat"`
	WinScore       int          `json:"win_score"`
}

func (m *Match) Snapshot() *Snapshot {
	dice := make([]Die, len(m.dice))
	copy(dice, m.dice)
	s := &Snapshot{
		RoomID:         m.roomID,
		CurrentSeat:    m.current,
		RoundScore:     m.roundScore,
		DiceToRoll:     m.diceToRoll,
		Dice:           dice,
		Status:         m.status,
		Tie:            m.tie,
		FinalRound:     m.finalRound,
		FinalRoundSeat: m.finalRoundSeat,
		WinScore:       m.rules.WinScore,
	}
	for seat, p := range m.players {
		if p != nil {
			s.Players[seat] = &SeatInfo{Name: p.Name, Total: p.Total, Connected: p.Connected}
		}
	}
	if m.winner != NoSeat {
		w := m.winner
		s.WinnerSeat = &w
	}
	return s
}
