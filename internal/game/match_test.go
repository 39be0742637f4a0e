package game

import (
	"errors"
	"testing"
)

// детерминированный генератор граней по сценарию
type scriptRoller struct {
	faces []int
	pos   int
}

func (r *scriptRoller) Face() int {
	if r.pos >= len(r.faces) {
		return 2 // нейтральная грань, если сценарий закончился
	}
	f := r.faces[r.pos]
	r.pos++
	return f
}

// собирает матч в статусе playing с двумя игроками
func newPlayingMatch(t *testing.T, rules *Rules, faces []int) *Match {
	t.Helper()
	m := NewMatch("room-1", rules, &scriptRoller{faces: faces})

	if _, err := m.Attach("sess-a", "alice"); err != nil {
		t.Fatalf("посадка первого игрока: %v", err)
	}
	if m.State() != StatusWaiting {
		t.Fatalf("с одним игроком статус = %s, ожидался waiting", m.State())
	}
	if _, err := m.Attach("sess-b", "bob"); err != nil {
		t.Fatalf("посадка второго игрока: %v", err)
	}
	if m.State() != StatusPlaying {
		t.Fatalf("с двумя игроками статус = %s, ожидался playing", m.State())
	}
	return m
}

// отмечает первый кубик с нужной гранью
func selectFace(t *testing.T, m *Match, sessionID string, face int) {
	t.Helper()
	for _, d := range m.Snapshot().Dice {
		if d.Face == face && !d.Selected {
			m.ToggleSelection(sessionID, d.ID)
			return
		}
	}
	t.Fatalf("на столе нет неотмеченного кубика с гранью %d", face)
}

func TestAttachAndRoomFull(t *testing.T) {
	m := newPlayingMatch(t, nil, nil)

	if _, err := m.Attach("sess-c", "carol"); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("третий игрок: err = %v, ожидался ErrRoomFull", err)
	}

	// перехват места по имени решает транспорт: находит место и переназначает
	seat, ok := m.SeatByName("bob")
	if !ok || seat != 1 {
		t.Fatalf("SeatByName(bob) = %d,%v, ожидалось место 1", seat, ok)
	}
	m.Reclaim(seat, "sess-b2")
	if err := m.Bank("sess-b"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("старая сессия после перехвата: err = %v, ожидался ErrNotYourTurn", err)
	}
}

func TestRollPreconditions(t *testing.T) {
	m := NewMatch("room-1", nil, &scriptRoller{})
	if _, err := m.Roll("sess-a"); !errors.Is(err, ErrGameNotActive) {
		t.Fatalf("бросок до начала игры: err = %v, ожидался ErrGameNotActive", err)
	}

	m = newPlayingMatch(t, nil, []int{1, 2, 3, 4, 6, 6})
	if _, err := m.Roll("sess-b"); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("бросок не в свой ход: err = %v, ожидался ErrNotYourTurn", err)
	}
}

func TestRerollRequiresSelection(t *testing.T) {
	m := newPlayingMatch(t, nil, []int{1, 2, 3, 4, 6, 6})

	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("первый бросок: %v", err)
	}

	before := m.Snapshot()

	// повторный бросок без отметки - ошибка, состояние нетронуто
	if _, err := m.Roll("sess-a"); !errors.Is(err, ErrMustSelectToReroll) {
		t.Fatalf("бросок без выбора: err = %v, ожидался ErrMustSelectToReroll", err)
	}

	after := m.Snapshot()
	if after.RoundScore != before.RoundScore || after.DiceToRoll != before.DiceToRoll {
		t.Fatalf("состояние изменилось после отклоненного броска")
	}
	for i := range before.Dice {
		if before.Dice[i] != after.Dice[i] {
			t.Fatalf("кубики изменились после отклоненного броска")
		}
	}

	// неполный выбор тоже отклоняется без изменений
	selectFace(t, m, "sess-a", 2)
	if _, err := m.Roll("sess-a"); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("бросок с мертвой двойкой: err = %v, ожидался ErrInvalidSelection", err)
	}
	if got := m.Snapshot().RoundScore; got != 0 {
		t.Fatalf("счет хода после отклоненного броска = %d", got)
	}
}

func TestHotDiceResetsToSix(t *testing.T) {
	// первый бросок - шесть единиц, весь стол съедается одним выбором
	m := newPlayingMatch(t, nil, []int{1, 1, 1, 1, 1, 1, 2, 3, 4, 6, 6, 2})
	r := m.Rules()

	res, err := m.Roll("sess-a")
	if err != nil {
		t.Fatalf("первый бросок: %v", err)
	}
	if res.Farkle {
		t.Fatalf("шесть единиц не могут быть фарклом")
	}
	for _, d := range res.Dice {
		m.ToggleSelection("sess-a", d.ID)
	}

	res, err = m.Roll("sess-a")
	if err != nil {
		t.Fatalf("бросок после горячих кубиков: %v", err)
	}
	if !res.HotDice {
		t.Fatalf("ожидался флаг горячих кубиков")
	}
	if len(res.Dice) != DiceSides {
		t.Fatalf("после горячих кубиков выпало %d кубиков, ожидалось %d", len(res.Dice), DiceSides)
	}
	if res.RoundScore != r.SixOnes {
		t.Fatalf("счет хода = %d, ожидалось %d", res.RoundScore, r.SixOnes)
	}
	if got := m.Snapshot().DiceToRoll; got < 1 || got > DiceSides {
		t.Fatalf("dice_to_roll вышел за пределы [1,%d]: %d", DiceSides, got)
	}
}

func TestBankZeroAndCarriedScore(t *testing.T) {
	m := newPlayingMatch(t, nil, []int{1, 2, 3, 4, 6, 6, 5, 2, 2, 3, 4})

	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("первый бросок: %v", err)
	}

	// нулевой счет хода при кубиках на столе - банковать нечего
	if err := m.Bank("sess-a"); !errors.Is(err, ErrCannotBankZero) {
		t.Fatalf("банк нуля: err = %v, ожидался ErrCannotBankZero", err)
	}
	if m.Snapshot().Status != StatusPlaying || m.Snapshot().CurrentSeat != 0 {
		t.Fatalf("состояние изменилось после отклоненного банка")
	}

	// забираем единицу и перебрасываем: счет хода становится переносимым
	selectFace(t, m, "sess-a", 1)
	res, err := m.Roll("sess-a")
	if err != nil {
		t.Fatalf("переброс: %v", err)
	}
	if res.RoundScore != 100 {
		t.Fatalf("счет хода после переброса = %d, ожидалось 100", res.RoundScore)
	}
	if len(res.Dice) != 5 {
		t.Fatalf("после съедания одного кубика выпало %d, ожидалось 5", len(res.Dice))
	}

	// банк без отметок при ненулевом счете проходит и кладет ровно этот счет
	if err := m.Bank("sess-a"); err != nil {
		t.Fatalf("банк накопленного: %v", err)
	}
	snap := m.Snapshot()
	if snap.Players[0].Total != 100 {
		t.Fatalf("итог игрока 0 = %d, ожидалось 100", snap.Players[0].Total)
	}
	if snap.CurrentSeat != 1 {
		t.Fatalf("ход не перешел ко второму месту")
	}
	if snap.RoundScore != 0 || len(snap.Dice) != 0 || snap.DiceToRoll != DiceSides {
		t.Fatalf("новый ход начался не с чистого состояния: %+v", snap)
	}
}

func TestFarkleAndResolveBust(t *testing.T) {
	// бросок без единиц, пятерок, троек и стритов
	m := newPlayingMatch(t, nil, []int{2, 3, 4, 6, 6, 3})

	res, err := m.Roll("sess-a")
	if err != nil {
		t.Fatalf("бросок: %v", err)
	}
	if !res.Farkle {
		t.Fatalf("ожидался фаркл для %v", res.Dice)
	}

	// сам бросок ход не двигает - это делает явный ResolveBust
	if got := m.Snapshot().CurrentSeat; got != 0 {
		t.Fatalf("фаркл сам передал ход: место %d", got)
	}

	m.ResolveBust()
	snap := m.Snapshot()
	if snap.CurrentSeat != 1 {
		t.Fatalf("после ResolveBust ход у места %d, ожидалось 1", snap.CurrentSeat)
	}
	if snap.RoundScore != 0 || snap.Players[0].Total != 0 {
		t.Fatalf("очки проваленного хода не сброшены: %+v", snap)
	}
}

func TestFinalRoundAndWinner(t *testing.T) {
	rules := DefaultRules()
	rules.WinScore = 100

	// ход A: единица на сотню, ход B: пятерка на полтинник
	m := newPlayingMatch(t, rules, []int{1, 2, 3, 4, 6, 6, 5, 2, 3, 4, 6, 6})

	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("бросок A: %v", err)
	}
	selectFace(t, m, "sess-a", 1)
	if err := m.Bank("sess-a"); err != nil {
		t.Fatalf("банк A: %v", err)
	}

	snap := m.Snapshot()
	if !snap.FinalRound || snap.FinalRoundSeat != 0 {
		t.Fatalf("порог пройден, но финальный круг не открыт: %+v", snap)
	}
	if snap.Status != StatusPlaying || snap.CurrentSeat != 1 {
		t.Fatalf("соперник обязан получить свой ход: %+v", snap)
	}

	if _, err := m.Roll("sess-b"); err != nil {
		t.Fatalf("бросок B: %v", err)
	}
	selectFace(t, m, "sess-b", 5)
	if err := m.Bank("sess-b"); err != nil {
		t.Fatalf("банк B: %v", err)
	}

	// круг вернулся к открывшему - матч закончен, побеждает больший итог
	snap = m.Snapshot()
	if snap.Status != StatusFinished {
		t.Fatalf("статус = %s, ожидался finished", snap.Status)
	}
	if snap.WinnerSeat == nil || *snap.WinnerSeat != 0 {
		t.Fatalf("победитель = %v, ожидалось место 0", snap.WinnerSeat)
	}
	if snap.Tie {
		t.Fatalf("ничьей быть не должно")
	}
}

func TestFinalRoundAfterBust(t *testing.T) {
	rules := DefaultRules()
	rules.WinScore = 100

	// A берет порог, B фарклится - матч заканчивается после ResolveBust
	m := newPlayingMatch(t, rules, []int{1, 2, 3, 4, 6, 6, 2, 3, 4, 6, 6, 3})

	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("бросок A: %v", err)
	}
	selectFace(t, m, "sess-a", 1)
	if err := m.Bank("sess-a"); err != nil {
		t.Fatalf("банк A: %v", err)
	}

	res, err := m.Roll("sess-b")
	if err != nil {
		t.Fatalf("бросок B: %v", err)
	}
	if !res.Farkle {
		t.Fatalf("ожидался фаркл B")
	}
	m.ResolveBust()

	snap := m.Snapshot()
	if snap.Status != StatusFinished {
		t.Fatalf("статус = %s, ожидался finished", snap.Status)
	}
	if snap.WinnerSeat == nil || *snap.WinnerSeat != 0 {
		t.Fatalf("победитель = %v, ожидалось место 0", snap.WinnerSeat)
	}
}

func TestRestart(t *testing.T) {
	rules := DefaultRules()
	rules.WinScore = 100
	m := newPlayingMatch(t, rules, []int{1, 2, 3, 4, 6, 6, 2, 3, 4, 6, 6, 3})

	if err := m.Restart(); !errors.Is(err, ErrNotFinished) {
		t.Fatalf("рестарт на ходу: err = %v, ожидался ErrNotFinished", err)
	}

	// доигрываем до конца
	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("бросок A: %v", err)
	}
	selectFace(t, m, "sess-a", 1)
	if err := m.Bank("sess-a"); err != nil {
		t.Fatalf("банк A: %v", err)
	}
	if _, err := m.Roll("sess-b"); err != nil {
		t.Fatalf("бросок B: %v", err)
	}
	m.ResolveBust()

	if err := m.Restart(); err != nil {
		t.Fatalf("рестарт: %v", err)
	}

	snap := m.Snapshot()
	if snap.Status != StatusPlaying || snap.CurrentSeat != 0 {
		t.Fatalf("после рестарта: %+v", snap)
	}
	if snap.Players[0].Total != 0 || snap.Players[1].Total != 0 {
		t.Fatalf("итоги не обнулены: %+v", snap.Players)
	}
	if snap.FinalRound || snap.FinalRoundSeat != NoSeat || snap.WinnerSeat != nil {
		t.Fatalf("финальный круг не очищен: %+v", snap)
	}
	if len(snap.Dice) != 0 || snap.RoundScore != 0 {
		t.Fatalf("стол не очищен: %+v", snap)
	}
}

func TestToggleSelectionIsSilent(t *testing.T) {
	m := newPlayingMatch(t, nil, []int{1, 2, 3, 4, 6, 6})
	if _, err := m.Roll("sess-a"); err != nil {
		t.Fatalf("бросок: %v", err)
	}

	// неизвестный id и чужой ход молча игнорируются
	m.ToggleSelection("sess-a", 9999)
	m.ToggleSelection("sess-b", m.Snapshot().Dice[0].ID)

	for _, d := range m.Snapshot().Dice {
		if d.Selected {
			t.Fatalf("отметка появилась из невалидного ввода: %+v", d)
		}
	}
}
