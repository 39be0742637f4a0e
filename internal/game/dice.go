package game

import (
	"crypto/rand"
	"math/big"
)

const DiceSides = 6

// один кубик на столе
// ID уникален в пределах текущего броска матча, Selected переключает
// текущий игрок - кубики уничтожаются целиком при каждом новом броске
type Die struct {
	ID       int  `json:"id"`
	Face     int  `json:"face"`
	Selected bool `json:"selected"`
}

// источник равномерных значений граней 1-6
// интерфейс нужен тестам, чтобы матч был детерминированным
type Roller interface {
	Face() int
}

// боевой генератор на crypto/rand
type cryptoRoller struct{}

func NewRoller() Roller {
	return cryptoRoller{}
}

func (cryptoRoller) Face() int {
	// генерируем криптографически безопасное случайное число (1-6)
	n, err := rand.Int(rand.Reader, big.NewInt(DiceSides))
	if err != nil {
		// запасной вариант - никогда не должно происходить
		n = big.NewInt(0)
	}
	return int(n.Int64()) + 1
}

// faces извлекает значения граней из набора кубиков
func faces(dice []Die) []int {
	out := make([]int, len(dice))
	for i, d := range dice {
		out[i] = d.Face
	}
	return out
}

// selectedFaces извлекает грани только отмеченных кубиков
func selectedFaces(dice []Die) []int {
	var out []int
	for _, d := range dice {
		if d.Selected {
			out = append(out, d.Face)
		}
	}
	return out
}
