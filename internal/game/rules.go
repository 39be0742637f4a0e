package game

// таблица очков и переключатели правил для одного матча
// неизменяема после создания - все вызовы движка подсчета являются
// чистыми функциями от (кубики, правила)
type Rules struct {
	WinScore int `json:"win_score"` // порог победы, запускает финальный круг

	Single1 int `json:"single_1"` // одиночная единица
	Single5 int `json:"single_5"` // одиночная пятерка

	// тройки по номиналу (индекс = значение грани, 0 не используется)
	Triples [7]int `json:"triples"`

	FourOfAKind int `json:"four_of_a_kind"`
	FiveOfAKind int `json:"five_of_a_kind"`
	SixOfAKind  int `json:"six_of_a_kind"`
	SixOnes     int `json:"six_ones"` // шесть единиц - отдельно от обычных шести одинаковых

	Straight6 int `json:"straight_6"` // 1-2-3-4-5-6

	// опциональные комбинации
	Straight5Enabled   bool `json:"straight_5_enabled"` // 1-5 или 2-6
	Straight5          int  `json:"straight_5"`
	Straight4Enabled   bool `json:"straight_4_enabled"` // 1-4, 2-5 или 3-6
	Straight4          int  `json:"straight_4"`
	ThreePairsEnabled  bool `json:"three_pairs_enabled"`
	ThreePairs         int  `json:"three_pairs"`
	TwoTripletsEnabled bool `json:"two_triplets_enabled"`
	TwoTriplets        int  `json:"two_triplets"`
}

const DefaultWinScore = 10000

// классическая таблица очков
func DefaultRules() *Rules {
	return &Rules{
		WinScore: DefaultWinScore,

		Single1: 100,
		Single5: 50,

		Triples: [7]int{0, 1000, 200, 300, 400, 500, 600},

		FourOfAKind: 1000,
		FiveOfAKind: 2000,
		SixOfAKind:  3000,
		SixOnes:     5000,

		Straight6: 1500,

		Straight5Enabled:   true,
		Straight5:          750,
		Straight4Enabled:   false,
		Straight4:          500,
		ThreePairsEnabled:  true,
		ThreePairs:         1500,
		TwoTripletsEnabled: true,
		TwoTriplets:        2500,
	}
}

// значение одиночного кубика (только 1 и 5 имеют его)
func (r *Rules) singleValue(face int) int {
	switch face {
	case 1:
		return r.Single1
	case 5:
		return r.Single5
	default:
		return 0
	}
}
