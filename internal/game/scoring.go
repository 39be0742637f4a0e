package game

// Движок подсчета очков. Все функции чистые и детерминированные
// относительно (грани, правила); порядок граней не имеет значения.

// подсчет граней: counts[f] = сколько кубиков со значением f
func faceCounts(dice []int) (counts [7]int, total int) {
	for _, f := range dice {
		if f >= 1 && f <= DiceSides {
			counts[f]++
			total++
		}
	}
	return counts, total
}

func distinctFaces(counts [7]int) int {
	n := 0
	for f := 1; f <= DiceSides; f++ {
		if counts[f] > 0 {
			n++
		}
	}
	return n
}

// все грани от lo до hi присутствуют хотя бы по одному разу
func hasRun(counts [7]int, lo, hi int) bool {
	for f := lo; f <= hi; f++ {
		if counts[f] == 0 {
			return false
		}
	}
	return true
}

// три различные грани, каждая ровно по два раза
func isThreePairs(counts [7]int) bool {
	pairs := 0
	for f := 1; f <= DiceSides; f++ {
		switch counts[f] {
		case 0:
		case 2:
			pairs++
		default:
			return false
		}
	}
	return pairs == 3
}

// две различные грани, каждая ровно по три раза
func isTwoTriplets(counts [7]int) bool {
	triplets := 0
	for f := 1; f <= DiceSides; f++ {
		switch counts[f] {
		case 0:
		case 3:
			triplets++
		default:
			return false
		}
	}
	return triplets == 2
}

// стоимость N одинаковых граней (N >= 3)
// для единиц и пятерок четверка/пятерка может читаться и как
// "тройка + одиночные" - берем большее из двух прочтений
func nOfAKindValue(face, count int, rules *Rules) int {
	var flat int
	switch count {
	case 3:
		return rules.Triples[face]
	case 4:
		flat = rules.FourOfAKind
	case 5:
		flat = rules.FiveOfAKind
	default:
		if face == 1 {
			flat = rules.SixOnes
		} else {
			flat = rules.SixOfAKind
		}
	}
	if face == 1 || face == 5 {
		stacked := rules.Triples[face] + (count-3)*rules.singleValue(face)
		if stacked > flat {
			return stacked
		}
	}
	return flat
}

// Score вычисляет стоимость всего переданного набора граней как одной
// комбинации. Поиск оптимального разбиения не выполняется - вызывающий
// сам выбирает, какие кубики считаются вместе.
func Score(dice []int, rules *Rules) int {
	counts, total := faceCounts(dice)
	if total == 0 {
		return 0
	}

	// комбинации из шести кубиков, по убыванию приоритета
	if total == 6 {
		if distinctFaces(counts) == 6 {
			return rules.Straight6
		}
		if counts[1] == 6 {
			return rules.SixOnes
		}
		for f := 2; f <= DiceSides; f++ {
			if counts[f] == 6 {
				return rules.SixOfAKind
			}
		}
	}

	if rules.Straight5Enabled && total == 5 && (hasRun(counts, 1, 5) || hasRun(counts, 2, 6)) {
		return rules.Straight5
	}
	if rules.Straight4Enabled && total == 4 &&
		(hasRun(counts, 1, 4) || hasRun(counts, 2, 5) || hasRun(counts, 3, 6)) {
		return rules.Straight4
	}
	if rules.ThreePairsEnabled && total == 6 && isThreePairs(counts) {
		return rules.ThreePairs
	}
	if rules.TwoTripletsEnabled && total == 6 && isTwoTriplets(counts) {
		return rules.TwoTriplets
	}

	// понаборное накопление: тройки и больше по номиналу,
	// остаток только за счет одиночных единиц и пятерок
	score := 0
	for f := 1; f <= DiceSides; f++ {
		c := counts[f]
		if c == 0 {
			continue
		}
		if c >= 3 {
			score += nOfAKindValue(f, c, rules)
		} else {
			score += c * rules.singleValue(f)
		}
	}
	return score
}

// HasAnyScoringMove проверяет, существует ли хоть одно непустое
// подмножество свежего броска со Score > 0. false означает фаркл.
func HasAnyScoringMove(dice []int, rules *Rules) bool {
	counts, total := faceCounts(dice)
	if total == 0 {
		return false
	}

	if counts[1] > 0 || counts[5] > 0 {
		return true
	}
	for f := 1; f <= DiceSides; f++ {
		if counts[f] >= 3 {
			return true
		}
	}
	if total == 6 && distinctFaces(counts) == 6 {
		return true
	}
	if rules.ThreePairsEnabled && total == 6 && isThreePairs(counts) {
		return true
	}
	if rules.TwoTripletsEnabled && total == 6 && isTwoTriplets(counts) {
		return true
	}
	if rules.Straight5Enabled && (hasRun(counts, 1, 5) || hasRun(counts, 2, 6)) {
		return true
	}
	if rules.Straight4Enabled &&
		(hasRun(counts, 1, 4) || hasRun(counts, 2, 5) || hasRun(counts, 3, 6)) {
		return true
	}
	return false
}

// IsCompleteSelection проверяет, что выбор приносит очки и что каждый
// выбранный кубик вносит вклад (нет "мертвых" кубиков в довесок).
func IsCompleteSelection(dice []int, rules *Rules) bool {
	counts, total := faceCounts(dice)
	if total == 0 {
		return false
	}

	// целиковые комбинации полны по построению
	if total == 6 {
		if distinctFaces(counts) == 6 {
			return true
		}
		for f := 1; f <= DiceSides; f++ {
			if counts[f] == 6 {
				return true
			}
		}
		if rules.ThreePairsEnabled && isThreePairs(counts) {
			return true
		}
		if rules.TwoTripletsEnabled && isTwoTriplets(counts) {
			return true
		}
	}
	if rules.Straight5Enabled && total == 5 && (hasRun(counts, 1, 5) || hasRun(counts, 2, 6)) {
		return true
	}
	if rules.Straight4Enabled && total == 4 &&
		(hasRun(counts, 1, 4) || hasRun(counts, 2, 5) || hasRun(counts, 3, 6)) {
		return true
	}

	// единицы и пятерки всегда в деле, остальные грани только тройкой и больше
	for f := 2; f <= DiceSides; f++ {
		if f == 5 {
			continue
		}
		if c := counts[f]; c > 0 && c < 3 {
			return false
		}
	}
	return Score(dice, rules) > 0
}
