package systems

import "github.com/Shimobouzi/FilmWorker/internal/domain"

// Candidate - потенциальная цель для выбора ближайшей.
type Candidate struct {
	Pos   domain.Vec2
	Order int // порядок появления; меньший выигрывает при равенстве дистанций
}

// NearestWithin возвращает индекс кандидата с минимальным квадратом расстояния
// до origin в пределах radius (включительно). При точном равенстве выигрывает
// меньший Order. ok == false, если никто не попал в радиус.
func NearestWithin(origin domain.Vec2, radius float64, candidates []Candidate) (idx int, ok bool) {
	if radius < 0 {
		return -1, false
	}
	limit := radius * radius

	idx = -1
	var best float64
	for i, c := range candidates {
		d := origin.DistanceSquaredTo(c.Pos)
		if d > limit {
			continue
		}
		if idx == -1 || d < best || (d == best && c.Order < candidates[idx].Order) {
			idx = i
			best = d
		}
	}
	return idx, idx != -1
}
