package engine

import (
	"fmt"
	"math"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/input"
	"github.com/Shimobouzi/FilmWorker/internal/systems"
)

// TraceSample - одна точка безголового воспроизведения.
type TraceSample struct {
	Tick  int
	Time  float64
	Input domain.InputFrame
	Pos   domain.Vec2
}

// maxTraceTicks ограничивает зацикленные записи.
const maxTraceTicks = 1 << 20

// PlaybackTrace проигрывает запись через Cursor и тело с кинематикой конфига,
// как это делает призрак, и возвращает пройденный путь.
// Зацикленная запись проигрывается ровно одно окно.
func PlaybackTrace(cfg Config, rec domain.ReplayRecord) ([]TraceSample, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cursor := input.NewCursor(rec)
	body := systems.NewBody(cfg.Kinematics(), cfg.StartPos())
	delta := cfg.DeltaSeconds()

	start, end := cursor.GetStartTime(), cursor.GetEndTime()
	// Сколько тиков займет одно окно при текущей скорости
	// Проверяем во float64: огромное или бесконечное окно переполнит int
	ticks := (end - start) / (delta * cursor.GetSpeed())
	if math.IsNaN(ticks) || math.IsInf(ticks, 0) || ticks >= maxTraceTicks {
		return nil, fmt.Errorf("replay window [%v, %v] too long to trace", start, end)
	}
	limit := int(ticks) + 1

	trace := make([]TraceSample, 0, limit)
	for tick := 1; tick <= limit; tick++ {
		cursor.Advance(delta)
		if cursor.Ended() {
			break
		}
		frame := cursor.CurrentFrame()
		body.Step(cursor, delta)
		trace = append(trace, TraceSample{
			Tick:  tick,
			Time:  cursor.GetTime(),
			Input: frame,
			Pos:   body.Position(),
		})
	}
	return trace, nil
}
