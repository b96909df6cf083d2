package domain

import "math"

// ReplayRecord - законченная запись ввода плюс параметры воспроизведения.
// Frames только дописываются во время записи; после финализации меняются
// лишь StartTime/EndTime/Speed/Loop (фаза редактирования).
type ReplayRecord struct {
	Frames    []InputFrame `json:"frames"`
	StartTime float64      `json:"startTime"`
	EndTime   float64      `json:"endTime"`
	Speed     float64      `json:"speed"`
	Loop      bool         `json:"loop"`
}

// NewReplayRecord создает запись с параметрами воспроизведения по умолчанию.
func NewReplayRecord(frames []InputFrame, endTime float64) ReplayRecord {
	return ReplayRecord{
		Frames:    frames,
		StartTime: 0,
		EndTime:   endTime,
		Speed:     1,
		Loop:      false,
	}
}

// Clone возвращает глубокую копию (собственный срез кадров).
func (r ReplayRecord) Clone() ReplayRecord {
	out := r
	if r.Frames != nil {
		out.Frames = make([]InputFrame, len(r.Frames))
		copy(out.Frames, r.Frames)
	}
	return out
}

// LastFrameTime - время последнего кадра по индексу (0 для пустой записи).
func (r ReplayRecord) LastFrameTime() float64 {
	if len(r.Frames) == 0 {
		return 0
	}
	return r.Frames[len(r.Frames)-1].Time
}

// Window вычисляет эффективное окно воспроизведения.
// start = max(0, StartTime); end = EndTime, если он больше start,
// иначе max(start, время последнего кадра).
func (r ReplayRecord) Window() (start, end float64) {
	start = math.Max(0, r.StartTime)
	if r.EndTime > start {
		return start, r.EndTime
	}
	return start, math.Max(start, r.LastFrameTime())
}

// ClampedSpeed - скорость, зажатая в [PlaybackSpeedMin, PlaybackSpeedMax].
// Сырое значение Speed никогда не используется напрямую.
func (r ReplayRecord) ClampedSpeed() float64 {
	return ClampSpeed(r.Speed)
}

// ClampSpeed зажимает скорость воспроизведения. NaN трактуется как минимум.
func ClampSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return PlaybackSpeedMin
	}
	return Clamp(speed, PlaybackSpeedMin, PlaybackSpeedMax)
}

// Clamp зажимает v в [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
