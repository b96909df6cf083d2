package domain

// Границы скорости воспроизведения. Применяются при каждом чтении Speed.
const (
	PlaybackSpeedMin = 0.01
	PlaybackSpeedMax = 100.0
)

// LoopEpsilon - минимальная длина окна при зацикливании (защита от mod 0).
const LoopEpsilon = 1e-6

// FirstTurn - номер первого хода записи; стоп-цели доступны начиная со второго.
const (
	FirstTurn     = 1
	StopTurnStart = 2
)
