package handlers

import (
	"encoding/json"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/ghost"
	"github.com/Shimobouzi/FilmWorker/internal/input"
)

// TurnControls - внешние рычаги автомата ходов, доступные командам.
// *engine.TurnMachine неявно реализует этот интерфейс.
type TurnControls interface {
	Phase() domain.Phase
	SetEditSpeed(speed float64) error
	SetEditLoop(loop bool) error
	SetEditRange(start, end float64) error
	StartStage() error
}

// GhostSpawner - запуск сохраненной записи как призрака.
type GhostSpawner interface {
	SpawnLatest(pos *domain.Vec2) (*ghost.Ghost, error)
}

// Context передает хендлеру состояние сессии.
// Хендлеры выполняются между тиками, поэтому могут мутировать состояние напрямую.
type Context struct {
	Input    *input.LiveInput
	Triggers *domain.Triggers // Фронты для следующего тика автомата
	Turn     TurnControls
	Ghosts   GhostSpawner
	StartPos domain.Vec2
	ClientID string
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string // Текст лога
	MsgType string // Тип лога (INFO, ERROR)
}

// HandlerFunc - это контракт для любой команды (MOVE, EDIT_SPEED, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
