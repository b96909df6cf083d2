package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers"
	"github.com/Shimobouzi/FilmWorker/internal/engine/handlers/actions"
	"github.com/Shimobouzi/FilmWorker/internal/ghost"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
	"github.com/Shimobouzi/FilmWorker/internal/input"
	"github.com/Shimobouzi/FilmWorker/internal/systems"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// Session - один этап: игрок, запись, призраки и автомат ходов.
// Не потокобезопасна: все вызовы идут из одного игрового цикла.
type Session struct {
	Config Config
	Store  storage.Store

	Live     *input.LiveInput
	Player   *systems.Body
	Recorder *input.Recorder
	Ghosts   *ghost.Registry
	Turn     *TurnMachine

	handlers map[domain.CommandType]handlers.HandlerFunc
	triggers domain.Triggers // Защелкнуты командами до следующего тика

	CurrentTick uint64
	Clock       float64
	LastMove    systems.MovementResult

	Logs []api.LogEntry // Логи с прошлого снимка
}

func NewSession(cfg Config, store storage.Store) *Session {
	start := cfg.StartPos()
	kin := cfg.Kinematics()

	live := input.NewLiveInput()
	player := systems.NewBody(kin, start)
	recorder := input.NewRecorder(live)
	ghosts := ghost.NewRegistry(store, kin, start)

	s := &Session{
		Config:   cfg,
		Store:    store,
		Live:     live,
		Player:   player,
		Recorder: recorder,
		Ghosts:   ghosts,
		Turn:     NewTurnMachine(cfg, recorder, ghosts, store, player),
		handlers: make(map[domain.CommandType]handlers.HandlerFunc),
		Logs:     []api.LogEntry{},
	}
	s.registerHandlers()
	return s
}

func (s *Session) registerHandlers() {
	s.handlers[domain.CommandInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.CommandMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.CommandJump] = handlers.WithEmptyPayload(actions.HandleJump)
	s.handlers[domain.CommandAction] = handlers.WithEmptyPayload(actions.HandleAction)
	s.handlers[domain.CommandCut] = handlers.WithEmptyPayload(actions.HandleCut)
	s.handlers[domain.CommandStop] = handlers.WithEmptyPayload(actions.HandleStop)
	s.handlers[domain.CommandEditSpeed] = handlers.WithPayload(actions.HandleEditSpeed)
	s.handlers[domain.CommandEditLoop] = handlers.WithPayload(actions.HandleEditLoop)
	s.handlers[domain.CommandEditRange] = handlers.WithPayload(actions.HandleEditRange)
	s.handlers[domain.CommandReset] = handlers.WithEmptyPayload(actions.HandleReset)
	s.handlers[domain.CommandSpawnLatest] = handlers.WithEmptyPayload(actions.HandleSpawnLatest)
}

// ApplyCommand выполняет команду между тиками. Фронты (ACTION/CUT/STOP)
// только защелкиваются и будут прочитаны следующим Tick.
func (s *Session) ApplyCommand(cmd domain.InternalCommand) error {
	handler, ok := s.handlers[cmd.Type]
	if !ok {
		return fmt.Errorf("unsupported command %s", cmd.Type)
	}

	ctx := handlers.Context{
		Input:    s.Live,
		Triggers: &s.triggers,
		Turn:     s.Turn,
		Ghosts:   s.Ghosts,
		StartPos: s.Config.StartPos(),
		ClientID: cmd.ClientID,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		s.AddLog(fmt.Sprintf("%s: %v", cmd.Type, err), "ERROR")
		return err
	}
	if result.Msg != "" {
		s.AddLog(result.Msg, result.MsgType)
	}
	return nil
}

// Tick продвигает этап на delta секунд в фиксированном порядке:
// ввод -> автомат ходов -> запись -> тело игрока -> призраки.
// Ошибка хранилища из автомата возвращается, но тик все равно доигрывается.
func (s *Session) Tick(delta float64) error {
	s.CurrentTick++
	s.Clock += delta

	// 1. Публикуем защелкнутые фронты ввода
	s.Live.Poll()

	// 2. Переходы фаз
	trig := s.triggers
	s.triggers = domain.Triggers{}
	err := s.Turn.Tick(delta, trig)
	if err != nil {
		logger.For("session").WithFields(logrus.Fields{
			"tick":  s.CurrentTick,
			"phase": s.Turn.Phase().String(),
		}).WithError(err).Warn("Turn transition reported an error")
		s.AddLog(err.Error(), "ERROR")
	}

	// 3. Запись (no-op вне записи)
	s.Recorder.Tick(delta)

	// 4. Игрок
	s.LastMove = s.Player.Step(s.Live, delta)

	// 5. Призраки
	s.Ghosts.Tick(delta)

	return err
}

// PendingTriggers - фронты, ожидающие следующего тика.
func (s *Session) PendingTriggers() domain.Triggers {
	return s.triggers
}
