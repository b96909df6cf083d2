package agent

import (
	"encoding/json"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/engine"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// Bot - безголовый игрок (автопилот).
// Подключается к хабу как обычный клиент, получает снимки и отвечает командами
// через ту же очередь, что и WebSocket.
//
// Жизненный цикл:
//  1. NewBot -> регистрация в хабе, получение личного канала (Inbox).
//  2. Run -> цикл в отдельной горутине, читает Inbox.
//  3. На каждый UPDATE вызывается Handle, который решает, какую команду отправить.
type Bot struct {
	ClientID string
	Service  *engine.GameService
	Inbox    chan api.ServerResponse

	// CutTurns - сколько первых ходов обрезать через CutAfter секунд.
	// Эти ходы станут призраками, последний ход идет до цели.
	CutTurns int
	CutAfter float64

	lastH float64
	log   *logrus.Entry
}

func NewBot(clientID string, service *engine.GameService) *Bot {
	b := &Bot{
		ClientID: clientID,
		Service:  service,
		Inbox:    service.Hub.Register(clientID),
		log:      logger.For("bot").WithField("client_id", clientID),
	}
	b.log.Info("Bot registered")
	return b
}

// Run обрабатывает снимки до закрытия Inbox. Должен быть запущен в горутине.
func (b *Bot) Run() {
	defer b.Service.Hub.Unregister(b.ClientID, b.Inbox)

	for state := range b.Inbox {
		if state.Type != "UPDATE" {
			continue
		}
		if done := b.Handle(state); done {
			b.log.WithField("turn", state.Turn).Info("Stage cleared, bot stops")
			return
		}
	}
	b.log.Info("Bot shut down")
}

// Handle принимает решение по одному снимку. true - этап пройден, делать больше нечего.
func (b *Bot) Handle(state api.ServerResponse) bool {
	switch state.Phase {
	case domain.PhaseCleared.String():
		return true

	case domain.PhaseActionIdle.String(), domain.PhaseEdit.String():
		// Новый ход всегда начинается с места
		b.lastH = 0
		b.send(domain.CommandAction, nil)

	case domain.PhaseActionRecording.String():
		if b.shouldCut(state) {
			b.steer(0)
			b.send(domain.CommandCut, nil)
			return false
		}
		b.steer(b.direction(state))
	}
	return false
}

func (b *Bot) shouldCut(state api.ServerResponse) bool {
	if state.Turn > b.CutTurns || state.Recording == nil {
		return false
	}
	return state.Recording.Elapsed >= b.CutAfter
}

// direction - ось к цели; внутри радиуса цели стоим.
func (b *Bot) direction(state api.ServerResponse) float64 {
	dx := state.Goal.X - state.Player.X
	if math.Abs(dx) <= state.Goal.Radius/2 {
		return 0
	}
	if dx > 0 {
		return 1
	}
	return -1
}

// steer шлет MOVE только когда ось меняется.
func (b *Bot) steer(h float64) {
	if h == b.lastH {
		return
	}
	b.lastH = h
	b.send(domain.CommandMove, api.MovePayload{Horizontal: h})
}

// --- Хелперы для отправки команд на сервер ---

func (b *Bot) send(cmdType domain.CommandType, payload interface{}) {
	cmd := api.ClientCommand{
		Action: cmdType.String(),
		Token:  b.ClientID,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			b.log.WithError(err).Error("Error marshalling payload")
			return
		}
		cmd.Payload = raw
	}

	if err := b.Service.ProcessCommand(cmd); err != nil {
		b.log.WithError(err).WithField("action", cmd.Action).Warn("Command not queued")
	}
}
