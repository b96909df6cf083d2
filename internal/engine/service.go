package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
	"github.com/Shimobouzi/FilmWorker/internal/network"
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// ErrQueueFull - очередь команд переполнена, команда отброшена.
var ErrQueueFull = errors.New("command queue is full")

type GameService struct {
	Config  Config
	Session *Session
	Store   storage.Store

	CommandChan chan domain.InternalCommand
	Hub         *network.Broadcaster

	// Последний снимок для debug-эндпоинтов (читается из HTTP горутин)
	mu   sync.RWMutex
	last api.ServerResponse
}

func NewService(cfg Config, store storage.Store) *GameService {
	s := &GameService{
		Config:      cfg,
		Session:     NewSession(cfg, store),
		Store:       store,
		CommandChan: make(chan domain.InternalCommand, 100),
		Hub:         network.NewBroadcaster(),
	}
	s.last = s.Session.BuildSnapshot()
	return s
}

// Start запускает игровой цикл в отдельной горутине.
func (s *GameService) Start(ctx context.Context) {
	go func() {
		if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.For("loop").WithError(err).Error("Game loop stopped")
		}
	}()
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Сама команда применяется в начале следующего тика игрового цикла.
func (s *GameService) ProcessCommand(externalCmd api.ClientCommand) error {
	cmdType := domain.ParseCommand(externalCmd.Action)
	if cmdType == domain.CommandUnknown {
		logger.For("loop").WithField("action", externalCmd.Action).Warn("Unknown command")
		return fmt.Errorf("unknown command %q", externalCmd.Action)
	}

	select {
	case s.CommandChan <- domain.InternalCommand{
		Type:     cmdType,
		ClientID: externalCmd.Token,
		Payload:  externalCmd.Payload,
	}:
		return nil
	default:
		return ErrQueueFull
	}
}

// --- GAME LOOP ---

// Run тикает с фиксированной частотой до отмены ctx.
func (s *GameService) Run(ctx context.Context) error {
	logger.For("loop").WithField("tick_rate", s.Config.TickRate).Info("Game loop started")

	ticker := time.NewTicker(s.Config.TickDelta())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.For("loop").Info("Game loop stopped")
			return ctx.Err()
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step выполняет один тик: команды из очереди -> Session.Tick -> рассылка.
// Delta фиксирована (1/TickRate), поэтому запись и воспроизведение детерминированы.
func (s *GameService) Step() {
	// 1. Команды, пришедшие с прошлого тика
	s.drainCommands()

	// 2. Тик этапа (ошибка уже залогирована сессией)
	_ = s.Session.Tick(s.Config.DeltaSeconds())

	// 3. Рассылка
	s.publishUpdate()
}

func (s *GameService) drainCommands() {
	for {
		select {
		case cmd := <-s.CommandChan:
			s.executeCommand(cmd)
		default:
			return
		}
	}
}

func (s *GameService) executeCommand(cmd domain.InternalCommand) {
	if err := s.Session.ApplyCommand(cmd); err != nil {
		logger.For("loop").WithFields(logrus.Fields{
			"command":   cmd.Type.String(),
			"client_id": cmd.ClientID,
		}).WithError(err).Debug("Command rejected")

		if cmd.ClientID != "" {
			s.Hub.SendTo(cmd.ClientID, api.ServerResponse{
				Type:  "ERROR",
				Tick:  s.Session.CurrentTick,
				Phase: s.Session.Turn.Phase().String(),
				Logs: []api.LogEntry{{
					Text:      err.Error(),
					Type:      "ERROR",
					Timestamp: time.Now().UnixMilli(),
				}},
			})
		}
	}
}

// publishUpdate рассылает актуальный снимок всем подписчикам.
func (s *GameService) publishUpdate() {
	snapshot := s.Session.BuildSnapshot()
	s.Session.DrainLogs()

	s.mu.Lock()
	s.last = snapshot
	s.mu.Unlock()

	if s.Hub.SubscriberCount() > 0 {
		s.Hub.Broadcast(snapshot)
	}
}

// LastSnapshot возвращает снимок после последнего тика.
func (s *GameService) LastSnapshot() api.ServerResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// StoredReplays перечисляет сохраненные записи (для debug).
func (s *GameService) StoredReplays() ([]api.ReplaySummary, error) {
	n, err := s.Store.Count()
	if err != nil {
		return nil, err
	}

	out := make([]api.ReplaySummary, 0, n)
	for id := 0; id < n; id++ {
		rec, err := s.Store.LoadByID(id)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, api.ReplaySummary{
			ID:        id,
			Frames:    len(rec.Frames),
			StartTime: rec.StartTime,
			EndTime:   rec.EndTime,
			Speed:     rec.Speed,
			Loop:      rec.Loop,
		})
	}
	return out, nil
}
