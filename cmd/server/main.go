package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/agent"
	"github.com/Shimobouzi/FilmWorker/internal/engine"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
	"github.com/Shimobouzi/FilmWorker/internal/server"
	"github.com/Shimobouzi/FilmWorker/internal/version"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var replayID int
	var botTurns int
	// Читаем флаг -replay. По умолчанию -1 (живой режим).
	flag.IntVar(&replayID, "replay", -1, "Stored replay id to simulate headlessly (-1 for live server)")
	// -bot N: автопилот записывает N обрезанных ходов и проходит этап (0 - выключен)
	flag.IntVar(&botTurns, "bot", 0, "Run an autopilot that records N cut turns before heading to the goal")
	flag.Parse()

	logger.Log.Info("Starting FilmWorker...")
	logger.Log.Info(version.String())

	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Invalid configuration")
	}

	store, err := storage.Open(cfg.StoreKind, cfg.StorePath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open replay store")
	}
	if c, ok := store.(interface{ Close() error }); ok {
		defer c.Close()
	}
	logger.Log.WithFields(logrus.Fields{
		"store": cfg.StoreKind,
		"path":  cfg.StorePath,
	}).Info("Replay store opened")

	// РЕЖИМ РЕПЛЕЯ
	if replayID >= 0 {
		logger.Log.Info("Mode: Replay Simulation")
		if err := simulate(cfg, store, replayID); err != nil {
			logger.Log.WithError(err).Error("Replay simulation failed")
			os.Exit(1)
		}
		return // Выходим после симуляции
	}

	// 2. Инициализация ядра с конфигом
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService := engine.NewService(cfg, store)
	gameService.Start(ctx)

	if botTurns > 0 {
		bot := agent.NewBot("autopilot", gameService)
		bot.CutTurns = botTurns
		bot.CutAfter = 1
		go bot.Run()
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 3. Запуск сервера
	srv := server.New(gameService, cfg.Port)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown failed")
	}
	cancel()

	logger.Log.Info("Done.")
}

// simulate проигрывает сохраненную запись так же, как это делает призрак, и логирует путь.
func simulate(cfg engine.Config, store storage.Store, id int) error {
	rec, err := store.LoadByID(id)
	if err != nil {
		return err
	}

	trace, err := engine.PlaybackTrace(cfg, rec)
	if err != nil {
		return err
	}

	for _, s := range trace {
		logger.Log.WithFields(logrus.Fields{
			"tick":       s.Tick,
			"time":       s.Time,
			"horizontal": s.Input.Horizontal,
			"jump":       s.Input.Jump,
			"action":     s.Input.Action,
			"x":          s.Pos.X,
			"y":          s.Pos.Y,
		}).Debug("Playback sample")
	}

	fields := logrus.Fields{
		"replay_id": id,
		"frames":    len(rec.Frames),
		"ticks":     len(trace),
	}
	if n := len(trace); n > 0 {
		fields["final_x"] = trace[n-1].Pos.X
		fields["final_y"] = trace[n-1].Pos.Y
	}
	logger.Log.WithFields(fields).Info("Replay simulation finished")
	return nil
}
