package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// AddLog добавляет лог в историю сессии
func (s *Session) AddLog(text, logType string) {
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	logger.Log.WithFields(logrus.Fields{
		"tick":      s.CurrentTick,
		"component": "session_log",
		"log_type":  logType,
	}).Info(text)
}

// DrainLogs возвращает накопленные логи и очищает историю.
func (s *Session) DrainLogs() []api.LogEntry {
	logs := s.Logs
	s.Logs = []api.LogEntry{}
	return logs
}
