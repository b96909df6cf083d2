package domain

import "errors"

var (
	// ErrNotRecording - остановка записи, когда запись не идет.
	ErrNotRecording = errors.New("recorder is not recording")
	// ErrNoPendingRecord - операция над отложенной записью, которой нет.
	ErrNoPendingRecord = errors.New("no pending record")
	// ErrRecordNotFound - запись с таким id отсутствует в хранилище.
	ErrRecordNotFound = errors.New("replay record not found")
	// ErrNoRecords - хранилище пусто.
	ErrNoRecords = errors.New("no stored replay records")
	// ErrStageCleared - этап пройден, переходы больше невозможны.
	ErrStageCleared = errors.New("stage already cleared")
	// ErrInvalidPayload - параметры команды не прошли валидацию.
	ErrInvalidPayload = errors.New("invalid payload")
)
