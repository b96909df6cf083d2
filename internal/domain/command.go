package domain

import (
	"encoding/json"
	"strings"
)

// CommandType - внутренний числовой идентификатор внешней команды
type CommandType uint8

const (
	CommandUnknown CommandType = iota
	CommandInit
	CommandMove
	CommandJump
	CommandAction
	CommandCut
	CommandStop
	CommandEditSpeed
	CommandEditLoop
	CommandEditRange
	CommandReset
	CommandSpawnLatest
)

// Маппинг для конвертации JSON -> Domain
var commandStringToType = map[string]CommandType{
	"INIT":         CommandInit,
	"MOVE":         CommandMove,
	"JUMP":         CommandJump,
	"ACTION":       CommandAction,
	"CUT":          CommandCut,
	"STOP":         CommandStop,
	"EDIT_SPEED":   CommandEditSpeed,
	"EDIT_LOOP":    CommandEditLoop,
	"EDIT_RANGE":   CommandEditRange,
	"RESET":        CommandReset,
	"SPAWN_LATEST": CommandSpawnLatest,
}

// Маппинг для логов Domain -> String
var commandTypeToString = map[CommandType]string{}

func init() {
	for s, c := range commandStringToType {
		commandTypeToString[c] = s
	}
}

// ParseCommand конвертирует строку из JSON в CommandType
func ParseCommand(s string) CommandType {
	// Делаем нечувствительным к регистру и пробелам
	upper := strings.ToUpper(strings.TrimSpace(s))
	if val, ok := commandStringToType[upper]; ok {
		return val
	}
	return CommandUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (c CommandType) String() string {
	if val, ok := commandTypeToString[c]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsTrigger true для команд, которые защелкиваются до следующего тика
func (c CommandType) IsTrigger() bool {
	switch c {
	case CommandJump, CommandAction, CommandCut, CommandStop:
		return true
	}
	return false
}

// InternalCommand - команда после парсинга, готовая к применению в тике
type InternalCommand struct {
	Type     CommandType
	ClientID string
	Payload  json.RawMessage
}

// Triggers - фронты, защелкнутые командами с прошлого тика.
// Автомат ходов читает их ровно один раз за тик.
type Triggers struct {
	Action bool
	Cut    bool
	Stop   bool
}

// Any true, если защелкнут хотя бы один фронт.
func (t Triggers) Any() bool {
	return t.Action || t.Cut || t.Stop
}
