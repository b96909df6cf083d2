package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Полный снимок этапа после очередного тика: фаза, игрок, призраки, параметры редактирования.
type ServerResponse struct {
	// Type тип сообщения: "UPDATE" или "ERROR".
	Type string `json:"type"`

	// Tick номер логического тика. Time - виртуальное время сессии в секундах.
	Tick uint64  `json:"tick"`
	Time float64 `json:"time"`

	// MyClientID ID соединения, которому адресован снимок.
	MyClientID string `json:"myClientId,omitempty"`

	// Phase текущая фаза: ACTION_IDLE, ACTION_RECORDING, EDIT, CLEARED.
	Phase string `json:"phase"`

	// Turn номер хода записи. Stop доступен начиная со второго.
	Turn int `json:"turn"`

	Player PlayerView `json:"player"`
	Goal   GoalView   `json:"goal"`

	// Recording присутствует только во время записи.
	Recording *RecordingView `json:"recording,omitempty"`

	// Edit параметры, которые применятся к следующему призраку.
	Edit EditView `json:"edit"`

	// Ghosts все живые призраки в порядке spawnIndex.
	Ghosts []GhostView `json:"ghosts"`

	// TargetID ID подсвеченного призрака (пусто, если цели нет).
	TargetID string `json:"targetId,omitempty"`

	// StoredReplays количество сохраненных записей.
	StoredReplays int `json:"storedReplays"`

	// Logs новые сообщения с прошлого снимка.
	Logs []LogEntry `json:"logs,omitempty"`
}

// PlayerView - управляемое тело игрока.
type PlayerView struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Enabled bool    `json:"enabled"`
}

// GoalView - зона цели этапа.
type GoalView struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// RecordingView - состояние идущей записи.
type RecordingView struct {
	Elapsed float64 `json:"elapsed"`
	Frames  int     `json:"frames"`
}

// EditView - параметры редактирования и отложенная запись.
type EditView struct {
	Speed   float64      `json:"speed"`
	Loop    bool         `json:"loop"`
	Pending *PendingView `json:"pending,omitempty"`
}

// PendingView - отложенная запись, ожидающая следующего Action.
type PendingView struct {
	Duration float64 `json:"duration"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Frames   int     `json:"frames"`
}

// GhostView это DTO для одного призрака.
type GhostView struct {
	ID          string  `json:"id"`
	SpawnIndex  int     `json:"spawnIndex"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Paused      bool    `json:"paused"`
	Highlighted bool    `json:"highlighted"`

	// Состояние курсора воспроизведения
	Time  float64 `json:"time"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Speed float64 `json:"speed"`
	Loop  bool    `json:"loop"`
}

// LogEntry представляет одну запись в логе сессии.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// ReplaySummary - строка списка сохраненных записей (/debug/replays).
type ReplaySummary struct {
	ID        int     `json:"id"`
	Frames    int     `json:"frames"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Speed     float64 `json:"speed"`
	Loop      bool    `json:"loop"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID клиента. Сервер подставляет его сам после рукопожатия.
	Token string `json:"token,omitempty"`

	// Action название команды: INIT, MOVE, JUMP, ACTION, CUT, STOP,
	// EDIT_SPEED, EDIT_LOOP, EDIT_RANGE, RESET, SPAWN_LATEST.
	Action string `json:"action"`

	// Payload JSON-объект с данными для команды. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// MovePayload используется для MOVE: удерживаемое значение горизонтальной оси.
type MovePayload struct {
	Horizontal float64 `json:"horizontal"`
}

// SpeedPayload используется для EDIT_SPEED.
type SpeedPayload struct {
	Speed float64 `json:"speed"`
}

// LoopPayload используется для EDIT_LOOP.
type LoopPayload struct {
	Loop bool `json:"loop"`
}

// RangePayload используется для EDIT_RANGE (секунды записи).
type RangePayload struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}
