package domain

// Phase - фаза пошагового автомата записи/редактирования.
type Phase uint8

const (
	PhaseActionIdle Phase = iota
	PhaseActionRecording
	PhaseEdit
	PhaseCleared
)

var phaseToString = map[Phase]string{
	PhaseActionIdle:      "ACTION_IDLE",
	PhaseActionRecording: "ACTION_RECORDING",
	PhaseEdit:            "EDIT",
	PhaseCleared:         "CLEARED",
}

// String реализует интерфейс Stringer (для логов и снапшотов)
func (p Phase) String() string {
	if val, ok := phaseToString[p]; ok {
		return val
	}
	return "UNKNOWN"
}

// AcceptsAction true для фаз, в которых Action начинает новую запись.
func (p Phase) AcceptsAction() bool {
	return p == PhaseActionIdle || p == PhaseEdit
}
