package engine

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/ghost"
	"github.com/Shimobouzi/FilmWorker/internal/input"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// Agent - управляемое игроком тело. *systems.Body реализует этот интерфейс.
type Agent interface {
	Position() domain.Vec2
	SetPose(pos domain.Vec2)
	ResetMotion()
	SetEnabled(enabled bool)
}

// RecordSaver - часть хранилища, в которую пишет автомат ходов.
type RecordSaver interface {
	Save(rec domain.ReplayRecord) (int, error)
	DeleteAll() error
}

// TurnMachine ведет фазы этапа: запись -> редактирование -> запись ... -> пройдено.
// Единственный владелец отложенной записи.
type TurnMachine struct {
	cfg      Config
	recorder *input.Recorder
	ghosts   *ghost.Registry
	store    RecordSaver
	agent    Agent

	phase       domain.Phase
	turnCount   int
	goalReached bool
	phaseTime   float64

	// Отложенная запись ждет следующего Action; nil - записи нет
	pending         *domain.ReplayRecord
	pendingDuration float64
	editSpeed       float64
	editLoop        bool

	target *ghost.Ghost
	lastID int
}

func NewTurnMachine(cfg Config, rec *input.Recorder, ghosts *ghost.Registry, store RecordSaver, agent Agent) *TurnMachine {
	m := &TurnMachine{
		cfg:       cfg,
		recorder:  rec,
		ghosts:    ghosts,
		store:     store,
		agent:     agent,
		phase:     domain.PhaseActionIdle,
		turnCount: domain.FirstTurn,
		editSpeed: domain.Clamp(cfg.DefaultEditSpeed, cfg.EditSpeedMin, cfg.EditSpeedMax),
		editLoop:  cfg.DefaultEditLoop,
		lastID:    -1,
	}
	m.agent.SetEnabled(false)
	return m
}

func (m *TurnMachine) log() *logrus.Entry {
	return logger.For("turn").WithFields(logrus.Fields{
		"phase": m.phase.String(),
		"turn":  m.turnCount,
	})
}

// Tick вычисляет переходы ровно один раз за тик.
// Ошибка хранилища не откатывает переход: фаза уже сменилась, ошибка только сообщается.
func (m *TurnMachine) Tick(delta float64, trig domain.Triggers) error {
	m.phaseTime += delta

	switch m.phase {
	case domain.PhaseCleared:
		return nil

	case domain.PhaseActionIdle, domain.PhaseEdit:
		if trig.Action {
			m.startRecording()
		}

	case domain.PhaseActionRecording:
		// Призрак мог самоудалиться между тиками
		if m.target != nil && !m.target.Alive() {
			m.target = nil
		}

		if m.goalReachedNow() {
			return m.finishRecording(true)
		}

		if m.turnCount >= domain.StopTurnStart {
			if m.cfg.AutoTarget {
				m.retarget(m.nearestGhost())
			}
			if trig.Stop {
				m.handleStop()
			}
		}

		if trig.Cut {
			return m.finishRecording(false)
		}
	}
	return nil
}

// startRecording - переход Idle/Edit -> ActionRecording.
func (m *TurnMachine) startRecording() {
	start := m.cfg.StartPos()
	leavingEdit := m.phase == domain.PhaseEdit

	// 1. Игрок возвращается на старт
	if leavingEdit {
		m.agent.SetPose(start)
		m.agent.ResetMotion()
	}

	// 2. Отредактированная запись становится призраком (перемещение, не копия)
	if leavingEdit && m.pending != nil {
		rec := *m.pending
		m.pending = nil
		m.pendingDuration = 0
		rec.Speed = m.editSpeed
		rec.Loop = m.editLoop
		m.ghosts.Spawn(rec, &start)
	}

	// 3. Все призраки играют сначала
	m.ghosts.RestartAll(start)

	// 4. Новая запись
	m.recorder.Begin()
	m.setPhase(domain.PhaseActionRecording)
}

// finishRecording завершает запись по Cut (goal=false) или по достижению цели.
func (m *TurnMachine) finishRecording(goal bool) error {
	rec, err := m.recorder.End()
	if err != nil {
		return fmt.Errorf("finish recording: %w", err)
	}

	id, saveErr := m.store.Save(rec)
	if saveErr == nil {
		m.lastID = id
	}

	if goal {
		// Запись с целью не редактируется и не воспроизводится
		m.pending = nil
		m.pendingDuration = 0
		m.setPhase(domain.PhaseCleared)
		m.log().WithFields(logrus.Fields{
			"frames":   len(rec.Frames),
			"duration": rec.EndTime,
		}).Info("Stage cleared (goal reached)")
	} else {
		m.pending = &rec
		m.pendingDuration = math.Max(0, rec.EndTime)
		m.editSpeed = domain.Clamp(m.editSpeed, m.cfg.EditSpeedMin, m.cfg.EditSpeedMax)
		// Со следующего хода доступен Stop
		m.turnCount = max(domain.StopTurnStart, m.turnCount+1)
		m.setPhase(domain.PhaseEdit)
	}

	if saveErr != nil {
		return fmt.Errorf("save replay: %w", saveErr)
	}
	return nil
}

func (m *TurnMachine) setPhase(next domain.Phase) {
	prev := m.phase
	m.phase = next
	m.phaseTime = 0

	// Игрок управляем только во время записи
	m.agent.SetEnabled(next == domain.PhaseActionRecording)
	if next != domain.PhaseActionRecording {
		m.clearTarget()
	}

	m.log().WithField("from", prev.String()).Debug("Phase changed")
}

func (m *TurnMachine) goalReachedNow() bool {
	if m.goalReached {
		return true
	}
	if m.agent.Position().DistanceTo(m.cfg.GoalPos()) <= m.cfg.GoalRadius {
		m.goalReached = true
	}
	return m.goalReached
}

func (m *TurnMachine) nearestGhost() *ghost.Ghost {
	return m.ghosts.FindNearest(m.agent.Position(), m.cfg.StopRadius)
}

// handleStop: новый ближайший призрак становится целью, повторный Stop по той же цели
// переключает ее паузу. В режиме AutoTarget цель уже выбрана, Stop только переключает.
func (m *TurnMachine) handleStop() {
	if !m.cfg.AutoTarget {
		if nearest := m.nearestGhost(); nearest != m.target {
			m.retarget(nearest)
			return
		}
	}
	if m.target != nil {
		m.target.TogglePaused()
		m.log().WithFields(logrus.Fields{
			"ghost_id": m.target.ID(),
			"paused":   m.target.Paused(),
		}).Debug("Target pause toggled")
	}
}

func (m *TurnMachine) retarget(next *ghost.Ghost) {
	if next == m.target {
		return
	}
	if m.target != nil {
		m.target.SetHighlighted(false)
	}
	m.target = next
	if m.target != nil {
		m.target.SetHighlighted(true)
	}
}

func (m *TurnMachine) clearTarget() {
	m.retarget(nil)
}

// NotifyGoalReached - внешний сигнал о цели (например, триггер-зона).
// Учитывается на следующем тике записи.
func (m *TurnMachine) NotifyGoalReached() {
	if m.phase == domain.PhaseCleared {
		return
	}
	m.goalReached = true
}

// StartStage сбрасывает этап: удаляет сохраненные записи, призраков и отложенную запись.
func (m *TurnMachine) StartStage() error {
	err := m.store.DeleteAll()

	m.ghosts.ClearAll()
	m.recorder.Reset()
	m.pending = nil
	m.pendingDuration = 0
	m.turnCount = domain.FirstTurn
	m.goalReached = false
	m.editSpeed = domain.Clamp(m.cfg.DefaultEditSpeed, m.cfg.EditSpeedMin, m.cfg.EditSpeedMax)
	m.editLoop = m.cfg.DefaultEditLoop
	m.lastID = -1
	m.target = nil

	m.agent.SetPose(m.cfg.StartPos())
	m.agent.ResetMotion()
	m.setPhase(domain.PhaseActionIdle)

	m.log().Info("Stage started")
	if err != nil {
		return fmt.Errorf("delete stored replays: %w", err)
	}
	return nil
}

// --- Редактирование ---

// SetEditSpeed задает скорость для следующего призрака, зажимая ее в границы конфига.
func (m *TurnMachine) SetEditSpeed(speed float64) error {
	if m.phase == domain.PhaseCleared {
		return domain.ErrStageCleared
	}
	if math.IsNaN(speed) {
		speed = m.cfg.EditSpeedMin
	}
	m.editSpeed = domain.Clamp(speed, m.cfg.EditSpeedMin, m.cfg.EditSpeedMax)
	return nil
}

func (m *TurnMachine) SetEditLoop(loop bool) error {
	if m.phase == domain.PhaseCleared {
		return domain.ErrStageCleared
	}
	m.editLoop = loop
	return nil
}

// SetEditRange обрезает отложенную запись: start в [0, длительность], end в [start, длительность].
// Длительность - исходная длина записи, а не текущий end.
func (m *TurnMachine) SetEditRange(start, end float64) error {
	if m.phase == domain.PhaseCleared {
		return domain.ErrStageCleared
	}
	if m.pending == nil {
		return fmt.Errorf("set edit range: %w", domain.ErrNoPendingRecord)
	}

	if math.IsNaN(start) {
		start = 0
	}
	if math.IsNaN(end) {
		end = m.pendingDuration
	}
	s := domain.Clamp(start, 0, m.pendingDuration)
	e := domain.Clamp(end, s, m.pendingDuration)
	m.pending.StartTime = s
	m.pending.EndTime = e
	return nil
}

// --- Аксессоры для снапшота ---

func (m *TurnMachine) Phase() domain.Phase  { return m.phase }
func (m *TurnMachine) TurnCount() int       { return m.turnCount }
func (m *TurnMachine) Cleared() bool        { return m.phase == domain.PhaseCleared }
func (m *TurnMachine) PhaseTime() float64   { return m.phaseTime }
func (m *TurnMachine) EditSpeed() float64   { return m.editSpeed }
func (m *TurnMachine) EditLoop() bool       { return m.editLoop }
func (m *TurnMachine) Target() *ghost.Ghost { return m.target }
func (m *TurnMachine) HasPending() bool     { return m.pending != nil }

// PendingDuration - исходная длина отложенной записи (граница для SetEditRange).
func (m *TurnMachine) PendingDuration() float64 { return m.pendingDuration }

// LastSavedID - id последней успешно сохраненной записи (-1, если не было).
func (m *TurnMachine) LastSavedID() (int, bool) {
	return m.lastID, m.lastID >= 0
}

// PendingRecord возвращает копию отложенной записи.
func (m *TurnMachine) PendingRecord() (domain.ReplayRecord, bool) {
	if m.pending == nil {
		return domain.ReplayRecord{}, false
	}
	return m.pending.Clone(), true
}

func (m *TurnMachine) PendingStart() float64 {
	if m.pending == nil {
		return 0
	}
	return math.Max(0, m.pending.StartTime)
}

func (m *TurnMachine) PendingEnd() float64 {
	if m.pending == nil {
		return 0
	}
	return math.Max(0, m.pending.EndTime)
}
