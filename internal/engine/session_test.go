package engine

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
)

func cmd(t domain.CommandType, payload string) domain.InternalCommand {
	c := domain.InternalCommand{Type: t, ClientID: "test-client"}
	if payload != "" {
		c.Payload = json.RawMessage(payload)
	}
	return c
}

func newTestSession() *Session {
	return NewSession(testConfig(), storage.NewMemoryStore())
}

func mustApply(t *testing.T, s *Session, c domain.InternalCommand) {
	t.Helper()
	if err := s.ApplyCommand(c); err != nil {
		t.Fatalf("%s: %v", c.Type, err)
	}
}

func mustTick(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Tick(s.Config.DeltaSeconds()); err != nil {
		t.Fatalf("tick %d: %v", s.CurrentTick, err)
	}
}

// recordSessionTurn записывает ход из n тиков без ввода и делает CUT.
func recordSessionTurn(t *testing.T, s *Session, n int) {
	t.Helper()
	mustApply(t, s, cmd(domain.CommandAction, ""))
	for i := 0; i < n; i++ {
		mustTick(t, s)
	}
	mustApply(t, s, cmd(domain.CommandCut, ""))
	mustTick(t, s)
	if s.Turn.Phase() != domain.PhaseEdit {
		t.Fatalf("phase after cut = %s", s.Turn.Phase())
	}
}

func TestSession_GhostReproducesPlayerPath(t *testing.T) {
	s := newTestSession()

	const ticks = 60
	script := map[int][]domain.InternalCommand{
		1:  {cmd(domain.CommandAction, ""), cmd(domain.CommandMove, `{"horizontal": 1}`)},
		5:  {cmd(domain.CommandJump, "")},
		15: {cmd(domain.CommandMove, `{"horizontal": -0.5}`)},
		25: {cmd(domain.CommandMove, `{"horizontal": 0}`)},
		30: {cmd(domain.CommandJump, "")},
		38: {cmd(domain.CommandMove, `{"horizontal": 0.75}`)},
		50: {cmd(domain.CommandJump, ""), cmd(domain.CommandMove, `{"horizontal": 0}`)},
	}

	// 1. Ход 1: живой ввод
	path := make([]domain.Vec2, 0, ticks)
	for k := 1; k <= ticks; k++ {
		for _, c := range script[k] {
			mustApply(t, s, c)
		}
		mustTick(t, s)
		path = append(path, s.Player.Position())
	}
	if path[ticks-1] == s.Config.StartPos() {
		t.Fatal("player never moved, script is broken")
	}

	mustApply(t, s, cmd(domain.CommandCut, ""))
	mustTick(t, s)

	// 2. Ход 2: призрак повторяет путь тик в тик
	mustApply(t, s, cmd(domain.CommandAction, ""))
	for k := 1; k <= ticks; k++ {
		mustTick(t, s)
		if s.Ghosts.Len() != 1 {
			t.Fatalf("tick %d: ghosts = %d", k, s.Ghosts.Len())
		}
		got := s.Ghosts.Ghosts()[0].Position()
		want := path[k-1]
		if !approx(got.X, want.X) || !approx(got.Y, want.Y) {
			t.Fatalf("tick %d: ghost at %+v, player was at %+v", k, got, want)
		}
	}

	// 3. Запись кончилась, призрак удаляется
	mustTick(t, s)
	if s.Ghosts.Len() != 0 {
		t.Errorf("ghost not removed after its record ended")
	}
}

func TestSession_CommandErrors(t *testing.T) {
	s := newTestSession()

	tests := []struct {
		name string
		cmd  domain.InternalCommand
		want error
	}{
		{"move out of range", cmd(domain.CommandMove, `{"horizontal": 3}`), domain.ErrInvalidPayload},
		{"move without payload", cmd(domain.CommandMove, ""), domain.ErrInvalidPayload},
		{"broken json", cmd(domain.CommandEditSpeed, `{"speed":`), domain.ErrInvalidPayload},
		{"zero speed", cmd(domain.CommandEditSpeed, `{"speed": 0}`), domain.ErrInvalidPayload},
		{"range without pending", cmd(domain.CommandEditRange, `{"start": 0, "end": 1}`), domain.ErrNoPendingRecord},
		{"spawn from empty store", cmd(domain.CommandSpawnLatest, ""), domain.ErrNoRecords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(s.Logs)
			err := s.ApplyCommand(tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(s.Logs) != before+1 || s.Logs[len(s.Logs)-1].Type != "ERROR" {
				t.Error("rejected command must be logged as ERROR")
			}
		})
	}

	if err := s.ApplyCommand(domain.InternalCommand{Type: domain.CommandUnknown}); err == nil {
		t.Error("unknown command must be rejected")
	}
}

func TestSession_ActionDuringRecordingIsInput(t *testing.T) {
	s := newTestSession()
	mustApply(t, s, cmd(domain.CommandAction, ""))
	if !s.PendingTriggers().Action {
		t.Fatal("ACTION in idle must latch the trigger")
	}
	mustTick(t, s)

	mustApply(t, s, cmd(domain.CommandAction, ""))
	if s.PendingTriggers().Any() {
		t.Fatal("ACTION while recording must not latch a phase trigger")
	}
	mustTick(t, s)
	mustTick(t, s)

	mustApply(t, s, cmd(domain.CommandCut, ""))
	mustTick(t, s)

	rec, ok := s.Turn.PendingRecord()
	if !ok || len(rec.Frames) != 3 {
		t.Fatalf("pending = %v, frames %d", ok, len(rec.Frames))
	}
	if rec.Frames[0].Action || !rec.Frames[1].Action || rec.Frames[2].Action {
		t.Errorf("action must be recorded for exactly one frame: %+v", rec.Frames)
	}
}

func TestSession_ClearedRejectsCommands(t *testing.T) {
	s := newTestSession()
	mustApply(t, s, cmd(domain.CommandAction, ""))
	mustTick(t, s)
	s.Turn.NotifyGoalReached()
	mustTick(t, s)

	if !s.Turn.Cleared() {
		t.Fatalf("phase = %s, want CLEARED", s.Turn.Phase())
	}
	for _, c := range []domain.InternalCommand{
		cmd(domain.CommandAction, ""),
		cmd(domain.CommandCut, ""),
		cmd(domain.CommandStop, ""),
		cmd(domain.CommandEditSpeed, `{"speed": 1}`),
		cmd(domain.CommandEditLoop, `{"loop": true}`),
	} {
		if err := s.ApplyCommand(c); !errors.Is(err, domain.ErrStageCleared) {
			t.Errorf("%s: err = %v, want ErrStageCleared", c.Type, err)
		}
	}

	// RESET остается доступен
	mustApply(t, s, cmd(domain.CommandReset, ""))
	if s.Turn.Phase() != domain.PhaseActionIdle {
		t.Errorf("phase after reset = %s", s.Turn.Phase())
	}
}

func TestSession_Reset(t *testing.T) {
	s := newTestSession()
	recordSessionTurn(t, s, 4)
	mustApply(t, s, cmd(domain.CommandAction, ""))
	mustTick(t, s)
	if s.Ghosts.Len() != 1 {
		t.Fatalf("setup: ghosts = %d", s.Ghosts.Len())
	}

	mustApply(t, s, cmd(domain.CommandMove, `{"horizontal": 1}`))
	mustApply(t, s, cmd(domain.CommandCut, ""))
	mustApply(t, s, cmd(domain.CommandReset, ""))

	if s.PendingTriggers().Any() || s.Live.GetHorizontal() != 0 {
		t.Error("reset must drop held input and latched triggers")
	}
	if s.Turn.Phase() != domain.PhaseActionIdle || s.Ghosts.Len() != 0 {
		t.Errorf("phase %s, ghosts %d", s.Turn.Phase(), s.Ghosts.Len())
	}
	if n, _ := s.Store.Count(); n != 0 {
		t.Errorf("stored = %d, want 0", n)
	}
	last := s.Logs[len(s.Logs)-1]
	if last.Type != "INFO" {
		t.Errorf("last log = %+v", last)
	}
}

func TestSession_SpawnLatest(t *testing.T) {
	s := newTestSession()
	recordSessionTurn(t, s, 5)

	mustApply(t, s, cmd(domain.CommandSpawnLatest, ""))
	if s.Ghosts.Len() != 1 {
		t.Fatalf("ghosts = %d, want 1", s.Ghosts.Len())
	}
	g := s.Ghosts.Ghosts()[0]
	if g.Position() != s.Config.StartPos() || g.SpawnIndex() != 0 {
		t.Errorf("spawned at %+v with index %d", g.Position(), g.SpawnIndex())
	}
	// Отложенная запись не тронута
	if !s.Turn.HasPending() {
		t.Error("SPAWN_LATEST must not consume the pending record")
	}
}

func TestSession_Snapshot(t *testing.T) {
	s := newTestSession()

	snap := s.BuildSnapshot()
	if snap.Type != "UPDATE" || snap.Phase != "ACTION_IDLE" || snap.Turn != 1 {
		t.Errorf("initial snapshot: %+v", snap)
	}
	if snap.Player.Enabled || snap.Recording != nil || snap.Edit.Pending != nil {
		t.Errorf("idle snapshot must have no recording state: %+v", snap)
	}
	if snap.Goal.X != s.Config.GoalX || snap.Goal.Radius != s.Config.GoalRadius {
		t.Errorf("goal = %+v", snap.Goal)
	}

	mustApply(t, s, cmd(domain.CommandAction, ""))
	mustTick(t, s)
	mustTick(t, s)
	snap = s.BuildSnapshot()
	if snap.Phase != "ACTION_RECORDING" || !snap.Player.Enabled {
		t.Fatalf("recording snapshot: phase %s, enabled %v", snap.Phase, snap.Player.Enabled)
	}
	if snap.Recording == nil || snap.Recording.Frames != 2 || snap.Tick != 2 {
		t.Errorf("recording view = %+v, tick %d", snap.Recording, snap.Tick)
	}

	mustApply(t, s, cmd(domain.CommandCut, ""))
	mustTick(t, s)
	mustApply(t, s, cmd(domain.CommandEditSpeed, `{"speed": 1.5}`))
	mustApply(t, s, cmd(domain.CommandEditLoop, `{"loop": true}`))

	snap = s.BuildSnapshot()
	if snap.Phase != "EDIT" || snap.Turn != 2 || snap.StoredReplays != 1 {
		t.Errorf("edit snapshot: phase %s, turn %d, stored %d", snap.Phase, snap.Turn, snap.StoredReplays)
	}
	if snap.Edit.Pending == nil || snap.Edit.Pending.Frames != 2 {
		t.Fatalf("pending view = %+v", snap.Edit.Pending)
	}
	if snap.Edit.Speed != 1.5 || !snap.Edit.Loop {
		t.Errorf("edit view = %+v", snap.Edit)
	}

	// Второй ход: призрак виден и становится целью по STOP
	mustApply(t, s, cmd(domain.CommandAction, ""))
	mustTick(t, s)
	mustApply(t, s, cmd(domain.CommandStop, ""))
	mustTick(t, s)

	snap = s.BuildSnapshot()
	if len(snap.Ghosts) != 1 {
		t.Fatalf("ghost views = %d", len(snap.Ghosts))
	}
	gv := snap.Ghosts[0]
	if snap.TargetID != gv.ID || !gv.Highlighted || gv.Speed != 1.5 || !gv.Loop {
		t.Errorf("ghost view = %+v, target %q", gv, snap.TargetID)
	}

	// Снимок не очищает логи, DrainLogs - да
	s.AddLog("hello", "INFO")
	if n := len(s.BuildSnapshot().Logs); n == 0 {
		t.Error("snapshot must carry pending logs")
	}
	s.DrainLogs()
	if n := len(s.BuildSnapshot().Logs); n != 0 {
		t.Errorf("logs after drain = %d", n)
	}
}
