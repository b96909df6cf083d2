package input

import (
	"errors"
	"math"
	"testing"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// scripted is a Source whose state the test sets before every tick.
type scripted struct {
	h      float64
	jump   bool
	action bool
}

func (s *scripted) GetHorizontal() float64 { return s.h }
func (s *scripted) GetJumpDown() bool      { return s.jump }
func (s *scripted) GetActionDown() bool    { return s.action }

func scenarioRecord() domain.ReplayRecord {
	return domain.ReplayRecord{
		Frames: []domain.InputFrame{
			{Time: 0, Horizontal: 0},
			{Time: 0.5, Horizontal: 1},
			{Time: 1.2, Horizontal: -1},
		},
		StartTime: 0,
		EndTime:   1.5,
		Speed:     1,
	}
}

func TestRecorder_BeginTickEnd(t *testing.T) {
	src := &scripted{}
	rec := NewRecorder(src)

	// Idle: no sampling
	rec.Tick(0.1)
	if rec.FrameCount() != 0 || rec.Elapsed() != 0 {
		t.Fatalf("recorder sampled while idle: frames=%d clock=%v", rec.FrameCount(), rec.Elapsed())
	}

	rec.Begin()
	deltas := []float64{0.016, 0.017, 0.02, 0.016}
	for i, d := range deltas {
		src.h = float64(i) / 4
		src.jump = i == 1
		rec.Tick(d)
	}
	if !rec.IsRecording() {
		t.Fatal("expected recording flag")
	}

	out, err := rec.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if rec.IsRecording() {
		t.Fatal("recorder still active after End")
	}
	if len(out.Frames) != len(deltas) {
		t.Fatalf("frames = %d, want %d", len(out.Frames), len(deltas))
	}
	if out.Frames[0].Time < 0 {
		t.Errorf("first frame time negative: %v", out.Frames[0].Time)
	}
	for i := 1; i < len(out.Frames); i++ {
		if out.Frames[i].Time < out.Frames[i-1].Time {
			t.Errorf("frame %d time %v before %v", i, out.Frames[i].Time, out.Frames[i-1].Time)
		}
	}
	if out.EndTime != rec.Elapsed() {
		t.Errorf("EndTime = %v, want final clock %v", out.EndTime, rec.Elapsed())
	}
	if out.StartTime != 0 || out.Speed != 1 || out.Loop {
		t.Errorf("unexpected playback defaults: %+v", out)
	}
	if !out.Frames[1].Jump || out.Frames[2].Jump {
		t.Errorf("jump edge not captured on the right tick")
	}
}

func TestRecorder_EndWhileIdle(t *testing.T) {
	rec := NewRecorder(&scripted{})
	if _, err := rec.End(); !errors.Is(err, domain.ErrNotRecording) {
		t.Fatalf("expected ErrNotRecording, got %v", err)
	}

	rec.Begin()
	rec.Tick(0.5)
	if _, err := rec.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := rec.End(); !errors.Is(err, domain.ErrNotRecording) {
		t.Fatalf("second End must fail, got %v", err)
	}
}

func TestRecorder_BeginRestartsFromEmpty(t *testing.T) {
	rec := NewRecorder(&scripted{h: 1})
	rec.Begin()
	rec.Tick(1)
	rec.Tick(1)
	first, _ := rec.End()

	rec.Begin()
	rec.Tick(0.25)
	second, _ := rec.End()

	if len(second.Frames) != 1 || second.EndTime != 0.25 || second.Frames[0].Time != 0.25 {
		t.Fatalf("second recording leaked state: %+v", second)
	}
	if len(first.Frames) != 2 || first.Frames[1].Time != 2 {
		t.Fatalf("first record was mutated by the next recording: %+v", first)
	}
}

func TestCursor_Scenario(t *testing.T) {
	c := NewCursor(scenarioRecord())

	c.Advance(0.6)
	if !approx(c.GetTime(), 0.6) || c.GetHorizontal() != 1 {
		t.Fatalf("after 0.6: timer=%v h=%v", c.GetTime(), c.GetHorizontal())
	}

	c.Advance(0.7)
	if !approx(c.GetTime(), 1.3) || c.GetHorizontal() != -1 {
		t.Fatalf("after 1.3: timer=%v h=%v", c.GetTime(), c.GetHorizontal())
	}

	c.Advance(0.5)
	if !c.Ended() {
		t.Fatal("non-looping cursor must end past the window")
	}
	if c.GetTime() != 1.5 {
		t.Errorf("ended timer = %v, want clamp to 1.5", c.GetTime())
	}
	if !c.CurrentFrame().IsNeutral() {
		t.Errorf("ended cursor must yield neutral input")
	}

	// further advances are no-ops
	c.Advance(10)
	if c.GetTime() != 1.5 {
		t.Errorf("ended cursor moved to %v", c.GetTime())
	}
}

func TestCursor_LoopWrap(t *testing.T) {
	rec := scenarioRecord()
	rec.Loop = true
	c := NewCursor(rec)

	c.Advance(0.6)
	c.Advance(0.7)
	t0 := c.GetTime()
	c.Advance(0.5)

	want := 0 + math.Mod(t0+0.5-0, math.Max(domain.LoopEpsilon, 1.5-0))
	if c.Ended() {
		t.Fatal("looping cursor must not end")
	}
	if !approx(c.GetTime(), want) || !approx(c.GetTime(), 0.3) {
		t.Fatalf("wrapped timer = %v, want %v (~0.3)", c.GetTime(), want)
	}
	if c.GetHorizontal() != 0 {
		t.Errorf("h at 0.3 = %v, want 0", c.GetHorizontal())
	}
}

func TestCursor_ZeroLengthLoop(t *testing.T) {
	rec := domain.ReplayRecord{
		Frames:    []domain.InputFrame{{Time: 0, Horizontal: 1}},
		StartTime: 0,
		EndTime:   0,
		Speed:     1,
		Loop:      true,
	}
	c := NewCursor(rec)
	if c.GetStartTime() != 0 || c.GetEndTime() != 0 {
		t.Fatalf("window = [%v, %v]", c.GetStartTime(), c.GetEndTime())
	}
	for i := 0; i < 5; i++ {
		c.Advance(0.016)
		if math.IsNaN(c.GetTime()) || c.GetTime() < 0 || c.GetTime() > domain.LoopEpsilon {
			t.Fatalf("timer escaped degenerate window: %v", c.GetTime())
		}
	}
	if c.Ended() {
		t.Fatal("degenerate loop is a valid minimal loop, not an end")
	}
}

func TestCursor_SpeedIsClamped(t *testing.T) {
	rec := scenarioRecord()
	rec.Speed = 0
	c := NewCursor(rec)
	if c.GetSpeed() != domain.PlaybackSpeedMin {
		t.Fatalf("speed = %v", c.GetSpeed())
	}
	c.Advance(1)
	if !approx(c.GetTime(), domain.PlaybackSpeedMin) {
		t.Errorf("timer = %v, want %v", c.GetTime(), domain.PlaybackSpeedMin)
	}

	rec.Speed = 2
	fast := NewCursor(rec)
	fast.Advance(0.3)
	if !approx(fast.GetTime(), 0.6) || fast.GetHorizontal() != 1 {
		t.Errorf("double speed: timer=%v h=%v", fast.GetTime(), fast.GetHorizontal())
	}
}

func TestCursor_SetTimeSamplesGreatestAtOrBefore(t *testing.T) {
	rec := domain.ReplayRecord{
		Frames: []domain.InputFrame{
			{Time: 0.2, Horizontal: 0.1},
			{Time: 0.5, Horizontal: 0.2},
			{Time: 0.5, Horizontal: 0.3}, // duplicate time, later index wins
			{Time: 0.9, Horizontal: 0.4},
		},
		EndTime: 1,
		Speed:   1,
	}
	c := NewCursor(rec)

	for _, tm := range []float64{0, 0.1, 0.2, 0.3, 0.5, 0.7, 0.9, 1} {
		c.SetTime(tm)
		want := domain.NeutralFrame()
		for _, f := range rec.Frames {
			if f.Time <= tm {
				want = f
			}
		}
		if got := c.CurrentFrame(); got != want {
			t.Errorf("SetTime(%v): frame %+v, want %+v", tm, got, want)
		}
	}
}

func TestCursor_SetTimeClampsAndRevives(t *testing.T) {
	c := NewCursor(scenarioRecord())
	c.Advance(100)
	if !c.Ended() {
		t.Fatal("expected ended")
	}

	c.SetTime(-1)
	if c.Ended() || c.GetTime() != 0 {
		t.Fatalf("SetTime(-1): ended=%v timer=%v", c.Ended(), c.GetTime())
	}
	c.SetTime(99)
	if c.GetTime() != 1.5 {
		t.Fatalf("SetTime(99) timer=%v, want 1.5", c.GetTime())
	}
}

func TestCursor_PauseFreezes(t *testing.T) {
	c := NewCursor(scenarioRecord())
	c.Advance(0.6)
	c.SetPaused(true)

	for i := 0; i < 10; i++ {
		c.Advance(0.1)
		if !approx(c.GetTime(), 0.6) {
			t.Fatalf("paused timer moved to %v", c.GetTime())
		}
		if c.GetHorizontal() != 0 || c.GetJumpDown() || c.GetActionDown() {
			t.Fatal("paused cursor must yield neutral input")
		}
	}

	c.SetPaused(false)
	if c.GetHorizontal() != 1 {
		t.Errorf("unpaused h = %v, want 1", c.GetHorizontal())
	}
}

func TestCursor_EmptyRecordIsNeutral(t *testing.T) {
	c := NewCursor(domain.ReplayRecord{Speed: 1, EndTime: 2})
	for i := 0; i < 4; i++ {
		c.Advance(0.5)
		if !c.CurrentFrame().IsNeutral() {
			t.Fatal("empty record must yield neutral input")
		}
	}
}

func TestCursor_SortsFramesStably(t *testing.T) {
	// Кадры не по порядку, два кадра с t=0.5: индекс 0 раньше индекса 2
	frames := []domain.InputFrame{
		{Time: 0.5, Horizontal: 1},
		{Time: 0.2, Horizontal: 0.2},
		{Time: 0.5, Horizontal: -1},
		{Time: 0.1, Horizontal: 0.1},
		{Time: 0.9, Horizontal: 0.9},
	}
	rec := domain.ReplayRecord{Frames: frames, EndTime: 1, Speed: 1}
	c := NewCursor(rec)

	tests := []struct {
		at   float64
		want float64
	}{
		{0.05, 0},
		{0.1, 0.1},
		{0.3, 0.2},
		{0.5, -1}, // дубликат с большим индексом побеждает
		{0.7, -1},
		{1, 0.9},
	}
	for _, tt := range tests {
		c.SetTime(tt.at)
		if got := c.GetHorizontal(); got != tt.want {
			t.Errorf("SetTime(%v): horizontal %v, want %v", tt.at, got, tt.want)
		}
	}

	got := c.Record().Frames
	wantOrder := []float64{0.1, 0.2, 1, -1, 0.9}
	if len(got) != len(wantOrder) {
		t.Fatalf("frames = %d, want %d", len(got), len(wantOrder))
	}
	for i, h := range wantOrder {
		if got[i].Horizontal != h {
			t.Errorf("sorted frame %d = %+v, want horizontal %v", i, got[i], h)
		}
	}

	// Исходный срез вызывающего не переупорядочен
	if frames[0].Horizontal != 1 || frames[3].Time != 0.1 {
		t.Error("cursor sorted the caller's frames in place")
	}
}

func TestCursor_OwnsItsRecord(t *testing.T) {
	rec := scenarioRecord()
	c := NewCursor(rec)
	rec.Frames[1].Horizontal = 42
	c.SetTime(0.6)
	if c.GetHorizontal() != 1 {
		t.Fatal("cursor aliases the caller's frames")
	}
}

func TestCursor_RestartRewindsAndUnpauses(t *testing.T) {
	rec := scenarioRecord()
	rec.StartTime = 0.5
	c := NewCursor(rec)
	c.Advance(0.3)
	c.SetPaused(true)

	c.Restart()
	if c.Paused() || c.GetTime() != 0.5 {
		t.Fatalf("Restart: paused=%v timer=%v", c.Paused(), c.GetTime())
	}
}

// Replaying with speed 1 and the recording's delta sequence reproduces every sample.
func TestRoundTrip_RecordThenReplay(t *testing.T) {
	deltas := []float64{1.0 / 60, 1.0 / 60, 0.02, 0.033, 1.0 / 60, 0.011, 0.05, 1.0 / 30, 0.016, 0.017}
	script := []scripted{
		{h: 0}, {h: 1, jump: true}, {h: 1}, {h: 1, action: true}, {h: -1},
		{h: -0.5}, {h: 0, jump: true}, {h: 0}, {h: 0.25, action: true, jump: true}, {h: 0},
	}

	src := &scripted{}
	live := make([]scripted, 0, len(deltas))
	rec := NewRecorder(src)
	rec.Begin()
	for i, d := range deltas {
		*src = script[i]
		rec.Tick(d)
		live = append(live, *src)
	}
	record, err := rec.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}

	c := NewCursor(record)
	for i, d := range deltas {
		c.Advance(d)
		if c.Ended() {
			t.Fatalf("cursor ended early at tick %d", i)
		}
		got := scripted{h: c.GetHorizontal(), jump: c.GetJumpDown(), action: c.GetActionDown()}
		if got != live[i] {
			t.Errorf("tick %d: replay %+v, live %+v", i, got, live[i])
		}
	}
}

func TestLiveInput_EdgesLastOneTick(t *testing.T) {
	l := NewLiveInput()
	l.SetHorizontal(3)
	if l.GetHorizontal() != 1 {
		t.Errorf("axis not clamped: %v", l.GetHorizontal())
	}

	l.PressJump()
	if l.GetJumpDown() {
		t.Fatal("press must not be visible before Poll")
	}
	l.Poll()
	if !l.GetJumpDown() || l.GetActionDown() {
		t.Fatal("jump edge missing after Poll")
	}
	l.Poll()
	if l.GetJumpDown() {
		t.Fatal("jump edge lasted more than one tick")
	}
	if l.GetHorizontal() != 1 {
		t.Fatal("axis must be held across ticks")
	}

	l.PressAction()
	l.Release()
	l.Poll()
	if l.GetActionDown() || l.GetHorizontal() != 0 {
		t.Fatal("Release must drop axis and latched presses")
	}
}
