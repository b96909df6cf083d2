package input

import (
	"math"
	"sort"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

// Cursor replays a ReplayRecord through the Source contract, advancing its own
// virtual timer under speed/loop/pause control.
//
// Sampling is most-recent-at-or-before: the effective frame is the last frame
// (by index) whose time is <= timer. Before the first frame, while paused, or
// once ended, the neutral frame is returned.
type Cursor struct {
	record domain.ReplayRecord

	start float64
	end   float64
	timer float64

	paused bool
	ended  bool
}

// NewCursor binds a cursor to a private copy of rec.
func NewCursor(rec domain.ReplayRecord) *Cursor {
	own := rec.Clone()
	if !sort.SliceIsSorted(own.Frames, func(i, j int) bool { return own.Frames[i].Time < own.Frames[j].Time }) {
		sort.SliceStable(own.Frames, func(i, j int) bool { return own.Frames[i].Time < own.Frames[j].Time })
	}

	c := &Cursor{record: own}
	c.start, c.end = own.Window()
	c.timer = c.start
	return c
}

// Advance moves the timer by delta scaled by the clamped speed.
func (c *Cursor) Advance(delta float64) {
	if c.paused || c.ended {
		return
	}

	c.timer += delta * c.record.ClampedSpeed()
	if c.timer <= c.end {
		return
	}

	if c.record.Loop {
		length := math.Max(domain.LoopEpsilon, c.end-c.start)
		c.timer = c.start + math.Mod(c.timer-c.start, length)
		return
	}

	c.timer = c.end
	c.ended = true
}

// CurrentFrame returns the effective input frame at the current timer.
func (c *Cursor) CurrentFrame() domain.InputFrame {
	if c.paused || c.ended || len(c.record.Frames) == 0 {
		return domain.NeutralFrame()
	}

	frames := c.record.Frames
	// первый индекс с time > timer; нужный кадр - перед ним
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].Time > c.timer })
	if idx == 0 {
		return domain.NeutralFrame()
	}
	return frames[idx-1]
}

func (c *Cursor) GetHorizontal() float64 { return c.CurrentFrame().Horizontal }
func (c *Cursor) GetJumpDown() bool      { return c.CurrentFrame().Jump }
func (c *Cursor) GetActionDown() bool    { return c.CurrentFrame().Action }

func (c *Cursor) SetPaused(paused bool) { c.paused = paused }
func (c *Cursor) Paused() bool          { return c.paused }
func (c *Cursor) Ended() bool           { return c.ended }

// SetTime clamps t into [start, end], assigns it and clears the ended flag.
func (c *Cursor) SetTime(t float64) {
	if math.IsNaN(t) {
		t = c.start
	}
	c.timer = domain.Clamp(t, c.start, c.end)
	c.ended = false
}

// Restart rewinds to the start of the window and unpauses.
func (c *Cursor) Restart() {
	c.SetTime(c.start)
	c.paused = false
}

func (c *Cursor) GetSpeed() float64     { return c.record.ClampedSpeed() }
func (c *Cursor) GetStartTime() float64 { return c.start }
func (c *Cursor) GetEndTime() float64   { return c.end }
func (c *Cursor) GetTime() float64      { return c.timer }
func (c *Cursor) Loop() bool            { return c.record.Loop }

// Record returns a copy of the bound record.
func (c *Cursor) Record() domain.ReplayRecord {
	return c.record.Clone()
}
