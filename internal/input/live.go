package input

import "github.com/Shimobouzi/FilmWorker/internal/domain"

// LiveInput is the human player's input source.
//
// Axis values are held until changed. Presses are latched and published by
// Poll at the start of the next tick, so each press reads true for exactly
// one tick. Owned by the tick goroutine; not safe for concurrent use.
type LiveInput struct {
	horizontal float64

	pendingJump   bool
	pendingAction bool

	jumpDown   bool
	actionDown bool
}

func NewLiveInput() *LiveInput {
	return &LiveInput{}
}

// SetHorizontal holds the axis value, clamped to [-1, 1].
func (l *LiveInput) SetHorizontal(v float64) {
	if v != v { // NaN
		v = 0
	}
	l.horizontal = domain.Clamp(v, -1, 1)
}

func (l *LiveInput) PressJump()   { l.pendingJump = true }
func (l *LiveInput) PressAction() { l.pendingAction = true }

// Poll publishes latched presses for the current tick and clears the latch.
func (l *LiveInput) Poll() {
	l.jumpDown = l.pendingJump
	l.actionDown = l.pendingAction
	l.pendingJump = false
	l.pendingAction = false
}

// Release drops the held axis and every pending or published press.
func (l *LiveInput) Release() {
	*l = LiveInput{}
}

func (l *LiveInput) GetHorizontal() float64 { return l.horizontal }
func (l *LiveInput) GetJumpDown() bool      { return l.jumpDown }
func (l *LiveInput) GetActionDown() bool    { return l.actionDown }

// Frame returns the currently published state as an untimed frame.
func (l *LiveInput) Frame() domain.InputFrame {
	return domain.InputFrame{
		Horizontal: l.horizontal,
		Jump:       l.jumpDown,
		Action:     l.actionDown,
	}
}
