// Package input holds the input-source contract and its two implementations:
// the live player input and the replay cursor that drives ghosts.
package input

// Source is the per-tick control query surface consumed by movement.
// Jump and action are edge flags: true only on the tick the press begins.
type Source interface {
	GetHorizontal() float64
	GetJumpDown() bool
	GetActionDown() bool
}

var (
	_ Source = (*LiveInput)(nil)
	_ Source = (*Cursor)(nil)
)
