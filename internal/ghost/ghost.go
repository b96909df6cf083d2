package ghost

import (
	"github.com/google/uuid"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/input"
	"github.com/Shimobouzi/FilmWorker/internal/systems"
)

// Ghost is one replaying agent: a private cursor over its record driving a body.
type Ghost struct {
	id          string
	spawnIndex  int
	cursor      *input.Cursor
	body        *systems.Body
	highlighted bool
	removed     bool
}

func newGhost(rec domain.ReplayRecord, spawnIndex int, kin systems.Kinematics, pos domain.Vec2) *Ghost {
	return &Ghost{
		id:         uuid.New().String(),
		spawnIndex: spawnIndex,
		cursor:     input.NewCursor(rec),
		body:       systems.NewBody(kin, pos),
	}
}

func (g *Ghost) ID() string             { return g.id }
func (g *Ghost) SpawnIndex() int        { return g.spawnIndex }
func (g *Ghost) Cursor() *input.Cursor  { return g.cursor }
func (g *Ghost) Position() domain.Vec2  { return g.body.Position() }
func (g *Ghost) Velocity() domain.Vec2  { return g.body.Velocity }
func (g *Ghost) Paused() bool           { return g.cursor.Paused() }
func (g *Ghost) Highlighted() bool      { return g.highlighted }
func (g *Ghost) SetHighlighted(on bool) { g.highlighted = on }

// Alive is false once the registry dropped the ghost (cleared or ended).
// Holders of a *Ghost must check it before acting on a stale handle.
func (g *Ghost) Alive() bool { return !g.removed }

// SetPaused freezes the cursor and the body; a paused body loses its motion.
func (g *Ghost) SetPaused(paused bool) {
	g.cursor.SetPaused(paused)
	g.body.SetEnabled(!paused)
	if paused {
		g.body.ResetMotion()
	}
}

func (g *Ghost) TogglePaused() {
	g.SetPaused(!g.Paused())
}

// Restart puts the ghost at pos with zero motion and rewinds the cursor to
// its own start time, unpaused.
func (g *Ghost) Restart(pos domain.Vec2) {
	g.body.SetPose(pos)
	g.body.ResetMotion()
	g.cursor.Restart()
	g.SetPaused(false)
}

// tick advances playback and, if still running, moves the body.
// Returns false once the cursor has ended.
func (g *Ghost) tick(delta float64) bool {
	g.cursor.Advance(delta)
	if g.cursor.Ended() {
		return false
	}
	g.body.Step(g.cursor, delta)
	return true
}
