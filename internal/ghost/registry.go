// Package ghost owns the set of replaying ghosts: spawn order, restarts,
// removal of exhausted ghosts and nearest-target queries.
package ghost

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/internal/systems"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// RecordLoader is the slice of the persistence store the registry reads from.
type RecordLoader interface {
	LoadByID(id int) (domain.ReplayRecord, error)
	Count() (int, error)
}

// Registry owns every live ghost. Single owner: mutated only through its methods.
type Registry struct {
	loader     RecordLoader
	kin        systems.Kinematics
	defaultPos domain.Vec2

	ghosts    []*Ghost
	nextIndex int
}

func NewRegistry(loader RecordLoader, kin systems.Kinematics, defaultPos domain.Vec2) *Registry {
	return &Registry{
		loader:     loader,
		kin:        kin,
		defaultPos: defaultPos,
		ghosts:     make([]*Ghost, 0),
	}
}

// Spawn creates a ghost over its own copy of rec at pos (nil = default
// position) and assigns the next spawn index.
func (r *Registry) Spawn(rec domain.ReplayRecord, pos *domain.Vec2) *Ghost {
	at := r.defaultPos
	if pos != nil {
		at = *pos
	}

	g := newGhost(rec, r.nextIndex, r.kin, at)
	r.nextIndex++
	r.ghosts = append(r.ghosts, g)

	logger.For("ghost_registry").WithFields(logrus.Fields{
		"ghost_id":    g.id,
		"spawn_index": g.spawnIndex,
		"frames":      len(rec.Frames),
		"speed":       g.cursor.GetSpeed(),
		"loop":        rec.Loop,
	}).Info("Ghost spawned")
	return g
}

// SpawnStored loads record id from the store and spawns it. Nothing is
// spawned when the load fails.
func (r *Registry) SpawnStored(id int, pos *domain.Vec2) (*Ghost, error) {
	if r.loader == nil {
		return nil, errors.New("ghost registry has no record store")
	}
	rec, err := r.loader.LoadByID(id)
	if err != nil {
		return nil, fmt.Errorf("spawn stored replay %d: %w", id, err)
	}
	return r.Spawn(rec, pos), nil
}

// SpawnLatest spawns the most recently stored record (id = Count()-1).
func (r *Registry) SpawnLatest(pos *domain.Vec2) (*Ghost, error) {
	if r.loader == nil {
		return nil, errors.New("ghost registry has no record store")
	}
	count, err := r.loader.Count()
	if err != nil {
		return nil, fmt.Errorf("count stored replays: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNoRecords
	}
	return r.SpawnStored(count-1, pos)
}

// ClearAll destroys every ghost and resets the spawn counter.
func (r *Registry) ClearAll() {
	for _, g := range r.ghosts {
		g.removed = true
		g.highlighted = false
	}
	r.ghosts = r.ghosts[:0]
	r.nextIndex = 0
	logger.For("ghost_registry").Debug("All ghosts cleared")
}

// RestartAll repositions every ghost to pos and replays it from its own start.
func (r *Registry) RestartAll(pos domain.Vec2) {
	for _, g := range r.ghosts {
		if g == nil || g.removed {
			continue
		}
		g.Restart(pos)
	}
}

// FindNearest returns the ghost closest to pos within radius; ties go to the
// smaller spawn index. nil when no ghost qualifies.
func (r *Registry) FindNearest(pos domain.Vec2, radius float64) *Ghost {
	live := make([]*Ghost, 0, len(r.ghosts))
	candidates := make([]systems.Candidate, 0, len(r.ghosts))
	for _, g := range r.ghosts {
		if g == nil || g.removed {
			continue
		}
		live = append(live, g)
		candidates = append(candidates, systems.Candidate{Pos: g.Position(), Order: g.spawnIndex})
	}

	idx, ok := systems.NearestWithin(pos, radius, candidates)
	if !ok {
		return nil
	}
	return live[idx]
}

// Tick advances every ghost once and drops those whose non-looping record
// is exhausted.
func (r *Registry) Tick(delta float64) {
	kept := r.ghosts[:0]
	for _, g := range r.ghosts {
		if g == nil || g.removed {
			continue
		}
		if !g.tick(delta) {
			g.removed = true
			g.highlighted = false
			logger.For("ghost_registry").WithFields(logrus.Fields{
				"ghost_id":    g.id,
				"spawn_index": g.spawnIndex,
			}).Info("Ghost finished playback")
			continue
		}
		kept = append(kept, g)
	}
	// хвост обнуляем, чтобы не держать удаленных призраков
	for i := len(kept); i < len(r.ghosts); i++ {
		r.ghosts[i] = nil
	}
	r.ghosts = kept
}

// Ghosts returns a snapshot of the live ghosts in spawn order.
func (r *Registry) Ghosts() []*Ghost {
	out := make([]*Ghost, len(r.ghosts))
	copy(out, r.ghosts)
	return out
}

// Lookup finds a live ghost by id.
func (r *Registry) Lookup(id string) *Ghost {
	for _, g := range r.ghosts {
		if g.id == id {
			return g
		}
	}
	return nil
}

func (r *Registry) Len() int            { return len(r.ghosts) }
func (r *Registry) NextSpawnIndex() int { return r.nextIndex }
