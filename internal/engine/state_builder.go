package engine

import (
	"github.com/Shimobouzi/FilmWorker/pkg/api"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// BuildSnapshot создает "снимок" этапа для клиентов. Логи не очищаются.
func (s *Session) BuildSnapshot() api.ServerResponse {
	turn := s.Turn

	resp := api.ServerResponse{
		Type:  "UPDATE",
		Tick:  s.CurrentTick,
		Time:  s.Clock,
		Phase: turn.Phase().String(),
		Turn:  turn.TurnCount(),
		Player: api.PlayerView{
			X:       s.Player.Pos.X,
			Y:       s.Player.Pos.Y,
			VX:      s.Player.Velocity.X,
			VY:      s.Player.Velocity.Y,
			Enabled: s.Player.Enabled(),
		},
		Goal: api.GoalView{
			X:      s.Config.GoalX,
			Y:      s.Config.GoalY,
			Radius: s.Config.GoalRadius,
		},
		Edit: api.EditView{
			Speed: turn.EditSpeed(),
			Loop:  turn.EditLoop(),
		},
		Ghosts: make([]api.GhostView, 0, s.Ghosts.Len()),
		Logs:   append([]api.LogEntry(nil), s.Logs...),
	}

	// 1. Запись
	if s.Recorder.IsRecording() {
		resp.Recording = &api.RecordingView{
			Elapsed: s.Recorder.Elapsed(),
			Frames:  s.Recorder.FrameCount(),
		}
	}

	// 2. Отложенная запись
	if rec, ok := turn.PendingRecord(); ok {
		resp.Edit.Pending = &api.PendingView{
			Duration: turn.PendingDuration(),
			Start:    turn.PendingStart(),
			End:      turn.PendingEnd(),
			Frames:   len(rec.Frames),
		}
	}

	// 3. Призраки
	for _, g := range s.Ghosts.Ghosts() {
		c := g.Cursor()
		pos := g.Position()
		resp.Ghosts = append(resp.Ghosts, api.GhostView{
			ID:          g.ID(),
			SpawnIndex:  g.SpawnIndex(),
			X:           pos.X,
			Y:           pos.Y,
			Paused:      g.Paused(),
			Highlighted: g.Highlighted(),
			Time:        c.GetTime(),
			Start:       c.GetStartTime(),
			End:         c.GetEndTime(),
			Speed:       c.GetSpeed(),
			Loop:        c.Loop(),
		})
	}
	if target := turn.Target(); target != nil {
		resp.TargetID = target.ID()
	}

	// 4. Хранилище
	if n, err := s.Store.Count(); err != nil {
		logger.For("session").WithError(err).Warn("Failed to count stored replays")
	} else {
		resp.StoredReplays = n
	}

	return resp
}
