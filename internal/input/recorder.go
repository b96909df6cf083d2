package input

import (
	"fmt"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
	"github.com/Shimobouzi/FilmWorker/pkg/logger"
)

// Recorder samples a Source once per tick while recording and produces a
// ReplayRecord on End.
type Recorder struct {
	source    Source
	frames    []domain.InputFrame
	clock     float64
	recording bool
}

func NewRecorder(source Source) *Recorder {
	return &Recorder{source: source}
}

// SetSource rebinds the sampled source.
func (r *Recorder) SetSource(source Source) {
	r.source = source
}

// Begin always restarts from an empty buffer at virtual time 0.
func (r *Recorder) Begin() {
	r.frames = r.frames[:0]
	r.clock = 0
	r.recording = true
}

// Tick advances the virtual clock and appends one sample. No-op while idle.
func (r *Recorder) Tick(delta float64) {
	if !r.recording {
		return
	}
	r.clock += delta

	frame := domain.InputFrame{Time: r.clock}
	if r.source != nil {
		frame.Horizontal = r.source.GetHorizontal()
		frame.Jump = r.source.GetJumpDown()
		frame.Action = r.source.GetActionDown()
	}
	r.frames = append(r.frames, frame)
}

// End stops recording and returns a snapshot record. The record owns its own
// copy of the frame buffer.
func (r *Recorder) End() (domain.ReplayRecord, error) {
	if !r.recording {
		return domain.ReplayRecord{}, fmt.Errorf("end recording: %w", domain.ErrNotRecording)
	}
	r.recording = false

	frames := make([]domain.InputFrame, len(r.frames))
	copy(frames, r.frames)

	logger.For("recorder").
		WithField("frames", len(frames)).
		WithField("duration", r.clock).
		Debug("Recording finished")

	return domain.NewReplayRecord(frames, r.clock), nil
}

// Reset drops the buffer and returns to idle without producing a record.
func (r *Recorder) Reset() {
	r.frames = r.frames[:0]
	r.clock = 0
	r.recording = false
}

func (r *Recorder) Elapsed() float64  { return r.clock }
func (r *Recorder) IsRecording() bool { return r.recording }
func (r *Recorder) FrameCount() int   { return len(r.frames) }
