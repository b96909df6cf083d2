package systems

import (
	"testing"

	"github.com/Shimobouzi/FilmWorker/internal/domain"
)

func TestNearestWithin(t *testing.T) {
	origin := domain.Vec2{}

	tests := []struct {
		name       string
		radius     float64
		candidates []Candidate
		wantIdx    int
		wantOK     bool
	}{
		{
			name:    "empty",
			radius:  5,
			wantIdx: -1,
		},
		{
			name:       "all outside radius",
			radius:     1,
			candidates: []Candidate{{Pos: domain.Vec2{X: 2}, Order: 0}},
			wantIdx:    -1,
		},
		{
			name:       "boundary is inclusive",
			radius:     2,
			candidates: []Candidate{{Pos: domain.Vec2{X: 2}, Order: 0}},
			wantIdx:    0, wantOK: true,
		},
		{
			name:   "closest wins",
			radius: 5,
			candidates: []Candidate{
				{Pos: domain.Vec2{X: 3}, Order: 0},
				{Pos: domain.Vec2{X: 1}, Order: 1},
			},
			wantIdx: 1, wantOK: true,
		},
		{
			name:   "tie goes to the earlier spawn",
			radius: 5,
			candidates: []Candidate{
				{Pos: domain.Vec2{X: 2}, Order: 3},
				{Pos: domain.Vec2{Y: -2}, Order: 1},
			},
			wantIdx: 1, wantOK: true,
		},
		{
			name:       "negative radius",
			radius:     -1,
			candidates: []Candidate{{Pos: origin}},
			wantIdx:    -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := NearestWithin(origin, tt.radius, tt.candidates)
			if idx != tt.wantIdx || ok != tt.wantOK {
				t.Errorf("NearestWithin = (%d, %v), want (%d, %v)", idx, ok, tt.wantIdx, tt.wantOK)
			}
		})
	}
}
