package scan

import (
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/stat"
)

// TrajectoryStore holds each tracked object's recorded centroid history,
// capped at maxLength (0 means unbounded), the way
// internal/lidar/tracking.go's TrackedObject.History is appended to and
// trimmed in place, generalized here to a map keyed on public track id
// instead of living inside the track struct itself; an id's history is
// kept until Prune is called for it.
type TrajectoryStore struct {
	maxLength int
	byID      map[int64][]orb.Point
}

// NewTrajectoryStore constructs a TrajectoryStore that retains at most
// maxLength points per track (0 for unbounded).
func NewTrajectoryStore(maxLength int) *TrajectoryStore {
	return &TrajectoryStore{maxLength: maxLength, byID: make(map[int64][]orb.Point)}
}

// Record appends a centroid to id's trajectory, in frame order, trimming
// the oldest points once maxLength is exceeded.
func (s *TrajectoryStore) Record(id int64, p orb.Point) {
	h := append(s.byID[id], p)
	if s.maxLength > 0 && len(h) > s.maxLength {
		h = h[len(h)-s.maxLength:]
	}
	s.byID[id] = h
}

// Trajectory returns a copy of the ordered centroid sequence recorded for
// id, or nil if id has never been recorded or has since been pruned.
func (s *TrajectoryStore) Trajectory(id int64) []orb.Point {
	h := s.byID[id]
	if h == nil {
		return nil
	}
	out := make([]orb.Point, len(h))
	copy(out, h)
	return out
}

// Prune discards id's stored history.
func (s *TrajectoryStore) Prune(id int64) {
	delete(s.byID, id)
}

// All returns a copy of every recorded trajectory, keyed by public track id.
func (s *TrajectoryStore) All() map[int64][]orb.Point {
	out := make(map[int64][]orb.Point, len(s.byID))
	for id, h := range s.byID {
		cp := make([]orb.Point, len(h))
		copy(cp, h)
		out[id] = cp
	}
	return out
}

// SpeedStats returns the mean and standard deviation of id's per-frame
// displacement magnitude in millimetres per frame, the way the teacher
// aggregates AvgSpeedMps/PeakSpeedMps per track, computed here with
// gonum.org/v1/gonum/stat instead of a hand-rolled running average.
func (s *TrajectoryStore) SpeedStats(id int64) (mean, stddev float64) {
	h := s.byID[id]
	if len(h) < 2 {
		return 0, 0
	}
	speeds := make([]float64, 0, len(h)-1)
	for i := 1; i < len(h); i++ {
		dx := h[i].X() - h[i-1].X()
		dy := h[i].Y() - h[i-1].Y()
		speeds = append(speeds, math.Hypot(dx, dy))
	}
	return stat.MeanStdDev(speeds, nil)
}
