package scan

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// TrackState is the lifecycle state of a Track.
type TrackState string

const (
	TrackTentative TrackState = "tentative" // newly spawned, not yet confirmed
	TrackConfirmed TrackState = "confirmed" // matched enough consecutive frames
	TrackLost      TrackState = "lost"      // was confirmed, currently unmatched
)

// Track is the tracker's internal state for one presumed persistent object
// across frames, mirroring internal/lidar/tracking.go's TrackedObject but
// with dead-reckoning ("last centroid plus last velocity") in place of the
// teacher's Kalman filter, which is out of scope here.
type Track struct {
	ID                 int64
	PublicID           int64
	HasPublicID        bool
	LastCentroid       orb.Point
	LastVelocity       orb.Point
	ConsecutiveSeen    int
	ConsecutiveMissing int
	State              TrackState
}

func (t *Track) predicted() orb.Point {
	return orb.Point{
		t.LastCentroid.X() + t.LastVelocity.X(),
		t.LastCentroid.Y() + t.LastVelocity.Y(),
	}
}

// TrackedObject is one confirmed track as emitted for a frame.
type TrackedObject struct {
	PublicID int64
	Centroid orb.Point
	Velocity orb.Point
}

// RetiredTrack is reported for every track purged during a call to
// Tracker.Update, so the owning Processor can prune trajectory storage.
type RetiredTrack struct {
	PublicID    int64
	HadPublicID bool
}

// Tracker owns the full set of live tracks and associates them against one
// frame's clusters at a time. It performs no locking: callers serialize
// calls to Update.
type Tracker struct {
	tracks map[int64]*Track
	order  []int64 // insertion order, kept for deterministic iteration

	nextTrackID  int64
	nextPublicID int64

	maxMatchDistanceMM float64
	minConfirmFrames   int
	maxMissingFrames   int
}

// NewTracker constructs a Tracker tuned from cfg.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{
		tracks:             make(map[int64]*Track),
		nextTrackID:        1,
		nextPublicID:       1,
		maxMatchDistanceMM: cfg.MaxMatchDistanceMM,
		minConfirmFrames:   cfg.MinConfirmFrames,
		maxMissingFrames:   cfg.MaxMissingFrames,
	}
}

// Update advances every live track by one frame against this frame's
// clusters and returns the frame's confirmed tracked objects, ascending by
// public id, plus any tracks retired this frame.
//
// Per frame this runs: predict each live track's position, score every
// (track, cluster) pair within gating distance, resolve the assignment
// greedily, update matched tracks and age unmatched ones, spawn a tentative
// track for every cluster nothing claimed, then purge tracks that have
// exceeded their miss budget.
func (t *Tracker) Update(clusters []Cluster) ([]TrackedObject, []RetiredTrack) {
	var pairs []candidatePair
	for _, id := range t.order {
		pred := t.tracks[id].predicted()
		for ci, cl := range clusters {
			if d := planar.Distance(pred, cl.Centroid); d <= t.maxMatchDistanceMM {
				pairs = append(pairs, candidatePair{trackID: id, clusterIdx: ci, distance: d})
			}
		}
	}
	assignment := greedyAssign(pairs)

	matchedClusters := make(map[int]bool, len(assignment))
	var retired []RetiredTrack
	newOrder := make([]int64, 0, len(t.order)+len(clusters))

	for _, id := range t.order {
		tr := t.tracks[id]
		if clusterIdx, matched := assignment[id]; matched {
			matchedClusters[clusterIdx] = true
			t.applyMatch(tr, clusters[clusterIdx])
			newOrder = append(newOrder, id)
			continue
		}

		if drop := t.ageUnmatched(tr); drop {
			retired = append(retired, RetiredTrack{PublicID: tr.PublicID, HadPublicID: tr.HasPublicID})
			delete(t.tracks, id)
			continue
		}
		newOrder = append(newOrder, id)
	}

	for ci, cl := range clusters {
		if matchedClusters[ci] {
			continue
		}
		id := t.spawn(cl)
		newOrder = append(newOrder, id)
	}

	t.order = newOrder

	var emitted []TrackedObject
	for _, id := range t.order {
		tr := t.tracks[id]
		if tr.State == TrackConfirmed {
			emitted = append(emitted, TrackedObject{
				PublicID: tr.PublicID,
				Centroid: tr.LastCentroid,
				Velocity: tr.LastVelocity,
			})
		}
	}
	sort.Slice(emitted, func(i, j int) bool { return emitted[i].PublicID < emitted[j].PublicID })

	return emitted, retired
}

// applyMatch folds a matched cluster into tr: velocity is the displacement
// from tr's pre-update centroid (which, for a track that was lost, is the
// compounded dead-reckoned position, not its last real observation), and
// the hit/miss counters and lifecycle state advance accordingly.
func (t *Tracker) applyMatch(tr *Track, cl Cluster) {
	newVelocity := orb.Point{
		cl.Centroid.X() - tr.LastCentroid.X(),
		cl.Centroid.Y() - tr.LastCentroid.Y(),
	}
	tr.LastCentroid = cl.Centroid
	tr.LastVelocity = newVelocity
	tr.ConsecutiveSeen++
	tr.ConsecutiveMissing = 0

	switch tr.State {
	case TrackTentative:
		if tr.ConsecutiveSeen >= t.minConfirmFrames {
			tr.State = TrackConfirmed
			tr.PublicID = t.nextPublicID
			tr.HasPublicID = true
			t.nextPublicID++
		}
	case TrackLost:
		tr.State = TrackConfirmed
	}
}

// ageUnmatched advances an unmatched track's dead-reckoned position and
// miss counters, and reports whether it should be purged: a tentative
// track is dropped on its first miss, a confirmed or lost track becomes
// (or stays) lost and is dropped once ConsecutiveMissing exceeds
// maxMissingFrames.
func (t *Tracker) ageUnmatched(tr *Track) (drop bool) {
	tr.LastCentroid = tr.predicted()
	tr.ConsecutiveSeen = 0
	tr.ConsecutiveMissing++

	switch tr.State {
	case TrackTentative:
		return true
	case TrackConfirmed, TrackLost:
		tr.State = TrackLost
		return tr.ConsecutiveMissing > t.maxMissingFrames
	}
	return false
}

func (t *Tracker) spawn(cl Cluster) int64 {
	id := t.nextTrackID
	t.nextTrackID++
	t.tracks[id] = &Track{
		ID:              id,
		LastCentroid:    cl.Centroid,
		LastVelocity:    orb.Point{0, 0},
		ConsecutiveSeen: 1,
		State:           TrackTentative,
	}
	return id
}
