package scan

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/gabe-ochoa/lidar-tracking/internal/monitoring"
)

// Frame is one scan's worth of pipeline output.
type Frame struct {
	Objects         []TrackedObject
	BackgroundReady bool
}

// Processor wires the background model, clusterer, tracker, and trajectory
// store into one per-scan pipeline, the way
// internal/lidar/velocity_coherent_tracker.go's VelocityCoherentTracker
// owns and sequences its own sub-phases. A Processor is not safe for
// concurrent use; callers serialize calls to ProcessScan.
type Processor struct {
	cfg        Config
	background *BackgroundModel
	clusterer  *Clusterer
	tracker    *Tracker
	trajectory *TrajectoryStore
	runID      uuid.UUID
	frameCount int
}

// NewProcessor constructs a Processor, failing if cfg is invalid.
func NewProcessor(cfg Config) (*Processor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{
		cfg:        cfg,
		background: NewBackgroundModel(cfg),
		clusterer:  NewClusterer(cfg),
		tracker:    NewTracker(cfg),
		trajectory: NewTrajectoryStore(cfg.MaxTrajectoryLength),
		runID:      uuid.New(),
	}, nil
}

// ProcessScan normalizes raw, folds it into the background model, and, once
// the model is ready, classifies, clusters, and tracks the foreground
// returns. While the model is still warming up it still learns from raw,
// but returns a Frame with no objects and BackgroundReady false, so no
// cluster or track is ever built from an unlearned scene.
func (p *Processor) ProcessScan(raw []PolarSample) Frame {
	p.frameCount++

	samples := NormalizeSamples(raw)
	p.background.Update(samples)

	if !p.background.IsReady() {
		return Frame{BackgroundReady: false}
	}

	labels := p.background.Classify(samples)
	points := make([]orb.Point, 0, len(samples))
	for i, s := range samples {
		if labels[i] == LabelForeground {
			points = append(points, PolarToPlanar(s))
		}
	}

	clusters := p.clusterer.Cluster(points)
	objects, retired := p.tracker.Update(clusters)

	for _, obj := range objects {
		p.trajectory.Record(obj.PublicID, obj.Centroid)
	}
	for _, r := range retired {
		if r.HadPublicID {
			p.trajectory.Prune(r.PublicID)
		}
	}

	monitoring.Logf(monitoring.LevelDebug, "scan %s: %d foreground points, %d clusters, %d confirmed objects",
		p.runID, len(points), len(clusters), len(objects))
	for _, r := range retired {
		if r.HadPublicID {
			monitoring.Logf(monitoring.LevelWarn, "scan %s: track %d retired", p.runID, r.PublicID)
		}
	}

	return Frame{Objects: objects, BackgroundReady: true}
}

// Trajectory returns the recorded centroid history for a public track id.
func (p *Processor) Trajectory(id int64) []orb.Point {
	return p.trajectory.Trajectory(id)
}

// AllTrajectories returns a copy of every recorded trajectory, keyed by
// public track id.
func (p *Processor) AllTrajectories() map[int64][]orb.Point {
	return p.trajectory.All()
}

// SpeedStats returns the mean and standard deviation of a public track id's
// per-frame displacement magnitude.
func (p *Processor) SpeedStats(id int64) (mean, stddev float64) {
	return p.trajectory.SpeedStats(id)
}

// FrameCount reports how many scans have been fed through ProcessScan so
// far, including the scans spent warming up the background model.
func (p *Processor) FrameCount() int {
	return p.frameCount
}

// BackgroundReady reports whether the background model has learned enough
// frames to be trusted for classification, independent of any particular
// Frame's result.
func (p *Processor) BackgroundReady() bool {
	return p.background.IsReady()
}

// ResetBackground discards learned background state and returns the model
// to warmup, without touching any live track or trajectory. Use this when
// the static scene changes, e.g. furniture moved in the sensor's field of
// view, but ongoing tracks should keep their identity.
func (p *Processor) ResetBackground() {
	p.background.Reset()
}

// Reset returns the Processor to its state immediately after NewProcessor:
// background, tracker, and trajectory store are rebuilt from the original
// configuration and the frame counter returns to zero.
func (p *Processor) Reset() {
	p.background = NewBackgroundModel(p.cfg)
	p.tracker = NewTracker(p.cfg)
	p.trajectory = NewTrajectoryStore(p.cfg.MaxTrajectoryLength)
	p.frameCount = 0
}
