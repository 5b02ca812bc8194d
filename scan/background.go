package scan

import "math"

// Label classifies a sample against the background model.
type Label int

const (
	LabelUnknown Label = iota
	LabelBackground
	LabelForeground
)

// BackgroundBin is one angular bin of the background model.
type BackgroundBin struct {
	LearnedRangeMM float64
	Learned        bool
	SampleCount    int
}

// BackgroundModel separates static scene structure from moving returns with
// a per-angular-bin asymmetric exponential moving average, the way
// internal/lidar/background.go's BackgroundManager maintains one EMA cell
// per angular bin: the learned range only moves toward farther or
// near-identical returns, never toward a closer one, so a person standing
// in front of a wall cannot drag the wall's learned range toward them.
type BackgroundModel struct {
	bins              []BackgroundBin
	angleBins         int
	learningRate      float64
	thresholdMM       float64
	minLearningFrames int
	framesSeen        int
}

// NewBackgroundModel constructs a BackgroundModel sized and tuned from cfg.
func NewBackgroundModel(cfg Config) *BackgroundModel {
	return &BackgroundModel{
		bins:              make([]BackgroundBin, cfg.AngleBins),
		angleBins:         cfg.AngleBins,
		learningRate:      cfg.BackgroundLearningRate,
		thresholdMM:       cfg.ForegroundThresholdMM,
		minLearningFrames: cfg.MinLearningFrames,
	}
}

func (m *BackgroundModel) binIndex(angleDeg float64) int {
	idx := int(math.Floor(angleDeg * float64(m.angleBins) / 360.0))
	idx %= m.angleBins
	if idx < 0 {
		idx += m.angleBins
	}
	return idx
}

// Update folds one frame's samples into the model, in input order, then
// advances the readiness frame counter. A bin's first-ever sample seeds it
// directly; afterward the bin only updates for samples no closer than
// threshold_mm inside the learned range.
func (m *BackgroundModel) Update(samples []PolarSample) {
	for _, s := range samples {
		bin := &m.bins[m.binIndex(s.AngleDeg)]
		if !bin.Learned {
			bin.LearnedRangeMM = s.RangeMM
			bin.Learned = true
			bin.SampleCount = 1
			continue
		}
		if s.RangeMM >= bin.LearnedRangeMM-m.thresholdMM {
			bin.LearnedRangeMM = (1-m.learningRate)*bin.LearnedRangeMM + m.learningRate*s.RangeMM
		}
		bin.SampleCount++
	}
	m.framesSeen++
}

// Classify returns, for each sample in samples in the same order, whether it
// falls inside the learned background, stands out as foreground, or lands
// in a bin that has not learned yet.
func (m *BackgroundModel) Classify(samples []PolarSample) []Label {
	labels := make([]Label, len(samples))
	for i, s := range samples {
		bin := &m.bins[m.binIndex(s.AngleDeg)]
		switch {
		case !bin.Learned:
			labels[i] = LabelUnknown
		case s.RangeMM <= bin.LearnedRangeMM-m.thresholdMM:
			labels[i] = LabelForeground
		default:
			labels[i] = LabelBackground
		}
	}
	return labels
}

// IsReady reports whether the model has seen enough frames to be trusted for
// classification.
func (m *BackgroundModel) IsReady() bool {
	return m.framesSeen >= m.minLearningFrames
}

// Bin returns a copy of the learned state for angleDeg's bin, for
// diagnostics and tests.
func (m *BackgroundModel) Bin(angleDeg float64) BackgroundBin {
	return m.bins[m.binIndex(angleDeg)]
}

// Reset clears every bin and the frame counter, forcing the model back into
// its warmup state. Call this if the static scene changes, e.g. furniture
// moved in the sensor's field of view.
func (m *BackgroundModel) Reset() {
	for i := range m.bins {
		m.bins[i] = BackgroundBin{}
	}
	m.framesSeen = 0
}
