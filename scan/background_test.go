package scan

import "testing"

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.AngleBins = 360
	cfg.MinLearningFrames = 3
	return cfg
}

func TestBackgroundModel_FirstSampleSeedsBin(t *testing.T) {
	m := NewBackgroundModel(testConfig())
	m.Update([]PolarSample{{AngleDeg: 10, RangeMM: 4000}})

	bin := m.Bin(10)
	if !bin.Learned {
		t.Fatal("expected bin to be learned after first sample")
	}
	if bin.LearnedRangeMM != 4000 {
		t.Errorf("expected learned range 4000, got %f", bin.LearnedRangeMM)
	}
}

func TestBackgroundModel_NeverMovesCloser(t *testing.T) {
	cfg := testConfig()
	cfg.BackgroundLearningRate = 0.5
	cfg.ForegroundThresholdMM = 150
	m := NewBackgroundModel(cfg)

	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 4000}})
	// A closer return beyond the threshold must not drag the learned range in.
	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 1000}})

	if got := m.Bin(0).LearnedRangeMM; got != 4000 {
		t.Errorf("learned range moved toward a closer observation: got %f, want 4000", got)
	}
}

func TestBackgroundModel_MovesFartherOrWithinBand(t *testing.T) {
	cfg := testConfig()
	cfg.BackgroundLearningRate = 0.5
	cfg.ForegroundThresholdMM = 150
	m := NewBackgroundModel(cfg)

	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 4000}})
	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 4200}})

	want := 0.5*4000 + 0.5*4200
	if got := m.Bin(0).LearnedRangeMM; got != want {
		t.Errorf("got %f, want %f", got, want)
	}

	// A slightly closer return inside the threshold band still updates.
	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 4000}})
	want = 0.5*want + 0.5*4000
	if got := m.Bin(0).LearnedRangeMM; got != want {
		t.Errorf("within band: got %f, want %f", got, want)
	}
}

func TestBackgroundModel_ClassifyBoundaries(t *testing.T) {
	cfg := testConfig()
	cfg.ForegroundThresholdMM = 150
	m := NewBackgroundModel(cfg)
	m.Update([]PolarSample{{AngleDeg: 90, RangeMM: 5000}})

	cases := []struct {
		rangeMM float64
		want    Label
	}{
		{5000, LabelBackground},       // at learned range
		{4851, LabelBackground},       // just inside the open band
		{4850, LabelForeground},       // exactly at threshold boundary
		{4000, LabelForeground},       // well inside
		{6000, LabelBackground},       // farther than learned, still background
	}
	for _, c := range cases {
		labels := m.Classify([]PolarSample{{AngleDeg: 90, RangeMM: c.rangeMM}})
		if labels[0] != c.want {
			t.Errorf("range %f: got label %v, want %v", c.rangeMM, labels[0], c.want)
		}
	}
}

func TestBackgroundModel_ClassifyUnlearnedBinIsUnknown(t *testing.T) {
	m := NewBackgroundModel(testConfig())
	labels := m.Classify([]PolarSample{{AngleDeg: 200, RangeMM: 1000}})
	if labels[0] != LabelUnknown {
		t.Errorf("expected unknown for unlearned bin, got %v", labels[0])
	}
}

func TestBackgroundModel_IsReady(t *testing.T) {
	cfg := testConfig()
	cfg.MinLearningFrames = 2
	m := NewBackgroundModel(cfg)

	if m.IsReady() {
		t.Fatal("should not be ready before any frames")
	}
	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 1000}})
	if m.IsReady() {
		t.Fatal("should not be ready after one frame when min is two")
	}
	m.Update([]PolarSample{{AngleDeg: 0, RangeMM: 1000}})
	if !m.IsReady() {
		t.Fatal("should be ready after reaching min_learning_frames")
	}
}

func TestBackgroundModel_BinIndexWrapsNegativeAndOverflow(t *testing.T) {
	m := NewBackgroundModel(testConfig())
	if idx := m.binIndex(359.5); idx != 359 {
		t.Errorf("expected bin 359, got %d", idx)
	}
	if idx := m.binIndex(0); idx != 0 {
		t.Errorf("expected bin 0, got %d", idx)
	}
	if idx := m.binIndex(-0.5); idx != 359 {
		t.Errorf("expected negative angle to wrap to bin 359, got %d", idx)
	}
	if idx := m.binIndex(360.5); idx != 0 {
		t.Errorf("expected angle past 360 to wrap to bin 0, got %d", idx)
	}
}
