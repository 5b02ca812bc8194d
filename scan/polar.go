package scan

import (
	"math"

	"github.com/paulmach/orb"
)

// PolarSample is a single range return from one scan, in the sensor's native
// polar coordinates.
type PolarSample struct {
	AngleDeg float64
	RangeMM  float64
}

// NormalizeSamples folds every angle into [0, 360) and drops samples that
// cannot be placed in the scene: non-finite angles and non-positive ranges.
// Sample order is preserved.
func NormalizeSamples(raw []PolarSample) []PolarSample {
	out := make([]PolarSample, 0, len(raw))
	for _, s := range raw {
		if math.IsNaN(s.AngleDeg) || math.IsInf(s.AngleDeg, 0) {
			continue
		}
		if s.RangeMM <= 0 {
			continue
		}
		angle := math.Mod(s.AngleDeg, 360.0)
		if angle < 0 {
			angle += 360.0
		}
		out = append(out, PolarSample{AngleDeg: angle, RangeMM: s.RangeMM})
	}
	return out
}

// PolarToPlanar converts a normalized polar sample into a planar point in
// millimetres, sensor at the origin. 0 degrees points along +y and angle
// increases clockwise, the same azimuth convention
// internal/lidar/transform.go's SphericalToCartesian uses for a zero
// elevation scan.
func PolarToPlanar(s PolarSample) orb.Point {
	rad := s.AngleDeg * math.Pi / 180.0
	x := s.RangeMM * math.Sin(rad)
	y := s.RangeMM * math.Cos(rad)
	return orb.Point{x, y}
}
