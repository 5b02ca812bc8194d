// Command simulate feeds synthetic circular-wall scans through the
// tracking pipeline and prints each frame's confirmed objects, the way
// cmd/bg-sweep drives the tracker's HTTP surface for a parameter sweep,
// but in-process against the scan package directly.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/gabe-ochoa/lidar-tracking/scan"
)

func main() {
	frames := flag.Int("frames", 60, "number of scans to simulate")
	wallMM := flag.Float64("wall", 5000, "distance to the surrounding wall, in millimetres")
	startAngle := flag.Int("intruder-start", 0, "angle in degrees where the intruder enters, or -1 to disable")
	speedDegPerFrame := flag.Float64("intruder-speed", 2, "intruder angular speed, degrees per frame")
	intruderMM := flag.Float64("intruder-range", 1200, "intruder distance from the sensor, in millimetres")
	flag.Parse()

	cfg := scan.DefaultConfig()
	p, err := scan.NewProcessor(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < *frames; i++ {
		samples := make([]scan.PolarSample, cfg.AngleBins)
		for a := 0; a < cfg.AngleBins; a++ {
			angle := float64(a) * 360.0 / float64(cfg.AngleBins)
			samples[a] = scan.PolarSample{AngleDeg: angle, RangeMM: *wallMM}
		}
		if *startAngle >= 0 {
			intruderAngle := math.Mod(float64(*startAngle)+float64(i)*(*speedDegPerFrame), 360)
			for a := 0; a < cfg.AngleBins; a++ {
				angle := samples[a].AngleDeg
				delta := math.Abs(angle - intruderAngle)
				if delta > 180 {
					delta = 360 - delta
				}
				if delta <= 5 {
					samples[a].RangeMM = *intruderMM
				}
			}
		}

		frame := p.ProcessScan(samples)
		if !frame.BackgroundReady {
			fmt.Printf("frame %d: learning background\n", i)
			continue
		}
		fmt.Printf("frame %d: %d confirmed objects\n", i, len(frame.Objects))
		for _, obj := range frame.Objects {
			fmt.Printf("  id=%d centroid=(%.1f, %.1f) velocity=(%.1f, %.1f)\n",
				obj.PublicID, obj.Centroid.X(), obj.Centroid.Y(), obj.Velocity.X(), obj.Velocity.Y())
		}
	}
}
