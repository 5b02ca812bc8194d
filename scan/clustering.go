package scan

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/gabe-ochoa/lidar-tracking/internal/monitoring"
)

// Cluster is a set of spatially dense foreground points presumed to
// correspond to one physical object.
type Cluster struct {
	Centroid         orb.Point
	MemberCount      int
	BoundingRadiusMM float64
	Density          float64 // members per mm^2 of the cluster's bounding circle
}

// ClusterParams configures the grid-accelerated clusterer.
type ClusterParams struct {
	EpsMM              float64
	MinSamples         int
	MaxClusterRadiusMM float64
}

// Clusterer groups foreground points into density-based clusters, the way
// internal/lidar/clustering.go's DBSCAN groups WorldPoints, but keyed on
// an (x, y) cell-coordinate pair instead of a Szudzik-paired cell ID.
type Clusterer struct {
	params ClusterParams
}

// NewClusterer constructs a Clusterer tuned from cfg.
func NewClusterer(cfg Config) *Clusterer {
	return &Clusterer{params: ClusterParams{
		EpsMM:              cfg.ClusterEpsMM,
		MinSamples:         cfg.ClusterMinSamples,
		MaxClusterRadiusMM: cfg.MaxClusterRadiusMM,
	}}
}

// grid buckets points into square cells of side cellSizeMM, the way
// internal/lidar/clustering.go's SpatialIndex buckets WorldPoints, so a
// neighbor search only has to look at the 3x3 block of cells around a
// point instead of every point in the scan.
type grid struct {
	cellSizeMM float64
	cells      map[[2]int64][]int
}

func newGrid(points []orb.Point, cellSizeMM float64) *grid {
	g := &grid{cellSizeMM: cellSizeMM, cells: make(map[[2]int64][]int, len(points))}
	for i, p := range points {
		cell := g.cellOf(p)
		g.cells[cell] = append(g.cells[cell], i)
	}
	return g
}

func (g *grid) cellOf(p orb.Point) [2]int64 {
	return [2]int64{
		int64(math.Floor(p.X() / g.cellSizeMM)),
		int64(math.Floor(p.Y() / g.cellSizeMM)),
	}
}

// neighbors returns indices of every point within epsMM of points[idx],
// including idx itself, searching only the 3x3 block of cells around
// points[idx]'s cell.
func (g *grid) neighbors(points []orb.Point, idx int, epsMM float64) []int {
	p := points[idx]
	cell := g.cellOf(p)
	eps2 := epsMM * epsMM
	var out []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, j := range g.cells[[2]int64{cell[0] + dx, cell[1] + dy}] {
				ddx := points[j].X() - p.X()
				ddy := points[j].Y() - p.Y()
				if ddx*ddx+ddy*ddy <= eps2 {
					out = append(out, j)
				}
			}
		}
	}
	return out
}

// Cluster runs a DBSCAN-style expansion over points, visiting them in input
// order so that cluster ids, and therefore the returned slice's order,
// are a deterministic function of points' order. Clusters whose bounding
// radius exceeds MaxClusterRadiusMM are dropped rather than returned, so a
// badly mis-tuned eps cannot merge half the scene into one "object".
func (c *Clusterer) Cluster(points []orb.Point) []Cluster {
	if len(points) == 0 {
		return nil
	}
	g := newGrid(points, c.params.EpsMM)

	const (
		unvisited = 0
		noise     = -1
	)
	labels := make([]int, len(points))
	nextID := 0

	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		nbrs := g.neighbors(points, i, c.params.EpsMM)
		if len(nbrs) < c.params.MinSamples {
			labels[i] = noise
			continue
		}
		nextID++
		c.expand(points, g, labels, i, nbrs, nextID)
	}

	return c.buildClusters(points, labels, nextID)
}

func (c *Clusterer) expand(points []orb.Point, g *grid, labels []int, seed int, neighbors []int, clusterID int) {
	labels[seed] = clusterID

	queue := neighbors
	for j := 0; j < len(queue); j++ {
		idx := queue[j]

		if labels[idx] == -1 {
			labels[idx] = clusterID // noise becomes a border point
		}
		if labels[idx] != 0 {
			continue // already processed
		}

		labels[idx] = clusterID
		more := g.neighbors(points, idx, c.params.EpsMM)
		if len(more) >= c.params.MinSamples {
			queue = append(queue, more...)
		}
	}
}

func (c *Clusterer) buildClusters(points []orb.Point, labels []int, maxClusterID int) []Cluster {
	var out []Cluster
	for id := 1; id <= maxClusterID; id++ {
		var sumX, sumY float64
		count := 0
		for i, l := range labels {
			if l == id {
				sumX += points[i].X()
				sumY += points[i].Y()
				count++
			}
		}
		if count == 0 {
			continue
		}
		centroid := orb.Point{sumX / float64(count), sumY / float64(count)}

		var radius float64
		for i, l := range labels {
			if l == id {
				if d := planar.Distance(points[i], centroid); d > radius {
					radius = d
				}
			}
		}
		if radius > c.params.MaxClusterRadiusMM {
			monitoring.Logf(monitoring.LevelWarn, "dropped cluster of %d points: bounding radius %.1fmm exceeds max %.1fmm",
				count, radius, c.params.MaxClusterRadiusMM)
			continue
		}

		var density float64
		if radius > 0 {
			density = float64(count) / (math.Pi * radius * radius)
		}

		out = append(out, Cluster{
			Centroid:         centroid,
			MemberCount:      count,
			BoundingRadiusMM: radius,
			Density:          density,
		})
	}
	return out
}
