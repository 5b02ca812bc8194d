package scan

import "sort"

// candidatePair is one (track, cluster) pairing within gating distance.
type candidatePair struct {
	trackID    int64
	clusterIdx int
	distance   float64
}

// greedyAssign matches tracks to clusters by sorting every candidate pair
// once by distance and sweeping with occupancy flags, rather than solving
// for the globally optimal assignment. internal/lidar/hungarian.go's own
// doc comment describes exactly this as "the greedy nearest-neighbour
// approach" it replaced to avoid track splitting at high track counts;
// at the track counts this pipeline expects, greedy sweep is simple,
// deterministic, and good enough. Ties break on the smaller internal
// track id, then the smaller cluster index, so the result depends only on
// distance and track/cluster identity, never on slice iteration order.
func greedyAssign(pairs []candidatePair) map[int64]int {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].distance != pairs[j].distance {
			return pairs[i].distance < pairs[j].distance
		}
		if pairs[i].trackID != pairs[j].trackID {
			return pairs[i].trackID < pairs[j].trackID
		}
		return pairs[i].clusterIdx < pairs[j].clusterIdx
	})

	trackTaken := make(map[int64]bool, len(pairs))
	clusterTaken := make(map[int]bool, len(pairs))
	result := make(map[int64]int, len(pairs))

	for _, p := range pairs {
		if trackTaken[p.trackID] || clusterTaken[p.clusterIdx] {
			continue
		}
		trackTaken[p.trackID] = true
		clusterTaken[p.clusterIdx] = true
		result[p.trackID] = p.clusterIdx
	}
	return result
}
