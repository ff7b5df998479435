package routing

import (
	"math"

	"github.com/trailatlas/trailgraph-backend-go/internal/spatial"
)

// kMeansMaxIterations bounds the refinement loop; seed clustering only needs
// coarse spatial coverage, not converged centroids
const kMeansMaxIterations = 20

// KMeansResult assigns each input point to a cluster
type KMeansResult struct {
	Assignments []int
	Centroids   []spatial.Point
}

// KMeans partitions points into k geographic clusters using Lloyd's
// algorithm. Initial centroids are taken evenly spaced across the input
// order, making the result deterministic for a fixed input ordering.
func KMeans(points []spatial.Point, k int) KMeansResult {
	if k <= 0 {
		k = 1
	}
	if k > len(points) {
		k = len(points)
	}
	if len(points) == 0 {
		return KMeansResult{}
	}

	centroids := make([]spatial.Point, k)
	step := len(points) / k
	for i := 0; i < k; i++ {
		centroids[i] = points[i*step]
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < kMeansMaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as cluster means
		sumLon := make([]float64, k)
		sumLat := make([]float64, k)
		count := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			sumLon[c] += p.Lon
			sumLat[c] += p.Lat
			count[c]++
		}
		for c := 0; c < k; c++ {
			if count[c] > 0 {
				centroids[c] = spatial.Point{Lon: sumLon[c] / float64(count[c]), Lat: sumLat[c] / float64(count[c])}
			}
		}
	}

	return KMeansResult{Assignments: assignments, Centroids: centroids}
}

// nearestCentroid returns the index of the closest centroid in planar degree
// space, which is sufficient for coverage clustering at region scale
func nearestCentroid(p spatial.Point, centroids []spatial.Point) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		dLon := p.Lon - c.Lon
		dLat := p.Lat - c.Lat
		d := dLon*dLon + dLat*dLat
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
