package analyze

import (
	"sort"
)

type Point struct {
	X float64
	Y float64
}

// FindKnee implements the Kneedle algorithm to find the point of maximum curvature.
// It assumes the curve is concave (increasing but flattening out, like throughput
// against workload size once caches fill). points is not modified.
func FindKnee(points []Point) Point {
	if len(points) < 3 {
		if len(points) > 0 {
			return points[len(points)-1]
		}
		return Point{}
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	// Normalize to [0, 1]
	minX, maxX := sorted[0].X, sorted[len(sorted)-1].X
	minY, maxY := sorted[0].Y, sorted[0].Y
	for _, p := range sorted {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if maxX == minX || maxY == minY {
		return sorted[len(sorted)-1]
	}

	// The knee is the point furthest above the diagonal y = x.
	maxDist := -1.0
	var knee Point
	for _, p := range sorted {
		xNorm := (p.X - minX) / (maxX - minX)
		yNorm := (p.Y - minY) / (maxY - minY)
		if dist := yNorm - xNorm; dist > maxDist {
			maxDist = dist
			knee = p
		}
	}
	return knee
}

// Throughput converts mean durations in seconds at each size into bytes per
// second, for sizes measured in blocks of blockSize bytes. Non-positive
// durations are skipped.
func Throughput(sizes []int, seconds []float64, blockSize int) []Point {
	out := make([]Point, 0, len(sizes))
	for i, n := range sizes {
		if i >= len(seconds) || seconds[i] <= 0 {
			continue
		}
		out = append(out, Point{X: float64(n), Y: float64(n*blockSize) / seconds[i]})
	}
	return out
}
