package gen

import (
	"math"
	"math/rand"
)

type samplePoint struct {
	X float64
	Z float64
}

// poissonSample scatters up to count points across a width×length strip so
// that no two points are closer than minDist, using attempt-capped rejection
// sampling accelerated by an occupancy grid. Fewer points are returned when
// the strip saturates.
func poissonSample(rng *rand.Rand, width, length, minDist float64, count int) []samplePoint {
	if count <= 0 || width <= 0 || length <= 0 {
		return nil
	}
	if minDist <= 0 {
		minDist = 1
	}

	// Cell edge of minDist/sqrt(2) guarantees at most one point per cell.
	cell := minDist / math.Sqrt2
	cols := int(math.Ceil(width / cell))
	rows := int(math.Ceil(length / cell))
	grid := make([]int, cols*rows)
	for i := range grid {
		grid[i] = -1
	}

	points := make([]samplePoint, 0, count)
	attempts := 0
	maxAttempts := count * 30

	for len(points) < count && attempts < maxAttempts {
		attempts++
		candidate := samplePoint{
			X: rng.Float64() * width,
			Z: rng.Float64() * length,
		}

		col := int(candidate.X / cell)
		row := int(candidate.Z / cell)
		if col >= cols {
			col = cols - 1
		}
		if row >= rows {
			row = rows - 1
		}

		if tooClose(candidate, points, grid, cols, rows, col, row, minDist) {
			continue
		}

		grid[row*cols+col] = len(points)
		points = append(points, candidate)
	}

	return points
}

func tooClose(candidate samplePoint, points []samplePoint, grid []int, cols, rows, col, row int, minDist float64) bool {
	for dr := -2; dr <= 2; dr++ {
		for dc := -2; dc <= 2; dc++ {
			r := row + dr
			c := col + dc
			if r < 0 || r >= rows || c < 0 || c >= cols {
				continue
			}
			idx := grid[r*cols+c]
			if idx < 0 {
				continue
			}
			other := points[idx]
			dx := candidate.X - other.X
			dz := candidate.Z - other.Z
			if dx*dx+dz*dz < minDist*minDist {
				return true
			}
		}
	}
	return false
}
