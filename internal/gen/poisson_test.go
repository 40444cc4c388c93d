package gen

import (
	"testing"

	"ringsport/server/internal/track"
)

func TestPoissonSampleRespectsMinDistance(t *testing.T) {
	rng := track.NewDeterministicRNG("poisson", "test")
	for round := 0; round < 20; round++ {
		points := poissonSample(rng, floorStripWidth, floorTileLength, sceneryMinDistance, 8)
		for i := 0; i < len(points); i++ {
			for j := i + 1; j < len(points); j++ {
				dx := points[i].X - points[j].X
				dz := points[i].Z - points[j].Z
				if dx*dx+dz*dz < sceneryMinDistance*sceneryMinDistance {
					t.Fatalf("round %d: points %d and %d closer than %g", round, i, j, sceneryMinDistance)
				}
			}
		}
	}
}

func TestPoissonSampleStaysInBounds(t *testing.T) {
	rng := track.NewDeterministicRNG("poisson", "bounds")
	points := poissonSample(rng, 4, 10, 1.5, 10)
	for i, pt := range points {
		if pt.X < 0 || pt.X > 4 || pt.Z < 0 || pt.Z > 10 {
			t.Fatalf("point %d outside strip: %+v", i, pt)
		}
	}
}

func TestPoissonSampleNeverExceedsCount(t *testing.T) {
	rng := track.NewDeterministicRNG("poisson", "count")
	if got := len(poissonSample(rng, 4, 10, 1.5, 5)); got > 5 {
		t.Fatalf("returned %d points for count 5", got)
	}
}

func TestPoissonSampleSaturatedStrip(t *testing.T) {
	rng := track.NewDeterministicRNG("poisson", "saturated")
	// A 2x2 strip cannot hold 50 points at min distance 1.5; the attempt cap
	// must terminate with fewer.
	points := poissonSample(rng, 2, 2, 1.5, 50)
	if len(points) == 0 {
		t.Fatalf("expected at least one point")
	}
	if len(points) >= 50 {
		t.Fatalf("saturated strip returned %d points", len(points))
	}
}

func TestPoissonSampleDegenerateInput(t *testing.T) {
	rng := track.NewDeterministicRNG("poisson", "degenerate")
	if pts := poissonSample(rng, 4, 10, 1.5, 0); pts != nil {
		t.Fatalf("zero count should return nil, got %d points", len(pts))
	}
	if pts := poissonSample(rng, 0, 10, 1.5, 5); pts != nil {
		t.Fatalf("zero width should return nil, got %d points", len(pts))
	}
}
