package gen

import (
	"testing"

	"ringsport/server/internal/track"
)

func TestTrackerLaneQueries(t *testing.T) {
	tr := NewTracker()
	tr.Add(10, track.LaneLeft, track.ObstacleAvoid)
	tr.Add(30, track.LaneCenter, track.ObstacleJump)

	if !tr.LaneOccupiedBehind(track.LaneLeft, 12, laneClearance) {
		t.Fatalf("obstacle 2 units behind should occupy the lane")
	}
	if tr.LaneOccupiedBehind(track.LaneLeft, 15, laneClearance) {
		t.Fatalf("obstacle 5 units behind is outside the clearance window")
	}
	if tr.LaneOccupiedBehind(track.LaneRight, 12, laneClearance) {
		t.Fatalf("empty lane reported occupied")
	}
	if tr.LaneOccupiedBehind(track.LaneLeft, 8, laneClearance) {
		t.Fatalf("obstacle ahead of z should not count as behind")
	}

	if !tr.LaneOccupiedAhead(track.LaneCenter, 28, 5) {
		t.Fatalf("obstacle 2 units ahead should occupy the lane")
	}
	if tr.LaneOccupiedAhead(track.LaneCenter, 24, 5) {
		t.Fatalf("obstacle 6 units ahead is outside the window")
	}
}

func TestTrackerNearestWithin(t *testing.T) {
	tr := NewTracker()
	tr.Add(10, track.LaneLeft, track.ObstacleAvoid)
	tr.Add(14, track.LaneRight, track.ObstaclePylon)

	nearest, found := tr.NearestWithin(11, nearObstacleRadius)
	if !found {
		t.Fatalf("expected an obstacle within radius")
	}
	if nearest.Z != 10 {
		t.Fatalf("nearest = %g, want 10", nearest.Z)
	}

	if _, found := tr.NearestWithin(20, nearObstacleRadius); found {
		t.Fatalf("no obstacle lies within 3 units of z=20")
	}
}

func TestTrackerNextJumpableAhead(t *testing.T) {
	tr := NewTracker()
	tr.Add(12, track.LaneLeft, track.ObstacleAvoid)
	tr.Add(14, track.LaneCenter, track.ObstacleJump)
	tr.Add(16, track.LaneRight, track.ObstaclePalisade)

	next, found := tr.NextJumpableAhead(10, arcLookahead)
	if !found {
		t.Fatalf("expected a passable obstacle ahead")
	}
	if next.Z != 14 || next.Kind != track.ObstacleJump {
		t.Fatalf("next jumpable = %+v, want the jump at 14", next)
	}

	if _, found := tr.NextJumpableAhead(30, arcLookahead); found {
		t.Fatalf("nothing passable ahead of 30")
	}
	if _, found := tr.NextJumpableAhead(10, 1); found {
		t.Fatalf("lookahead of 1 should exclude the jump at 14")
	}
}

func TestTrackerCleanupPrunesTrailingEntries(t *testing.T) {
	tr := NewTracker()
	for z := 0.0; z < 100; z += 5 {
		tr.Add(z, track.LaneCenter, track.ObstacleAvoid)
	}

	tr.Cleanup(100)
	for _, e := range tr.entries {
		if e.Z < 100-trackerTrailingWindow {
			t.Fatalf("entry at %g survived cleanup at distance 100", e.Z)
		}
	}
	if tr.Len() != 2 {
		t.Fatalf("expected entries at 90 and 95 to survive, got %d", tr.Len())
	}
}

func TestTrackerCleanupBoundsMemory(t *testing.T) {
	tr := NewTracker()
	distance := 0.0
	for i := 0; i < 2000; i++ {
		distance += 1.5
		tr.Add(distance+20, track.LaneLeft, track.ObstaclePylon)
		tr.Cleanup(distance)
		if tr.Len() > 64 {
			t.Fatalf("tracker grew unbounded: %d entries at distance %g", tr.Len(), distance)
		}
	}
}

func TestTrackerDropBeyond(t *testing.T) {
	tr := NewTracker()
	tr.Add(20, track.LaneLeft, track.ObstacleJump)
	tr.Add(55, track.LaneLeft, track.ObstacleJump)

	tr.DropBeyond(40)
	if tr.Len() != 1 {
		t.Fatalf("expected 1 entry after drop, got %d", tr.Len())
	}
	if tr.LaneOccupiedAhead(track.LaneLeft, 50, 10) {
		t.Fatalf("dropped entry still answers lane queries")
	}
	if _, found := tr.NextJumpableAhead(18, arcLookahead); !found {
		t.Fatalf("entry inside the cutoff was dropped")
	}
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	tr.Add(5, track.LaneLeft, track.ObstacleAvoid)
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("reset left %d entries", tr.Len())
	}
}
