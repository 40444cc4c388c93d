package track

import "testing"

func TestObstacleKindPassable(t *testing.T) {
	passable := map[ObstacleKind]bool{
		ObstacleAvoid:     false,
		ObstacleJump:      true,
		ObstaclePalisade:  true,
		ObstaclePylon:     false,
		ObstacleBroadJump: true,
	}
	for kind, want := range passable {
		if got := kind.Passable(); got != want {
			t.Fatalf("kind %s: Passable() = %v, want %v", kind, got, want)
		}
	}
	for _, kind := range PassableKinds {
		if !kind.Passable() {
			t.Fatalf("PassableKinds contains blocking kind %s", kind)
		}
	}
}

func TestObstacleKindByName(t *testing.T) {
	for _, kind := range ObstacleKinds {
		resolved, ok := ObstacleKindByName(kind.String())
		if !ok {
			t.Fatalf("ObstacleKindByName(%q) not found", kind.String())
		}
		if resolved != kind {
			t.Fatalf("ObstacleKindByName(%q) = %v, want %v", kind.String(), resolved, kind)
		}
	}
	if _, ok := ObstacleKindByName("laser-wall"); ok {
		t.Fatalf("expected unknown kind name to fail resolution")
	}
}

func TestLaneValid(t *testing.T) {
	for _, lane := range Lanes {
		if !lane.Valid() {
			t.Fatalf("lane %d should be valid", lane)
		}
	}
	for _, lane := range []Lane{-2, 2, 7} {
		if lane.Valid() {
			t.Fatalf("lane %d should be invalid", lane)
		}
	}
}

func TestLaneX(t *testing.T) {
	if got := LaneX(LaneLeft); got != -LaneWidth {
		t.Fatalf("LaneX(left) = %g, want %g", got, -LaneWidth)
	}
	if got := LaneX(LaneCenter); got != 0 {
		t.Fatalf("LaneX(center) = %g, want 0", got)
	}
	if got := LaneX(LaneRight); got != LaneWidth {
		t.Fatalf("LaneX(right) = %g, want %g", got, LaneWidth)
	}
}
