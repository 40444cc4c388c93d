package gen

import (
	"testing"

	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
)

func floorTestConfig() track.LevelConfig {
	return track.LevelConfig{
		Level:           1,
		MaxObstacles:    64,
		MaxCollectibles: 128,
	}
}

func floorContext(vd float64) Context {
	return Context{
		Tick:            1,
		VirtualDistance: vd,
		PlayerZ:         vd,
		SpawnDistance:   DefaultSpawnDistance,
		Config:          floorTestConfig(),
	}
}

func newFloorFixture(floorCapacity int) (*pool.Pool, *FloorSpawner) {
	p := pool.New()
	p.Register(TagFloor, floorCapacity)
	p.Register(TagFloorFinish, 1)
	p.Register(TagScenery, 64)
	d := NewDespawner(p)
	f := NewFloorSpawner(p, d)
	f.Reset(track.NewDeterministicRNG("floor-test", "floor"), 0)
	return p, f
}

func TestFloorAdvanceCoversLookahead(t *testing.T) {
	_, f := newFloorFixture(16)

	events := f.Advance(floorContext(0))
	if len(events) == 0 {
		t.Fatalf("expected floor tiles on first advance")
	}

	var maxZ float64
	seen := make(map[float64]bool)
	for _, ev := range events {
		if ev.Category != CategoryFloor.String() {
			t.Fatalf("unexpected category %s", ev.Category)
		}
		if seen[ev.Position.Z] {
			t.Fatalf("duplicate tile at %g", ev.Position.Z)
		}
		seen[ev.Position.Z] = true
		if ev.Position.Z > maxZ {
			maxZ = ev.Position.Z
		}
	}
	if maxZ < DefaultSpawnDistance {
		t.Fatalf("coverage stops at %g, want at least %g", maxZ, DefaultSpawnDistance)
	}
	for z := 0.0; z <= maxZ; z += floorTileLength {
		if !seen[z] {
			t.Fatalf("gap in floor coverage at %g", z)
		}
	}

	if again := f.Advance(floorContext(0)); len(again) != 0 {
		t.Fatalf("second advance at the same distance laid %d extra tiles", len(again))
	}
}

func TestFloorFinishLineSpawnsOnce(t *testing.T) {
	_, f := newFloorFixture(16)
	f.ArmFinishLine(42)

	finishZ, armed := f.FinishLineZ()
	if !armed {
		t.Fatalf("finish line not armed")
	}
	if finishZ != 50 {
		t.Fatalf("finish tile at %g, want the next tile boundary 50", finishZ)
	}

	events := f.Advance(floorContext(10))
	finishCount := 0
	for _, ev := range events {
		if ev.Tag == TagFloorFinish {
			finishCount++
			if ev.Position.Z != 50 {
				t.Fatalf("finish tile placed at %g, want 50", ev.Position.Z)
			}
		}
	}
	if finishCount != 1 {
		t.Fatalf("finish tile spawned %d times", finishCount)
	}

	if after := f.Advance(floorContext(100)); len(after) != 0 {
		t.Fatalf("floor spawner kept laying tiles past the finish line")
	}
}

func TestFloorArmFinishLineKeepsFirstTarget(t *testing.T) {
	_, f := newFloorFixture(16)
	f.ArmFinishLine(42)
	f.ArmFinishLine(200)

	finishZ, _ := f.FinishLineZ()
	if finishZ != 50 {
		t.Fatalf("second arm moved the finish to %g", finishZ)
	}
}

func TestFloorPoolExhaustionRetries(t *testing.T) {
	p, f := newFloorFixture(2)

	events := f.Advance(floorContext(0))
	if len(events) != 2 {
		t.Fatalf("expected exactly the 2 pooled tiles, got %d events", len(events))
	}
	if f.nextTileZ != 2*floorTileLength {
		t.Fatalf("cursor at %g after exhaustion, want %g", f.nextTileZ, 2*floorTileLength)
	}

	// Capacity returns; the spawner resumes exactly where it stopped.
	p.Register(TagFloor, 16)
	resumed := f.Advance(floorContext(0))
	if len(resumed) == 0 {
		t.Fatalf("expected resumed tiles after capacity returned")
	}
	if resumed[0].Position.Z != 2*floorTileLength {
		t.Fatalf("resume started at %g, want %g", resumed[0].Position.Z, 2*floorTileLength)
	}
}

func TestFloorSceneryDecoration(t *testing.T) {
	p := pool.New()
	p.Register(TagFloor, 16)
	p.Register(TagFloorFinish, 1)
	p.Register(TagScenery, 128)
	d := NewDespawner(p)
	f := NewFloorSpawner(p, d)
	f.Reset(track.NewDeterministicRNG("floor-test", "scenery"), 0)

	cfg := floorTestConfig()
	cfg.MinScenerySamples = 2
	cfg.MaxScenerySamples = 4
	ctx := Context{Tick: 1, VirtualDistance: 0, PlayerZ: 0, SpawnDistance: DefaultSpawnDistance, Config: cfg}

	events := f.Advance(ctx)
	sceneryCount := 0
	laneEdge := track.LaneX(track.LaneRight) + track.LaneWidth/2
	for _, ev := range events {
		if ev.Category != CategoryScenery.String() {
			continue
		}
		sceneryCount++
		if ev.Position.X > -laneEdge && ev.Position.X < laneEdge {
			t.Fatalf("scenery at X=%g intrudes on the lanes", ev.Position.X)
		}
	}
	if sceneryCount == 0 {
		t.Fatalf("expected scenery alongside the tiles")
	}
}
