// Package gen is the procedural lane-content generator: frame by frame it
// decides where floor tiles, obstacles, collectibles, and scenery appear,
// enforcing the fairness invariants (no unwinnable rows, recovery windows,
// end-of-level despawn) and bounding memory via tracker cleanup.
package gen

import (
	"context"
	"errors"
	"fmt"

	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
	"ringsport/server/logging"
	loglifecycle "ringsport/server/logging/lifecycle"
	"ringsport/server/patterns"
)

// ErrNotStarted is returned by Tick before any level has begun.
var ErrNotStarted = errors.New("gen: no level started")

// Deps wires the generator's collaborators. Registry and Library default to
// the built-ins; Pool defaults to a freshly registered preview pool.
type Deps struct {
	Registry  *track.Registry
	Library   *patterns.Library
	Pool      *pool.Pool
	Publisher logging.Publisher
	Seed      string
}

// Stats are the generator's cumulative per-run counters.
type Stats struct {
	SpawnedObstacles    uint64 `json:"spawnedObstacles"`
	SpawnedCollectibles uint64 `json:"spawnedCollectibles"`
	SpawnedFloors       uint64 `json:"spawnedFloors"`
	SpawnedScenery      uint64 `json:"spawnedScenery"`
	Despawned           uint64 `json:"despawned"`
	PoolRetries         uint64 `json:"poolRetries"`
	PatternFallbacks    uint64 `json:"patternFallbacks"`
	SkippedCycles       uint64 `json:"skippedCycles"`
	TrackedObstacles    int    `json:"trackedObstacles"`
}

// Generator owns the per-level configuration and drives every sub-spawner
// once per tick in fixed order: floor, obstacles, collectibles, despawn,
// tracker cleanup. It is single-threaded by design; callers serialize Tick.
type Generator struct {
	registry  *track.Registry
	library   *patterns.Library
	pool      *pool.Pool
	publisher logging.Publisher
	seed      string

	tracker      *Tracker
	recovery     *RecoveryZone
	despawner    *Despawner
	floor        *FloorSpawner
	obstacles    *ObstacleSpawner
	collectibles *CollectibleSpawner

	started         bool
	level           int
	cfg             track.LevelConfig
	tick            uint64
	virtualDistance float64
	scrollSpeed     float64
	levelEndZ       float64
	endSuppressZ    float64
	levelEnding     bool

	stats Stats
}

// New constructs a generator. Missing deps fall back to built-ins so tests
// can wire only what they exercise.
func New(deps Deps) *Generator {
	if deps.Registry == nil {
		deps.Registry = track.DefaultRegistry()
	}
	if deps.Library == nil {
		deps.Library = patterns.DefaultLibrary()
	}
	if deps.Pool == nil {
		deps.Pool = pool.New()
		RegisterDefaultTags(deps.Pool)
	}
	if deps.Publisher == nil {
		deps.Publisher = logging.NopPublisher()
	}
	if deps.Seed == "" {
		deps.Seed = track.DefaultSeed
	}

	g := &Generator{
		registry:  deps.Registry,
		library:   deps.Library,
		pool:      deps.Pool,
		publisher: deps.Publisher,
		seed:      deps.Seed,
		tracker:   NewTracker(),
		recovery:  &RecoveryZone{},
	}
	g.despawner = NewDespawner(deps.Pool)
	g.floor = NewFloorSpawner(deps.Pool, g.despawner)
	g.obstacles = NewObstacleSpawner(deps.Pool, g.tracker, g.despawner, g.recovery, deps.Library, deps.Publisher)
	g.collectibles = NewCollectibleSpawner(deps.Pool, g.tracker, g.despawner, deps.Publisher)
	return g
}

// StartLevel resets every sub-spawner and begins generation for the level.
// An unknown level is fatal to that level's generation and reported to the
// caller rather than silently producing an empty track.
func (g *Generator) StartLevel(level int) error {
	if g == nil {
		return errors.New("gen: nil generator")
	}
	cfg, err := g.registry.Config(level)
	if err != nil {
		return fmt.Errorf("gen: start level %d: %w", level, err)
	}

	g.despawner.Reset()
	g.tracker.Reset()
	g.recovery.Reset()

	g.started = true
	g.level = level
	g.cfg = cfg
	g.tick = 0
	g.virtualDistance = 0
	g.levelEnding = false
	g.stats = Stats{}

	g.scrollSpeed = BaseScrollSpeed * cfg.SpeedMultiplier
	g.levelEndZ = cfg.Duration * g.scrollSpeed
	g.endSuppressZ = g.levelEndZ - endSpawnMarginSeconds*g.scrollSpeed

	stream := func(label string) string {
		return fmt.Sprintf("level-%d.%s", level, label)
	}
	g.floor.Reset(track.NewDeterministicRNG(g.seed, stream("floor")), 0)
	g.obstacles.Reset(track.NewDeterministicRNG(g.seed, stream("obstacles")), level, g.cfg.MinObstacleSpacing, g.endSuppressZ)
	g.collectibles.Reset(track.NewDeterministicRNG(g.seed, stream("collectibles")), g.cfg.MinCollectibleSpacing, g.endSuppressZ)

	loglifecycle.LevelStarted(context.Background(), g.publisher, g.tick, loglifecycle.LevelStartedPayload{
		Level:       level,
		Seed:        g.seed,
		ScrollSpeed: g.scrollSpeed,
		LevelLength: g.levelEndZ,
	})
	return nil
}

// Tick advances the generation by dt seconds of scroll and runs one full
// spawner cycle. Exactly one logical tick per rendered frame; no phase
// suspends mid-tick.
func (g *Generator) Tick(dt float64) (Frame, error) {
	if g == nil || !g.started {
		return Frame{}, ErrNotStarted
	}
	if dt < 0 {
		dt = 0
	}

	g.tick++
	g.virtualDistance += g.scrollSpeed * dt

	spawnDistance := DefaultSpawnDistance
	if g.levelEnding {
		spawnDistance = endPhaseSpawnDistance
	}

	ctx := Context{
		Tick:            g.tick,
		VirtualDistance: g.virtualDistance,
		PlayerZ:         g.virtualDistance,
		SpawnDistance:   spawnDistance,
		Config:          g.cfg,
	}

	frame := Frame{
		Tick:            g.tick,
		Level:           g.level,
		VirtualDistance: g.virtualDistance,
		LevelEnding:     g.levelEnding,
	}

	floorEvents := g.floor.Advance(ctx)
	obstacleEvents := g.obstacles.Advance(ctx)
	collectibleEvents := g.collectibles.Advance(ctx)

	frame.Spawned = append(frame.Spawned, floorEvents...)
	frame.Spawned = append(frame.Spawned, obstacleEvents...)
	frame.Spawned = append(frame.Spawned, collectibleEvents...)

	frame.Despawned = g.despawner.Sweep(ctx.PlayerZ)
	g.tracker.Cleanup(g.virtualDistance)

	g.recovery.Expire(g.virtualDistance)
	frame.RecoveryActive = g.recovery.Active()

	g.accumulate(frame)
	return frame, nil
}

// BeginLevelEnd arms the one-time finish-line substitution and switches the
// despawner to its two-sided sweep.
func (g *Generator) BeginLevelEnd() {
	if g == nil || !g.started || g.levelEnding {
		return
	}
	g.levelEnding = true
	g.despawner.SetEndPhase(true)

	targetZ := g.virtualDistance + DefaultSpawnDistance
	g.floor.ArmFinishLine(targetZ)
	finishZ, armed := g.floor.FinishLineZ()
	if armed {
		// Nothing spawns at or past the finish line, and obstacles the
		// two-sided sweep reclaims must not linger in the tracker.
		g.obstacles.ClampEnd(finishZ)
		g.collectibles.ClampEnd(finishZ)
		g.tracker.DropBeyond(g.virtualDistance + despawnAheadMargin)
	}
	loglifecycle.LevelEnding(context.Background(), g.publisher, g.tick, loglifecycle.LevelEndingPayload{
		FinishLineZ: finishZ,
	})
}

// PalisadeCompleted grants the post-mini-game recovery window. A second call
// while a zone is active is a no-op.
func (g *Generator) PalisadeCompleted() {
	if g == nil || !g.started {
		return
	}
	if !g.recovery.Arm(g.virtualDistance) {
		return
	}
	startZ, endZ := g.recovery.Bounds()
	loglifecycle.RecoveryZone(context.Background(), g.publisher, g.tick, loglifecycle.RecoveryZonePayload{
		StartZ: startZ,
		EndZ:   endZ,
	})
}

// Started reports whether a level is running.
func (g *Generator) Started() bool {
	return g != nil && g.started
}

// Level returns the running level number, zero before StartLevel.
func (g *Generator) Level() int {
	if g == nil {
		return 0
	}
	return g.level
}

// VirtualDistance returns the scroll-accumulated distance.
func (g *Generator) VirtualDistance() float64 {
	if g == nil {
		return 0
	}
	return g.virtualDistance
}

// LevelLength returns the virtual distance at which the level concludes.
func (g *Generator) LevelLength() float64 {
	if g == nil {
		return 0
	}
	return g.levelEndZ
}

// ObstacleCursor exposes the obstacle spawner's schedule, for diagnostics.
func (g *Generator) ObstacleCursor() float64 {
	if g == nil {
		return 0
	}
	return g.obstacles.Cursor()
}

// Stats snapshots the cumulative counters.
func (g *Generator) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	stats := g.stats
	stats.PoolRetries = g.obstacles.poolRetries + g.collectibles.poolRetries
	stats.PatternFallbacks = g.obstacles.patternFallbacks
	stats.SkippedCycles = g.obstacles.skippedCycles
	stats.TrackedObstacles = g.tracker.Len()
	return stats
}

func (g *Generator) accumulate(frame Frame) {
	for _, ev := range frame.Spawned {
		switch ev.Category {
		case CategoryObstacle.String():
			g.stats.SpawnedObstacles++
		case CategoryCollectible.String():
			g.stats.SpawnedCollectibles++
		case CategoryFloor.String():
			g.stats.SpawnedFloors++
		case CategoryScenery.String():
			g.stats.SpawnedScenery++
		}
	}
	g.stats.Despawned += uint64(len(frame.Despawned))
}
