package gen

import (
	"context"
	"math/rand"

	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
	"ringsport/server/logging"
	loggen "ringsport/server/logging/generation"
	"ringsport/server/patterns"
)

// ObstacleSpawner decides, once per tick, between hand-authored pattern
// playback and randomized single/row placement, subject to per-lane
// clearance and fairness constraints. Every branch has a defined skip or
// retry path; it never panics for control flow.
type ObstacleSpawner struct {
	pool      *pool.Pool
	tracker   *Tracker
	despawner *Despawner
	recovery  *RecoveryZone
	library   *patterns.Library
	publisher logging.Publisher
	rng       *rand.Rand

	level        int
	nextSpawnZ   float64
	endSuppressZ float64

	// counters for diagnostics
	patternFallbacks uint64
	skippedCycles    uint64
	poolRetries      uint64
}

// NewObstacleSpawner wires the spawner's collaborators.
func NewObstacleSpawner(p *pool.Pool, t *Tracker, d *Despawner, r *RecoveryZone, lib *patterns.Library, pub logging.Publisher) *ObstacleSpawner {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &ObstacleSpawner{
		pool:      p,
		tracker:   t,
		despawner: d,
		recovery:  r,
		library:   lib,
		publisher: pub,
	}
}

// Reset prepares the spawner for a fresh level. endSuppressZ is the virtual
// distance past which no new obstacle may be scheduled.
func (s *ObstacleSpawner) Reset(rng *rand.Rand, level int, startZ, endSuppressZ float64) {
	if s == nil {
		return
	}
	s.rng = rng
	s.level = level
	s.nextSpawnZ = startZ
	s.endSuppressZ = endSuppressZ
}

// Cursor exposes the next scheduled spawn position.
func (s *ObstacleSpawner) Cursor() float64 {
	if s == nil {
		return 0
	}
	return s.nextSpawnZ
}

// ClampEnd pulls the suppression boundary in, so no obstacle is scheduled at
// or past z. The boundary only ever tightens.
func (s *ObstacleSpawner) ClampEnd(z float64) {
	if s == nil {
		return
	}
	if z < s.endSuppressZ {
		s.endSuppressZ = z
	}
}

// Advance runs the spawner's decision cycle for one tick.
func (s *ObstacleSpawner) Advance(ctx Context) []SpawnEvent {
	if s == nil {
		return nil
	}

	var events []SpawnEvent
	for placements := 0; placements < maxPlacementsPerTick; placements++ {
		if ctx.Lookahead() < s.nextSpawnZ {
			break
		}
		if s.nextSpawnZ >= s.endSuppressZ {
			break
		}
		if s.recovery.Suppresses(s.nextSpawnZ, ctx.VirtualDistance) {
			// Push the schedule to the zone boundary so spawning resumes
			// exactly where the grace window ends.
			s.nextSpawnZ = s.recovery.EndZ()
			continue
		}
		if s.despawner.ActiveCount(CategoryObstacle) >= ctx.Config.MaxObstacles {
			break
		}

		placed, advanceBy, ok := s.place(ctx)
		if !ok {
			// Pool exhausted: leave the cursor so the same placement is
			// retried next tick.
			s.poolRetries++
			loggen.PoolExhausted(context.Background(), s.publisher, ctx.Tick, loggen.PoolExhaustedPayload{Tag: "obstacle"})
			break
		}
		events = append(events, placed...)
		s.nextSpawnZ += advanceBy
	}
	return events
}

type obstaclePlacement struct {
	kind track.ObstacleKind
	lane track.Lane
	z    float64
}

// place runs one decision cycle. The returned advance is how far the cursor
// moves; ok is false only on pool exhaustion.
func (s *ObstacleSpawner) place(ctx Context) ([]SpawnEvent, float64, bool) {
	if s.rng.Float64() < ctx.Config.PatternUsageRatio {
		if events, length, ok, spawned := s.tryPattern(ctx); spawned {
			return events, length, ok
		}
		s.patternFallbacks++
	}
	return s.randomized(ctx)
}

// tryPattern validates and plays back a library pattern. spawned is false
// when no eligible pattern passed clearance, routing the cycle to the
// randomized generator.
func (s *ObstacleSpawner) tryPattern(ctx Context) (events []SpawnEvent, advance float64, ok, spawned bool) {
	pattern, found := s.library.Pick(s.rng, s.level, ctx.Config.MinPatternDifficulty, ctx.Config.MaxPatternDifficulty)
	if !found {
		return nil, 0, false, false
	}
	// The whole pattern must fit before the suppression boundary; members are
	// laid relative to the cursor and may reach pattern.Length past it.
	if s.nextSpawnZ+pattern.Length > s.endSuppressZ {
		return nil, 0, false, false
	}

	placements := make([]obstaclePlacement, 0, len(pattern.Members))
	for _, m := range pattern.Members {
		z := s.nextSpawnZ + m.Z
		if s.tracker.LaneOccupiedBehind(m.Lane, z, laneClearance) {
			return nil, 0, false, false
		}
		placements = append(placements, obstaclePlacement{kind: m.Kind, lane: m.Lane, z: z})
	}

	events, ok = s.spawnBatch(ctx, placements)
	if !ok {
		return nil, 0, false, true
	}
	loggen.PatternSpawned(context.Background(), s.publisher, ctx.Tick, loggen.PatternSpawnedPayload{
		Name:    pattern.Name,
		Members: len(pattern.Members),
		Z:       s.nextSpawnZ,
	})
	return events, pattern.Length, true, true
}

// randomized spawns a row or single obstacle, cascading to simpler shapes on
// clearance failure and skipping the cycle when every lane is blocked.
func (s *ObstacleSpawner) randomized(ctx Context) ([]SpawnEvent, float64, bool) {
	advance := track.RandomDistance(s.rng, ctx.Config.MinObstacleSpacing, ctx.Config.MaxObstacleSpacing)

	if s.rng.Float64() < rowChance {
		if s.rng.Float64() < threeLaneChance {
			if placements, ok := s.threeLaneRow(); ok {
				events, acquired := s.spawnBatch(ctx, placements)
				return events, advance, acquired
			}
		}
		if placements, ok := s.twoLaneRow(); ok {
			events, acquired := s.spawnBatch(ctx, placements)
			return events, advance, acquired
		}
	}

	return s.single(ctx, advance)
}

// threeLaneRow draws three kinds, enforces the fairness invariant, and
// requires all lanes clear. Failure cascades to the two-lane shape.
func (s *ObstacleSpawner) threeLaneRow() ([]obstaclePlacement, bool) {
	kinds := [3]track.ObstacleKind{
		track.RandomObstacleKind(s.rng),
		track.RandomObstacleKind(s.rng),
		track.RandomObstacleKind(s.rng),
	}
	passable := false
	for _, kind := range kinds {
		if kind.Passable() {
			passable = true
			break
		}
	}
	if !passable {
		// An all-blocking triple would be unwinnable; force one slot to a
		// passable kind.
		kinds[s.rng.Intn(3)] = track.RandomPassableKind(s.rng)
	}

	placements := make([]obstaclePlacement, 0, 3)
	for i, lane := range track.Lanes {
		if s.tracker.LaneOccupiedBehind(lane, s.nextSpawnZ, laneClearance) {
			return nil, false
		}
		placements = append(placements, obstaclePlacement{kind: kinds[i], lane: lane, z: s.nextSpawnZ})
	}
	return placements, true
}

// twoLaneRow duplicates one kind across two random distinct lanes. Failure
// cascades to a single obstacle.
func (s *ObstacleSpawner) twoLaneRow() ([]obstaclePlacement, bool) {
	kind := track.RandomObstacleKind(s.rng)
	first := track.RandomLane(s.rng)
	second := first
	for second == first {
		second = track.RandomLane(s.rng)
	}

	placements := make([]obstaclePlacement, 0, 2)
	for _, lane := range [2]track.Lane{first, second} {
		if s.tracker.LaneOccupiedBehind(lane, s.nextSpawnZ, laneClearance) {
			return nil, false
		}
		placements = append(placements, obstaclePlacement{kind: kind, lane: lane, z: s.nextSpawnZ})
	}
	return placements, true
}

// single places one obstacle, retrying the remaining lanes in fixed order
// when the drawn lane is blocked. When every lane fails the cycle is skipped
// and the cursor still advances, so generation never deadlocks.
func (s *ObstacleSpawner) single(ctx Context, advance float64) ([]SpawnEvent, float64, bool) {
	kind := track.RandomObstacleKind(s.rng)
	drawn := track.RandomLane(s.rng)

	lane := drawn
	clear := !s.tracker.LaneOccupiedBehind(lane, s.nextSpawnZ, laneClearance)
	if !clear {
		for _, candidate := range track.Lanes {
			if candidate == drawn {
				continue
			}
			if !s.tracker.LaneOccupiedBehind(candidate, s.nextSpawnZ, laneClearance) {
				lane = candidate
				clear = true
				break
			}
		}
	}
	if !clear {
		s.skippedCycles++
		loggen.SpawnSkipped(context.Background(), s.publisher, ctx.Tick, "all lanes blocked")
		return nil, advance, true
	}

	events, ok := s.spawnBatch(ctx, []obstaclePlacement{{kind: kind, lane: lane, z: s.nextSpawnZ}})
	return events, advance, ok
}

// spawnBatch acquires every placement or none: a partial pool failure
// releases what was taken so the whole shape retries next tick.
func (s *ObstacleSpawner) spawnBatch(ctx Context, placements []obstaclePlacement) ([]SpawnEvent, bool) {
	instances := make([]*pool.Instance, 0, len(placements))
	for _, p := range placements {
		position := track.Position{X: track.LaneX(p.lane), Y: 0, Z: p.z}
		inst, err := s.pool.Acquire(ObstacleTag(p.kind), position)
		if err != nil {
			for _, taken := range instances {
				s.pool.Release(taken)
			}
			return nil, false
		}
		instances = append(instances, inst)
	}

	events := make([]SpawnEvent, 0, len(placements))
	for i, p := range placements {
		inst := instances[i]
		s.tracker.Add(p.z, p.lane, p.kind)
		s.despawner.Register(CategoryObstacle, inst)
		events = append(events, SpawnEvent{
			ID:       inst.ID,
			Tag:      inst.Tag,
			Category: CategoryObstacle.String(),
			Kind:     p.kind.String(),
			Lane:     int(p.lane),
			Position: inst.Position,
		})
		loggen.ObstacleSpawned(context.Background(), s.publisher, ctx.Tick,
			logging.EntityRef{ID: inst.ID, Kind: logging.EntityKindObstacle},
			loggen.ObstacleSpawnedPayload{Kind: p.kind.String(), Lane: int(p.lane), Z: p.z})
	}
	return events, true
}
