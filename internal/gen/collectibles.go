package gen

import (
	"context"
	"math/rand"

	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
	"ringsport/server/logging"
	loggen "ringsport/server/logging/generation"
)

// coinTrain is an active run of same-lane, tightly spaced pickups. Length is
// sampled once when the train starts and only ever consumed.
type coinTrain struct {
	active    bool
	lane      track.Lane
	remaining int
}

// CollectibleSpawner places pickups with lane bias, coin trains, and
// obstacle-relative placement: hovering above jumpable obstacles or laid as
// parabolic arcs cueing the jump over an upcoming one.
type CollectibleSpawner struct {
	pool      *pool.Pool
	tracker   *Tracker
	despawner *Despawner
	publisher logging.Publisher
	rng       *rand.Rand

	nextSpawnZ   float64
	endSuppressZ float64
	train        coinTrain
	lastLane     track.Lane

	poolRetries uint64
}

// NewCollectibleSpawner wires the spawner's collaborators.
func NewCollectibleSpawner(p *pool.Pool, t *Tracker, d *Despawner, pub logging.Publisher) *CollectibleSpawner {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &CollectibleSpawner{pool: p, tracker: t, despawner: d, publisher: pub}
}

// Reset prepares the spawner for a fresh level.
func (s *CollectibleSpawner) Reset(rng *rand.Rand, startZ, endSuppressZ float64) {
	if s == nil {
		return
	}
	s.rng = rng
	s.nextSpawnZ = startZ
	s.endSuppressZ = endSuppressZ
	s.train = coinTrain{}
	s.lastLane = track.LaneCenter
}

// Cursor exposes the next scheduled spawn position.
func (s *CollectibleSpawner) Cursor() float64 {
	if s == nil {
		return 0
	}
	return s.nextSpawnZ
}

// ClampEnd pulls the suppression boundary in, so no pickup is scheduled at
// or past z. The boundary only ever tightens.
func (s *CollectibleSpawner) ClampEnd(z float64) {
	if s == nil {
		return
	}
	if z < s.endSuppressZ {
		s.endSuppressZ = z
	}
}

// TrainRemaining reports the items left in the active train, zero when idle.
func (s *CollectibleSpawner) TrainRemaining() int {
	if s == nil || !s.train.active {
		return 0
	}
	return s.train.remaining
}

// Advance runs the spawner's decision cycle for one tick.
func (s *CollectibleSpawner) Advance(ctx Context) []SpawnEvent {
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
		if s.despawner.ActiveCount(CategoryCollectible) >= ctx.Config.MaxCollectibles {
			break
		}

		placed, ok := s.place(ctx)
		if !ok {
			s.poolRetries++
			loggen.PoolExhausted(context.Background(), s.publisher, ctx.Tick, loggen.PoolExhaustedPayload{Tag: TagCollectible})
			break
		}
		events = append(events, placed...)
	}
	return events
}

// place runs one decision cycle in priority order: coin arc, train
// continuation, near-obstacle placement, open-track placement. ok is false
// only on pool exhaustion, in which case the cursor did not move.
func (s *CollectibleSpawner) place(ctx Context) ([]SpawnEvent, bool) {
	if obstacle, found := s.tracker.NextJumpableAhead(s.nextSpawnZ, arcLookahead); found && !obstacle.ArcServed {
		return s.spawnArc(ctx, obstacle)
	}

	if s.train.active {
		trainLength := float64(s.train.remaining) * trainSpacing
		if s.tracker.LaneOccupiedAhead(s.train.lane, s.nextSpawnZ, trainLength) {
			// The run would plough into an obstacle; abort early and fall
			// back to biased lane selection this cycle.
			s.train = coinTrain{}
		} else {
			return s.continueTrain(ctx)
		}
	}

	if obstacle, found := s.tracker.NearestWithin(s.nextSpawnZ, nearObstacleRadius); found {
		return s.nearObstacle(ctx, obstacle)
	}

	return s.openTrack(ctx)
}

// spawnArc lays a parabolic arc over the jumpable obstacle, marks it served,
// cancels any running train, and jumps the cursor past the arc.
func (s *CollectibleSpawner) spawnArc(ctx Context, obstacle *TrackedObstacle) ([]SpawnEvent, bool) {
	items := track.RandomIntRange(s.rng, arcMinItems, arcMaxItems)
	peak := jumpClearHeight[obstacle.Kind]

	placements := make([]track.Position, 0, items)
	for i := 0; i < items; i++ {
		t := float64(i) / float64(items-1)
		offset := 2*t - 1
		weight := 1 - offset*offset
		placements = append(placements, track.Position{
			X: track.LaneX(obstacle.Lane),
			Y: collectibleBaseHeight + (peak-collectibleBaseHeight)*weight,
			Z: obstacle.Z + offset*arcHalfSpan,
		})
	}

	events, ok := s.spawnBatch(ctx, placements)
	if !ok {
		return nil, false
	}

	obstacle.ArcServed = true
	s.train = coinTrain{}
	s.lastLane = obstacle.Lane
	s.nextSpawnZ = obstacle.Z + arcHalfSpan + s.spacing(ctx)

	loggen.CoinArc(context.Background(), s.publisher, ctx.Tick, loggen.CoinArcPayload{
		ObstacleKind: obstacle.Kind.String(),
		Items:        items,
		Z:            obstacle.Z,
	})
	return events, true
}

func (s *CollectibleSpawner) continueTrain(ctx Context) ([]SpawnEvent, bool) {
	events, ok := s.spawnOne(ctx, track.Position{
		X: track.LaneX(s.train.lane),
		Y: collectibleBaseHeight,
		Z: s.nextSpawnZ,
	})
	if !ok {
		return nil, false
	}
	s.lastLane = s.train.lane
	s.train.remaining--
	if s.train.remaining <= 0 {
		s.train = coinTrain{}
	}
	s.nextSpawnZ += trainSpacing
	return events, true
}

// nearObstacle places the pickup above the obstacle (jump/palisade only,
// with the configured chance) or into a different lane, optionally starting
// a new train there.
func (s *CollectibleSpawner) nearObstacle(ctx Context, obstacle *TrackedObstacle) ([]SpawnEvent, bool) {
	hoverable := obstacle.Kind == track.ObstacleJump || obstacle.Kind == track.ObstaclePalisade
	if hoverable && s.rng.Float64() < ctx.Config.CollectibleAboveObstacleChance {
		events, ok := s.spawnOne(ctx, track.Position{
			X: track.LaneX(obstacle.Lane),
			Y: jumpClearHeight[obstacle.Kind],
			Z: obstacle.Z,
		})
		if !ok {
			return nil, false
		}
		s.lastLane = obstacle.Lane
		s.nextSpawnZ += s.spacing(ctx)
		return events, true
	}

	lane := s.otherLane(obstacle.Lane)
	events, ok := s.spawnOne(ctx, track.Position{
		X: track.LaneX(lane),
		Y: collectibleBaseHeight,
		Z: s.nextSpawnZ,
	})
	if !ok {
		return nil, false
	}
	s.lastLane = lane
	if s.rng.Float64() < trainStartNearChance {
		s.startTrain(lane)
		s.nextSpawnZ += trainSpacing
	} else {
		s.nextSpawnZ += s.spacing(ctx)
	}
	return events, true
}

// openTrack handles the no-obstacle-nearby case: half the time a fresh train
// in a random lane, otherwise a line-biased single placement.
func (s *CollectibleSpawner) openTrack(ctx Context) ([]SpawnEvent, bool) {
	if s.rng.Float64() < trainStartOpenChance {
		lane := track.RandomLane(s.rng)
		events, ok := s.spawnOne(ctx, track.Position{
			X: track.LaneX(lane),
			Y: collectibleBaseHeight,
			Z: s.nextSpawnZ,
		})
		if !ok {
			return nil, false
		}
		s.lastLane = lane
		s.startTrain(lane)
		s.nextSpawnZ += trainSpacing
		return events, true
	}

	lane := s.biasedLane(ctx)
	events, ok := s.spawnOne(ctx, track.Position{
		X: track.LaneX(lane),
		Y: collectibleBaseHeight,
		Z: s.nextSpawnZ,
	})
	if !ok {
		return nil, false
	}
	s.lastLane = lane
	s.nextSpawnZ += s.spacing(ctx)
	return events, true
}

// startTrain samples the run length once; the first item was just placed.
func (s *CollectibleSpawner) startTrain(lane track.Lane) {
	s.train = coinTrain{
		active:    true,
		lane:      lane,
		remaining: track.RandomIntRange(s.rng, trainMinLength, trainMaxLength) - 1,
	}
	if s.train.remaining <= 0 {
		s.train = coinTrain{}
	}
}

// biasedLane repeats the previous lane with the configured probability, else
// picks uniformly among the other two.
func (s *CollectibleSpawner) biasedLane(ctx Context) track.Lane {
	if s.rng.Float64() < ctx.Config.CollectibleLineBias {
		return s.lastLane
	}
	return s.otherLane(s.lastLane)
}

// otherLane picks uniformly among the two lanes different from lane.
func (s *CollectibleSpawner) otherLane(lane track.Lane) track.Lane {
	others := make([]track.Lane, 0, 2)
	for _, candidate := range track.Lanes {
		if candidate != lane {
			others = append(others, candidate)
		}
	}
	return others[s.rng.Intn(len(others))]
}

func (s *CollectibleSpawner) spacing(ctx Context) float64 {
	return track.RandomDistance(s.rng, ctx.Config.MinCollectibleSpacing, ctx.Config.MaxCollectibleSpacing)
}

// spawnOne places a single pickup, rolling the mega-variant chance.
func (s *CollectibleSpawner) spawnOne(ctx Context, position track.Position) ([]SpawnEvent, bool) {
	return s.spawnBatch(ctx, []track.Position{position})
}

// spawnBatch acquires every position or none, rolling the mega chance per
// item. A partial failure releases what was taken for a next-tick retry.
func (s *CollectibleSpawner) spawnBatch(ctx Context, positions []track.Position) ([]SpawnEvent, bool) {
	type taken struct {
		inst *pool.Instance
		kind track.CollectibleKind
	}
	acquired := make([]taken, 0, len(positions))
	for _, position := range positions {
		kind := track.CollectibleRegular
		tag := TagCollectible
		if s.rng.Float64() < ctx.Config.MegaCollectibleSpawnRatio {
			kind = track.CollectibleMega
			tag = TagCollectibleMega
		}
		inst, err := s.pool.Acquire(tag, position)
		if err != nil && tag == TagCollectibleMega {
			// Mega capacity is tiny; degrade to the regular variant rather
			// than stalling the whole batch.
			kind = track.CollectibleRegular
			inst, err = s.pool.Acquire(TagCollectible, position)
		}
		if err != nil {
			for _, t := range acquired {
				s.pool.Release(t.inst)
			}
			return nil, false
		}
		acquired = append(acquired, taken{inst: inst, kind: kind})
	}

	events := make([]SpawnEvent, 0, len(acquired))
	for _, t := range acquired {
		s.despawner.Register(CategoryCollectible, t.inst)
		events = append(events, SpawnEvent{
			ID:       t.inst.ID,
			Tag:      t.inst.Tag,
			Category: CategoryCollectible.String(),
			Kind:     t.kind.String(),
			Position: t.inst.Position,
		})
	}
	return events, true
}
