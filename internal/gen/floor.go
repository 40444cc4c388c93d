package gen

import (
	"math"
	"math/rand"

	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
)

// FloorSpawner keeps contiguous floor tiles ahead of the player and, once
// the level-ending signal arms a target position, substitutes exactly one
// finish-line tile and stops. Side strips are decorated with Poisson-disk
// sampled scenery.
type FloorSpawner struct {
	pool      *pool.Pool
	despawner *Despawner
	rng       *rand.Rand

	nextTileZ   float64
	finishArmed bool
	finishZ     float64
	done        bool
}

// NewFloorSpawner wires the floor spawner's collaborators.
func NewFloorSpawner(p *pool.Pool, d *Despawner) *FloorSpawner {
	return &FloorSpawner{pool: p, despawner: d}
}

// Reset prepares the spawner for a fresh level starting at startZ.
func (f *FloorSpawner) Reset(rng *rand.Rand, startZ float64) {
	if f == nil {
		return
	}
	f.rng = rng
	f.nextTileZ = math.Floor(startZ/floorTileLength) * floorTileLength
	f.finishArmed = false
	f.finishZ = 0
	f.done = false
}

// ArmFinishLine schedules the one-time finish tile at or after targetZ.
// Arming twice keeps the first target.
func (f *FloorSpawner) ArmFinishLine(targetZ float64) {
	if f == nil || f.finishArmed || f.done {
		return
	}
	f.finishArmed = true
	f.finishZ = math.Ceil(targetZ/floorTileLength) * floorTileLength
}

// FinishLineZ reports the armed finish tile position.
func (f *FloorSpawner) FinishLineZ() (float64, bool) {
	if f == nil || !f.finishArmed {
		return 0, false
	}
	return f.finishZ, true
}

// Advance lays tiles out to the look-ahead window. A pool failure leaves the
// tile cursor in place for a next-tick retry.
func (f *FloorSpawner) Advance(ctx Context) []SpawnEvent {
	if f == nil || f.done {
		return nil
	}

	var events []SpawnEvent
	for f.nextTileZ < ctx.Lookahead()+floorTileLength {
		tag := TagFloor
		finish := f.finishArmed && f.nextTileZ >= f.finishZ
		if finish {
			tag = TagFloorFinish
		}

		position := track.Position{X: 0, Y: 0, Z: f.nextTileZ}
		inst, err := f.pool.Acquire(tag, position)
		if err != nil {
			break
		}
		f.despawner.Register(CategoryFloor, inst)
		events = append(events, SpawnEvent{
			ID:       inst.ID,
			Tag:      tag,
			Category: CategoryFloor.String(),
			Position: position,
		})

		events = append(events, f.decorate(ctx, f.nextTileZ)...)

		f.nextTileZ += floorTileLength
		if finish {
			f.done = true
			break
		}
	}
	return events
}

// decorate scatters scenery on the left and right side strips of one tile.
// Scenery exhaustion is cosmetic; the tile itself already spawned.
func (f *FloorSpawner) decorate(ctx Context, tileZ float64) []SpawnEvent {
	count := track.RandomIntRange(f.rng, ctx.Config.MinScenerySamples, ctx.Config.MaxScenerySamples)
	if count <= 0 {
		return nil
	}

	var events []SpawnEvent
	for _, side := range [2]float64{-1, 1} {
		points := poissonSample(f.rng, floorStripWidth, floorTileLength, sceneryMinDistance, count)
		for _, pt := range points {
			edge := side * (track.LaneX(track.LaneRight) + track.LaneWidth/2)
			position := track.Position{
				X: edge + side*pt.X,
				Y: 0,
				Z: tileZ + pt.Z,
			}
			inst, err := f.pool.Acquire(TagScenery, position)
			if err != nil {
				return events
			}
			f.despawner.Register(CategoryScenery, inst)
			events = append(events, SpawnEvent{
				ID:       inst.ID,
				Tag:      TagScenery,
				Category: CategoryScenery.String(),
				Position: position,
			})
		}
	}
	return events
}
