package gen

import (
	"ringsport/server/internal/pool"
)

type activeInstance struct {
	inst *pool.Instance
	z    float64
}

// sweepOrder fixes the category iteration so despawn events replay
// deterministically for a given seed.
var sweepOrder = [4]Category{CategoryObstacle, CategoryCollectible, CategoryFloor, CategoryScenery}

// Despawner owns every pool-lent instance after placement. Spawners acquire
// and register; only the despawner releases back to the pool, so an instance
// appears in exactly one list at a time.
type Despawner struct {
	pool     *pool.Pool
	lists    map[Category][]activeInstance
	endPhase bool
}

// NewDespawner wraps the pool the instances were leased from.
func NewDespawner(p *pool.Pool) *Despawner {
	return &Despawner{
		pool:  p,
		lists: make(map[Category][]activeInstance, 4),
	}
}

// Register hands a freshly placed instance to the despawner.
func (d *Despawner) Register(cat Category, inst *pool.Instance) {
	if d == nil || inst == nil {
		return
	}
	d.lists[cat] = append(d.lists[cat], activeInstance{inst: inst, z: inst.Position.Z})
}

// ActiveCount reports the live instances in a category.
func (d *Despawner) ActiveCount(cat Category) int {
	if d == nil {
		return 0
	}
	return len(d.lists[cat])
}

// SetEndPhase toggles the two-sided sweep used while the level concludes,
// so nothing spawns far ahead only to vanish at the finish line.
func (d *Despawner) SetEndPhase(on bool) {
	if d == nil {
		return
	}
	d.endPhase = on
}

// Sweep releases every instance that fell behind the player by the despawn
// margin, plus, during the end phase, instances too far ahead. Returns the
// despawn events for this tick's frame.
func (d *Despawner) Sweep(playerZ float64) []DespawnEvent {
	if d == nil {
		return nil
	}
	var events []DespawnEvent
	behind := playerZ - despawnBehindMargin
	ahead := playerZ + despawnAheadMargin
	for _, cat := range sweepOrder {
		list, ok := d.lists[cat]
		if !ok {
			continue
		}
		kept := list[:0]
		for _, active := range list {
			remove := active.z < behind
			if !remove && d.endPhase && active.z > ahead {
				remove = true
			}
			if remove {
				events = append(events, DespawnEvent{
					ID:       active.inst.ID,
					Tag:      active.inst.Tag,
					Category: cat.String(),
				})
				d.pool.Release(active.inst)
				continue
			}
			kept = append(kept, active)
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = activeInstance{}
		}
		d.lists[cat] = kept
	}
	return events
}

// Reset releases every tracked instance, typically on level start.
func (d *Despawner) Reset() {
	if d == nil {
		return
	}
	for cat, list := range d.lists {
		for _, active := range list {
			d.pool.Release(active.inst)
		}
		d.lists[cat] = list[:0]
	}
	d.endPhase = false
}
