// Package pool provides the tag-keyed fixed-capacity allocator the spawners
// lease instances from. Acquire never blocks: when a tag's capacity is
// exhausted it reports ErrExhausted and the caller retries on a later tick.
package pool

import (
	"errors"
	"fmt"

	"ringsport/server/internal/track"
)

// ErrExhausted is reported when a tag has no free instance.
var ErrExhausted = errors.New("pool: capacity exhausted")

// ErrUnknownTag is reported when a tag was never registered.
var ErrUnknownTag = errors.New("pool: unknown tag")

// Instance is a pool-lent object. Position is rewritten on every acquire;
// the ID is stable for the lifetime of the pool.
type Instance struct {
	ID       string         `json:"id"`
	Tag      string         `json:"tag"`
	Position track.Position `json:"position"`

	free bool
}

// Pool owns every instance for a set of tags. Capacity per tag is fixed at
// registration and never grows.
type Pool struct {
	byTag map[string][]*Instance
}

// New returns an empty pool; register tags before acquiring.
func New() *Pool {
	return &Pool{byTag: make(map[string][]*Instance)}
}

// Register creates capacity instances for a tag. Registering the same tag
// twice replaces the previous allocation.
func (p *Pool) Register(tag string, capacity int) {
	if p == nil || tag == "" || capacity < 0 {
		return
	}
	instances := make([]*Instance, 0, capacity)
	for i := 0; i < capacity; i++ {
		instances = append(instances, &Instance{
			ID:   fmt.Sprintf("%s-%d", tag, i+1),
			Tag:  tag,
			free: true,
		})
	}
	p.byTag[tag] = instances
}

// Acquire leases a free instance for the tag and moves it to position. It
// fails with ErrUnknownTag for unregistered tags and ErrExhausted when no
// instance is free.
func (p *Pool) Acquire(tag string, position track.Position) (*Instance, error) {
	if p == nil {
		return nil, ErrUnknownTag
	}
	instances, ok := p.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	for _, inst := range instances {
		if !inst.free {
			continue
		}
		inst.free = false
		inst.Position = position
		return inst, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrExhausted, tag)
}

// Release returns a leased instance to its tag's free list. Releasing nil or
// an already-free instance is a no-op.
func (p *Pool) Release(inst *Instance) {
	if p == nil || inst == nil || inst.free {
		return
	}
	inst.free = true
}

// FreeCount reports the free instances for a tag, or an error for unknown tags.
func (p *Pool) FreeCount(tag string) (int, error) {
	if p == nil {
		return 0, ErrUnknownTag
	}
	instances, ok := p.byTag[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	free := 0
	for _, inst := range instances {
		if inst.free {
			free++
		}
	}
	return free, nil
}

// Capacity reports the fixed capacity for a tag, zero for unknown tags.
func (p *Pool) Capacity(tag string) int {
	if p == nil {
		return 0
	}
	return len(p.byTag[tag])
}
