package gen

import "ringsport/server/internal/track"

// Category buckets pool-lent instances for despawn bookkeeping.
type Category uint8

const (
	CategoryObstacle Category = iota
	CategoryCollectible
	CategoryFloor
	CategoryScenery
)

func (c Category) String() string {
	switch c {
	case CategoryObstacle:
		return "obstacle"
	case CategoryCollectible:
		return "collectible"
	case CategoryFloor:
		return "floor"
	case CategoryScenery:
		return "scenery"
	default:
		return "unknown"
	}
}

// SpawnEvent describes one instance placed this tick.
type SpawnEvent struct {
	ID       string         `json:"id"`
	Tag      string         `json:"tag"`
	Category string         `json:"category"`
	Kind     string         `json:"kind,omitempty"`
	Lane     int            `json:"lane"`
	Position track.Position `json:"position"`
}

// DespawnEvent describes one instance returned to the pool this tick.
type DespawnEvent struct {
	ID       string `json:"id"`
	Tag      string `json:"tag"`
	Category string `json:"category"`
}

// Frame is the output of one generator tick, ready for broadcasting.
type Frame struct {
	Tick            uint64         `json:"tick"`
	Level           int            `json:"level"`
	VirtualDistance float64        `json:"virtualDistance"`
	Spawned         []SpawnEvent   `json:"spawned,omitempty"`
	Despawned       []DespawnEvent `json:"despawned,omitempty"`
	RecoveryActive  bool           `json:"recoveryActive"`
	LevelEnding     bool           `json:"levelEnding"`
}
