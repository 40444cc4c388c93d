package gen

import "ringsport/server/internal/track"

// Context is the per-tick snapshot shared by every spawner. The orchestrator
// rebuilds it once per tick; spawners only read it.
type Context struct {
	Tick            uint64
	VirtualDistance float64
	PlayerZ         float64
	SpawnDistance   float64
	Config          track.LevelConfig
}

// Lookahead is the furthest virtual Z the spawners fill this tick.
func (c Context) Lookahead() float64 {
	return c.VirtualDistance + c.SpawnDistance
}
