package gen

import (
	"ringsport/server/internal/pool"
	"ringsport/server/internal/track"
)

const (
	// BaseScrollSpeed is the virtual-distance advance per second at speed
	// multiplier 1.
	BaseScrollSpeed = 8.0

	// DefaultSpawnDistance is the look-ahead window every spawner fills.
	DefaultSpawnDistance = 50.0

	// laneClearance is the minimum same-lane trailing gap between obstacles
	// placed by independent decisions. Rows and patterns may co-locate by
	// design.
	laneClearance = 4.0

	// recoveryZoneLength is the obstacle-free window granted after a
	// completed palisade mini-game.
	recoveryZoneLength = 15.0

	// endSpawnMarginSeconds freezes spawning this long before the level end.
	endSpawnMarginSeconds = 3.0

	rowChance       = 0.4
	threeLaneChance = 0.5

	arcLookahead = 8.0
	arcHalfSpan  = 3.5
	arcMinItems  = 5
	arcMaxItems  = 7

	nearObstacleRadius = 3.0

	trainMinLength       = 3
	trainMaxLength       = 10
	trainSpacing         = 2.5
	trainStartNearChance = 0.4
	trainStartOpenChance = 0.5

	trackerTrailingWindow   = 10.0
	trackerCompactWindow    = 30.0
	trackerCompactInterval  = 100.0
	trackerCompactThreshold = 50

	floorTileLength    = 10.0
	floorStripWidth    = 4.0
	sceneryMinDistance = 1.5

	despawnBehindMargin = 15.0
	despawnAheadMargin  = 40.0

	// endPhaseSpawnDistance narrows the spawn window once the level-ending
	// signal arrives. It sits a full tile inside the ahead margin so nothing,
	// including the floor spawner's one-tile overshoot, is placed where the
	// end-phase sweep would reclaim it on the same tick.
	endPhaseSpawnDistance = despawnAheadMargin - floorTileLength

	collectibleBaseHeight = 0.5

	// maxPlacementsPerTick caps catch-up spawning within one tick.
	maxPlacementsPerTick = 16
)

// jumpClearHeight is the apex a player clears each passable kind at; used
// both for coin-arc peaks and above-obstacle hover placement.
var jumpClearHeight = map[track.ObstacleKind]float64{
	track.ObstaclePalisade:  3.5,
	track.ObstacleBroadJump: 2.5,
	track.ObstacleJump:      2.0,
}

// Pool tags, one per spawnable archetype. Capacities are fixed at pool
// registration.
const (
	TagCollectible     = "collectible"
	TagCollectibleMega = "collectible-mega"
	TagFloor           = "floor"
	TagFloorFinish     = "floor-finish"
	TagScenery         = "scenery"
)

// ObstacleTag maps an obstacle kind to its pool tag.
func ObstacleTag(kind track.ObstacleKind) string {
	return "obstacle-" + kind.String()
}

// RegisterDefaultTags registers every tag the generator acquires with
// preview-sized capacities.
func RegisterDefaultTags(p *pool.Pool) {
	for _, kind := range track.ObstacleKinds {
		p.Register(ObstacleTag(kind), 48)
	}
	p.Register(TagCollectible, 196)
	p.Register(TagCollectibleMega, 24)
	p.Register(TagFloor, 16)
	p.Register(TagFloorFinish, 1)
	p.Register(TagScenery, 128)
}
