package track

// Lane identifies one of the three runner tracks.
type Lane int

const (
	LaneLeft   Lane = -1
	LaneCenter Lane = 0
	LaneRight  Lane = 1
)

// Lanes lists every lane in the fixed retry order used by the spawners.
var Lanes = [3]Lane{LaneLeft, LaneCenter, LaneRight}

// Valid reports whether the lane is one of the three tracks.
func (l Lane) Valid() bool {
	return l >= LaneLeft && l <= LaneRight
}

// ObstacleKind enumerates the obstacle archetypes.
type ObstacleKind uint8

const (
	ObstacleAvoid ObstacleKind = iota
	ObstacleJump
	ObstaclePalisade
	ObstaclePylon
	ObstacleBroadJump
)

var obstacleKindNames = map[ObstacleKind]string{
	ObstacleAvoid:     "avoid",
	ObstacleJump:      "jump",
	ObstaclePalisade:  "palisade",
	ObstaclePylon:     "pylon",
	ObstacleBroadJump: "broad-jump",
}

func (k ObstacleKind) String() string {
	if name, ok := obstacleKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Passable reports whether the player can clear the obstacle without
// changing lanes. A three-lane row must contain at least one passable kind.
func (k ObstacleKind) Passable() bool {
	switch k {
	case ObstacleJump, ObstaclePalisade, ObstacleBroadJump:
		return true
	default:
		return false
	}
}

// ObstacleKinds lists every kind, in spawn-table order.
var ObstacleKinds = [5]ObstacleKind{
	ObstacleAvoid,
	ObstacleJump,
	ObstaclePalisade,
	ObstaclePylon,
	ObstacleBroadJump,
}

// PassableKinds lists the kinds a forced fairness replacement may draw from.
var PassableKinds = [3]ObstacleKind{ObstacleJump, ObstaclePalisade, ObstacleBroadJump}

// ObstacleKindByName resolves a pattern-document kind name.
func ObstacleKindByName(name string) (ObstacleKind, bool) {
	for kind, known := range obstacleKindNames {
		if known == name {
			return kind, true
		}
	}
	return ObstacleAvoid, false
}

// CollectibleKind distinguishes the regular pickup from the mega variant.
type CollectibleKind uint8

const (
	CollectibleRegular CollectibleKind = iota
	CollectibleMega
)

func (k CollectibleKind) String() string {
	if k == CollectibleMega {
		return "mega"
	}
	return "regular"
}

// Position locates a spawned instance. X is the lane axis, Y the height
// above the floor, Z the virtual scroll distance.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LaneWidth is the world-space distance between adjacent lane centers.
const LaneWidth = 2.0

// LaneX converts a lane index to its world-space X coordinate.
func LaneX(lane Lane) float64 {
	return float64(lane) * LaneWidth
}
