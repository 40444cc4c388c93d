package track

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed seeds every RNG stream when the caller supplies none.
const DefaultSeed = "ringsport"

// DeterministicSeedValue derives a stable 64-bit seed from a root seed and a
// subsystem label, so each spawner replays independently of the others.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns the RNG stream for a subsystem label.
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}

// RandomFloat draws from rng, falling back to the default world stream when
// the caller passed nil.
func RandomFloat(rng *rand.Rand) float64 {
	if rng == nil {
		return NewDeterministicRNG(DefaultSeed, "track").Float64()
	}
	return rng.Float64()
}

// RandomDistance draws uniformly from [min, max), collapsing to min when the
// range is empty.
func RandomDistance(rng *rand.Rand, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + RandomFloat(rng)*(max-min)
}

// RandomLane draws a uniform lane.
func RandomLane(rng *rand.Rand) Lane {
	return Lanes[intn(rng, len(Lanes))]
}

// RandomObstacleKind draws from the fixed 5-way uniform kind distribution.
func RandomObstacleKind(rng *rand.Rand) ObstacleKind {
	return ObstacleKinds[intn(rng, len(ObstacleKinds))]
}

// RandomPassableKind draws a uniform passable kind for fairness replacement.
func RandomPassableKind(rng *rand.Rand) ObstacleKind {
	return PassableKinds[intn(rng, len(PassableKinds))]
}

// RandomIntRange draws uniformly from the inclusive range [min, max].
func RandomIntRange(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + intn(rng, max-min+1)
}

func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	if rng == nil {
		return NewDeterministicRNG(DefaultSeed, "track").Intn(n)
	}
	return rng.Intn(n)
}
