package gen

import (
	"math"

	"ringsport/server/internal/track"
)

// TrackedObstacle is the spawner-side record of a placed obstacle. Its
// lifetime is independent of the pooled instance: the tracker prunes by
// distance, the despawner releases by distance, and neither consults the
// other.
type TrackedObstacle struct {
	Z         float64
	Lane      track.Lane
	Kind      track.ObstacleKind
	ArcServed bool
}

// Tracker is the append-mostly obstacle history answering the spawners'
// spatial queries. Entries are kept in insertion order, which the spawners'
// monotone cursors keep sorted by Z.
type Tracker struct {
	entries       []*TrackedObstacle
	lastCompactAt float64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{entries: make([]*TrackedObstacle, 0, 64)}
}

// Reset drops all history, typically on level start.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.entries = t.entries[:0]
	t.lastCompactAt = 0
}

// Add records a placed obstacle and returns its tracker entry.
func (t *Tracker) Add(z float64, lane track.Lane, kind track.ObstacleKind) *TrackedObstacle {
	if t == nil {
		return nil
	}
	entry := &TrackedObstacle{Z: z, Lane: lane, Kind: kind}
	t.entries = append(t.entries, entry)
	return entry
}

// Len reports the retained entry count.
func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// LaneOccupiedBehind reports whether the lane holds an obstacle within
// window units at or behind z.
func (t *Tracker) LaneOccupiedBehind(lane track.Lane, z, window float64) bool {
	if t == nil {
		return false
	}
	for _, e := range t.entries {
		if e.Lane != lane {
			continue
		}
		if e.Z <= z && z-e.Z < window {
			return true
		}
	}
	return false
}

// LaneOccupiedAhead reports whether the lane holds an obstacle within window
// units ahead of z.
func (t *Tracker) LaneOccupiedAhead(lane track.Lane, z, window float64) bool {
	if t == nil {
		return false
	}
	for _, e := range t.entries {
		if e.Lane != lane {
			continue
		}
		if e.Z >= z && e.Z-z < window {
			return true
		}
	}
	return false
}

// NearestWithin returns the obstacle closest to z when one lies within
// radius units in either direction.
func (t *Tracker) NearestWithin(z, radius float64) (*TrackedObstacle, bool) {
	if t == nil {
		return nil, false
	}
	var best *TrackedObstacle
	bestDist := radius
	for _, e := range t.entries {
		dist := math.Abs(e.Z - z)
		if dist <= bestDist {
			if best == nil || dist < bestDist {
				best = e
				bestDist = dist
			}
		}
	}
	return best, best != nil
}

// NextJumpableAhead returns the nearest passable obstacle ahead of z within
// lookahead units.
func (t *Tracker) NextJumpableAhead(z, lookahead float64) (*TrackedObstacle, bool) {
	if t == nil {
		return nil, false
	}
	var best *TrackedObstacle
	for _, e := range t.entries {
		if !e.Kind.Passable() {
			continue
		}
		if e.Z < z || e.Z-z > lookahead {
			continue
		}
		if best == nil || e.Z < best.Z {
			best = e
		}
	}
	return best, best != nil
}

// DropBeyond removes entries ahead of cutoff. It mirrors the despawner's
// end-phase ahead sweep so the spatial queries never answer from obstacles
// that sweep reclaimed.
func (t *Tracker) DropBeyond(cutoff float64) {
	if t == nil {
		return
	}
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Z <= cutoff {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = kept
}

// Cleanup prunes entries behind the trailing window every call, and every
// trackerCompactInterval virtual units additionally compacts to the wider
// window when the history has grown past the threshold. The thresholds bound
// memory; they are not gameplay invariants.
func (t *Tracker) Cleanup(virtualDistance float64) {
	if t == nil {
		return
	}
	t.pruneBefore(virtualDistance - trackerTrailingWindow)
	if virtualDistance-t.lastCompactAt >= trackerCompactInterval {
		t.lastCompactAt = virtualDistance
		if len(t.entries) > trackerCompactThreshold {
			t.pruneBefore(virtualDistance - trackerCompactWindow)
		}
	}
}

func (t *Tracker) pruneBefore(cutoff float64) {
	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Z >= cutoff {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = kept
}
