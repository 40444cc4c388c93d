package gen

// RecoveryZone is the single-shot obstacle-free window granted after a
// palisade mini-game. Arming while a zone is active is a no-op; expiry is
// detected lazily on the next query after the scroll passes the end.
type RecoveryZone struct {
	active bool
	startZ float64
	endZ   float64
}

// Arm starts a zone covering [startZ, startZ+recoveryZoneLength). Returns
// false when a zone is already active (first zone wins).
func (r *RecoveryZone) Arm(startZ float64) bool {
	if r == nil || r.active {
		return false
	}
	r.active = true
	r.startZ = startZ
	r.endZ = startZ + recoveryZoneLength
	return true
}

// Reset clears any active zone.
func (r *RecoveryZone) Reset() {
	if r == nil {
		return
	}
	r.active = false
	r.startZ = 0
	r.endZ = 0
}

// Suppresses reports whether an obstacle placement at z must be skipped.
// The call also expires the zone once the scroll distance has passed it.
func (r *RecoveryZone) Suppresses(z, virtualDistance float64) bool {
	if r == nil || !r.active {
		return false
	}
	if virtualDistance >= r.endZ {
		r.active = false
		return false
	}
	return z < r.endZ
}

// Expire deactivates the zone once the scroll distance has passed its end.
func (r *RecoveryZone) Expire(virtualDistance float64) {
	if r == nil || !r.active {
		return
	}
	if virtualDistance >= r.endZ {
		r.active = false
	}
}

// Active reports whether a zone is currently armed.
func (r *RecoveryZone) Active() bool {
	return r != nil && r.active
}

// EndZ returns the first Z at which spawning resumes.
func (r *RecoveryZone) EndZ() float64 {
	if r == nil {
		return 0
	}
	return r.endZ
}

// Bounds returns the covered window.
func (r *RecoveryZone) Bounds() (float64, float64) {
	if r == nil {
		return 0, 0
	}
	return r.startZ, r.endZ
}
