package gen

import "testing"

func TestRecoveryZoneArmFirstWins(t *testing.T) {
	r := &RecoveryZone{}
	if !r.Arm(100) {
		t.Fatalf("first arm should succeed")
	}
	if r.Arm(120) {
		t.Fatalf("second arm while active should be rejected")
	}
	start, end := r.Bounds()
	if start != 100 || end != 100+recoveryZoneLength {
		t.Fatalf("bounds = [%g, %g), want [100, %g)", start, end, 100+recoveryZoneLength)
	}
}

func TestRecoveryZoneSuppresses(t *testing.T) {
	r := &RecoveryZone{}
	r.Arm(100)

	if !r.Suppresses(100, 100) {
		t.Fatalf("placement at zone start should be suppressed")
	}
	if !r.Suppresses(114.9, 100) {
		t.Fatalf("placement just inside the zone should be suppressed")
	}
	if r.Suppresses(115, 100) {
		t.Fatalf("placement at zone end should not be suppressed")
	}
}

func TestRecoveryZoneLazyExpiry(t *testing.T) {
	r := &RecoveryZone{}
	r.Arm(100)

	if r.Suppresses(110, 115) {
		t.Fatalf("zone should expire once the scroll passed its end")
	}
	if r.Active() {
		t.Fatalf("expired zone still reports active")
	}
	if !r.Arm(200) {
		t.Fatalf("arming after expiry should succeed")
	}
}

func TestRecoveryZoneExpire(t *testing.T) {
	r := &RecoveryZone{}
	r.Arm(100)

	r.Expire(110)
	if !r.Active() {
		t.Fatalf("zone expired before the scroll reached its end")
	}
	r.Expire(115)
	if r.Active() {
		t.Fatalf("zone survived past its end")
	}
}

func TestRecoveryZoneInactive(t *testing.T) {
	r := &RecoveryZone{}
	if r.Suppresses(10, 0) {
		t.Fatalf("inactive zone should suppress nothing")
	}
	r.Arm(50)
	r.Reset()
	if r.Active() || r.Suppresses(55, 50) {
		t.Fatalf("reset zone should suppress nothing")
	}
}
