package lifecycle

import (
	"context"

	"ringsport/server/logging"
)

const (
	// EventLevelStarted is emitted when a level's generation begins.
	EventLevelStarted logging.EventType = "lifecycle.level_started"
	// EventLevelEnding is emitted when the finish-line substitution is armed.
	EventLevelEnding logging.EventType = "lifecycle.level_ending"
	// EventRecoveryZone is emitted when a no-obstacle window is granted.
	EventRecoveryZone logging.EventType = "lifecycle.recovery_zone"
)

// LevelStartedPayload captures the tuning snapshot for a fresh level.
type LevelStartedPayload struct {
	Level       int     `json:"level"`
	Seed        string  `json:"seed"`
	ScrollSpeed float64 `json:"scrollSpeed"`
	LevelLength float64 `json:"levelLength"`
}

// LevelEndingPayload records the armed finish-line position.
type LevelEndingPayload struct {
	FinishLineZ float64 `json:"finishLineZ"`
}

// RecoveryZonePayload records the granted window.
type RecoveryZonePayload struct {
	StartZ float64 `json:"startZ"`
	EndZ   float64 `json:"endZ"`
}

// LevelStarted publishes a level start.
func LevelStarted(ctx context.Context, pub logging.Publisher, tick uint64, payload LevelStartedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventLevelStarted,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// LevelEnding publishes the end-of-level transition.
func LevelEnding(ctx context.Context, pub logging.Publisher, tick uint64, payload LevelEndingPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventLevelEnding,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}

// RecoveryZone publishes a granted recovery window.
func RecoveryZone(ctx context.Context, pub logging.Publisher, tick uint64, payload RecoveryZonePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRecoveryZone,
		Tick:     tick,
		Subject:  logging.EntityRef{Kind: logging.EntityKindGenerator},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryLifecycle,
		Payload:  payload,
	})
}
